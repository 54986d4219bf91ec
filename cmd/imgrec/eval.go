package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/viant/imgrec/eval"
)

func NewEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Score similarity and transition results against ground truth",
		Args:  cobra.NoArgs,
		RunE:  runEval,
	}
	cmd.Flags().String("queries", "", "Queries JSON file ({\"queries\": [...]})")
	cmd.Flags().String("truth", "", "Similarity ground truth JSON file")
	cmd.Flags().String("transitions", "", "Transition ground truth JSON file")
	return cmd
}

func runEval(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	queriesPath, _ := cmd.Flags().GetString("queries")
	truthPath, _ := cmd.Flags().GetString("truth")
	transitionsPath, _ := cmd.Flags().GetString("transitions")
	if queriesPath == "" && transitionsPath == "" {
		return errors.New("eval: --queries or --transitions is required")
	}

	var (
		queries     []string
		truth       map[string][]string
		transitions []eval.Transition
	)
	if queriesPath != "" {
		if queries, err = eval.LoadQueries(queriesPath); err != nil {
			return err
		}
	}
	if truthPath != "" {
		if truth, err = eval.LoadTruth(truthPath); err != nil {
			return err
		}
	}
	if transitionsPath != "" {
		if transitions, err = eval.LoadTransitions(transitionsPath); err != nil {
			return err
		}
	}

	rec, cleanup, err := s.open(cmd.Context(), true)
	defer cleanup()
	if err != nil {
		return err
	}
	runner := &eval.Runner{
		Searcher:    rec,
		K:           s.cfg.K,
		TruthK:      s.cfg.Eval.TruthK,
		Parallelism: s.cfg.Eval.Parallelism,
		Logger:      s.logger,
	}
	report, err := runner.Run(cmd.Context(), queries, truth, transitions)
	if err != nil {
		return fmt.Errorf("eval: %w", err)
	}
	if s.asJSON {
		return writeJSON(cmd, report)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "queries: %d/%d succeeded, mean precision@%d %.3f, %s\n",
		report.QueriesSucceeded, len(report.Queries), s.cfg.K, report.MeanPrecision, report.QueryTime)
	if len(report.Transitions) > 0 {
		fmt.Fprintf(out, "transitions: %d/%d succeeded, mean quality %.3f, mean length diff %.2f, %s\n",
			report.TransitionsSucceeded, len(report.Transitions), report.MeanQuality, report.MeanPathLengthDiff, report.TransitionTime)
	}
	return nil
}
