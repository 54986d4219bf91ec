package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func NewTransitionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transition <from> <to>",
		Short: "Print prompts walking from one image to another",
		Args:  cobra.ExactArgs(2),
		RunE:  runTransition,
	}
	cmd.Flags().Bool("path", false, "Also print the image path")
	return cmd
}

func runTransition(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	rec, cleanup, err := s.open(cmd.Context(), true)
	defer cleanup()
	if err != nil {
		return err
	}
	path, err := rec.FindTransitionPath(cmd.Context(), args[0], args[1])
	if err != nil {
		return fmt.Errorf("transition: %w", err)
	}
	if s.asJSON {
		return writeJSON(cmd, path)
	}
	out := cmd.OutOrStdout()
	if showPath, _ := cmd.Flags().GetBool("path"); showPath {
		fmt.Fprintf(out, "path: %s\n", strings.Join(path.IDs, " -> "))
	}
	for _, prompt := range path.Prompts {
		fmt.Fprintln(out, prompt)
	}
	return nil
}
