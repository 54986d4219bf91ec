package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/viant/imgrec/index"
)

func NewSnapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Build the index and write a compressed snapshot",
		Args:  cobra.NoArgs,
		RunE:  runSnapshot,
	}
	cmd.Flags().StringP("output", "o", "index.snap", "Snapshot file")
	return cmd
}

func runSnapshot(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	rec, cleanup, err := s.open(cmd.Context(), false)
	defer cleanup()
	if err != nil {
		return err
	}
	idx, kind, err := rec.Index(s.kind())
	if err != nil {
		return err
	}
	output, _ := cmd.Flags().GetString("output")
	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	if err := index.Save(f, kind, idx); err != nil {
		_ = f.Close()
		return fmt.Errorf("snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	if s.asJSON {
		return writeJSON(cmd, map[string]interface{}{"output": output, "index": kind, "count": idx.Len()})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s index of %d vectors to %s\n", kind, idx.Len(), output)
	return nil
}
