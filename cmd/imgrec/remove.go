package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/viant/imgrec/engine"
	"github.com/viant/imgrec/vector"
)

func NewRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>...",
		Short: "Remove images from the SQLite catalog",
		Long:  `Delete each image and all of its embeddings from the --catalog database.`,
		Args:  cobra.MinimumNArgs(1),
		RunE:  runRemove,
	}
}

func runRemove(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if s.cfg.Catalog == "" {
		return errors.New("remove: --catalog is required")
	}
	ctx := cmd.Context()
	db, err := engine.Open(s.cfg.Catalog)
	if err != nil {
		return err
	}
	defer db.Close()
	store, err := vector.NewSQLiteStore(ctx, db)
	if err != nil {
		return err
	}
	for _, id := range args {
		if err := store.Remove(ctx, id); err != nil {
			return fmt.Errorf("remove: %w", err)
		}
		s.logger.InfoContext(ctx, "image removed", "id", id, "catalog", s.cfg.Catalog)
	}
	if s.asJSON {
		return writeJSON(cmd, map[string]interface{}{"removed": args})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed %d images\n", len(args))
	return nil
}
