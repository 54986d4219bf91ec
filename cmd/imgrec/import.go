package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/viant/imgrec/catalog"
	"github.com/viant/imgrec/engine"
	"github.com/viant/imgrec/recommender"
	"github.com/viant/imgrec/vector"
)

func NewImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Import a vector store (and prompts) into the SQLite catalog",
		Long:  `Read --vectors and optional --prompts, then upsert every record into the --catalog database.`,
		Args:  cobra.NoArgs,
		RunE:  runImport,
	}
}

func runImport(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if s.cfg.Vectors == "" || s.cfg.Catalog == "" {
		return errors.New("import: both --vectors and --catalog are required")
	}
	ctx := cmd.Context()
	records, err := recommender.LoadRecords(s.cfg.Vectors)
	if err != nil {
		return err
	}
	withPrompts := 0
	if s.cfg.Prompts != "" {
		prompts, err := catalog.LoadPrompts(s.cfg.Prompts)
		if err != nil {
			return err
		}
		for i := range records {
			if p, err := prompts.Prompt(ctx, records[i].ID); err == nil {
				records[i].Prompt = p
				withPrompts++
			}
		}
	}

	db, err := engine.Open(s.cfg.Catalog)
	if err != nil {
		return err
	}
	defer db.Close()
	store, err := vector.NewSQLiteStore(ctx, db)
	if err != nil {
		return err
	}
	if err := store.Put(ctx, records); err != nil {
		return fmt.Errorf("import: %w", err)
	}
	s.logger.InfoContext(ctx, "catalog imported", "records", len(records), "prompts", withPrompts, "catalog", s.cfg.Catalog)
	if s.asJSON {
		return writeJSON(cmd, map[string]interface{}{"records": len(records), "prompts": withPrompts})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d records (%d with prompts)\n", len(records), withPrompts)
	return nil
}
