package main

import (
	"github.com/spf13/cobra"
)

func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "imgrec",
		Short:         "Similar-image and transition-prompt recommendations over CLIP embeddings",
		Long:          `Index CLIP image embeddings, find similar images and walk prompt transitions between two images.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	addPersistentFlags(rootCmd)
	rootCmd.AddCommand(
		NewSimilarCmd(),
		NewTransitionCmd(),
		NewImportCmd(),
		NewRemoveCmd(),
		NewSnapshotCmd(),
		NewEvalCmd(),
		NewConfigCmd(),
	)
	return rootCmd
}

func addPersistentFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.String("config", "imgrec.yaml", "Path to the YAML configuration")
	flags.Bool("json", false, "Output in JSON format")
	flags.String("vectors", "", "Vector store JSON file")
	flags.String("catalog", "", "SQLite catalog DSN (used when --vectors is empty)")
	flags.String("prompts", "", "Prompts JSON file")
	flags.String("ids", "", "Identifier map JSON file")
	flags.String("kind", "", "Embedding kind (image_embedding|text_embedding)")
	flags.String("index", "", "Index kind (auto|brute|vptree|cover)")
	flags.String("snapshot", "", "Index snapshot to reuse instead of building one")
	flags.String("log-level", "", "Log level (debug|info|warn|error)")
}
