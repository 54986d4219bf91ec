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

func NewSimilarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "similar <id>",
		Short: "Find images similar to an image",
		Long: `Rank images by cosine similarity of their embeddings to the given image.

With --sql the ranking runs inside the --catalog database instead of an
in-memory index; --metric l2 then ranks by Euclidean distance, nearest first.`,
		Args: cobra.ExactArgs(1),
		RunE: runSimilar,
	}
	cmd.Flags().IntP("number", "k", 0, "Number of results (defaults to the configured k)")
	cmd.Flags().Bool("sql", false, "Rank inside the SQLite catalog")
	cmd.Flags().String("metric", "cosine", "SQL ranking metric (cosine|l2), used with --sql")
	return cmd
}

func runSimilar(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	k, _ := cmd.Flags().GetInt("number")
	if k == 0 {
		k = s.cfg.K
	}
	var gallery recommender.Gallery
	if useSQL, _ := cmd.Flags().GetBool("sql"); useSQL {
		metric, _ := cmd.Flags().GetString("metric")
		gallery, err = s.similarInCatalog(cmd, args[0], k, metric)
		if err != nil {
			return fmt.Errorf("similar: %w", err)
		}
	} else {
		rec, cleanup, err := s.open(cmd.Context(), true)
		defer cleanup()
		if err != nil {
			return err
		}
		if gallery, err = rec.FindSimilarImages(cmd.Context(), args[0], k); err != nil {
			return fmt.Errorf("similar: %w", err)
		}
	}
	if s.asJSON {
		return writeJSON(cmd, gallery)
	}
	for i, id := range gallery.Images {
		fmt.Fprintf(cmd.OutOrStdout(), "%.4f  %s\n", gallery.Scores[i], id)
	}
	return nil
}

// similarInCatalog ranks the catalog against id in SQL, dropping id itself.
func (s *settings) similarInCatalog(cmd *cobra.Command, id string, k int, metric string) (recommender.Gallery, error) {
	if s.cfg.Catalog == "" {
		return recommender.Gallery{}, errors.New("--sql requires --catalog")
	}
	if k <= 0 {
		return recommender.Gallery{}, fmt.Errorf("%w: %d", recommender.ErrInvalidK, k)
	}
	ctx := cmd.Context()
	db, err := engine.Open(s.cfg.Catalog)
	if err != nil {
		return recommender.Gallery{}, err
	}
	defer db.Close()
	store, err := vector.NewSQLiteStore(ctx, db)
	if err != nil {
		return recommender.Gallery{}, err
	}

	query, err := store.Embedding(ctx, id, s.kind())
	if errors.Is(err, vector.ErrRecordNotFound) && s.cfg.IDMap != "" {
		ids, mapErr := catalog.LoadIDMap(s.cfg.IDMap)
		if mapErr != nil {
			return recommender.Gallery{}, mapErr
		}
		if mapped, ok := ids.Resolve(id); ok {
			id = mapped
			query, err = store.Embedding(ctx, id, s.kind())
		}
	}
	if errors.Is(err, vector.ErrRecordNotFound) {
		return recommender.Gallery{}, fmt.Errorf("%w: %s", recommender.ErrNotFound, id)
	}
	if err != nil {
		return recommender.Gallery{}, err
	}

	var matches []vector.Match
	switch metric {
	case "", "cosine":
		matches, err = store.SimilaritySearch(ctx, s.kind(), query, k+1)
	case "l2":
		matches, err = store.DistanceSearch(ctx, s.kind(), query, k+1)
	default:
		return recommender.Gallery{}, fmt.Errorf("unknown metric %q", metric)
	}
	if err != nil {
		return recommender.Gallery{}, err
	}
	gallery := recommender.Gallery{Images: make([]string, 0, k), Scores: make([]float64, 0, k)}
	for _, m := range matches {
		if m.ID == id {
			continue
		}
		if gallery.Len() == k {
			break
		}
		gallery.Images = append(gallery.Images, m.ID)
		gallery.Scores = append(gallery.Scores, m.Score)
	}
	s.logger.LogSearch(ctx, id, k, gallery.Len(), nil)
	return gallery, nil
}
