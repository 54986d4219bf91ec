package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/viant/imgrec/catalog"
	"github.com/viant/imgrec/config"
	"github.com/viant/imgrec/engine"
	"github.com/viant/imgrec/index"
	"github.com/viant/imgrec/internal/logging"
	"github.com/viant/imgrec/recommender"
	"github.com/viant/imgrec/vector"
)

var errNoSource = errors.New("no vector source: set --vectors or --catalog")

// settings is the effective configuration of one command invocation.
type settings struct {
	cfg      *config.Config
	logger   *logging.Logger
	asJSON   bool
	snapshot string
}

func loadSettings(cmd *cobra.Command) (*settings, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	overrides := map[string]*string{
		"vectors":   &cfg.Vectors,
		"catalog":   &cfg.Catalog,
		"prompts":   &cfg.Prompts,
		"ids":       &cfg.IDMap,
		"kind":      &cfg.Kind,
		"index":     &cfg.Index,
		"log-level": &cfg.Log.Level,
	}
	for name, target := range overrides {
		if cmd.Flags().Changed(name) {
			*target, _ = cmd.Flags().GetString(name)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger, err := logging.FromConfig(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	asJSON, _ := cmd.Flags().GetBool("json")
	snapshot, _ := cmd.Flags().GetString("snapshot")
	return &settings{cfg: cfg, logger: logger, asJSON: asJSON, snapshot: snapshot}, nil
}

func (s *settings) kind() vector.Kind { return vector.Kind(s.cfg.Kind) }

func (s *settings) transition() recommender.TransitionConfig {
	t := s.cfg.Transition
	return recommender.TransitionConfig{
		NeighborsPerEndpoint: t.NeighborsPerEndpoint,
		Waypoints:            t.Waypoints,
		ExpansionNeighbors:   t.ExpansionNeighbors,
		MaxCandidates:        t.MaxCandidates,
		EdgesPerNode:         t.EdgesPerNode,
		MaxHops:              t.MaxHops,
		MinSimilarity:        t.MinSimilarity,
		HopPenalty:           t.HopPenalty,
	}
}

// open loads and preprocesses a recommender from the configured source. The
// returned cleanup must be called once the recommender is no longer used.
func (s *settings) open(ctx context.Context, useSnapshot bool) (*recommender.Recommender, func(), error) {
	cleanup := func() {}
	indexKind, err := index.ParseKind(s.cfg.Index)
	if err != nil {
		return nil, cleanup, err
	}
	opts := []recommender.Option{
		recommender.WithKind(s.kind()),
		recommender.WithIndex(indexKind),
		recommender.WithTransition(s.transition()),
		recommender.WithLogger(s.logger.Logger),
	}
	if s.cfg.Prompts != "" {
		prompts, err := catalog.LoadPrompts(s.cfg.Prompts)
		if err != nil {
			return nil, cleanup, err
		}
		opts = append(opts, recommender.WithPromptService(prompts))
	}
	if s.cfg.IDMap != "" {
		ids, err := catalog.LoadIDMap(s.cfg.IDMap)
		if err != nil {
			return nil, cleanup, err
		}
		opts = append(opts, recommender.WithIDMapper(ids))
	}
	if useSnapshot && s.snapshot != "" {
		kind, idx, err := loadSnapshot(s.snapshot)
		if err != nil {
			return nil, cleanup, err
		}
		opts = append(opts, recommender.WithIndexFor(s.kind(), kind, idx))
	}

	var rec *recommender.Recommender
	switch {
	case s.cfg.Vectors != "":
		rec, err = recommender.Load(s.cfg.Vectors, opts...)
	case s.cfg.Catalog != "":
		db, openErr := engine.Open(s.cfg.Catalog)
		if openErr != nil {
			return nil, cleanup, openErr
		}
		cleanup = func() { _ = db.Close() }
		store, storeErr := vector.NewSQLiteStore(ctx, db)
		if storeErr != nil {
			return nil, cleanup, storeErr
		}
		records, recErr := store.Records(ctx)
		if recErr != nil {
			return nil, cleanup, recErr
		}
		if s.cfg.Prompts == "" {
			opts = append(opts, recommender.WithPromptService(store))
		}
		rec, err = recommender.New(records, opts...)
	default:
		return nil, cleanup, errNoSource
	}
	if err != nil {
		return nil, cleanup, err
	}
	if err := rec.Preprocess(ctx); err != nil {
		return nil, cleanup, err
	}
	return rec, cleanup, nil
}

func loadSnapshot(path string) (index.Kind, index.Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()
	return index.Load(f)
}

func writeJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
