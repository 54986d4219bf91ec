package recommender

import (
	"errors"

	"github.com/viant/imgrec/vector"
)

var (
	// ErrLoad reports a malformed, empty or unreadable vector store.
	ErrLoad = errors.New("recommender: load failed")
	// ErrNotFound reports an identifier missing from the index or without a
	// resolvable prompt.
	ErrNotFound = errors.New("recommender: not found")
	// ErrNoPath reports an exhausted transition search.
	ErrNoPath = errors.New("recommender: no transition path")
	// ErrNotPrepared is returned by queries issued before Preprocess.
	ErrNotPrepared = errors.New("recommender: preprocess has not run")
	// ErrInvalidK is returned for k <= 0.
	ErrInvalidK = errors.New("recommender: k must be positive")
	// ErrNoPromptService is returned by transition queries when no prompt
	// collaborator was configured.
	ErrNoPromptService = errors.New("recommender: no prompt service configured")
	// ErrDimensionMismatch is vector.ErrDimensionMismatch, matched by
	// errors.Is on every length mismatch.
	ErrDimensionMismatch = vector.ErrDimensionMismatch
)
