package recommender

import "context"

// PromptService resolves the caption/prompt of an image.
type PromptService interface {
	Prompt(ctx context.Context, id string) (string, error)
	Exists(ctx context.Context, id string) bool
}

// IDMapper resolves an external reference (for example a file name) to an
// index identifier. It is advisory: ranking never depends on it.
type IDMapper interface {
	Resolve(ref string) (string, bool)
}
