// Package recommender answers two queries over a corpus of CLIP-embedded
// images:
//
//   - FindSimilarImages: the k most similar images to a query image, ranked by
//     cosine similarity with ties broken by identifier.
//   - FindTransitionPrompts: a short sequence of prompts walking from one
//     image to another along a shortest path in a similarity graph built over
//     a bounded candidate set.
//
// Typical use:
//
//	rec, err := recommender.Load("clip_vectors.json", recommender.WithPromptService(prompts))
//	if err != nil { ... }
//	if err := rec.Preprocess(ctx); err != nil { ... }
//	gallery, err := rec.FindSimilarImages(ctx, id, 10)
//
// A Recommender is read-only after Preprocess and safe for concurrent queries.
package recommender
