// Package vector holds the embedding-level building blocks shared by the
// recommender:
//   - Kind and Record, the in-memory image model
//   - cosine similarity, norms and L2 distance
//   - Embedding encoding (BLOB)
//   - SQLiteStore, a durable image catalog that also serves prompts
package vector
