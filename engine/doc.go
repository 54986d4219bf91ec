// Package engine opens the image catalog database with the
// modernc.org/sqlite driver and registers the vec_cosine / vec_l2 scalar
// functions used to rank embeddings from SQL.
package engine
