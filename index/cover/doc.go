// Package cover provides a cosine kNN index backed by a cover tree built
// over unit-normalised vectors.
package cover
