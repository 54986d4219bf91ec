// Package vptree provides an exact cosine kNN index backed by a
// vantage-point tree over angular distance.
package vptree
