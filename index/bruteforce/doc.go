// Package bruteforce provides an exact cosine index that scans every vector
// against cached magnitudes. It is the correctness baseline for the tree
// indexes.
package bruteforce
