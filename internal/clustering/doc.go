// Package clustering implements the numeric routines behind corpus
// organisation: density-based clustering, partition quality scoring,
// TF-IDF cluster naming, and PCA projection for visualisation.
//
// All routines are deterministic for a given input ordering.
package clustering
