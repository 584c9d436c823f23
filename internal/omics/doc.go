// Package omics is the boundary to the external proteomics analysis library.
//
// Nothing in this repository computes fold changes, adjusted p-values, PCA,
// k-means trends or enrichment statistics. Those are owned by the library,
// which is reached through an Engine. The Client type implements Engine over
// a Transport that carries JSON request/response envelopes to a process
// binding the library: a local Python subprocess (package pybridge) or a
// remote analysis service reached over socket.io (package remote).
package omics
