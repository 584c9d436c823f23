// Package analysis runs one analysis session: it reads a quantification
// export through the analysis engine, saves the library's tables, filters
// differentially expressed proteins on a fold-change cutoff, renders the
// workflow's figures and runs over-representation analysis against each
// enrichment database.
//
// Every console message of a session is also written to the session log.
package analysis
