// Package annot implements the position-indexed annotation table the
// front end builds for tooling: hover, go-to-definition, and inline
// diagnostics all answer from it.
//
// # Model
//
// The table is a flat sequence of (span, annotation) entries. An
// annotation is one of a closed set of payloads: a declaration site, a
// syntactic block, a compiler diagnostic, a name reference carrying
// resolved type or kind information, or an implicit-arguments bundle
// describing arguments the checker inferred and elided.
//
// # Lifecycle
//
// A map is built by one tree walk per file. The walker inserts in
// traversal order, which is not textual order; Sort is called exactly
// once after the walk and before the first lookup. Maps from separate
// files or passes may be merged (order preserving) before that single
// sort. The checker may rewrite stored types wholesale with Substitute
// once generalization completes.
//
// # Lookup
//
// Reads go through a Cursor: a monotonic, consuming scan. Each Lookup
// call resolves the entries starting exactly at the query position,
// collapses co-located entries to one winner per priority bucket,
// folds implicit-argument docs into surviving references, and returns
// the advanced cursor. Positions behind the cursor are unreachable;
// querying out of order yields empty results, not errors.
package annot
