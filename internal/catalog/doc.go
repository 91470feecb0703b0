// Package catalog discovers video files under a root directory, assigns each
// one a short identifier, and answers lookups against the current catalog
// generation.
//
// # Identifiers
//
// Every build walks the root depth-first, visiting the entries of each
// directory in byte-wise name order, and numbers recognized files from zero
// in the order they are found. A file's identifier is "<n>.<ext>", so an
// unchanged tree always yields the same identifiers:
//
//	assets/a.mp4     -> 0.mp4
//	assets/sub/b.mkv -> 1.mkv
//
// # Generations
//
// A [Generation] is an immutable snapshot of one completed build. The [Store]
// publishes generations through an atomic pointer: readers call
// [Store.Snapshot], [Store.Lookup] or [Store.Resolve] without taking a lock,
// and a rebuild only becomes visible once it is complete. A failed build never
// touches the store.
//
// # Errors
//
// Unknown identifiers yield [ErrNotFound]. Filesystem failures during a build
// are reported as [*IOError] carrying the operation and the failing path.
package catalog
