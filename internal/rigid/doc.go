// Package rigid implements the fixed-capacity arena allocator and the
// rigid-body record at the base of the solver's data model.
//
// [Arena] hands out stable [Handle] values addressing slots that are
// packed into a contiguous active prefix after every removal, so
// [Arena.IterActive] always walks a dense slice with no holes. [Body] is
// the native rigid-body record the step pipeline integrates and the
// constraint rows read and write.
//
// Grounded on the paged free-list arena in the retrieval pack
// (goovo-matching-engine's order arena) generalized with a
// (slot, generation) handle so stale handles are detected rather than
// silently aliasing a reused slot.
package rigid
