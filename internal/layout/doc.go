// Package layout resolves layout chains.
//
// A content file may name a parent layout in its front matter (`layout: base`).
// The layout lives at <layoutsDir>/<name><ext> and may itself name a parent.
// Resolve follows these references iteratively and returns the chain with the
// originating file at index 0 and the root layout last. A reference back to
// a file already in the chain is reported as a cyclic layout error.
package layout
