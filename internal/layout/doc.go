// Package layout defines the paginated document layout consumed by the
// painter: pages, fragments, measured lines, styled runs, and the block
// lookup that pairs logical content with its measurement.
//
// A Layout is produced by an external measurement stage and is immutable
// for the duration of a paint call. The painter never mutates it; change
// detection happens through block version strings, not through the layout
// structure itself.
package layout
