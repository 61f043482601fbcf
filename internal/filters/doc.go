// Package filters implements the non-destructive edit pipeline attached
// to an asset.
//
// Edits are stored as an append-only log of Filter records rather than
// mutated in place: undo is a pop, the edit history stays auditable, and
// in-progress adjustments from one session can never clobber another's.
// Ranging adjustments (brightness, rotate-by-degree, and friends) are
// held in an ephemeral Preview until committed; a preview is never
// visible to other readers of the asset.
package filters
