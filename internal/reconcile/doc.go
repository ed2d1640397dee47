// Package reconcile turns an edited evidence snapshot into the persisted one.
//
// The engine diffs the submitted entries against the stored rows for the same
// item, resolves every candidate image through the file store (copy-in or
// reuse), replaces the row sets wholesale, and only then releases stored
// files that fell out of the new snapshot. The reported flag on a
// construction row survives the pass exactly when its four content fields are
// unchanged.
//
// Ordering is the safety contract: all copies before any database write, all
// database writes before any delete. A failed resolve aborts the pass with
// nothing destroyed; already-made copies are tolerable orphans.
package reconcile
