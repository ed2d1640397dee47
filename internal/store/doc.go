// Package store persists evidence records in SQLite and owns the reconcile
// write path.
//
// Two record sets carry the evidence itself: construction rows (indexed per
// item, row 0 static, rows >= 1 dynamic) and testing rows (grouped by test
// name per item). Both are replaced wholesale per item inside a single
// transaction; the reported flag on construction rows is decided by the
// caller, never here. Project information and selected construction items are
// kept alongside as report header context.
//
// Open also acquires a flock on the data directory so only one fieldbook
// process writes a workspace at a time. Schema lives in migrations/*.sql;
// add a new numbered file to change it.
package store
