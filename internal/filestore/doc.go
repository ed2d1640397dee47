// Package filestore owns the on-disk image tree backing evidence rows.
//
// Accepted photos live under <images_dir>/<phase>/ where phase is one of
// before, during, after, or testing. Resolve copies external candidates into
// the owned tree (reusing paths that are already owned, so resubmitting an
// unchanged row performs no I/O), and Release deletes files that fell out of
// a reconciled snapshot. The store never touches the database.
package filestore
