package reconcile_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"fieldbook/internal/filestore"
	"fieldbook/internal/reconcile"
	"fieldbook/internal/store"
	"fieldbook/internal/testsupport"
)

type fixture struct {
	engine *reconcile.Engine
	files  *filestore.Store
	store  *store.Store
	base   string
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	files := filestore.New(cfg.Paths.ImagesDir, slog.New(slog.NewTextHandler(io.Discard, nil)))
	engine := reconcile.New(files, st, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return fixture{engine: engine, files: files, store: st, base: testsupport.BaseDir(cfg)}
}

func (f fixture) sourceImage(t *testing.T, name string) string {
	t.Helper()
	return testsupport.WriteImage(t, filepath.Join(f.base, "inbox", name))
}

func TestReconcileCopiesAndPersists(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	key := store.ItemKey{Number: "100-1", Name: "Clearing and Grubbing"}

	sub := reconcile.Submission{
		Static: reconcile.Entry{
			Before:        f.sourceImage(t, "before.png"),
			During:        f.sourceImage(t, "during.png"),
			StationLimits: "KM 0+000 - KM 0+120",
		},
		Dynamic: []reconcile.Entry{
			{After: f.sourceImage(t, "after.png")},
		},
		Testing: []reconcile.Group{
			{Name: "Slump Test", Images: []string{f.sourceImage(t, "slump.png")}},
		},
	}

	result, err := f.engine.Reconcile(ctx, key, sub)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if result.ConstructionRows != 2 || result.TestingImages != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.FilesCopied != 4 || result.FilesReleased != 0 {
		t.Fatalf("unexpected file counts: %+v", result)
	}

	snapshot, err := f.store.ConstructionSnapshot(ctx, key)
	if err != nil {
		t.Fatal(err)
	}
	static, ok := snapshot[0]
	if !ok {
		t.Fatal("static row missing")
	}
	if !f.files.Owns(static.ImageBefore, filestore.PhaseBefore) {
		t.Fatalf("before image not stored under the before dir: %s", static.ImageBefore)
	}
	if !f.files.Owns(static.ImageDuring, filestore.PhaseDuring) {
		t.Fatalf("during image not stored under the during dir: %s", static.ImageDuring)
	}
	if static.StationLimits != "KM 0+000 - KM 0+120" {
		t.Fatalf("station limits lost: %+v", static)
	}
	dyn, ok := snapshot[1]
	if !ok || !f.files.Owns(dyn.ImageAfter, filestore.PhaseAfter) {
		t.Fatalf("dynamic row wrong: %+v", dyn)
	}

	groups, err := f.store.AllTestingRows(ctx, key)
	if err != nil {
		t.Fatal(err)
	}
	if len(groups) != 1 || groups[0].Name != "Slump Test" || len(groups[0].Images) != 1 {
		t.Fatalf("testing groups wrong: %+v", groups)
	}
	if !f.files.Owns(groups[0].Images[0], filestore.PhaseTesting) {
		t.Fatalf("testing image not stored: %s", groups[0].Images[0])
	}
}

func TestReconcileResubmissionIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	key := store.ItemKey{Number: "101", Name: "Embankment"}

	first := reconcile.Submission{
		Static: reconcile.Entry{Before: f.sourceImage(t, "a.png"), StationLimits: "KM1"},
	}
	if _, err := f.engine.Reconcile(ctx, key, first); err != nil {
		t.Fatal(err)
	}
	snapshot, err := f.store.ConstructionSnapshot(ctx, key)
	if err != nil {
		t.Fatal(err)
	}
	stored := snapshot[0]

	if err := f.store.MarkConstructionReported(ctx, key, []int{0}); err != nil {
		t.Fatal(err)
	}

	// Resubmit the stored snapshot unchanged, as the UI does when the user
	// saves without editing.
	again := reconcile.Submission{
		Static: reconcile.Entry{Before: stored.ImageBefore, StationLimits: stored.StationLimits},
	}
	result, err := f.engine.Reconcile(ctx, key, again)
	if err != nil {
		t.Fatal(err)
	}
	if result.FilesCopied != 0 || result.FilesReleased != 0 {
		t.Fatalf("unchanged resubmission must not touch files: %+v", result)
	}

	snapshot, err = f.store.ConstructionSnapshot(ctx, key)
	if err != nil {
		t.Fatal(err)
	}
	if snapshot[0].ImageBefore != stored.ImageBefore {
		t.Fatalf("stored path changed on resubmission: %s -> %s", stored.ImageBefore, snapshot[0].ImageBefore)
	}
	if !snapshot[0].ReportGenerated {
		t.Fatal("reported flag must survive a content-identical resubmission")
	}
}

func TestReconcileContentEditResetsReportedFlag(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	key := store.ItemKey{Number: "102", Name: "Subbase"}

	if _, err := f.engine.Reconcile(ctx, key, reconcile.Submission{
		Static: reconcile.Entry{Before: f.sourceImage(t, "b.png"), StationLimits: "KM 1+000"},
	}); err != nil {
		t.Fatal(err)
	}
	if err := f.store.MarkConstructionReported(ctx, key, []int{0}); err != nil {
		t.Fatal(err)
	}
	snapshot, err := f.store.ConstructionSnapshot(ctx, key)
	if err != nil {
		t.Fatal(err)
	}
	stored := snapshot[0]

	// Change only the station limits: no file should be copied or released,
	// but the flag must reset.
	result, err := f.engine.Reconcile(ctx, key, reconcile.Submission{
		Static: reconcile.Entry{Before: stored.ImageBefore, StationLimits: "KM 2+000"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.FilesCopied != 0 || result.FilesReleased != 0 {
		t.Fatalf("station edit must not touch files: %+v", result)
	}

	snapshot, err = f.store.ConstructionSnapshot(ctx, key)
	if err != nil {
		t.Fatal(err)
	}
	if snapshot[0].ReportGenerated {
		t.Fatal("content edit must reset the reported flag")
	}
	if _, err := os.Stat(stored.ImageBefore); err != nil {
		t.Fatalf("reused image must survive the pass: %v", err)
	}
}

func TestReconcileReleasesRemovedRowFiles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	key := store.ItemKey{Number: "103", Name: "Base Course"}

	if _, err := f.engine.Reconcile(ctx, key, reconcile.Submission{
		Static:  reconcile.Entry{Before: f.sourceImage(t, "keep.png")},
		Dynamic: []reconcile.Entry{{During: f.sourceImage(t, "drop.png")}},
	}); err != nil {
		t.Fatal(err)
	}
	snapshot, err := f.store.ConstructionSnapshot(ctx, key)
	if err != nil {
		t.Fatal(err)
	}
	kept := snapshot[0].ImageBefore
	dropped := snapshot[1].ImageDuring

	result, err := f.engine.Reconcile(ctx, key, reconcile.Submission{
		Static: reconcile.Entry{Before: kept},
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.FilesReleased != 1 {
		t.Fatalf("expected 1 release, got %+v", result)
	}
	if _, err := os.Stat(dropped); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("dropped row's file should be deleted: %v", err)
	}
	if _, err := os.Stat(kept); err != nil {
		t.Fatalf("kept file must remain: %v", err)
	}

	snapshot, err = f.store.ConstructionSnapshot(ctx, key)
	if err != nil {
		t.Fatal(err)
	}
	if len(snapshot) != 1 {
		t.Fatalf("expected only the static row, got %d", len(snapshot))
	}
}

func TestReconcileDynamicRowsRenumbered(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	key := store.ItemKey{Number: "104", Name: "Concrete Works"}

	sub := reconcile.Submission{
		Dynamic: []reconcile.Entry{
			{StationLimits: "first"},
			{}, // skipped
			{StationLimits: "second"},
		},
	}
	if _, err := f.engine.Reconcile(ctx, key, sub); err != nil {
		t.Fatal(err)
	}

	snapshot, err := f.store.ConstructionSnapshot(ctx, key)
	if err != nil {
		t.Fatal(err)
	}
	if len(snapshot) != 2 {
		t.Fatalf("empty dynamic entry should be dropped, got %d rows", len(snapshot))
	}
	if snapshot[1].StationLimits != "first" || snapshot[2].StationLimits != "second" {
		t.Fatalf("dynamic rows not renumbered contiguously: %+v", snapshot)
	}
	if _, ok := snapshot[0]; ok {
		t.Fatal("no static row was submitted, index 0 must stay free")
	}
}

func TestReconcileEmptySubmission(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	key := store.ItemKey{Number: "105", Name: "Stone Masonry"}

	if _, err := f.engine.Reconcile(ctx, key, reconcile.Submission{
		Static:  reconcile.Entry{Before: "   "},
		Dynamic: []reconcile.Entry{{}},
		Testing: []reconcile.Group{{Name: "Unused", Images: []string{""}}},
	}); !errors.Is(err, reconcile.ErrEmptySubmission) {
		t.Fatalf("expected ErrEmptySubmission, got %v", err)
	}
}

func TestReconcileMissingSourceAborts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	key := store.ItemKey{Number: "106", Name: "Pipe Culverts"}

	if _, err := f.engine.Reconcile(ctx, key, reconcile.Submission{
		Static: reconcile.Entry{Before: f.sourceImage(t, "ok.png"), StationLimits: "KM1"},
	}); err != nil {
		t.Fatal(err)
	}
	before, err := f.store.ConstructionSnapshot(ctx, key)
	if err != nil {
		t.Fatal(err)
	}

	_, err = f.engine.Reconcile(ctx, key, reconcile.Submission{
		Static: reconcile.Entry{Before: filepath.Join(f.base, "inbox", "vanished.png")},
	})
	if !errors.Is(err, reconcile.ErrReconcileFailed) {
		t.Fatalf("expected ErrReconcileFailed, got %v", err)
	}
	if !errors.Is(err, filestore.ErrSourceNotFound) {
		t.Fatalf("cause must stay reachable: %v", err)
	}

	// The failed pass must leave the persisted snapshot and its files intact.
	after, err := f.store.ConstructionSnapshot(ctx, key)
	if err != nil {
		t.Fatal(err)
	}
	if len(after) != len(before) || !after[0].SameContent(before[0]) {
		t.Fatalf("snapshot changed across a failed pass: %+v vs %+v", after, before)
	}
	if _, err := os.Stat(before[0].ImageBefore); err != nil {
		t.Fatalf("stored file lost on failed pass: %v", err)
	}
}

func TestReconcileTestingReplaceReleasesOldImages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	key := store.ItemKey{Number: "107", Name: "Gabions"}

	if _, err := f.engine.Reconcile(ctx, key, reconcile.Submission{
		Testing: []reconcile.Group{
			{Name: "Compaction Test", Images: []string{f.sourceImage(t, "t1.png"), f.sourceImage(t, "t2.png")}},
		},
	}); err != nil {
		t.Fatal(err)
	}
	groups, err := f.store.AllTestingRows(ctx, key)
	if err != nil {
		t.Fatal(err)
	}
	keep := groups[0].Images[0]
	drop := groups[0].Images[1]

	result, err := f.engine.Reconcile(ctx, key, reconcile.Submission{
		Testing: []reconcile.Group{{Name: "Compaction Test", Images: []string{keep}}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.FilesCopied != 0 || result.FilesReleased != 1 {
		t.Fatalf("unexpected counts: %+v", result)
	}
	if _, err := os.Stat(drop); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("removed testing image should be deleted: %v", err)
	}
	if _, err := os.Stat(keep); err != nil {
		t.Fatalf("kept testing image must remain: %v", err)
	}
}
