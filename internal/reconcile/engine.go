package reconcile

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"fieldbook/internal/filestore"
	"fieldbook/internal/store"
)

// Entry is one edited evidence row: candidate image paths per phase plus the
// station limits text. A blank field means the row has no image for that
// phase; retention requires resubmitting the stored path (the UI pre-fills
// entries with the stored paths, so an untouched field round-trips).
type Entry struct {
	Before        string
	During        string
	After         string
	StationLimits string
}

func (e Entry) empty() bool {
	return strings.TrimSpace(e.Before) == "" &&
		strings.TrimSpace(e.During) == "" &&
		strings.TrimSpace(e.After) == "" &&
		e.StationLimits == ""
}

// Group is one edited testing group: a free-text name and its candidate
// image paths.
type Group struct {
	Name   string
	Images []string
}

func (g Group) empty() bool {
	for _, image := range g.Images {
		if strings.TrimSpace(image) != "" {
			return false
		}
	}
	return true
}

// Submission is the full edited snapshot for one item: the static entry, the
// dynamic entries in display order, and the testing groups.
type Submission struct {
	Static  Entry
	Dynamic []Entry
	Testing []Group
}

// Empty reports whether the submission carries no content at all.
func (s Submission) Empty() bool {
	if !s.Static.empty() {
		return false
	}
	for _, entry := range s.Dynamic {
		if !entry.empty() {
			return false
		}
	}
	for _, group := range s.Testing {
		if !group.empty() {
			return false
		}
	}
	return true
}

// Result summarizes what a reconciliation pass changed.
type Result struct {
	ConstructionRows int
	TestingImages    int
	FilesCopied      int
	FilesReleased    int
}

// Engine orchestrates the file store and the evidence repository.
type Engine struct {
	files  *filestore.Store
	store  *store.Store
	logger *slog.Logger
}

// New constructs a reconciliation engine. The logger may be nil.
func New(files *filestore.Store, st *store.Store, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{files: files, store: st, logger: logger.With("component", "reconcile")}
}

// Reconcile persists the edited snapshot for the given item.
//
// Phases, in order: validate, load the persisted snapshots, resolve every
// candidate image (the only step that copies files), replace both row sets,
// then release stored files absent from the new snapshot. Any error before
// the release step aborts with no file deleted.
func (e *Engine) Reconcile(ctx context.Context, key store.ItemKey, sub Submission) (*Result, error) {
	if sub.Empty() {
		return nil, wrap(key, "", ErrEmptySubmission)
	}

	oldConstruction, err := e.store.ConstructionSnapshot(ctx, key)
	if err != nil {
		return nil, wrap(key, "load construction snapshot", err)
	}
	oldTesting, err := e.store.TestingSnapshot(ctx, key)
	if err != nil {
		return nil, wrap(key, "load testing snapshot", err)
	}

	result := &Result{}

	newRows, err := e.resolveConstruction(key, sub, result)
	if err != nil {
		return nil, err
	}
	newGroups, err := e.resolveTesting(key, sub.Testing, result)
	if err != nil {
		return nil, err
	}

	carryReportedFlags(newRows, oldConstruction)

	if err := e.store.ReplaceConstructionRows(ctx, key, newRows); err != nil {
		return nil, wrap(key, "", err)
	}
	if err := e.store.ReplaceTestingRows(ctx, key, newGroups); err != nil {
		return nil, wrap(key, "", err)
	}

	result.ConstructionRows = len(newRows)
	for _, group := range newGroups {
		result.TestingImages += len(group.Images)
	}

	// Deletions are irreversible, so they come last: the new snapshot is on
	// disk and committed before any superseded file goes away.
	result.FilesReleased += e.releaseOrphans(key, constructionPaths(oldConstruction), constructionRowPaths(newRows))
	result.FilesReleased += e.releaseOrphans(key, testingPaths(oldTesting), testingGroupPaths(newGroups))

	e.logger.Info("snapshot reconciled",
		"item", key.String(),
		"rows", result.ConstructionRows,
		"testing_images", result.TestingImages,
		"copied", result.FilesCopied,
		"released", result.FilesReleased,
	)
	return result, nil
}

// resolveConstruction resolves the static and dynamic entries into persisted
// rows: static at index 0 when non-empty, dynamic rows renumbered 1..N in
// submission order with empty entries dropped.
func (e *Engine) resolveConstruction(key store.ItemKey, sub Submission, result *Result) ([]store.ConstructionRow, error) {
	rows := make([]store.ConstructionRow, 0, 1+len(sub.Dynamic))

	if !sub.Static.empty() {
		row, err := e.resolveEntry(key, sub.Static, 0, result)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	index := 1
	for _, entry := range sub.Dynamic {
		if entry.empty() {
			continue
		}
		row, err := e.resolveEntry(key, entry, index, result)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
		index++
	}
	return rows, nil
}

func (e *Engine) resolveEntry(key store.ItemKey, entry Entry, rowIndex int, result *Result) (store.ConstructionRow, error) {
	row := store.ConstructionRow{RowIndex: rowIndex, StationLimits: entry.StationLimits}

	type slot struct {
		source string
		phase  filestore.Phase
		target *string
	}
	for _, sl := range []slot{
		{entry.Before, filestore.PhaseBefore, &row.ImageBefore},
		{entry.During, filestore.PhaseDuring, &row.ImageDuring},
		{entry.After, filestore.PhaseAfter, &row.ImageAfter},
	} {
		resolved, err := e.resolveImage(sl.source, sl.phase, result)
		if err != nil {
			return store.ConstructionRow{}, wrap(key, "row "+strconv.Itoa(rowIndex), err)
		}
		*sl.target = resolved
	}
	return row, nil
}

func (e *Engine) resolveTesting(key store.ItemKey, groups []Group, result *Result) ([]store.TestingGroup, error) {
	resolved := make([]store.TestingGroup, 0, len(groups))
	for _, group := range groups {
		if group.empty() {
			continue
		}
		out := store.TestingGroup{Name: strings.TrimSpace(group.Name)}
		for _, image := range group.Images {
			path, err := e.resolveImage(image, filestore.PhaseTesting, result)
			if err != nil {
				return nil, wrap(key, "testing group "+out.Name, err)
			}
			if path == "" {
				continue
			}
			out.Images = append(out.Images, path)
		}
		resolved = append(resolved, out)
	}
	return resolved, nil
}

func (e *Engine) resolveImage(source string, phase filestore.Phase, result *Result) (string, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return "", nil
	}
	reuse := e.files.Owns(source, phase)
	path, err := e.files.Resolve(source, phase)
	if err != nil {
		return "", err
	}
	if !reuse {
		result.FilesCopied++
	}
	return path, nil
}

// carryReportedFlags preserves report_generated for rows whose four content
// fields are identical to the persisted row at the same index; anything else
// stays false (edits return a row to the unreported pool).
func carryReportedFlags(rows []store.ConstructionRow, old map[int]store.ConstructionRow) {
	for i, row := range rows {
		if prev, ok := old[row.RowIndex]; ok && row.SameContent(prev) {
			rows[i].ReportGenerated = prev.ReportGenerated
		}
	}
}

// releaseOrphans deletes old stored paths that are absent from the new set.
// Release failures are logged and skipped: a leftover file is recoverable,
// an aborted pass at this point is not.
func (e *Engine) releaseOrphans(key store.ItemKey, old, current map[string]struct{}) int {
	released := 0
	for path := range old {
		if _, kept := current[path]; kept {
			continue
		}
		removed, err := e.files.Release(path)
		if err != nil {
			e.logger.Warn("release failed", "item", key.String(), "path", path, "error", err)
			continue
		}
		if removed {
			released++
		}
	}
	return released
}

func constructionPaths(rows map[int]store.ConstructionRow) map[string]struct{} {
	set := make(map[string]struct{})
	for _, row := range rows {
		for _, path := range row.ImagePaths() {
			set[path] = struct{}{}
		}
	}
	return set
}

func constructionRowPaths(rows []store.ConstructionRow) map[string]struct{} {
	set := make(map[string]struct{})
	for _, row := range rows {
		for _, path := range row.ImagePaths() {
			set[path] = struct{}{}
		}
	}
	return set
}

func testingPaths(rows []store.TestingRow) map[string]struct{} {
	set := make(map[string]struct{})
	for _, row := range rows {
		if row.ImagePath != "" {
			set[row.ImagePath] = struct{}{}
		}
	}
	return set
}

func testingGroupPaths(groups []store.TestingGroup) map[string]struct{} {
	set := make(map[string]struct{})
	for _, group := range groups {
		for _, path := range group.Images {
			set[path] = struct{}{}
		}
	}
	return set
}
