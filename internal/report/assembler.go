package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"fieldbook/internal/store"
)

// ErrNothingToReport signals that the item has no unreported construction
// rows and no testing rows. Informational: no document is produced and
// nothing is marked.
var ErrNothingToReport = errors.New("nothing to report")

// DocumentWriter renders an assembled document to a destination path. The
// CLI's XLSX writer is the production implementation; tests substitute
// stubs.
type DocumentWriter interface {
	Write(doc *Document, dest string) error
}

// Assembler builds report documents from the evidence repository.
type Assembler struct {
	store  *store.Store
	logger *slog.Logger
}

// NewAssembler constructs an assembler. The logger may be nil.
func NewAssembler(st *store.Store, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{store: st, logger: logger.With("component", "report")}
}

// Build assembles the document for one item without writing anything:
// unreported construction rows (static first) followed by every testing
// group in first-seen order. Returns ErrNothingToReport when both pools are
// empty.
func (a *Assembler) Build(ctx context.Context, key store.ItemKey) (*Document, error) {
	static, dynamic, err := a.store.UnreportedConstructionRows(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load unreported rows: %w", err)
	}
	groups, err := a.store.AllTestingRows(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load testing rows: %w", err)
	}
	if static == nil && len(dynamic) == 0 && len(groups) == 0 {
		return nil, fmt.Errorf("item %s: %w", key.String(), ErrNothingToReport)
	}

	doc := &Document{Header: a.buildHeader(ctx, key)}

	rows := make([]store.ConstructionRow, 0, 1+len(dynamic))
	if static != nil {
		rows = append(rows, *static)
	}
	rows = append(rows, dynamic...)
	for _, row := range rows {
		doc.Sections = append(doc.Sections, Section{
			Kind:          KindEvidence,
			RowIndex:      row.RowIndex,
			StationLimits: row.StationLimits,
			Images: []ImageSlot{
				newSlot("BEFORE", row.ImageBefore),
				newSlot("DURING", row.ImageDuring),
				newSlot("AFTER", row.ImageAfter),
			},
		})
	}

	caser := cases.Title(language.Und)
	for _, group := range groups {
		section := Section{Kind: KindTesting, RowIndex: -1}
		for _, path := range group.Images {
			section.Images = append(section.Images, newSlot(caser.String(group.Name), path))
		}
		doc.Sections = append(doc.Sections, section)
	}
	return doc, nil
}

// Generate builds the item's document, writes it through the given writer,
// and marks the included construction rows as reported. A writer failure
// marks nothing, so the next attempt sees the same unreported rows.
func (a *Assembler) Generate(ctx context.Context, key store.ItemKey, writer DocumentWriter, dest string) (*Document, error) {
	doc, err := a.Build(ctx, key)
	if err != nil {
		return nil, err
	}

	if err := writer.Write(doc, dest); err != nil {
		return nil, fmt.Errorf("write report %s: %w", dest, err)
	}

	indexes := doc.EvidenceRowIndexes()
	if len(indexes) > 0 {
		if err := a.store.MarkConstructionReported(ctx, key, indexes); err != nil {
			return nil, fmt.Errorf("mark rows reported: %w", err)
		}
	}

	a.logger.Info("report generated",
		"item", key.String(),
		"destination", dest,
		"evidence_sections", len(indexes),
		"sections", len(doc.Sections),
	)
	return doc, nil
}

// buildHeader gathers the latest project record and the item's registration
// details. Both are optional context: a missing project or unregistered item
// degrades the header, never the report.
func (a *Assembler) buildHeader(ctx context.Context, key store.ItemKey) Header {
	header := Header{ItemTitle: "Item " + key.Number + ": " + key.Name}

	project, err := a.store.LatestProject(ctx)
	if err != nil {
		a.logger.Warn("project header unavailable", "error", err)
	} else if project != nil {
		header.ProjectID = project.ProjectID
		header.ProjectName = project.ProjectName
		header.Location = project.Location
		header.ContractorName = project.ContractorName
		header.ProjectType = project.ProjectType
	}

	item, err := a.store.GetItem(ctx, key)
	if err != nil {
		a.logger.Warn("item detail unavailable", "item", key.String(), "error", err)
	} else if item != nil {
		header.ItemDetail = fmt.Sprintf("Quantity: %g %s", item.Quantity, item.Unit)
	} else {
		a.logger.Warn("item not registered in selected items", "item", key.String())
	}
	return header
}
