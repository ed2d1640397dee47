package report

import (
	"errors"
	"io/fs"
	"os"
)

// SectionKind distinguishes construction evidence sections from testing
// sections.
type SectionKind int

const (
	KindEvidence SectionKind = iota
	KindTesting
)

// Header is the project context repeated at the top of every section.
type Header struct {
	ProjectID      string
	ProjectName    string
	Location       string
	ContractorName string
	ProjectType    string
	ItemTitle      string
	ItemDetail     string
}

// ImageSlot is one image block inside a section. Missing slots render a
// literal placeholder instead of an embedded picture.
type ImageSlot struct {
	Label   string
	Path    string
	Missing bool
}

// Section is one page of the assembled document. Evidence sections carry the
// originating row index so the assembler can mark exactly those rows after a
// successful save; testing sections use RowIndex -1.
type Section struct {
	Kind          SectionKind
	RowIndex      int
	StationLimits string
	Images        []ImageSlot
}

// Document is the ordered, fully resolved report: evidence sections first
// (static row, then dynamic rows), testing sections after.
type Document struct {
	Header   Header
	Sections []Section
}

// EvidenceRowIndexes lists the construction row indexes included in the
// document, in section order.
func (d *Document) EvidenceRowIndexes() []int {
	indexes := make([]int, 0, len(d.Sections))
	for _, section := range d.Sections {
		if section.Kind == KindEvidence {
			indexes = append(indexes, section.RowIndex)
		}
	}
	return indexes
}

// newSlot stats the path once so writers never have to guess whether a
// placeholder is needed.
func newSlot(label, path string) ImageSlot {
	slot := ImageSlot{Label: label, Path: path}
	if path == "" {
		slot.Missing = true
		return slot
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		slot.Missing = true
	}
	return slot
}
