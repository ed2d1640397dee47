package store

// ItemKey identifies a construction work item within the active project.
type ItemKey struct {
	Number string
	Name   string
}

func (k ItemKey) String() string {
	return k.Number + " " + k.Name
}

// ConstructionRow is one photographic evidence record for an item. Row 0 is
// the static row; rows >= 1 are user-added dynamic rows.
type ConstructionRow struct {
	RowIndex        int
	ImageBefore     string
	ImageDuring     string
	ImageAfter      string
	StationLimits   string
	ReportGenerated bool
	UploadDate      string
}

// Empty reports whether the row carries no content at all. Empty rows are
// never persisted.
func (r ConstructionRow) Empty() bool {
	return r.ImageBefore == "" && r.ImageDuring == "" && r.ImageAfter == "" && r.StationLimits == ""
}

// SameContent compares the four content fields exactly. Upload date and the
// reported flag are deliberately excluded: this is the comparison that
// decides whether the reported flag survives a reconciliation pass.
func (r ConstructionRow) SameContent(o ConstructionRow) bool {
	return r.ImageBefore == o.ImageBefore &&
		r.ImageDuring == o.ImageDuring &&
		r.ImageAfter == o.ImageAfter &&
		r.StationLimits == o.StationLimits
}

// ImagePaths returns the non-empty image paths referenced by the row.
func (r ConstructionRow) ImagePaths() []string {
	paths := make([]string, 0, 3)
	for _, p := range []string{r.ImageBefore, r.ImageDuring, r.ImageAfter} {
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

// TestingRow is one image belonging to a named test group for an item.
type TestingRow struct {
	TestIndex  int
	TestName   string
	ImagePath  string
	UploadDate string
}

// TestingGroup is a named collection of testing images in insertion order.
type TestingGroup struct {
	Name   string
	Images []string
}

// Project is the active project's header context for reports.
type Project struct {
	ProjectID      string
	ProjectName    string
	Location       string
	ContractorName string
	ProjectType    string
}

// Item is a selected construction work item. Produced externally (Excel
// import or manual selection); read-only to the evidence engine.
type Item struct {
	Number   string
	Name     string
	Quantity float64
	Unit     string
}

// Key returns the item's evidence key.
func (i Item) Key() ItemKey {
	return ItemKey{Number: i.Number, Name: i.Name}
}
