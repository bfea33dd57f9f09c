package registry

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortField selects the attribute a view is ordered by.
type SortField string

const (
	SortByName SortField = "name"
	SortByDate SortField = "date"
	// SortBySize has no backing attribute on FileRecord; it keeps input order.
	SortBySize SortField = "size"
)

// SortOrder selects the direction of a view.
type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// SortSpec is the active ordering of the dashboard.
type SortSpec struct {
	Field SortField
	Order SortOrder
}

// DefaultSort shows the newest upload first.
var DefaultSort = SortSpec{Field: SortByDate, Order: Descending}

// DefaultLocale orders names the way the operators read them.
var DefaultLocale = language.Korean

// ParseSortField parses "name", "date", or "size".
func ParseSortField(s string) (SortField, error) {
	switch f := SortField(strings.ToLower(strings.TrimSpace(s))); f {
	case SortByName, SortByDate, SortBySize:
		return f, nil
	}
	return "", fmt.Errorf("unknown sort field %q", s)
}

// ParseSortOrder parses "asc" or "desc" (or their long forms).
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	}
	return "", fmt.Errorf("unknown sort order %q", s)
}

// SortedView returns a new slice of records ordered by spec using the default locale.
func SortedView(records []FileRecord, spec SortSpec) []FileRecord {
	return SortedViewIn(DefaultLocale, records, spec)
}

// SortedViewIn returns a new slice of records ordered by spec, comparing
// names with the collation rules of tag. The input is not modified and
// records that compare equal keep their relative order.
func SortedViewIn(tag language.Tag, records []FileRecord, spec SortSpec) []FileRecord {
	sorted := slices.Clone(records)
	if sorted == nil {
		sorted = []FileRecord{}
	}

	cmp := comparator(tag, spec.Field)
	if spec.Order == Descending {
		asc := cmp
		cmp = func(a, b FileRecord) int { return -asc(a, b) }
	}

	slices.SortStableFunc(sorted, cmp)
	return sorted
}

func comparator(tag language.Tag, field SortField) func(a, b FileRecord) int {
	switch field {
	case SortByName:
		// a Collator is not safe for concurrent use, so each view gets its own
		col := collate.New(tag)
		return func(a, b FileRecord) int {
			return col.CompareString(a.OriginalName, b.OriginalName)
		}
	case SortBySize:
		return func(a, b FileRecord) int { return 0 }
	default:
		return func(a, b FileRecord) int {
			return a.UploadedAt.Compare(b.UploadedAt.Time)
		}
	}
}
