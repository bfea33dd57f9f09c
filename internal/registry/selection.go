package registry

import "slices"

// Selection is the set of checked record IDs, kept in the order they were
// checked. It is independent of FileRecord.IsUsed. The zero value is empty
// and ready to use.
type Selection struct {
	ids []int64
}

// ToggleAll clears the selection when it already holds as many IDs as the
// live collection, otherwise selects every ID in ids.
func (s *Selection) ToggleAll(ids []int64) {
	if len(s.ids) == len(ids) {
		s.Clear()
		return
	}
	s.ids = slices.Clone(ids)
}

// Toggle adds id if absent and removes it if present.
func (s *Selection) Toggle(id int64) {
	if i := slices.Index(s.ids, id); i >= 0 {
		s.ids = slices.Delete(s.ids, i, i+1)
		return
	}
	s.ids = append(s.ids, id)
}

func (s *Selection) Has(id int64) bool {
	return slices.Contains(s.ids, id)
}

func (s *Selection) Len() int {
	return len(s.ids)
}

// IDs returns a copy of the selected IDs.
func (s *Selection) IDs() []int64 {
	return slices.Clone(s.ids)
}

func (s *Selection) Clear() {
	s.ids = nil
}

// AllSelected reports whether the selection covers a non-empty collection of n records.
func (s *Selection) AllSelected(n int) bool {
	return n > 0 && len(s.ids) == n
}
