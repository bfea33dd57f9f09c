package registry

// Partition splits records into those marked in use and the rest,
// preserving the input order within each group.
func Partition(records []FileRecord) (used, others []FileRecord) {
	used = make([]FileRecord, 0)
	others = make([]FileRecord, 0, len(records))
	for _, r := range records {
		if r.IsUsed {
			used = append(used, r)
		} else {
			others = append(others, r)
		}
	}
	return used, others
}
