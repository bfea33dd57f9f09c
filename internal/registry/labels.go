package registry

// SortFieldLabel returns the dashboard label for a sort field.
func SortFieldLabel(f SortField) string {
	switch f {
	case SortByName:
		return "이름"
	case SortBySize:
		return "크기"
	default:
		return "올린 날짜"
	}
}

// SortOrderLabel returns the dashboard label for a sort order.
func SortOrderLabel(o SortOrder) string {
	if o == Ascending {
		return "오름차순"
	}
	return "최신순"
}
