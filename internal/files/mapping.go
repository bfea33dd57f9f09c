package files

import (
	"github.com/JaimeStill/esgdash/pkg/query"
	"github.com/JaimeStill/esgdash/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "files", "f").
	Project("id", "ID").
	Project("original_name", "OriginalName").
	Project("content_type", "ContentType").
	Project("size_bytes", "SizeBytes").
	Project("page_count", "PageCount").
	Project("storage_key", "StorageKey").
	Project("is_used", "IsUsed").
	Project("uploaded_at", "UploadedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "UploadedAt",
	Descending: true,
}

const returning = "id, original_name, content_type, size_bytes, page_count, storage_key, is_used, uploaded_at, updated_at"

func scanFile(s repository.Scanner) (File, error) {
	var f File
	err := s.Scan(
		&f.ID,
		&f.OriginalName,
		&f.ContentType,
		&f.SizeBytes,
		&f.PageCount,
		&f.StorageKey,
		&f.IsUsed,
		&f.UploadedAt,
		&f.UpdatedAt,
	)
	return f, err
}
