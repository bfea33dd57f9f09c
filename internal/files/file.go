// Package files implements the file storage API behind the operator dashboard.
// It persists uploaded ESG reports as blobs with a metadata row per file and
// exposes the list, toggle, and delete operations the registry consumes.
package files

import "time"

// File is a stored report with its metadata and blob storage reference.
// The id, originalName, uploadedAt, and isUsed fields form the record shape
// the dashboard client decodes.
type File struct {
	ID           int64     `json:"id"`
	OriginalName string    `json:"originalName"`
	ContentType  string    `json:"contentType"`
	SizeBytes    int64     `json:"sizeBytes"`
	PageCount    *int      `json:"pageCount"`
	StorageKey   string    `json:"storageKey"`
	IsUsed       bool      `json:"isUsed"`
	UploadedAt   time.Time `json:"uploadedAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// CreateCommand carries the data needed to validate, store, and register a file.
// PageCount is optional; nil is stored as NULL.
type CreateCommand struct {
	Data        []byte
	Filename    string
	ContentType string
	PageCount   *int
}
