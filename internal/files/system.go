package files

import (
	"context"

	"github.com/JaimeStill/esgdash/pkg/storage"
)

// System defines the public contract for file domain operations.
type System interface {
	Handler(maxUploadSize int64) *Handler

	List(ctx context.Context) ([]File, error)
	ListUsed(ctx context.Context) ([]File, error)
	Find(ctx context.Context, id int64) (*File, error)
	Create(ctx context.Context, cmd CreateCommand) (*File, error)
	ToggleUsed(ctx context.Context, id int64) (*File, error)
	Delete(ctx context.Context, id int64) error

	// Download returns the file metadata and an open blob stream. The caller must close Body.
	Download(ctx context.Context, id int64) (*File, *storage.Blob, error)
}
