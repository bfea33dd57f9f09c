package registry

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
)

// Service is the remote storage service the registry reads from and writes through.
type Service interface {
	Upload(ctx context.Context, u Upload) (*FileRecord, error)
	ListAll(ctx context.Context) ([]FileRecord, error)
	ListUsed(ctx context.Context) ([]FileRecord, error)
	ToggleUsed(ctx context.Context, id int64) (*FileRecord, error)
	Remove(ctx context.Context, id int64) error
}

// Registry owns the client-side snapshot of file records. Every mutation
// is a server call followed by a full refresh; the snapshot is never
// updated optimistically.
type Registry struct {
	svc    Service
	logger *slog.Logger

	mu      sync.RWMutex
	records []FileRecord
	closed  bool
}

// New creates an empty Registry over svc. Call Refresh to load the first snapshot.
func New(svc Service, logger *slog.Logger) *Registry {
	return &Registry{
		svc:     svc,
		logger:  logger.With("system", "registry"),
		records: []FileRecord{},
	}
}

// Records returns a copy of the current snapshot.
func (r *Registry) Records() []FileRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.records)
}

// Find returns the record with the given id from the current snapshot.
func (r *Registry) Find(id int64) (FileRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i := slices.IndexFunc(r.records, func(f FileRecord) bool { return f.ID == id })
	if i < 0 {
		return FileRecord{}, false
	}
	return r.records[i], true
}

// IDs returns the ids of the current snapshot in snapshot order.
func (r *Registry) IDs() []int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]int64, len(r.records))
	for i, f := range r.records {
		ids[i] = f.ID
	}
	return ids
}

// Refresh replaces the snapshot with the service's full list. On failure the
// snapshot is left as it was. A refresh that completes after Close is discarded.
func (r *Registry) Refresh(ctx context.Context) error {
	if r.isClosed() {
		return ErrClosed
	}

	records, err := r.svc.ListAll(ctx)
	if err != nil {
		r.logger.Warn("refresh failed", "error", err)
		return fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	if records == nil {
		records = []FileRecord{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	r.records = records

	r.logger.Debug("registry refreshed", "count", len(records))
	return nil
}

// Upload sends u to the service and refreshes on success.
func (r *Registry) Upload(ctx context.Context, u Upload) (*FileRecord, error) {
	if r.isClosed() {
		return nil, ErrClosed
	}

	created, err := r.svc.Upload(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}

	r.logger.Info("file uploaded", "id", created.ID, "name", created.OriginalName)
	return created, r.Refresh(ctx)
}

// ToggleUsed flips the record's in-use flag on the service and refreshes on success.
func (r *Registry) ToggleUsed(ctx context.Context, id int64) error {
	if r.isClosed() {
		return ErrClosed
	}

	if _, err := r.svc.ToggleUsed(ctx, id); err != nil {
		return fmt.Errorf("%w: %w", ErrToggleFailed, err)
	}

	r.logger.Info("file usage toggled", "id", id)
	return r.Refresh(ctx)
}

// Remove deletes the record on the service and refreshes on success.
func (r *Registry) Remove(ctx context.Context, id int64) error {
	if r.isClosed() {
		return ErrClosed
	}

	if err := r.svc.Remove(ctx, id); err != nil {
		return fmt.Errorf("%w: %w", ErrDeleteFailed, err)
	}

	r.logger.Info("file removed", "id", id)
	return r.Refresh(ctx)
}

// Close stops the registry from accepting further snapshots. It is safe to call more than once.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
}

func (r *Registry) isClosed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.closed
}
