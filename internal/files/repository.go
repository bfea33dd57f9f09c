package files

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/JaimeStill/esgdash/internal/validation"
	"github.com/JaimeStill/esgdash/pkg/query"
	"github.com/JaimeStill/esgdash/pkg/repository"
	"github.com/JaimeStill/esgdash/pkg/storage"
)

type repo struct {
	db        *sql.DB
	storage   storage.System
	validator validation.Validator
	logger    *slog.Logger
}

// New creates a file repository implementing the System interface.
// Every Create runs the validator before anything is written.
func New(
	db *sql.DB,
	store storage.System,
	validator validation.Validator,
	logger *slog.Logger,
) System {
	return &repo{
		db:        db,
		storage:   store,
		validator: validator,
		logger:    logger.With("system", "files"),
	}
}

func (r *repo) Handler(maxUploadSize int64) *Handler {
	return NewHandler(r, r.logger, maxUploadSize)
}

func (r *repo) List(ctx context.Context) ([]File, error) {
	q, args := query.NewBuilder(projection, defaultSort).Build()

	files, err := repository.QueryMany(ctx, r.db, q, args, scanFile)
	if err != nil {
		return nil, fmt.Errorf("query files: %w", err)
	}
	return files, nil
}

func (r *repo) ListUsed(ctx context.Context) ([]File, error) {
	q, args := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("IsUsed", true).
		Build()

	files, err := repository.QueryMany(ctx, r.db, q, args, scanFile)
	if err != nil {
		return nil, fmt.Errorf("query used files: %w", err)
	}
	return files, nil
}

func (r *repo) Find(ctx context.Context, id int64) (*File, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	f, err := repository.QueryOne(ctx, r.db, q, args, scanFile)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &f, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*File, error) {
	candidate := validation.Candidate{
		Name:        cmd.Filename,
		ContentType: cmd.ContentType,
		Data:        cmd.Data,
	}
	if err := r.validator.Check(ctx, candidate); err != nil {
		return nil, err
	}

	key := buildStorageKey(uuid.New(), sanitizeFilename(cmd.Filename))

	if err := r.storage.Upload(ctx, key, bytes.NewReader(cmd.Data), cmd.ContentType); err != nil {
		return nil, fmt.Errorf("upload file blob: %w", err)
	}

	q := `
		INSERT INTO files(original_name, content_type, size_bytes, page_count, storage_key)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + returning

	insertArgs := []any{
		cmd.Filename,
		cmd.ContentType,
		int64(len(cmd.Data)),
		cmd.PageCount,
		key,
	}

	f, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (File, error) {
		return repository.QueryOne(ctx, tx, q, insertArgs, scanFile)
	})

	if err != nil {
		if delErr := r.storage.Delete(ctx, key); delErr != nil {
			r.logger.Warn("compensating blob delete failed", "key", key, "error", delErr)
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("file created", "id", f.ID, "name", f.OriginalName)
	return &f, nil
}

func (r *repo) ToggleUsed(ctx context.Context, id int64) (*File, error) {
	q := `
		UPDATE files
		SET is_used = NOT is_used, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + returning

	f, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (File, error) {
		return repository.QueryOne(ctx, tx, q, []any{id}, scanFile)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("file usage toggled", "id", f.ID, "is_used", f.IsUsed)
	return &f, nil
}

func (r *repo) Delete(ctx context.Context, id int64) error {
	f, err := r.Find(ctx, id)
	if err != nil {
		return err
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM files WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if delErr := r.storage.Delete(ctx, f.StorageKey); delErr != nil {
		r.logger.Warn(
			"blob delete failed after DB delete",
			"key", f.StorageKey,
			"error", delErr,
		)
	}

	r.logger.Info("file deleted", "id", id)
	return nil
}

func (r *repo) Download(ctx context.Context, id int64) (*File, *storage.Blob, error) {
	f, err := r.Find(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	blob, err := r.storage.Download(ctx, f.StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: blob missing for %d", ErrNotFound, id)
		}
		return nil, nil, fmt.Errorf("download file blob: %w", err)
	}

	return f, blob, nil
}

func buildStorageKey(id uuid.UUID, filename string) string {
	return fmt.Sprintf("files/%s/%s", id, filename)
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	if name == "." || name == "/" || name == "" {
		name = "report.pdf"
	}
	return url.PathEscape(name)
}
