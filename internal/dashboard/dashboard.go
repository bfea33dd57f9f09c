// Package dashboard orchestrates the operator workflow: staging a candidate
// through the validator, uploading it, and managing the registry listing
// with sort, selection, usage toggles, and confirmed deletes.
package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/text/language"

	"github.com/JaimeStill/esgdash/internal/registry"
	"github.com/JaimeStill/esgdash/internal/validation"
)

var kst = time.FixedZone("KST", 9*60*60)

// FormatKST renders t as "YYYY-MM-DD HH:mm" in Korea Standard Time.
func FormatKST(t time.Time) string {
	return t.In(kst).Format("2006-01-02 15:04")
}

// ViewState is the complete client-side state of the dashboard.
type ViewState struct {
	Sort      registry.SortSpec
	Selection registry.Selection
	Pending   *validation.Candidate
	Loading   bool
}

// Row is one rendered file entry.
type Row struct {
	ID         int64
	Name       string
	UploadedAt string
	IsUsed     bool
	Selected   bool
}

// View is a render-ready snapshot of the dashboard.
type View struct {
	Used        []Row
	Others      []Row
	Selected    []int64
	AllSelected bool
	Sort        registry.SortSpec
	SortLabel   string
	OrderLabel  string
	Pending     string
	Loading     bool
	Empty       bool
	Total       int
}

// Dashboard composes the validator and registry behind a single view state.
// At most one server mutation runs at a time.
type Dashboard struct {
	validator validation.Validator
	registry  *registry.Registry
	notifier  Notifier
	locale    language.Tag
	logger    *slog.Logger

	act sync.Mutex

	mu    sync.Mutex
	state ViewState
}

// New creates a Dashboard with the default sort and an empty selection.
func New(
	validator validation.Validator,
	reg *registry.Registry,
	notifier Notifier,
	locale language.Tag,
	logger *slog.Logger,
) *Dashboard {
	return &Dashboard{
		validator: validator,
		registry:  reg,
		notifier:  notifier,
		locale:    locale,
		logger:    logger.With("system", "dashboard"),
		state:     ViewState{Sort: registry.DefaultSort},
	}
}

// Mount loads the first registry snapshot.
func (d *Dashboard) Mount(ctx context.Context) error {
	if err := d.registry.Refresh(ctx); err != nil {
		d.fetchFailed(ctx, err)
		return err
	}
	return nil
}

// Stage validates c and holds it as the pending upload when accepted.
// A rejected candidate clears any previously staged file.
func (d *Dashboard) Stage(ctx context.Context, c validation.Candidate) error {
	if err := d.validator.Check(ctx, c); err != nil {
		d.mu.Lock()
		d.state.Pending = nil
		d.mu.Unlock()

		d.notifier.Notify(ctx, NoticeRejected)
		return err
	}

	d.mu.Lock()
	d.state.Pending = &c
	d.mu.Unlock()
	return nil
}

// Discard drops the pending file without uploading it.
func (d *Dashboard) Discard() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.Pending = nil
}

// Upload sends the pending file. On failure the pending file is kept so
// the operator can retry.
func (d *Dashboard) Upload(ctx context.Context) error {
	d.mu.Lock()
	if d.state.Pending == nil {
		d.mu.Unlock()
		return ErrNoPendingFile
	}
	if d.state.Loading {
		d.mu.Unlock()
		return ErrBusy
	}
	pending := *d.state.Pending
	d.state.Loading = true
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		d.state.Loading = false
		d.mu.Unlock()
	}()

	d.act.Lock()
	defer d.act.Unlock()

	_, err := d.registry.Upload(ctx, registry.Upload{
		Name:        pending.Name,
		ContentType: pending.ContentType,
		Data:        pending.Data,
	})
	if errors.Is(err, registry.ErrClosed) {
		return err
	}
	if errors.Is(err, registry.ErrUploadFailed) {
		d.logger.Error("upload failed", "name", pending.Name, "error", err)
		d.notifier.Notify(ctx, NoticeUploadFailed)
		return err
	}

	d.mu.Lock()
	d.state.Pending = nil
	d.mu.Unlock()

	d.notifier.Notify(ctx, NoticeUploaded)
	if err != nil {
		d.fetchFailed(ctx, err)
	}
	return err
}

// Remove deletes a file after confirm approves the prompt.
func (d *Dashboard) Remove(ctx context.Context, id int64, confirm Confirmer) error {
	file, ok := d.registry.Find(id)
	if !ok {
		return registry.ErrNotFound
	}
	if !confirm.Confirm(ctx, ConfirmDeletePrompt(file.OriginalName)) {
		return ErrNotConfirmed
	}

	d.act.Lock()
	defer d.act.Unlock()

	err := d.registry.Remove(ctx, id)
	if errors.Is(err, registry.ErrClosed) {
		return err
	}
	if errors.Is(err, registry.ErrDeleteFailed) {
		d.logger.Error("delete failed", "id", id, "error", err)
		d.notifier.Notify(ctx, NoticeDeleteFailed)
		return err
	}

	d.mu.Lock()
	if d.state.Selection.Has(id) {
		d.state.Selection.Toggle(id)
	}
	d.mu.Unlock()

	d.notifier.Notify(ctx, NoticeDeleted)
	if err != nil {
		d.fetchFailed(ctx, err)
	}
	return err
}

// ToggleUsed flips whether a file is used for visualization.
func (d *Dashboard) ToggleUsed(ctx context.Context, id int64) error {
	file, ok := d.registry.Find(id)
	if !ok {
		return registry.ErrNotFound
	}

	d.act.Lock()
	defer d.act.Unlock()

	err := d.registry.ToggleUsed(ctx, id)
	if errors.Is(err, registry.ErrClosed) {
		return err
	}
	if errors.Is(err, registry.ErrToggleFailed) {
		d.logger.Error("toggle used failed", "id", id, "error", err)
		d.notifier.Notify(ctx, NoticeToggleFailed)
		return err
	}

	d.notifier.Notify(ctx, ToggledNotice(file.OriginalName))
	if err != nil {
		d.fetchFailed(ctx, err)
	}
	return err
}

// SetSort changes the active ordering.
func (d *Dashboard) SetSort(spec registry.SortSpec) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.Sort = spec
}

// ToggleAll selects every listed file, or clears the selection when all are selected.
func (d *Dashboard) ToggleAll() {
	ids := d.registry.IDs()

	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.Selection.ToggleAll(ids)
}

// ToggleSelect checks or unchecks a single file.
func (d *Dashboard) ToggleSelect(id int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.Selection.Toggle(id)
}

// View builds a render-ready snapshot from the registry and view state.
func (d *Dashboard) View() View {
	records := d.registry.Records()

	d.mu.Lock()
	defer d.mu.Unlock()

	sorted := registry.SortedViewIn(d.locale, records, d.state.Sort)
	used, others := registry.Partition(sorted)

	v := View{
		Used:        d.rows(used),
		Others:      d.rows(others),
		Selected:    d.state.Selection.IDs(),
		AllSelected: d.state.Selection.AllSelected(len(records)),
		Sort:        d.state.Sort,
		SortLabel:   registry.SortFieldLabel(d.state.Sort.Field),
		OrderLabel:  registry.SortOrderLabel(d.state.Sort.Order),
		Loading:     d.state.Loading,
		Empty:       len(records) == 0,
		Total:       len(records),
	}
	if d.state.Pending != nil {
		v.Pending = d.state.Pending.Name
	}
	return v
}

// rows requires d.mu.
func (d *Dashboard) rows(records []registry.FileRecord) []Row {
	rows := make([]Row, len(records))
	for i, r := range records {
		rows[i] = Row{
			ID:         r.ID,
			Name:       r.OriginalName,
			UploadedAt: FormatKST(r.UploadedAt.Time),
			IsUsed:     r.IsUsed,
			Selected:   d.state.Selection.Has(r.ID),
		}
	}
	return rows
}

// Close detaches the dashboard from the registry. Later refreshes do not
// change the snapshot.
func (d *Dashboard) Close() {
	d.registry.Close()
}

func (d *Dashboard) fetchFailed(ctx context.Context, err error) {
	if errors.Is(err, registry.ErrClosed) {
		return
	}
	d.logger.Warn("file list refresh failed", "error", err)
	d.notifier.Notify(ctx, NoticeFetchFailed)
}
