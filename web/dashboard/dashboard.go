// Package dashboard serves the operator page for the ESG report registry
// as server-rendered HTML over the client-side dashboard state.
package dashboard

import (
	"context"
	"embed"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	dash "github.com/JaimeStill/esgdash/internal/dashboard"
	"github.com/JaimeStill/esgdash/internal/registry"
	"github.com/JaimeStill/esgdash/internal/validation"
	"github.com/JaimeStill/esgdash/pkg/module"
	"github.com/JaimeStill/esgdash/pkg/web"
)

//go:embed layouts views static
var content embed.FS

const layout = "app"

var (
	dashboardView = web.ViewDef{Route: "/{$}", Template: "dashboard.html", Title: "ESG 보고서 관리"}
	notFoundView  = web.ViewDef{Template: "not-found.html", Title: "페이지를 찾을 수 없습니다"}
)

// Options configures the dashboard module.
type Options struct {
	BasePath      string
	APIPath       string
	MaxUploadSize int64
}

// Handler serves the dashboard page and the form actions that drive it.
type Handler struct {
	dash   *dash.Dashboard
	flash  *Flash
	opts   Options
	logger *slog.Logger
}

// NewModule creates the dashboard module at opts.BasePath. Notices raised by d
// must be delivered to flash for them to appear on the page.
func NewModule(d *dash.Dashboard, flash *Flash, opts Options, logger *slog.Logger) (*module.Module, error) {
	ts, err := web.NewTemplateSet(
		content, content,
		"layouts/*.html", "views",
		opts.BasePath,
		[]web.ViewDef{dashboardView, notFoundView},
	)
	if err != nil {
		return nil, err
	}

	h := &Handler{
		dash:   d,
		flash:  flash,
		opts:   opts,
		logger: logger.With("module", "dashboard"),
	}

	router := web.NewRouter()
	router.HandleFunc("GET "+dashboardView.Route, ts.PageHandler(layout, dashboardView, h.load))
	router.HandleFunc("GET /static/", web.DistServer(content, "static", "/static/"))
	router.HandleFunc("POST /stage", h.stage)
	router.HandleFunc("POST /discard", h.discard)
	router.HandleFunc("POST /upload", h.upload)
	router.HandleFunc("POST /sort", h.sort)
	router.HandleFunc("POST /select", h.toggleAll)
	router.HandleFunc("POST /select/{id}", h.toggleSelect)
	router.HandleFunc("POST /files/{id}/toggle", h.toggleUsed)
	router.HandleFunc("POST /files/{id}/delete", h.remove)
	router.SetFallback(ts.ErrorHandler(layout, notFoundView, http.StatusNotFound))

	return module.New(opts.BasePath, router), nil
}

type option struct {
	Value    string
	Label    string
	Selected bool
}

type row struct {
	dash.Row
	Prompt   string
	BasePath string
	APIPath  string
}

type page struct {
	View         dash.View
	Used         []row
	Others       []row
	Fields       []option
	Orders       []option
	EmptyMessage string
	Notices      []string
}

// load refreshes the registry on every page view so a reload shows the server's state.
func (h *Handler) load(r *http.Request) any {
	if err := h.dash.Mount(r.Context()); err != nil {
		h.logger.Warn("dashboard mount failed", "error", err)
	}

	v := h.dash.View()
	p := page{
		View:         v,
		Used:         h.rows(v.Used),
		Others:       h.rows(v.Others),
		EmptyMessage: dash.EmptyMessage,
		Notices:      h.flash.Drain(),
	}

	for _, f := range []registry.SortField{registry.SortByDate, registry.SortByName, registry.SortBySize} {
		p.Fields = append(p.Fields, option{
			Value:    string(f),
			Label:    registry.SortFieldLabel(f),
			Selected: v.Sort.Field == f,
		})
	}
	for _, o := range []registry.SortOrder{registry.Descending, registry.Ascending} {
		p.Orders = append(p.Orders, option{
			Value:    string(o),
			Label:    registry.SortOrderLabel(o),
			Selected: v.Sort.Order == o,
		})
	}
	return p
}

func (h *Handler) rows(in []dash.Row) []row {
	out := make([]row, len(in))
	for i, r := range in {
		out[i] = row{
			Row:      r,
			Prompt:   dash.ConfirmDeletePrompt(r.Name),
			BasePath: h.opts.BasePath,
			APIPath:  h.opts.APIPath,
		}
	}
	return out
}

func (h *Handler) stage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxUploadSize)

	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		h.redirect(w, r)
		return
	}
	if err != nil {
		h.logger.Warn("stage form read failed", "error", err)
		h.flash.Notify(r.Context(), dash.NoticeRejected)
		h.redirect(w, r)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.Warn("stage file read failed", "error", err)
		h.flash.Notify(r.Context(), dash.NoticeRejected)
		h.redirect(w, r)
		return
	}

	candidate := validation.Candidate{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}
	if err := h.dash.Stage(r.Context(), candidate); err != nil {
		h.logger.Info("file rejected", "name", header.Filename, "error", err)
	}
	h.redirect(w, r)
}

func (h *Handler) discard(w http.ResponseWriter, r *http.Request) {
	h.dash.Discard()
	h.redirect(w, r)
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	if err := h.dash.Upload(r.Context()); err != nil {
		h.logger.Warn("upload failed", "error", err)
	}
	h.redirect(w, r)
}

func (h *Handler) sort(w http.ResponseWriter, r *http.Request) {
	field, err := registry.ParseSortField(r.FormValue("field"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	order, err := registry.ParseSortOrder(r.FormValue("order"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.dash.SetSort(registry.SortSpec{Field: field, Order: order})
	h.redirect(w, r)
}

func (h *Handler) toggleAll(w http.ResponseWriter, r *http.Request) {
	h.dash.ToggleAll()
	h.redirect(w, r)
}

func (h *Handler) toggleSelect(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	h.dash.ToggleSelect(id)
	h.redirect(w, r)
}

func (h *Handler) toggleUsed(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.dash.ToggleUsed(r.Context(), id); err != nil {
		h.logger.Warn("toggle used failed", "id", id, "error", err)
	}
	h.redirect(w, r)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	confirmed := r.FormValue("confirm") == "yes"
	confirm := dash.ConfirmFunc(func(_ context.Context, _ string) bool {
		return confirmed
	})

	err := h.dash.Remove(r.Context(), id, confirm)
	switch {
	case err == nil, errors.Is(err, dash.ErrNotConfirmed):
	default:
		h.logger.Warn("remove failed", "id", id, "error", err)
	}
	h.redirect(w, r)
}

func (h *Handler) redirect(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.opts.BasePath+"/", http.StatusSeeOther)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid file id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
