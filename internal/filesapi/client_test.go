package filesapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/JaimeStill/esgdash/internal/filesapi"
	"github.com/JaimeStill/esgdash/internal/registry"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func newClient(t *testing.T, handler http.Handler) *filesapi.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &filesapi.Config{
		BaseURL:            srv.URL + "/api",
		BreakerMinRequests: 2,
		BreakerOpenTimeout: "1m",
	}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	return filesapi.New(cfg, srv.Client(), discard)
}

func TestListAll(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/files", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[
			{"id": 2, "originalName": "a.pdf", "uploadedAt": "2024-03-01T09:00:00", "isUsed": true, "sizeBytes": 10},
			{"id": 1, "originalName": "b.pdf", "uploadedAt": "2024-02-01T09:00:00Z", "isUsed": false}
		]`)
	})

	records, err := newClient(t, mux).ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len = %d, want 2", len(records))
	}

	got := records[0]
	want := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	if got.ID != 2 || got.OriginalName != "a.pdf" || !got.IsUsed || !got.UploadedAt.Equal(want) {
		t.Errorf("record = %+v", got)
	}
}

func TestListUsedEmpty(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/files/used", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[]`)
	})

	records, err := newClient(t, mux).ListUsed(context.Background())
	if err != nil {
		t.Fatalf("ListUsed: %v", err)
	}
	if records == nil || len(records) != 0 {
		t.Errorf("records = %#v, want empty slice", records)
	}
}

func TestUploadSendsMultipartFile(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/files/upload", func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)

		if header.Filename != "ESG 보고서.pdf" {
			t.Errorf("filename = %q", header.Filename)
		}
		if ct := header.Header.Get("Content-Type"); ct != "application/pdf" {
			t.Errorf("part content-type = %q", ct)
		}
		if string(data) != "%PDF-body" {
			t.Errorf("data = %q", data)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"id":           7,
			"originalName": header.Filename,
			"uploadedAt":   "2024-03-01T09:00:00Z",
			"isUsed":       false,
		})
	})

	created, err := newClient(t, mux).Upload(context.Background(), registry.Upload{
		Name:        "ESG 보고서.pdf",
		ContentType: "application/pdf",
		Data:        []byte("%PDF-body"),
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if created.ID != 7 || created.OriginalName != "ESG 보고서.pdf" {
		t.Errorf("created = %+v", created)
	}
}

func TestToggleUsedAndRemove(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PATCH /api/files/{id}/toggle-used", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"id": `+r.PathValue("id")+`, "originalName": "a.pdf", "uploadedAt": "2024-03-01T09:00:00Z", "isUsed": true}`)
	})
	mux.HandleFunc("DELETE /api/files/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	c := newClient(t, mux)
	ctx := context.Background()

	updated, err := c.ToggleUsed(ctx, 3)
	if err != nil {
		t.Fatalf("ToggleUsed: %v", err)
	}
	if updated.ID != 3 || !updated.IsUsed {
		t.Errorf("updated = %+v", updated)
	}

	if err := c.Remove(ctx, 3); err != nil {
		t.Errorf("Remove: %v", err)
	}
}

func TestStatusError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /api/files/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"error":"file not found"}`)
	})

	err := newClient(t, mux).Remove(context.Background(), 42)

	var se *filesapi.StatusError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want *StatusError", err)
	}
	if se.Op != "remove" || se.Code != http.StatusNotFound || se.Message != "file not found" {
		t.Errorf("status error = %+v", se)
	}
	if filesapi.StatusCode(err) != http.StatusNotFound {
		t.Errorf("StatusCode = %d", filesapi.StatusCode(err))
	}
}

func TestBreakerOpensOnServerErrorsWithoutRetry(t *testing.T) {
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/files", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	c := newClient(t, mux)
	ctx := context.Background()

	for range 2 {
		if _, err := c.ListAll(ctx); filesapi.StatusCode(err) != http.StatusInternalServerError {
			t.Fatalf("err = %v, want 500", err)
		}
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("server calls = %d, want 2 (no retries)", got)
	}

	_, err := c.ListAll(ctx)
	if !filesapi.IsCircuitOpen(err) {
		t.Fatalf("err = %v, want open circuit", err)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("server calls = %d, open circuit should short-circuit", got)
	}
}

func TestBreakerIgnoresClientErrors(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PATCH /api/files/{id}/toggle-used", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	c := newClient(t, mux)
	for range 5 {
		_, err := c.ToggleUsed(context.Background(), 1)
		if filesapi.IsCircuitOpen(err) {
			t.Fatal("client errors should not open the circuit")
		}
	}
}

func TestConfigFinalize(t *testing.T) {
	t.Setenv("TEST_CLIENT_BASE_URL", "http://files.internal:9000/api/")

	cfg := &filesapi.Config{}
	if err := cfg.Finalize(&filesapi.Env{BaseURL: "TEST_CLIENT_BASE_URL"}); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if cfg.BaseURL != "http://files.internal:9000/api" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.TimeoutDuration() != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.TimeoutDuration())
	}

	bad := &filesapi.Config{BaseURL: "not a url"}
	if err := bad.Finalize(nil); err == nil {
		t.Error("expected error for invalid base_url")
	}
}
