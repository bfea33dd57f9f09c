package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/JaimeStill/esgdash/internal/registry"
	"github.com/JaimeStill/esgdash/internal/testutil"
)

type fakeAPI struct {
	mu      sync.Mutex
	files   []registry.FileRecord
	deleted []string
	toggled []string
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/files", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		json.NewEncoder(w).Encode(f.files)
	})
	mux.HandleFunc("GET /api/files/used", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		used := []registry.FileRecord{}
		for _, file := range f.files {
			if file.IsUsed {
				used = append(used, file)
			}
		}
		json.NewEncoder(w).Encode(used)
	})
	mux.HandleFunc("PATCH /api/files/{id}/toggle-used", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.toggled = append(f.toggled, r.PathValue("id"))
		json.NewEncoder(w).Encode(f.files[0])
	})
	mux.HandleFunc("DELETE /api/files/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.deleted = append(f.deleted, r.PathValue("id"))
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

func newFakeAPI(t *testing.T) (*fakeAPI, string) {
	t.Helper()

	at := func(s string) registry.Timestamp {
		ts, err := registry.ParseTimestamp(s)
		if err != nil {
			t.Fatal(err)
		}
		return ts
	}

	api := &fakeAPI{
		files: []registry.FileRecord{
			{ID: 1, OriginalName: "나-report.pdf", UploadedAt: at("2024-03-02T00:30:00Z")},
			{ID: 2, OriginalName: "가-report.pdf", UploadedAt: at("2024-03-01T15:00:00Z"), IsUsed: true},
		},
	}

	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	cfg := "[client]\nbase_url = \"" + srv.URL + "/api\"\n"
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	return api, path
}

func runCmd(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return stdout.String(), err
}

func TestList(t *testing.T) {
	_, cfg := newFakeAPI(t)

	tests := []struct {
		name  string
		args  []string
		first string
	}{
		{"newest first", []string{"list"}, "나-report.pdf"},
		{"name ascending", []string{"list", "-sort", "name", "-order", "asc"}, "가-report.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCmd(t, "", append([]string{"-config", cfg}, tt.args...)...)
			if err != nil {
				t.Fatalf("run: %v", err)
			}

			lines := strings.Split(strings.TrimSpace(out), "\n")
			if len(lines) != 3 {
				t.Fatalf("lines = %d, want 3\n%s", len(lines), out)
			}
			if !strings.HasPrefix(lines[0], "ID") {
				t.Errorf("header = %q", lines[0])
			}
			if !strings.HasSuffix(lines[1], tt.first) {
				t.Errorf("first row = %q, want %s", lines[1], tt.first)
			}
		})
	}

	t.Run("invalid sort", func(t *testing.T) {
		if _, err := runCmd(t, "", "-config", cfg, "list", "-sort", "color"); err == nil {
			t.Error("expected error for unknown sort field")
		}
	})
}

func TestUsed(t *testing.T) {
	_, cfg := newFakeAPI(t)

	out, err := runCmd(t, "", "-config", cfg, "used")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "가-report.pdf") || strings.Contains(out, "나-report.pdf") {
		t.Errorf("output = %q", out)
	}
	if !strings.Contains(out, "2024-03-02 00:00") {
		t.Errorf("output missing KST time: %q", out)
	}
}

func TestRemove(t *testing.T) {
	tests := []struct {
		name    string
		stdin   string
		args    []string
		deleted int
	}{
		{"declined", "n\n", []string{"rm", "1"}, 0},
		{"confirmed", "y\n", []string{"rm", "1"}, 1},
		{"yes flag", "", []string{"rm", "-yes", "1"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api, cfg := newFakeAPI(t)

			out, err := runCmd(t, tt.stdin, append([]string{"-config", cfg}, tt.args...)...)
			if err != nil {
				t.Fatalf("run: %v", err)
			}
			if len(api.deleted) != tt.deleted {
				t.Errorf("deleted = %v, want %d calls", api.deleted, tt.deleted)
			}
			if tt.args[1] != "-yes" && !strings.Contains(out, "나-report.pdf 파일을 삭제하시겠습니까?") {
				t.Errorf("prompt missing: %q", out)
			}
		})
	}

	t.Run("invalid id", func(t *testing.T) {
		_, cfg := newFakeAPI(t)
		if _, err := runCmd(t, "", "-config", cfg, "rm", "abc"); err == nil {
			t.Error("expected error for invalid id")
		}
	})
}

func TestToggle(t *testing.T) {
	api, cfg := newFakeAPI(t)

	out, err := runCmd(t, "", "-config", cfg, "toggle", "1")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(api.toggled) != 1 || api.toggled[0] != "1" {
		t.Errorf("toggled = %v", api.toggled)
	}
	if !strings.Contains(out, "나-report.pdf") {
		t.Errorf("notice missing: %q", out)
	}
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.toml")

	write := func(name string, data []byte) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	good := write("report.pdf", testutil.BuildPDF("ESG self-assessment"))
	plain := write("plain.pdf", testutil.BuildPDF("quarterly sales"))
	notes := write("notes.txt", []byte("ESG"))

	t.Run("all accepted", func(t *testing.T) {
		out, err := runCmd(t, "", "-config", cfg, "validate", good)
		if err != nil {
			t.Fatalf("run: %v", err)
		}
		if !strings.HasPrefix(out, "OK") {
			t.Errorf("output = %q", out)
		}
	})

	t.Run("rejections reported in order", func(t *testing.T) {
		out, err := runCmd(t, "", "-config", cfg, "validate", "-workers", "2", good, plain, notes)
		if !errors.Is(err, errRejected) {
			t.Fatalf("err = %v, want errRejected", err)
		}

		lines := strings.Split(strings.TrimSpace(out), "\n")
		if len(lines) != 3 {
			t.Fatalf("lines = %d, want 3\n%s", len(lines), out)
		}
		for i, want := range []string{"OK", "REJECT", "REJECT"} {
			if !strings.HasPrefix(lines[i], want) {
				t.Errorf("line %d = %q, want prefix %s", i, lines[i], want)
			}
		}
		if !strings.Contains(lines[2], "extension") {
			t.Errorf("line 2 = %q, want extension reason", lines[2])
		}
	})
}

func TestUnknownCommand(t *testing.T) {
	_, cfg := newFakeAPI(t)
	if _, err := runCmd(t, "", "-config", cfg, "frobnicate"); err == nil {
		t.Error("expected error for unknown command")
	}
}
