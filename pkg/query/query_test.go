package query_test

import (
	"testing"

	"github.com/JaimeStill/esgdash/pkg/query"
)

func filesProjection() *query.ProjectionMap {
	return query.NewProjectionMap("public", "files", "f").
		Project("id", "id").
		Project("original_name", "originalName").
		Project("is_used", "isUsed").
		Project("uploaded_at", "uploadedAt")
}

func TestProjectionMap(t *testing.T) {
	p := filesProjection()

	if got, want := p.Table(), "public.files f"; got != want {
		t.Errorf("Table() = %q, want %q", got, want)
	}
	if got, want := p.Columns(), "f.id, f.original_name, f.is_used, f.uploaded_at"; got != want {
		t.Errorf("Columns() = %q, want %q", got, want)
	}

	tests := []struct {
		viewName string
		want     string
	}{
		{"originalName", "f.original_name"},
		{"uploadedAt", "f.uploaded_at"},
		{"unknown", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.viewName, func(t *testing.T) {
			if got := p.Column(tt.viewName); got != tt.want {
				t.Errorf("Column(%q) = %q, want %q", tt.viewName, got, tt.want)
			}
		})
	}
}

func TestBuild(t *testing.T) {
	newest := query.SortField{Field: "uploadedAt", Descending: true}
	cols := "f.id, f.original_name, f.is_used, f.uploaded_at"

	tests := []struct {
		name     string
		build    func() *query.Builder
		wantSQL  string
		wantArgs int
	}{
		{
			name:    "default sort",
			build:   func() *query.Builder { return query.NewBuilder(filesProjection(), newest) },
			wantSQL: "SELECT " + cols + " FROM public.files f ORDER BY f.uploaded_at DESC",
		},
		{
			name: "where equals",
			build: func() *query.Builder {
				return query.NewBuilder(filesProjection(), newest).WhereEquals("isUsed", true)
			},
			wantSQL:  "SELECT " + cols + " FROM public.files f WHERE f.is_used = $1 ORDER BY f.uploaded_at DESC",
			wantArgs: 1,
		},
		{
			name: "nil condition skipped",
			build: func() *query.Builder {
				var used *bool
				return query.NewBuilder(filesProjection()).WhereEquals("isUsed", used)
			},
			wantSQL: "SELECT " + cols + " FROM public.files f",
		},
		{
			name: "explicit order overrides default",
			build: func() *query.Builder {
				return query.NewBuilder(filesProjection(), newest).
					WhereEquals("isUsed", false).
					WhereEquals("originalName", "a.pdf").
					OrderByFields(query.SortField{Field: "originalName"})
			},
			wantSQL:  "SELECT " + cols + " FROM public.files f WHERE f.is_used = $1 AND f.original_name = $2 ORDER BY f.original_name ASC",
			wantArgs: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args := tt.build().Build()
			if sql != tt.wantSQL {
				t.Errorf("sql:\n got %s\nwant %s", sql, tt.wantSQL)
			}
			if len(args) != tt.wantArgs {
				t.Errorf("args: got %d, want %d", len(args), tt.wantArgs)
			}
		})
	}
}

func TestBuildSingle(t *testing.T) {
	sql, args := query.NewBuilder(filesProjection()).BuildSingle("id", int64(7))

	want := "SELECT f.id, f.original_name, f.is_used, f.uploaded_at FROM public.files f WHERE f.id = $1"
	if sql != want {
		t.Errorf("sql:\n got %s\nwant %s", sql, want)
	}
	if len(args) != 1 || args[0] != int64(7) {
		t.Errorf("args = %v, want [7]", args)
	}
}
