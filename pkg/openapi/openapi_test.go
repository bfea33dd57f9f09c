package openapi_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/esgdash/pkg/openapi"
)

func TestNewSpec(t *testing.T) {
	spec := openapi.NewSpec("Test API", "1.0.0")

	if spec.OpenAPI != "3.1.0" {
		t.Errorf("openapi version: got %s, want 3.1.0", spec.OpenAPI)
	}
	if spec.Info.Title != "Test API" {
		t.Errorf("title: got %s, want Test API", spec.Info.Title)
	}
	if spec.Components == nil {
		t.Fatal("components should not be nil")
	}
	if spec.Paths == nil {
		t.Fatal("paths should not be nil")
	}
}

func TestAddServerAndDescription(t *testing.T) {
	spec := openapi.NewSpec("Test", "1.0.0")
	spec.AddServer("/api")
	spec.SetDescription("A test API")

	if len(spec.Servers) != 1 || spec.Servers[0].URL != "/api" {
		t.Errorf("servers: got %+v", spec.Servers)
	}
	if spec.Info.Description != "A test API" {
		t.Errorf("description: got %s", spec.Info.Description)
	}
}

func TestRefs(t *testing.T) {
	if ref := openapi.SchemaRef("File"); ref.Ref != "#/components/schemas/File" {
		t.Errorf("schema ref: got %s", ref.Ref)
	}
	if ref := openapi.ResponseRef("NotFound"); ref.Ref != "#/components/responses/NotFound" {
		t.Errorf("response ref: got %s", ref.Ref)
	}
}

func TestResponseArrayJSON(t *testing.T) {
	resp := openapi.ResponseArrayJSON("Files", "File")

	schema := resp.Content["application/json"].Schema
	if schema.Type != "array" {
		t.Fatalf("type: got %s, want array", schema.Type)
	}
	if schema.Items.Ref != "#/components/schemas/File" {
		t.Errorf("items ref: got %s", schema.Items.Ref)
	}
}

func TestRequestBodyFile(t *testing.T) {
	rb := openapi.RequestBodyFile("file", "PDF report")

	if !rb.Required {
		t.Error("should be required")
	}
	schema := rb.Content["multipart/form-data"].Schema
	if schema.Properties["file"].Format != "binary" {
		t.Errorf("file format: got %s", schema.Properties["file"].Format)
	}
}

func TestPathParam(t *testing.T) {
	p := openapi.PathParam("id", "File ID")

	if p.In != "path" || !p.Required {
		t.Errorf("param: got %+v", p)
	}
	if p.Schema.Type != "integer" || p.Schema.Format != "int64" {
		t.Errorf("schema: got %+v", p.Schema)
	}
}

func TestNewComponentsDefaults(t *testing.T) {
	c := openapi.NewComponents()

	if _, ok := c.Schemas["Error"]; !ok {
		t.Error("missing default schema: Error")
	}

	responses := []string{"BadRequest", "NotFound", "Conflict", "PayloadTooLarge", "UnprocessableEntity", "TooManyRequests"}
	for _, name := range responses {
		if _, ok := c.Responses[name]; !ok {
			t.Errorf("missing default response: %s", name)
		}
	}

	c.AddSchemas(map[string]*openapi.Schema{"File": {Type: "object"}})
	if _, ok := c.Schemas["File"]; !ok {
		t.Error("File schema not added")
	}
	if _, ok := c.Schemas["Error"]; !ok {
		t.Error("default Error schema should still exist")
	}
}

func TestServeSpec(t *testing.T) {
	spec := openapi.NewSpec("Test", "1.0.0")
	spec.Paths["/files"] = &openapi.PathItem{
		Patch: &openapi.Operation{Summary: "patch", Responses: map[int]*openapi.Response{200: {Description: "ok"}}},
	}

	data, err := openapi.MarshalJSON(spec)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	rec := httptest.NewRecorder()
	openapi.ServeSpec(data)(rec, httptest.NewRequest("GET", "/openapi.json", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}

	var parsed map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &parsed); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if parsed["openapi"] != "3.1.0" {
		t.Errorf("openapi: got %v", parsed["openapi"])
	}
	paths := parsed["paths"].(map[string]any)
	if _, ok := paths["/files"].(map[string]any)["patch"]; !ok {
		t.Error("patch operation missing from serialized spec")
	}
}

func TestConfigFinalize(t *testing.T) {
	t.Setenv("TEST_OPENAPI_TITLE", "Reports")

	cfg := openapi.Config{}
	if err := cfg.Finalize(&openapi.ConfigEnv{Title: "TEST_OPENAPI_TITLE"}); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if cfg.Title != "Reports" {
		t.Errorf("title: got %s, want Reports", cfg.Title)
	}
	if cfg.Description == "" {
		t.Error("description default missing")
	}
}
