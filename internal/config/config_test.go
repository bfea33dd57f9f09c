package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/JaimeStill/esgdash/internal/config"
)

const baseConfig = `
shutdown_timeout = "30s"
version = "0.1.0"

[server]
host = "0.0.0.0"
port = 8080

[logging]
level = "debug"
format = "json"

[database]
host = "localhost"
port = 5432
name = "esgdash"
user = "esgdash"
password = "esgdash"

[storage]
container_name = "reports"
connection_string = "DefaultEndpointsProtocol=http;AccountName=devstoreaccount1;AccountKey=key;BlobEndpoint=http://127.0.0.1:10000/devstoreaccount1;"

[api]
base_path = "/api"

[api.upload_limit]
rps = 4

[validation]
keywords = ["ESG"]
max_pages = 2

[client]
base_url = "http://files.internal/api/"

[dashboard]
locale = "en"
`

const overlayConfig = `
[server]
port = 9090

[database]
host = "prodhost"

[dashboard]
enabled = false
`

func writeConfig(t *testing.T, dir, filename, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, filename), []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", filename, err)
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(orig) })
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server port: got %d, want 8080", cfg.Server.Port)
	}
	if cfg.Storage.ContainerName != "reports" {
		t.Errorf("storage container: got %s, want reports", cfg.Storage.ContainerName)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("logging format: got %s, want json", cfg.Logging.Format)
	}
	if cfg.API.UploadLimit.RPS != 4 || cfg.API.UploadLimit.Burst != 4 {
		t.Errorf("upload limit: got %+v, want rps 4 burst 4", cfg.API.UploadLimit)
	}
	if cfg.API.MaxUploadSizeBytes() != 50*1024*1024 {
		t.Errorf("max upload size: got %d", cfg.API.MaxUploadSizeBytes())
	}
	if len(cfg.Validation.Keywords) != 1 || cfg.Validation.MaxPages != 2 {
		t.Errorf("validation: got %+v", cfg.Validation)
	}
	if cfg.Client.BaseURL != "http://files.internal/api" {
		t.Errorf("client base_url: got %s", cfg.Client.BaseURL)
	}
	if cfg.Dashboard.Locale != "en" || !cfg.Dashboard.IsEnabled() {
		t.Errorf("dashboard: got %+v", cfg.Dashboard)
	}
}

func TestLoadWithOverlay(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	writeConfig(t, dir, "config.staging.toml", overlayConfig)
	chdir(t, dir)

	t.Setenv("ESGDASH_ENV", "staging")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("server port: got %d, want 9090 (from overlay)", cfg.Server.Port)
	}
	if cfg.Database.Host != "prodhost" {
		t.Errorf("db host: got %s, want prodhost (from overlay)", cfg.Database.Host)
	}
	if cfg.Database.Port != 5432 {
		t.Errorf("db port: got %d, want 5432 (from base)", cfg.Database.Port)
	}
	if cfg.Dashboard.IsEnabled() {
		t.Error("dashboard enabled: got true, want false (from overlay)")
	}
}

func TestLoadEnvVarOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	t.Setenv("ESGDASH_VERSION", "2.0.0")
	t.Setenv("ESGDASH_SERVER_PORT", "3000")
	t.Setenv("ESGDASH_LOG_LEVEL", "WARN")
	t.Setenv("ESGDASH_VALIDATION_KEYWORDS", "ESG, 자가진단보고서")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Version != "2.0.0" {
		t.Errorf("version: got %s, want 2.0.0", cfg.Version)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("server port: got %d, want 3000", cfg.Server.Port)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("log level: got %s, want warn", cfg.Logging.Level)
	}
	if len(cfg.Validation.Keywords) != 2 {
		t.Errorf("keywords: got %v", cfg.Validation.Keywords)
	}
}

func TestLoadNoConfigFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	t.Setenv("ESGDASH_DB_NAME", "testdb")
	t.Setenv("ESGDASH_DB_USER", "testuser")
	t.Setenv("ESGDASH_STORAGE_CONNECTION_STRING", "conn")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load without config.toml failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server port default: got %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Name != "testdb" {
		t.Errorf("db name from env: got %s, want testdb", cfg.Database.Name)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Errorf("logging defaults: got %+v", cfg.Logging)
	}
	if cfg.Validation.MaxPages != 3 {
		t.Errorf("validation max_pages default: got %d, want 3", cfg.Validation.MaxPages)
	}
	if cfg.Dashboard.BasePath != "/dashboard" {
		t.Errorf("dashboard base_path default: got %s", cfg.Dashboard.BasePath)
	}
}

func TestLoadMissingStorage(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	t.Setenv("ESGDASH_DB_NAME", "testdb")
	t.Setenv("ESGDASH_DB_USER", "testuser")

	if _, err := config.Load(); err == nil {
		t.Fatal("expected error without storage connection")
	}
}

func TestLoadClient(t *testing.T) {
	dir := t.TempDir()

	cfg, err := config.LoadClient(filepath.Join(dir, "config.toml"))
	if err != nil {
		t.Fatalf("LoadClient without server sections failed: %v", err)
	}

	if cfg.Client.BaseURL != "http://localhost:8080/api" {
		t.Errorf("client base_url default: got %s", cfg.Client.BaseURL)
	}
	if len(cfg.Validation.Keywords) != 3 {
		t.Errorf("keywords default: got %v", cfg.Validation.Keywords)
	}
}

func TestLoadInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed toml", `shutdown_timeout = `},
		{"bad log format", "[logging]\nformat = \"xml\"\n"},
		{"bad log level", "[logging]\nlevel = \"loud\"\n"},
		{"bad shutdown timeout", `shutdown_timeout = "soon"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, "config.toml", tt.content)
			chdir(t, dir)

			t.Setenv("ESGDASH_DB_NAME", "testdb")
			t.Setenv("ESGDASH_DB_USER", "testuser")
			t.Setenv("ESGDASH_STORAGE_CONNECTION_STRING", "conn")

			if _, err := config.Load(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestEnv(t *testing.T) {
	cfg := &config.Config{}
	if cfg.Env() != "local" {
		t.Errorf("env: got %s, want local", cfg.Env())
	}

	t.Setenv("ESGDASH_ENV", "production")
	if cfg.Env() != "production" {
		t.Errorf("env: got %s, want production", cfg.Env())
	}
}

func TestShutdownTimeoutDuration(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.ShutdownTimeoutDuration() != 30*time.Second {
		t.Errorf("shutdown timeout: got %v, want 30s", cfg.ShutdownTimeoutDuration())
	}
}
