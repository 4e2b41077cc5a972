package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/veridoc-io/veridoc/internal/config"
)

const baseConfig = `
shutdown_timeout = "30s"
version = "0.1.0"

[server]
host = "0.0.0.0"
port = 8080
read_timeout = "1m"
write_timeout = "5m"
shutdown_timeout = "30s"

[database]
host = "localhost"
port = 5432
name = "veridoc"
user = "veridoc"
password = "veridoc"
ssl_mode = "disable"

[storage]
container_name = "verifications"
connection_string = "DefaultEndpointsProtocol=http;AccountName=veridocstore;AccountKey=key;BlobEndpoint=http://127.0.0.1:10000/veridocstore;"
presign_ttl = "1h"

[api]
base_path = "/api"

[api.pagination]
default_page_size = 25
max_page_size = 50

[inference]
timeout = "2m"
workers = 4
queue_depth = 64

[inference.agent]
name = "veridoc"

[inference.agent.provider]
name = "ollama"
base_url = "http://localhost:11434"

[inference.agent.model]
name = "llama3.2-vision:11b"
`

const overlayConfig = `
[server]
port = 9090

[database]
host = "prodhost"
`

// minimal config relies on defaults everywhere validation allows it;
// only the storage connection string has no default.
const minimalConfig = `
[storage]
connection_string = "conn"
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
	if cfg.Database.Name != "veridoc" {
		t.Errorf("database name: got %s, want veridoc", cfg.Database.Name)
	}
	if cfg.Storage.ContainerName != "verifications" {
		t.Errorf("container name: got %s, want verifications", cfg.Storage.ContainerName)
	}
	if cfg.API.Pagination.DefaultPageSize != 25 {
		t.Errorf("default page size: got %d, want 25", cfg.API.Pagination.DefaultPageSize)
	}
	if cfg.Inference.Agent.Model == nil || cfg.Inference.Agent.Model.Name != "llama3.2-vision:11b" {
		t.Errorf("agent model: got %v, want llama3.2-vision:11b", cfg.Inference.Agent.Model)
	}
	if cfg.ShutdownTimeoutDuration() != 30*time.Second {
		t.Errorf("shutdown timeout: got %v, want 30s", cfg.ShutdownTimeoutDuration())
	}
}

func TestLoadWithOverlay(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	writeConfig(t, dir, "config.production.toml", overlayConfig)
	chdir(t, dir)
	t.Setenv(config.EnvVeridocEnv, "production")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("server port: got %d, want overlay 9090", cfg.Server.Port)
	}
	if cfg.Database.Host != "prodhost" {
		t.Errorf("database host: got %s, want overlay prodhost", cfg.Database.Host)
	}

	// fields the overlay does not touch keep their base values
	if cfg.Database.Name != "veridoc" {
		t.Errorf("database name: got %s, want base veridoc", cfg.Database.Name)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("server host: got %s, want base 0.0.0.0", cfg.Server.Host)
	}
}

func TestLoadMinimalDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", minimalConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server port: got %d, want default 8080", cfg.Server.Port)
	}
	if cfg.Storage.ContainerName != "verifications" {
		t.Errorf("container name: got %s, want default verifications", cfg.Storage.ContainerName)
	}
	if cfg.Storage.PresignTTL != "1h" {
		t.Errorf("presign ttl: got %s, want default 1h", cfg.Storage.PresignTTL)
	}
	if cfg.Inference.Timeout != "2m" {
		t.Errorf("inference timeout: got %s, want default 2m", cfg.Inference.Timeout)
	}
	if cfg.Inference.Workers != 4 {
		t.Errorf("inference workers: got %d, want default 4", cfg.Inference.Workers)
	}
	if cfg.Inference.Agent.Provider == nil || cfg.Inference.Agent.Provider.Name == "" {
		t.Error("agent provider not filled from go-agents defaults")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	t.Setenv("VERIDOC_SERVER_PORT", "9191")
	t.Setenv("VERIDOC_DB_HOST", "envhost")
	t.Setenv("VERIDOC_STORAGE_CONTAINER_NAME", "envcontainer")
	t.Setenv("VERIDOC_AGENT_MODEL_NAME", "llava:13b")
	t.Setenv(config.EnvVeridocShutdownTimeout, "45s")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 9191 {
		t.Errorf("server port: got %d, want env 9191", cfg.Server.Port)
	}
	if cfg.Database.Host != "envhost" {
		t.Errorf("database host: got %s, want env envhost", cfg.Database.Host)
	}
	if cfg.Storage.ContainerName != "envcontainer" {
		t.Errorf("container name: got %s, want env envcontainer", cfg.Storage.ContainerName)
	}
	if cfg.Inference.Agent.Model.Name != "llava:13b" {
		t.Errorf("agent model: got %s, want env llava:13b", cfg.Inference.Agent.Model.Name)
	}
	if cfg.ShutdownTimeout != "45s" {
		t.Errorf("shutdown timeout: got %s, want env 45s", cfg.ShutdownTimeout)
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", `shutdown_timeout = "never"`)
	chdir(t, dir)

	if _, err := config.Load(); err == nil {
		t.Fatal("expected validation error, got nil")
	}
}
