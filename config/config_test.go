package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestApplyDefaults(t *testing.T) {
	cfg := Config{Name: "app"}
	cfg.ApplyDefaults()

	if cfg.Environment != "development" {
		t.Errorf("got environment %q, want development", cfg.Environment)
	}
	if !cfg.Debug {
		t.Error("debug should default to true in development")
	}
	if cfg.Telemetry.Endpoint != "localhost:4318" {
		t.Errorf("got telemetry endpoint %q", cfg.Telemetry.Endpoint)
	}
	if cfg.Telemetry.SampleRate != 1.0 {
		t.Errorf("got sample rate %v, want 1.0", cfg.Telemetry.SampleRate)
	}
	if cfg.Stream.BufferCapacity <= 0 {
		t.Error("buffer capacity should default to a positive value")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("got log level %q, want info", cfg.Logging.Level)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing name", func(c *Config) { c.Name = "" }, "name is required"},
		{"bad environment", func(c *Config) { c.Environment = "qa" }, "environment"},
		{"bad sample rate", func(c *Config) { c.Telemetry.SampleRate = 2.0 }, "sample_rate"},
		{"negative buffer", func(c *Config) { c.Stream.BufferCapacity = -1 }, "buffer_capacity"},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "logging"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Name: "app"}
			cfg.ApplyDefaults()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("got error %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.yml")
	yaml := `
name: pipeline-app
environment: staging
logging:
  level: debug
  format: json
stream:
  buffer_capacity: 64
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	var cfg Config
	if err := Load("app", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Name != "pipeline-app" {
		t.Errorf("got name %q", cfg.Name)
	}
	if cfg.Environment != "staging" {
		t.Errorf("got environment %q", cfg.Environment)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("got logging %+v", cfg.Logging)
	}
	if cfg.Stream.BufferCapacity != 64 {
		t.Errorf("got buffer capacity %d, want 64", cfg.Stream.BufferCapacity)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.yml")
	if err := os.WriteFile(path, []byte("name: pipeline-app\nenvironment: development\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ENVIRONMENT", "production")

	var cfg Config
	if err := Load("app", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Environment != "production" {
		t.Errorf("got environment %q, want production (env override)", cfg.Environment)
	}
}

type fakeFS struct {
	files map[string]bool
}

func (f *fakeFS) Exists(path string) bool   { return f.files[path] }
func (f *fakeFS) LoadEnv(path string) error { return nil }

func TestResolveFiles(t *testing.T) {
	fs := &fakeFS{files: map[string]bool{
		"./config/app.yml": true,
		".env":             true,
	}}
	r := &Resolver{FileSystem: fs}

	configFile, envFile := r.ResolveFiles("app", LoaderConfig{})
	if configFile != "./config/app.yml" {
		t.Errorf("got config file %q", configFile)
	}
	if envFile != ".env" {
		t.Errorf("got env file %q", envFile)
	}

	// explicit paths win over discovery
	configFile, envFile = r.ResolveFiles("app", LoaderConfig{ConfigFile: "x.yml", EnvFile: "y.env"})
	if configFile != "x.yml" || envFile != "y.env" {
		t.Errorf("got %q / %q, want explicit overrides", configFile, envFile)
	}
}

func TestGenerateEnvKeyVariants(t *testing.T) {
	variants := generateEnvKeyVariants("STREAM_BUFFER_CAPACITY")

	want := map[string]bool{
		"stream_buffer_capacity": false,
		"stream.buffer.capacity": false,
		"stream.buffer_capacity": false,
	}
	for _, v := range variants {
		if _, ok := want[v]; ok {
			want[v] = true
		}
	}
	for k, seen := range want {
		if !seen {
			t.Errorf("variant %q missing from %v", k, variants)
		}
	}
}
