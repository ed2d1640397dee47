package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, _, exists, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing file")
	}
	if cfg.Logging.Level != "info" {
		t.Fatalf("default level = %q, want info", cfg.Logging.Level)
	}
	if cfg.Report.SheetName != "Report" {
		t.Fatalf("default sheet name = %q", cfg.Report.SheetName)
	}
	if !filepath.IsAbs(cfg.Paths.ImagesDir) {
		t.Fatalf("images dir not absolute: %q", cfg.Paths.ImagesDir)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
data_dir = "` + filepath.Join(dir, "data") + `"
images_dir = "` + filepath.Join(dir, "images") + `"

[logging]
format = "JSON"
level = "DEBUG"

[report]
image_max_width = 0
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("resolved = %q exists = %v", resolved, exists)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("format = %q, want json", cfg.Logging.Format)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Report.ImageMaxWidth != defaultImageMaxWidth {
		t.Fatalf("zero image_max_width should fall back to default, got %d", cfg.Report.ImageMaxWidth)
	}
	if cfg.DatabasePath() != filepath.Join(dir, "data", "fieldbook.db") {
		t.Fatalf("database path = %q", cfg.DatabasePath())
	}
}

func TestValidateRejectsSharedDirs(t *testing.T) {
	cfg := Default()
	cfg.Paths.DataDir = "/tmp/fieldbook"
	cfg.Paths.ImagesDir = "/tmp/fieldbook"
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "images_dir") {
		t.Fatalf("expected images_dir error, got %v", err)
	}
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Paths.DataDir = filepath.Join(dir, "data")
	cfg.Paths.ImagesDir = filepath.Join(dir, "images")
	cfg.Paths.LogDir = filepath.Join(dir, "logs")
	cfg.Paths.ReportDir = filepath.Join(dir, "reports")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, d := range []string{cfg.Paths.DataDir, cfg.Paths.ImagesDir, cfg.Paths.LogDir, cfg.Paths.ReportDir} {
		info, err := os.Stat(d)
		if err != nil || !info.IsDir() {
			t.Fatalf("directory %q missing: %v", d, err)
		}
	}
}
