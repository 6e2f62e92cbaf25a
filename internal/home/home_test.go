package home

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNew(t *testing.T) {
	t.Run("with explicit path", func(t *testing.T) {
		dir, err := New("/tmp/test-docforge")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dir.Path() != "/tmp/test-docforge" {
			t.Errorf("expected path /tmp/test-docforge, got %s", dir.Path())
		}
	})

	t.Run("with empty path uses default", func(t *testing.T) {
		dir, err := New("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		home, _ := os.UserHomeDir()
		expected := filepath.Join(home, DefaultDirName)
		if dir.Path() != expected {
			t.Errorf("expected path %s, got %s", expected, dir.Path())
		}
	})
}

func TestDir_Paths(t *testing.T) {
	dir, _ := New("/tmp/test-docforge")

	t.Run("TemplatesPath", func(t *testing.T) {
		expected := "/tmp/test-docforge/templates"
		if dir.TemplatesPath() != expected {
			t.Errorf("expected %s, got %s", expected, dir.TemplatesPath())
		}
	})

	t.Run("OutputPath", func(t *testing.T) {
		expected := "/tmp/test-docforge/out"
		if dir.OutputPath() != expected {
			t.Errorf("expected %s, got %s", expected, dir.OutputPath())
		}
	})

	t.Run("ConfigPath", func(t *testing.T) {
		expected := "/tmp/test-docforge/config.yaml"
		if dir.ConfigPath() != expected {
			t.Errorf("expected %s, got %s", expected, dir.ConfigPath())
		}
	})
}

func TestDir_EnsureExists(t *testing.T) {
	homePath := filepath.Join(t.TempDir(), "docforge-test")

	dir, err := New(homePath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir.Exists() {
		t.Fatal("home should not exist yet")
	}

	if err := dir.EnsureExists(); err != nil {
		t.Fatalf("EnsureExists() error = %v", err)
	}
	for _, p := range []string{dir.TemplatesPath(), dir.OutputPath()} {
		info, err := os.Stat(p)
		if err != nil {
			t.Fatalf("stat %s: %v", p, err)
		}
		if !info.IsDir() {
			t.Errorf("%s is not a directory", p)
		}
	}
	if !dir.Exists() {
		t.Error("Exists() = false after EnsureExists()")
	}
	if dir.ConfigExists() {
		t.Error("ConfigExists() = true with no config written")
	}
}
