package project_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/siko-lang/sikoc/internal/project"
)

func writeManifest(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "sikoc.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadManifestAppliesDefaults(t *testing.T) {
	path := writeManifest(t, `
[project]
name = "myproj"
`)
	m, err := project.LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if m.Project.Entry != "main" {
		t.Fatalf("expected entry to default to main, got %q", m.Project.Entry)
	}
	if m.Build.UI != "auto" {
		t.Fatalf("expected ui to default to auto, got %q", m.Build.UI)
	}
}

func TestLoadManifestReadsAllSections(t *testing.T) {
	path := writeManifest(t, `
[project]
name = "myproj"
entry = "run"

[target]
triple = "x86_64-unknown-linux-gnu"

[build]
dce = true
ui = "on"
`)
	m, err := project.LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if m.Project.Entry != "run" {
		t.Fatalf("expected entry %q, got %q", "run", m.Project.Entry)
	}
	if m.Target.Triple != "x86_64-unknown-linux-gnu" {
		t.Fatalf("unexpected triple: %q", m.Target.Triple)
	}
	if !m.Build.DCE {
		t.Fatal("expected dce true")
	}
	if m.Build.UI != "on" {
		t.Fatalf("unexpected ui: %q", m.Build.UI)
	}
}

func TestLoadManifestRejectsMissingProjectSection(t *testing.T) {
	path := writeManifest(t, `
[target]
triple = "x86_64-unknown-linux-gnu"
`)
	if _, err := project.LoadManifest(path); err == nil {
		t.Fatal("expected an error for a missing [project] section")
	}
}

func TestLoadManifestRejectsMissingName(t *testing.T) {
	path := writeManifest(t, `
[project]
entry = "main"
`)
	if _, err := project.LoadManifest(path); err == nil {
		t.Fatal("expected an error for a missing name")
	}
}
