package manifest

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestLoadValidManifest(t *testing.T) {
	dir := t.TempDir()
	manifestPath := filepath.Join(dir, "rupc.yaml")
	writeFile(t, manifestPath, "target: cil\nsources:\n  - \"src/**/*.рус\"\noutput: build/\n")

	m, err := Load(manifestPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Target != "cil" {
		t.Fatalf("Target = %q, want cil", m.Target)
	}
	if m.Output != "build/" {
		t.Fatalf("Output = %q, want build/", m.Output)
	}
	if len(m.Sources) != 1 || m.Sources[0] != "src/**/*.рус" {
		t.Fatalf("Sources = %v", m.Sources)
	}
}

func TestLoadRejectsUnknownTarget(t *testing.T) {
	dir := t.TempDir()
	manifestPath := filepath.Join(dir, "rupc.yaml")
	writeFile(t, manifestPath, "target: wasm\nsources:\n  - \"*.рус\"\n")

	_, err := Load(manifestPath)
	if err == nil {
		t.Fatal("expected an error for an unsupported target")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "нет.yaml"))
	if err == nil {
		t.Fatal("expected an error for a missing manifest file")
	}
}

func TestResolveSourcesExpandsGlobAndDedupes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src", "a.рус"), "")
	writeFile(t, filepath.Join(dir, "src", "sub", "b.рус"), "")

	m := &Manifest{Target: "cil", Sources: []string{"src/**/*.рус", "src/a.рус"}}
	files, err := m.ResolveSources(dir)
	if err != nil {
		t.Fatalf("ResolveSources: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("files = %v, want 2 deduplicated matches", files)
	}
}

func TestResolveSourcesNoMatches(t *testing.T) {
	dir := t.TempDir()
	m := &Manifest{Target: "cil", Sources: []string{"ничего/*.рус"}}
	files, err := m.ResolveSources(dir)
	if err != nil {
		t.Fatalf("ResolveSources: %v", err)
	}
	if len(files) != 0 {
		t.Fatalf("files = %v, want none", files)
	}
}
