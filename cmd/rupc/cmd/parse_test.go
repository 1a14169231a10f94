package cmd

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempSource(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prog.рус")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestParseFileReturnsProgramAndSource(t *testing.T) {
	path := writeTempSource(t, "целый главный() { вернуть 0; }")
	program, source, err := parseFile(path)
	if err != nil {
		t.Fatalf("parseFile: %v", err)
	}
	if len(program.Statements) != 1 {
		t.Fatalf("len(Statements) = %d, want 1", len(program.Statements))
	}
	if !strings.Contains(source, "главный") {
		t.Fatalf("source should be the raw file content: %q", source)
	}
}

func TestParseFileReportsSyntaxErrors(t *testing.T) {
	path := writeTempSource(t, "целый главный() { вернуть 0 }")
	_, _, err := parseFile(path)
	if err == nil {
		t.Fatal("expected a syntax error for a missing semicolon")
	}
}

func TestParseFileMissingFile(t *testing.T) {
	_, _, err := parseFile(filepath.Join(t.TempDir(), "нет.рус"))
	if err == nil {
		t.Fatal("expected an error for a missing source file")
	}
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Pipe: %v", err)
	}
	os.Stdout = w
	fn()
	w.Close()
	os.Stdout = orig

	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	return string(out)
}

func TestDumpASTNodePrintsFunctionAndBody(t *testing.T) {
	path := writeTempSource(t, "целый удвоить(целый x) { вернуть x * 2; }")
	program, _, err := parseFile(path)
	if err != nil {
		t.Fatalf("parseFile: %v", err)
	}

	out := captureStdout(t, func() { dumpASTNode(program, 0) })
	if !strings.Contains(out, "Функция удвоить") {
		t.Fatalf("expected function header in dump: %q", out)
	}
	if !strings.Contains(out, "Вернуть") {
		t.Fatalf("expected return statement in dump: %q", out)
	}
	if !strings.Contains(out, "Бинарная операция") {
		t.Fatalf("expected binary-op node in dump: %q", out)
	}
}
