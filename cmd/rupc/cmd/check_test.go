package cmd

import (
	"strings"
	"testing"
)

func TestAnalyzeFileValidProgram(t *testing.T) {
	path := writeTempSource(t, "целый главный() { вернуть 0; }")
	result, err := analyzeFile(path)
	if err != nil {
		t.Fatalf("analyzeFile: %v", err)
	}
	if result.program == nil || result.scope == nil {
		t.Fatal("expected both a program and a scope on success")
	}
}

func TestAnalyzeFilePropagatesParseError(t *testing.T) {
	path := writeTempSource(t, "целый главный() { вернуть 0 }")
	_, err := analyzeFile(path)
	if err == nil {
		t.Fatal("expected a parse error to propagate")
	}
}

func TestAnalyzeFileFormatsSemanticErrorAsShort(t *testing.T) {
	path := writeTempSource(t, "целый главный() { вернуть неизвестно; }")
	_, err := analyzeFile(path)
	if err == nil {
		t.Fatal("expected a semantic error for an undeclared identifier")
	}
	if !strings.HasPrefix(err.Error(), "Ошибка:") {
		t.Fatalf("expected the short diagnostic shape, got %q", err.Error())
	}
}

func TestAnalyzeFileMissingEntryPoint(t *testing.T) {
	path := writeTempSource(t, "целый удвоить(целый x) { вернуть x * 2; }")
	_, err := analyzeFile(path)
	if err == nil {
		t.Fatal("expected an error when главный is missing")
	}
}
