package cmd

import (
	"strings"
	"testing"
)

func TestRunLexPrintsTokensForValidSource(t *testing.T) {
	path := writeTempSource(t, "целый а = 1;")
	lexShowPos = true
	out := captureStdout(t, func() {
		if err := runLex(nil, []string{path}); err != nil {
			t.Fatalf("runLex: %v", err)
		}
	})
	if !strings.Contains(out, "TYPE") && !strings.Contains(out, "IDENT") {
		t.Fatalf("expected token output to mention at least one token kind: %q", out)
	}
}

func TestRunLexReportsIllegalTokens(t *testing.T) {
	path := writeTempSource(t, "целый а = 1 ! 2;")
	lexShowPos = false
	_ = captureStdout(t, func() {
		err := runLex(nil, []string{path})
		if err == nil {
			t.Fatal("expected an error for an illegal token")
		}
		if !strings.Contains(err.Error(), "недопустимых") {
			t.Fatalf("expected the error to mention illegal tokens, got %v", err)
		}
	})
}

func TestRunLexMissingFile(t *testing.T) {
	err := runLex(nil, []string{"/нет/такого/файла.рус"})
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
