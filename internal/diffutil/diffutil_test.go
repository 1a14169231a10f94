package diffutil

import (
	"strings"
	"testing"
)

func TestUnifiedReportsNoDiffOnIdenticalText(t *testing.T) {
	out, err := Unified("a.il", "b.il", "одинаковый текст\n", "одинаковый текст\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "" {
		t.Fatalf("identical inputs should produce an empty diff, got %q", out)
	}
}

func TestUnifiedLabelsFilesAndShowsChange(t *testing.T) {
	before := "ldc.i4.1\nret\n"
	after := "ldc.i4.2\nret\n"
	out, err := Unified("old.il", "new.il", before, after)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "old.il") || !strings.Contains(out, "new.il") {
		t.Fatalf("diff should label both sides: %q", out)
	}
	if !strings.Contains(out, "-ldc.i4.1") || !strings.Contains(out, "+ldc.i4.2") {
		t.Fatalf("diff should show the changed line: %q", out)
	}
}
