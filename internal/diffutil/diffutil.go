// Package diffutil renders a unified diff between two generated
// artifacts, for `rupc build --diff`, using github.com/pmezard/go-difflib.
package diffutil

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
)

// Unified returns a unified diff of before → after, labeling the two
// sides fromFile/toFile the way `diff -u` does.
func Unified(fromFile, toFile, before, after string) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: fromFile,
		ToFile:   toFile,
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("не удалось построить различие: %w", err)
	}
	return text, nil
}
