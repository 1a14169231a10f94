// Package semantic implements the analyzer: scope-tree construction,
// name resolution, type checking with implicit conversions, and a
// small constant evaluator, using a type-switch dispatch style
// (internal/semantic/analyze_statements.go).
package semantic

import (
	"fmt"
	"strings"
)

// AnalysisError collects every semantic error found in one run. The
// analyzer itself stops at the first hard error inside a single
// declaration (mirroring the original's exception-per-call flow), but
// top-level declarations keep going so a single invocation can report
// more than one problem.
type AnalysisError struct {
	Errors []error
}

func (e *AnalysisError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "обнаружено %d семантических ошибок:\n", len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}
