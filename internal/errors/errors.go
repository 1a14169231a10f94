// Package errors formats compiler diagnostics with source context.
package errors

import (
	"fmt"
	"strings"

	"github.com/proskuryakov/rupc/internal/lexer"
)

// CompilerError is a single diagnostic with position and source context.
type CompilerError struct {
	Message string
	Source  string
	File    string
	Pos     lexer.Position
}

// New creates a CompilerError.
func New(pos lexer.Position, message, source, file string) *CompilerError {
	return &CompilerError{Pos: pos, Message: message, Source: source, File: file}
}

// Error implements the error interface with the plain (uncolored) format.
func (e *CompilerError) Error() string {
	return e.Format(false)
}

// Format renders the error with a source-context line and a caret
// pointing at the offending column.
func (e *CompilerError) Format(color bool) string {
	var sb strings.Builder

	if e.File != "" {
		fmt.Fprintf(&sb, "Ошибка в %s:%d:%d\n", e.File, e.Pos.Line, e.Pos.Column)
	} else {
		fmt.Fprintf(&sb, "Ошибка на строке %d:%d\n", e.Pos.Line, e.Pos.Column)
	}

	if line := e.sourceLine(e.Pos.Line); line != "" {
		prefix := fmt.Sprintf("%4d | ", e.Pos.Line)
		sb.WriteString(prefix)
		sb.WriteString(line)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", len(prefix)+e.Pos.Column-1))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteString("\n")
	}

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(e.Message)
	if color {
		sb.WriteString("\033[0m")
	}

	return sb.String()
}

func (e *CompilerError) sourceLine(lineNum int) string {
	if e.Source == "" {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	if lineNum < 1 || lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// Short formats the error in the driver-facing one-line shape:
// "Ошибка: <message> (строка: <r>, позиция: <c>)".
func (e *CompilerError) Short() string {
	return fmt.Sprintf("Ошибка: %s (строка: %d, позиция: %d)", e.Message, e.Pos.Line, e.Pos.Column)
}
