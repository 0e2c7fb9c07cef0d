// Package schemerr defines the three-tier error taxonomy described in
// spec.md §7: BuildError (static, source-ranged), SchemeException
// (runtime, catchable via try), and fatal internal invariant
// violations. It mirrors the teacher's internal/errors package
// (CompilerError.Format, StackFrame/StackTrace) but targets
// sexpr.Range instead of lexer.Position and adds the SchemeException
// shape the teacher never needed (DWScript raises Go errors, not a
// Value-carrying exception).
package schemerr

import (
	"fmt"
	"strings"

	goerrors "github.com/go-errors/errors"

	"github.com/cwbudde/go-scheval/internal/sexpr"
	"github.com/cwbudde/go-scheval/internal/value"
)

// BuildError is any static failure with a source range: a malformed
// special form, a duplicate binding name, an unresolved symbol, or an
// operation unsupported in the requested evaluation mode.
type BuildError struct {
	Range   sexpr.Range
	Message string
}

// NewBuildError constructs a BuildError.
func NewBuildError(r sexpr.Range, format string, args ...any) *BuildError {
	return &BuildError{Range: r, Message: fmt.Sprintf(format, args...)}
}

func (e *BuildError) Error() string { return e.Format("", "", false) }

// Format renders the error the way spec.md §6 requires:
// `filename (line,col)-(line,col): message` followed by the offending
// source line with the range highlighted. If color is true, the
// highlighted span is wrapped in an ANSI bold-red escape, matching the
// teacher's CompilerError.Format(color bool).
func (e *BuildError) Format(filename, source string, color bool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%s)-(%s): %s", filename, e.Range.Start, e.Range.End, e.Message)

	line := sourceLine(source, e.Range.Start.Line)
	if line == "" {
		return sb.String()
	}
	sb.WriteByte('\n')
	sb.WriteString(line)
	sb.WriteByte('\n')

	startCol := e.Range.Start.Col
	width := 1
	if e.Range.End.Line == e.Range.Start.Line && e.Range.End.Col > startCol {
		width = e.Range.End.Col - startCol
	}
	sb.WriteString(strings.Repeat(" ", startCol-1))
	if color {
		sb.WriteString("\033[1;31m")
	}
	sb.WriteString(strings.Repeat("^", width))
	if color {
		sb.WriteString("\033[0m")
	}
	return sb.String()
}

func sourceLine(source string, line int) string {
	if source == "" {
		return ""
	}
	lines := strings.Split(source, "\n")
	if line < 1 || line > len(lines) {
		return ""
	}
	return lines[line-1]
}

// SchemeException is a runtime exception carrying a Value, raised by
// throw, by arity/type errors during apply, and by builtins (§7).
// It is catchable only via try.
type SchemeException struct {
	Payload value.Value
}

// NewSchemeException wraps v as a raised exception.
func NewSchemeException(v value.Value) *SchemeException { return &SchemeException{Payload: v} }

func (e *SchemeException) Error() string {
	return fmt.Sprintf("scheme exception: %s", e.Payload.String())
}

// Fatal wraps an internal invariant violation (a scope/environment
// mismatch, a malformed node, a dataflow bookkeeping mistake) with a
// captured Go stack trace via go-errors/errors, since these never carry
// a source position the way BuildError does and are never catchable by
// user code (§7).
func Fatal(format string, args ...any) error {
	return goerrors.Errorf(format, args...)
}

// WrapFatal attaches a captured stack trace to err if it doesn't already
// have one.
func WrapFatal(err error) error {
	if err == nil {
		return nil
	}
	return goerrors.Wrap(err, 1)
}
