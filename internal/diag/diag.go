// Package diag is the core's structured diagnostic type: a stable Kind, a
// source span, a message, and an optional suggestion, wrapped so it
// survives errors.As unwrapping.
package diag

import (
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/eatikrh/kleis/internal/ast"
)

// Kind classifies a diagnostic; the set is part of the engine's API.
type Kind string

const (
	UnknownOperation             Kind = "UnknownOperation"
	UnboundIdentifier            Kind = "UnboundIdentifier"
	TypeMismatch                 Kind = "TypeMismatch"
	DimensionMismatch            Kind = "DimensionMismatch"
	InfiniteType                 Kind = "InfiniteType"
	NonExhaustiveMatch           Kind = "NonExhaustiveMatch"
	UnreachableArm               Kind = "UnreachableArm"
	ArityMismatch                Kind = "ArityMismatch"
	DuplicateDeclaration         Kind = "DuplicateDeclaration"
	MissingImplementationBinding Kind = "MissingImplementationBinding"
	AmbiguousOperation           Kind = "AmbiguousOperation"
)

// Severity distinguishes fatal-to-declaration / recoverable diagnostics
// from warnings.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Report is the canonical structured diagnostic. Every fallible core entry
// point returns a slice of these rather than a bare error string.
type Report struct {
	ID         string         `json:"id"`
	Kind       Kind           `json:"kind"`
	Severity   Severity       `json:"severity"`
	Span       *ast.Pos       `json:"span,omitempty"`
	Message    string         `json:"message"`
	Suggestion string         `json:"suggestion,omitempty"`
	Data       map[string]any `json:"data,omitempty"`
}

// reportError wraps a Report as an error so it composes with errors.As.
type reportError struct{ rep *Report }

func (e *reportError) Error() string {
	if e.rep.Span != nil {
		return fmt.Sprintf("%s: %s: %s", e.rep.Span, e.rep.Kind, e.rep.Message)
	}
	return fmt.Sprintf("%s: %s", e.rep.Kind, e.rep.Message)
}

// AsError wraps a Report as an error.
func (r *Report) AsError() error { return &reportError{rep: r} }

// AsReport extracts a Report from an error chain, if present.
func AsReport(err error) (*Report, bool) {
	var re *reportError
	if stderrors.As(err, &re) {
		return re.rep, true
	}
	return nil, false
}

// ToJSON renders the report as deterministic JSON.
func (r *Report) ToJSON() (string, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func newReport(kind Kind, sev Severity, pos ast.Pos, msg string) *Report {
	r := &Report{
		ID:       uuid.NewString(),
		Kind:     kind,
		Severity: sev,
		Message:  msg,
	}
	if pos != (ast.Pos{}) {
		p := pos
		r.Span = &p
	}
	return r
}

// New builds an error-severity report of the given kind.
func New(kind Kind, pos ast.Pos, format string, args ...any) *Report {
	return newReport(kind, SeverityError, pos, fmt.Sprintf(format, args...))
}

// NewWarning builds a warning-severity report.
func NewWarning(kind Kind, pos ast.Pos, format string, args ...any) *Report {
	return newReport(kind, SeverityWarning, pos, fmt.Sprintf(format, args...))
}

// WithSuggestion attaches a fix suggestion and returns the same report for
// chaining.
func (r *Report) WithSuggestion(format string, args ...any) *Report {
	r.Suggestion = fmt.Sprintf(format, args...)
	return r
}

// HasErrors reports whether any report in the slice carries error
// severity. Warnings alone leave an inference result usable, so callers gate recovery on this rather than on len(reports).
func HasErrors(reports []*Report) bool {
	for _, r := range reports {
		if r.Severity == SeverityError {
			return true
		}
	}
	return false
}

// WithData attaches a structured data payload.
func (r *Report) WithData(data map[string]any) *Report {
	r.Data = data
	return r
}
