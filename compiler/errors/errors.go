// Package errors is the HEDL diagnostic engine: span-anchored, coded
// diagnostics with severity, deduplication, and stable ordering.
package errors

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Severity represents the severity level of a diagnostic
type Severity int

const (
	Hint Severity = iota
	Warning
	Error
)

// String returns the string representation of the severity
func (s Severity) String() string {
	switch s {
	case Hint:
		return "hint"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalJSON implements json.Marshaler for Severity
func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler for Severity
func (s *Severity) UnmarshalJSON(data []byte) error {
	str := string(data)
	if len(str) >= 2 && str[0] == '"' && str[len(str)-1] == '"' {
		str = str[1 : len(str)-1]
	}

	switch str {
	case "hint":
		*s = Hint
	case "warning":
		*s = Warning
	case "error":
		*s = Error
	default:
		*s = Error
	}
	return nil
}

// Span is a byte-offset range into the original source buffer, plus the
// 1-based line and column of its start. Offsets stay meaningful after the
// buffer itself is released.
type Span struct {
	Start  int `json:"start"`
	End    int `json:"end"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Diagnostic is a span-anchored report produced by the lexer, parser,
// resolver, or linter.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Span     Span     `json:"span"`
	Related  []Span   `json:"related,omitempty"`
}

// Error implements the error interface
func (d Diagnostic) Error() string {
	return fmt.Sprintf("%d:%d: %s: %s", d.Span.Line, d.Span.Column, d.Code, d.Message)
}

// IsError returns true if the diagnostic is at Error severity
func (d Diagnostic) IsError() bool { return d.Severity == Error }

// New creates a Diagnostic with the default message for code
func New(severity Severity, code string, span Span) Diagnostic {
	return Diagnostic{Severity: severity, Code: code, Message: Message(code), Span: span}
}

// Newf creates a Diagnostic with a formatted message
func Newf(severity Severity, code string, span Span, format string, args ...interface{}) Diagnostic {
	return Diagnostic{Severity: severity, Code: code, Message: fmt.Sprintf(format, args...), Span: span}
}

// WithRelated returns a copy of d carrying extra related spans
func (d Diagnostic) WithRelated(spans ...Span) Diagnostic {
	d.Related = append(d.Related, spans...)
	return d
}

// List accumulates diagnostics. Identical (code, span start) pairs are kept
// once; Sorted returns them ordered by primary-span start offset.
type List struct {
	diags []Diagnostic
	seen  map[diagKey]struct{}
}

type diagKey struct {
	code  string
	start int
}

// Add appends d unless a diagnostic with the same code and span start is
// present
func (l *List) Add(d Diagnostic) {
	if l.seen == nil {
		l.seen = make(map[diagKey]struct{})
	}
	key := diagKey{code: d.Code, start: d.Span.Start}
	if _, dup := l.seen[key]; dup {
		return
	}
	l.seen[key] = struct{}{}
	l.diags = append(l.diags, d)
}

// AddAll appends every diagnostic in ds, deduplicating as Add does
func (l *List) AddAll(ds []Diagnostic) {
	for _, d := range ds {
		l.Add(d)
	}
}

// Len returns the number of collected diagnostics
func (l *List) Len() int { return len(l.diags) }

// Sorted returns the diagnostics ordered by span start offset. Ties keep
// insertion order.
func (l *List) Sorted() []Diagnostic {
	out := make([]Diagnostic, len(l.diags))
	copy(out, l.diags)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Span.Start < out[j].Span.Start
	})
	return out
}

// HasErrors reports whether any collected diagnostic is error severity
func (l *List) HasErrors() bool {
	for _, d := range l.diags {
		if d.IsError() {
			return true
		}
	}
	return false
}

// FirstError returns the first error-severity diagnostic in span order
func (l *List) FirstError() (Diagnostic, bool) {
	var first Diagnostic
	found := false
	for _, d := range l.diags {
		if !d.IsError() {
			continue
		}
		if !found || d.Span.Start < first.Span.Start {
			first = d
			found = true
		}
	}
	return first, found
}

// MarshalJSON emits the sorted diagnostic list
func (l *List) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.Sorted())
}
