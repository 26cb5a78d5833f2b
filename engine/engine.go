// Package engine is the implementation-neutral control surface over the
// HEDL core: parse, validate, canonicalize, lint, and document inspection.
// The FFI layer and the CLI are thin shells over this package.
package engine

import (
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/hedl-lang/hedl/canonical"
	"github.com/hedl-lang/hedl/compiler/errors"
	"github.com/hedl-lang/hedl/compiler/lexer"
	"github.com/hedl-lang/hedl/compiler/parser"
	"github.com/hedl-lang/hedl/compiler/resolver"
	"github.com/hedl-lang/hedl/compiler/source"
	"github.com/hedl-lang/hedl/document"
	"github.com/hedl-lang/hedl/lint"
)

// ParseDocument runs the full pipeline over input: UTF-8 validation,
// lexing, parsing, and resolution. In strict mode the first hard failure
// aborts with a *Error; in lenient mode recoverable issues are recorded in
// the document's diagnostic buffer and a finalized document is returned.
func ParseDocument(input []byte, strict bool) (*document.Document, error) {
	if input == nil {
		return nil, statusError(NullArgument, "input is nil")
	}

	file, err := source.New(input)
	if err != nil {
		return nil, statusError(InvalidUTF8, err.Error())
	}

	toks, lexDiags := lexer.New(file.Data()).Scan()
	if strict && len(lexDiags) > 0 {
		return nil, diagError(Parse, lexDiags[0])
	}

	p := parser.New(toks, strict)
	doc, parseDiags := p.Parse()
	if strict {
		if first, found := firstError(parseDiags); found {
			return nil, diagError(Parse, first)
		}
	} else {
		doc.Diagnostics().AddAll(lexDiags)
		doc.Diagnostics().AddAll(parseDiags)
	}

	res := resolver.New(doc, strict)
	resolveDiags := res.Resolve()
	if !doc.Resolved() {
		// The resolver finalizes unless it hit a hard failure.
		if first, found := firstError(resolveDiags); found {
			return nil, diagError(Parse, first)
		}
		return nil, statusError(Parse, "resolution failed")
	}
	return doc, nil
}

// Validate reports whether input parses and resolves. It is ParseDocument
// with the document discarded.
func Validate(input []byte, strict bool) error {
	_, err := ParseDocument(input, strict)
	return err
}

// CanonicalizeDocument renders doc's byte-deterministic canonical form
func CanonicalizeDocument(doc *document.Document) (string, error) {
	if doc == nil {
		return "", statusError(NullArgument, "document is nil")
	}
	if !doc.Resolved() {
		return "", statusError(Canonicalize, "document is not resolved")
	}
	return canonical.Canonicalize(doc), nil
}

// CanonicalizeTo streams doc's canonical form to w in chunks
func CanonicalizeTo(doc *document.Document, w io.Writer) error {
	if doc == nil {
		return statusError(NullArgument, "document is nil")
	}
	if !doc.Resolved() {
		return statusError(Canonicalize, "document is not resolved")
	}
	if err := canonical.Write(doc, w); err != nil {
		return statusError(Canonicalize, err.Error())
	}
	return nil
}

// Diagnostics owns the result of a lint run. Messages handed out through
// MessageAt are copies; the collection is indexable as the C surface
// requires, and carries its own identity token for the handle table.
type Diagnostics struct {
	id    uuid.UUID
	items []errors.Diagnostic
}

// ID returns the identity token the handle table keys this collection by
func (d *Diagnostics) ID() uuid.UUID { return d.id }

// Count returns the number of diagnostics
func (d *Diagnostics) Count() int {
	if d == nil {
		return 0
	}
	return len(d.items)
}

// At returns the i-th diagnostic in span order
func (d *Diagnostics) At(i int) (errors.Diagnostic, bool) {
	if d == nil || i < 0 || i >= len(d.items) {
		return errors.Diagnostic{}, false
	}
	return d.items[i], true
}

// MessageAt formats the i-th diagnostic as "CODE: message at line:column"
func (d *Diagnostics) MessageAt(i int) (string, bool) {
	diag, ok := d.At(i)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%s: %s at %d:%d", diag.Code, diag.Message, diag.Span.Line, diag.Span.Column), true
}

// SeverityAt returns the i-th diagnostic's severity (0=hint, 1=warning,
// 2=error), or -1 when out of range.
func (d *Diagnostics) SeverityAt(i int) int {
	diag, ok := d.At(i)
	if !ok {
		return -1
	}
	return int(diag.Severity)
}

// LintDocument lints a resolved document
func LintDocument(doc *document.Document) (*Diagnostics, error) {
	if doc == nil {
		return nil, statusError(NullArgument, "document is nil")
	}
	if !doc.Resolved() {
		return nil, statusError(Lint, "document is not resolved")
	}
	return &Diagnostics{id: uuid.New(), items: lint.Run(doc)}, nil
}

func firstError(diags []errors.Diagnostic) (errors.Diagnostic, bool) {
	var list errors.List
	list.AddAll(diags)
	return list.FirstError()
}

func diagError(status Status, diag errors.Diagnostic) *Error {
	return &Error{Status: status, Message: diag.Error()}
}
