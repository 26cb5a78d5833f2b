package lsp

import (
	"context"
	"encoding/json"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/hedl-lang/hedl/compiler/errors"
	"github.com/hedl-lang/hedl/engine"
	"github.com/hedl-lang/hedl/lint"
)

func (s *Server) handleDidOpen(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DidOpenTextDocumentParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return reply(ctx, nil, err)
	}
	s.documents[params.TextDocument.URI] = params.TextDocument.Text
	s.publishDiagnostics(ctx, params.TextDocument.URI)
	return reply(ctx, nil, nil)
}

func (s *Server) handleDidChange(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DidChangeTextDocumentParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return reply(ctx, nil, err)
	}
	// Full sync: the last content change carries the whole document.
	if len(params.ContentChanges) > 0 {
		s.documents[params.TextDocument.URI] = params.ContentChanges[len(params.ContentChanges)-1].Text
	}
	s.publishDiagnostics(ctx, params.TextDocument.URI)
	return reply(ctx, nil, nil)
}

func (s *Server) handleDidClose(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DidCloseTextDocumentParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return reply(ctx, nil, err)
	}
	delete(s.documents, params.TextDocument.URI)
	// Clear diagnostics for the closed document.
	s.notifyDiagnostics(ctx, params.TextDocument.URI, nil)
	return reply(ctx, nil, nil)
}

func (s *Server) handleDidSave(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DidSaveTextDocumentParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return reply(ctx, nil, err)
	}
	if params.Text != "" {
		s.documents[params.TextDocument.URI] = params.Text
	}
	s.publishDiagnostics(ctx, params.TextDocument.URI)
	return reply(ctx, nil, nil)
}

// handleFormatting canonicalizes the document and returns a whole-document
// edit. Documents that do not resolve stay untouched.
func (s *Server) handleFormatting(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DocumentFormattingParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return reply(ctx, nil, err)
	}
	text, ok := s.documents[params.TextDocument.URI]
	if !ok {
		return reply(ctx, nil, nil)
	}

	doc, err := engine.ParseDocument([]byte(text), false)
	if err != nil {
		return reply(ctx, nil, nil)
	}
	formatted, err := engine.CanonicalizeDocument(doc)
	if err != nil || formatted == text {
		return reply(ctx, nil, nil)
	}

	edit := []protocol.TextEdit{{
		Range: protocol.Range{
			Start: protocol.Position{Line: 0, Character: 0},
			End:   protocol.Position{Line: uint32(lineCount(text)), Character: 0},
		},
		NewText: formatted,
	}}
	return reply(ctx, edit, nil)
}

// publishDiagnostics parses and lints the document and pushes the findings
// to the client.
func (s *Server) publishDiagnostics(ctx context.Context, uri protocol.DocumentURI) {
	text, ok := s.documents[uri]
	if !ok {
		return
	}

	var found []errors.Diagnostic
	doc, err := engine.ParseDocument([]byte(text), false)
	if err != nil {
		if engErr, ok := err.(*engine.Error); ok {
			found = append(found, errors.Diagnostic{
				Severity: errors.Error,
				Code:     "E0000",
				Message:  engErr.Message,
			})
		}
	} else {
		found = lint.Run(doc)
	}

	out := make([]protocol.Diagnostic, 0, len(found))
	for _, d := range found {
		out = append(out, protocol.Diagnostic{
			Range:    rangeOf(d.Span),
			Severity: convertSeverity(d.Severity),
			Code:     d.Code,
			Source:   "hedl",
			Message:  d.Message,
		})
	}
	s.notifyDiagnostics(ctx, uri, out)
}

func (s *Server) notifyDiagnostics(ctx context.Context, uri protocol.DocumentURI, diags []protocol.Diagnostic) {
	if diags == nil {
		diags = []protocol.Diagnostic{}
	}
	params := protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diags,
	}
	if err := s.client.PublishDiagnostics(ctx, &params); err != nil {
		s.logger.Warn("publish diagnostics failed", zap.Error(err))
	}
}

// rangeOf converts a byte-anchored span into an LSP range. Lines and
// columns in spans are 1-based; LSP positions are 0-based.
func rangeOf(span errors.Span) protocol.Range {
	line := uint32(0)
	if span.Line > 0 {
		line = uint32(span.Line - 1)
	}
	col := uint32(0)
	if span.Column > 0 {
		col = uint32(span.Column - 1)
	}
	width := uint32(1)
	if span.End > span.Start {
		width = uint32(span.End - span.Start)
	}
	return protocol.Range{
		Start: protocol.Position{Line: line, Character: col},
		End:   protocol.Position{Line: line, Character: col + width},
	}
}

// convertSeverity converts a HEDL severity to its LSP counterpart
func convertSeverity(severity errors.Severity) protocol.DiagnosticSeverity {
	switch severity {
	case errors.Error:
		return protocol.DiagnosticSeverityError
	case errors.Warning:
		return protocol.DiagnosticSeverityWarning
	case errors.Hint:
		return protocol.DiagnosticSeverityHint
	default:
		return protocol.DiagnosticSeverityError
	}
}

func lineCount(text string) int {
	n := 1
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			n++
		}
	}
	return n
}
