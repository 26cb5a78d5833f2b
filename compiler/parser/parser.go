// Package parser transforms HEDL token streams into a document model with
// source spans attached to every node.
package parser

import (
	"github.com/hedl-lang/hedl/compiler/errors"
	"github.com/hedl-lang/hedl/compiler/lexer"
	"github.com/hedl-lang/hedl/document"
)

// Parser consumes a token stream and populates a Document. In strict mode
// the first syntax violation stops the parse; in lenient mode the parser
// records the diagnostic and skips to the next newline at statement level.
type Parser struct {
	tokens  []lexer.Token
	current int
	doc     *document.Document
	strict  bool
	diags   []errors.Diagnostic
	failed  bool
}

// New creates a new Parser from a token stream
func New(tokens []lexer.Token, strict bool) *Parser {
	return &Parser{
		tokens: tokens,
		doc:    document.New(),
		strict: strict,
	}
}

// Parse parses the token stream and returns the document and any errors.
// The returned document is unresolved; callers run the resolver next.
func (p *Parser) Parse() (*document.Document, []errors.Diagnostic) {
	p.parseDocument()
	return p.doc, p.diags
}

func (p *Parser) parseDocument() {
	sawVersion := false
	sawSeparator := false

prologue:
	for !p.isAtEnd() && !p.failed {
		p.skipNewlines()
		switch p.peek().Kind {
		case lexer.DirVersion:
			if sawVersion {
				p.errorAt(p.peek(), errors.CodeDuplicateVersion, "%s", errors.Message(errors.CodeDuplicateVersion))
				p.synchronize()
				continue
			}
			if p.parseVersion() {
				sawVersion = true
			}
		case lexer.DirAlias:
			p.parseAliasDirective()
		case lexer.DirSchema:
			p.parseSchemaDirective()
		case lexer.DirImport:
			p.parseImportDirective()
		case lexer.Separator:
			p.advance()
			p.skipNewlines()
			sawSeparator = true
			break prologue
		case lexer.EOF:
			break prologue
		default:
			p.errorAt(p.peek(), errors.CodeMissingSeparator, "%s", errors.Message(errors.CodeMissingSeparator))
			p.synchronize()
		}
	}

	if p.failed {
		return
	}
	if !sawSeparator {
		p.errorAt(p.peek(), errors.CodeMissingSeparator, "%s", errors.Message(errors.CodeMissingSeparator))
		return
	}
	if !sawVersion {
		p.errorAt(p.peek(), errors.CodeMissingVersion, "%s", errors.Message(errors.CodeMissingVersion))
		if p.failed {
			return
		}
	}

	p.parseBody()
}

func (p *Parser) parseBody() {
	for !p.isAtEnd() && !p.failed {
		p.skipNewlines()
		if p.isAtEnd() {
			return
		}

		tok := p.peek()
		switch tok.Kind {
		case lexer.DirVersion, lexer.DirAlias, lexer.DirSchema, lexer.DirImport, lexer.Separator:
			p.errorAt(tok, errors.CodeDirectiveAfterBody, "%s", errors.Message(errors.CodeDirectiveAfterBody))
			p.synchronize()
			continue
		case lexer.Dedent, lexer.Indent:
			// Stray indentation at top level; the lexer reported any real
			// problem, so just consume it.
			p.advance()
			continue
		}

		key, keyTok, ok := p.parseKey()
		if !ok {
			p.synchronize()
			continue
		}
		if _, ok := p.consume(lexer.Colon, errors.CodeExpectedColon); !ok {
			p.synchronize()
			continue
		}
		value, ok := p.parseValue(true)
		if !ok {
			p.synchronize()
			continue
		}
		p.expectStatementEnd()

		item := document.RootItem{
			Key:     key,
			Value:   value,
			SpanOrd: p.doc.RecordSpan(spanOf(keyTok)),
		}
		if !p.doc.AddRoot(item) {
			p.errorAt(keyTok, errors.CodeDuplicateKey, "Duplicate root key %q", key)
		}
	}
}

// parseKey parses a root or map key: a bareword or quoted string
func (p *Parser) parseKey() (string, lexer.Token, bool) {
	tok := p.peek()
	switch tok.Kind {
	case lexer.Ident:
		p.advance()
		return tok.Lexeme, tok, true
	case lexer.String:
		p.advance()
		return tok.Literal.(string), tok, true
	}
	p.errorAt(tok, errors.CodeExpectedIdentifier, "Expected key, found %s", tok.Kind)
	return "", tok, false
}

// expectStatementEnd consumes the newline terminating a statement. A
// statement whose value was a block map already consumed its terminator.
func (p *Parser) expectStatementEnd() {
	if p.previous().Kind == lexer.Dedent {
		return
	}
	if p.isAtEnd() || p.check(lexer.Dedent) {
		return
	}
	if p.check(lexer.Newline) {
		p.advance()
		return
	}
	p.errorAt(p.peek(), errors.CodeUnexpectedToken, "Expected end of line, found %s", p.peek().Kind)
	p.synchronize()
}

// Helper methods for token manipulation

func (p *Parser) isAtEnd() bool {
	if p.current >= len(p.tokens) {
		return true
	}
	return p.tokens[p.current].Kind == lexer.EOF
}

// peek returns the current token without consuming it
func (p *Parser) peek() lexer.Token {
	if p.current >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.current]
}

// peekNext returns the token after the current one
func (p *Parser) peekNext() lexer.Token {
	if p.current+1 >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.current+1]
}

// previous returns the previous token
func (p *Parser) previous() lexer.Token {
	if p.current > 0 {
		return p.tokens[p.current-1]
	}
	return p.tokens[0]
}

// advance consumes and returns the current token
func (p *Parser) advance() lexer.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

// check checks if the current token is of the given kind
func (p *Parser) check(kind lexer.Kind) bool {
	if p.current >= len(p.tokens) {
		return false
	}
	return p.tokens[p.current].Kind == kind
}

// match consumes the current token if it matches any of the given kinds
func (p *Parser) match(kinds ...lexer.Kind) bool {
	for _, kind := range kinds {
		if p.check(kind) {
			p.advance()
			return true
		}
	}
	return false
}

// consume consumes a token of the given kind or records an error
func (p *Parser) consume(kind lexer.Kind, code string) (lexer.Token, bool) {
	if p.check(kind) {
		return p.advance(), true
	}
	p.errorAt(p.peek(), code, "%s, found %s", errors.Message(code), p.peek().Kind)
	return lexer.Token{}, false
}

// skipNewlines skips any newline tokens
func (p *Parser) skipNewlines() {
	for p.match(lexer.Newline) {
	}
}

// errorAt records a parse error anchored to tok. In strict mode parsing
// stops after the first error.
func (p *Parser) errorAt(tok lexer.Token, code, format string, args ...interface{}) {
	p.diags = append(p.diags, errors.Newf(errors.Error, code, spanOf(tok), format, args...))
	if p.strict {
		p.failed = true
	}
}

// synchronize skips tokens until the next statement boundary
func (p *Parser) synchronize() {
	if p.failed {
		return
	}
	for !p.isAtEnd() {
		if p.match(lexer.Newline) {
			return
		}
		p.advance()
	}
}

func spanOf(tok lexer.Token) errors.Span {
	return errors.Span{Start: tok.Start, End: tok.End, Line: tok.Line, Column: tok.Column}
}
