package parser

import (
	"github.com/hedl-lang/hedl/compiler/errors"
	"github.com/hedl-lang/hedl/compiler/lexer"
	"github.com/hedl-lang/hedl/document"
)

// parseValue parses any value form. allowBlock permits the indentation-based
// block map that may follow a bare `key:` at statement level.
func (p *Parser) parseValue(allowBlock bool) (document.Value, bool) {
	tok := p.peek()
	switch tok.Kind {
	case lexer.Int:
		p.advance()
		return p.spanned(document.Int(tok.Literal.(int64)), tok), true
	case lexer.Float:
		p.advance()
		return p.spanned(document.Float(tok.Literal.(float64)), tok), true
	case lexer.String:
		p.advance()
		return p.spanned(document.String(tok.Literal.(string)), tok), true
	case lexer.True:
		p.advance()
		return p.spanned(document.Bool(true), tok), true
	case lexer.False:
		p.advance()
		return p.spanned(document.Bool(false), tok), true
	case lexer.Null:
		p.advance()
		return p.spanned(document.Null(), tok), true
	case lexer.Reference:
		p.advance()
		return p.spanned(document.Ref(tok.Literal.(string)), tok), true
	case lexer.Ident:
		if p.peekNext().Kind == lexer.LBrace {
			return p.parseRecord()
		}
		// Bareword scalar.
		p.advance()
		return p.spanned(document.String(tok.Lexeme), tok), true
	case lexer.LBracket:
		return p.parseList()
	case lexer.LBrace:
		return p.parseFlowMap()
	case lexer.Newline:
		if allowBlock && p.peekNext().Kind == lexer.Indent {
			return p.parseBlockMap()
		}
	}
	p.errorAt(tok, errors.CodeExpectedValue, "%s, found %s", errors.Message(errors.CodeExpectedValue), tok.Kind)
	return document.Null(), false
}

// spanned records tok's span and attaches its ordinal to v
func (p *Parser) spanned(v document.Value, tok lexer.Token) document.Value {
	return v.WithSpan(p.doc.RecordSpan(spanOf(tok)))
}

// spannedRange attaches a span covering from the start token through the
// most recently consumed token.
func (p *Parser) spannedRange(v document.Value, start lexer.Token) document.Value {
	span := errors.Span{
		Start:  start.Start,
		End:    p.previous().End,
		Line:   start.Line,
		Column: start.Column,
	}
	return v.WithSpan(p.doc.RecordSpan(span))
}

// parseList parses `[ items ]`. Items are separated by commas or newlines.
// The list is labeled matrix when every element is a record of the same
// schema with identical field order; the resolver rechecks the labeling.
func (p *Parser) parseList() (document.Value, bool) {
	start := p.advance() // [
	list := &document.List{SchemaOrd: -1}

	p.skipSoft()
	for !p.check(lexer.RBracket) && !p.isAtEnd() && !p.failed {
		item, ok := p.parseValue(false)
		if !ok {
			return document.Null(), false
		}
		list.Items = append(list.Items, item)

		sep := p.skipSoft()
		if p.match(lexer.Comma) {
			p.skipSoft()
			continue
		}
		if sep == 0 && !p.check(lexer.RBracket) {
			p.errorAt(p.peek(), errors.CodeExpectedBracket, "Expected ',' or ']' after list item")
			return document.Null(), false
		}
	}
	if _, ok := p.consume(lexer.RBracket, errors.CodeExpectedBracket); !ok {
		return document.Null(), false
	}

	classifyMatrix(list)
	return p.spannedRange(document.FromList(list), start), true
}

// classifyMatrix labels a list as matrix when every element is a record of
// one schema with one field layout.
func classifyMatrix(list *document.List) {
	if len(list.Items) == 0 {
		return
	}
	first := list.Items[0]
	if first.Kind() != document.KindRecord {
		return
	}
	name := first.Record().SchemaName
	layout := fieldKeys(first.Record())
	for _, item := range list.Items[1:] {
		if item.Kind() != document.KindRecord {
			return
		}
		rec := item.Record()
		if rec.SchemaName != name || !sameKeys(layout, fieldKeys(rec)) {
			return
		}
	}
	list.Matrix = true
	list.Schema = name
}

func fieldKeys(rec *document.Record) []string {
	keys := make([]string, rec.Fields.Len())
	for i := range keys {
		keys[i] = rec.Fields.At(i).Key
	}
	return keys
}

func sameKeys(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// parseFlowMap parses `{ key: value, ... }`
func (p *Parser) parseFlowMap() (document.Value, bool) {
	start := p.advance() // {
	m := document.NewMap()

	if !p.parseEntries(m, lexer.RBrace) {
		return document.Null(), false
	}
	if _, ok := p.consume(lexer.RBrace, errors.CodeExpectedBrace); !ok {
		return document.Null(), false
	}
	return p.spannedRange(document.FromMap(m), start), true
}

// parseRecord parses `SchemaName { field: value, ... }`
func (p *Parser) parseRecord() (document.Value, bool) {
	nameTok := p.advance()
	p.advance() // {
	rec := document.NewRecord(nameTok.Lexeme)

	if !p.parseEntries(rec.Fields, lexer.RBrace) {
		return document.Null(), false
	}
	rec.Explicit = rec.Fields.Len()
	if _, ok := p.consume(lexer.RBrace, errors.CodeExpectedBrace); !ok {
		return document.Null(), false
	}
	return p.spannedRange(document.FromRecord(rec), nameTok), true
}

// parseEntries parses the key/value entries of a flow map or record body up
// to (not including) the closing token.
func (p *Parser) parseEntries(m *document.Map, closing lexer.Kind) bool {
	p.skipSoft()
	for !p.check(closing) && !p.isAtEnd() && !p.failed {
		key, keyTok, ok := p.parseKey()
		if !ok {
			return false
		}
		if _, ok := p.consume(lexer.Colon, errors.CodeExpectedColon); !ok {
			return false
		}
		value, ok := p.parseValue(false)
		if !ok {
			return false
		}
		if !m.Append(key, value, p.doc.RecordSpan(spanOf(keyTok))) {
			p.errorAt(keyTok, errors.CodeDuplicateKey, "Duplicate key %q", key)
		}

		sep := p.skipSoft()
		if p.match(lexer.Comma) {
			p.skipSoft()
			continue
		}
		if sep == 0 && !p.check(closing) {
			p.errorAt(p.peek(), errors.CodeUnexpectedToken, "Expected ',' or closing delimiter after entry")
			return false
		}
	}
	return !p.failed
}

// parseBlockMap parses the indentation form:
//
//	key:
//	  a: 1
//	  b: 2
//
// The current token is the newline after the parent key's colon.
func (p *Parser) parseBlockMap() (document.Value, bool) {
	start := p.advance() // newline
	p.advance()          // indent
	m := document.NewMap()

	for !p.check(lexer.Dedent) && !p.isAtEnd() && !p.failed {
		if p.match(lexer.Newline) {
			continue
		}
		key, keyTok, ok := p.parseKey()
		if !ok {
			return document.Null(), false
		}
		if _, ok := p.consume(lexer.Colon, errors.CodeExpectedColon); !ok {
			return document.Null(), false
		}
		value, ok := p.parseValue(true)
		if !ok {
			return document.Null(), false
		}
		if !m.Append(key, value, p.doc.RecordSpan(spanOf(keyTok))) {
			p.errorAt(keyTok, errors.CodeDuplicateKey, "Duplicate key %q", key)
		}
		p.expectBlockEntryEnd()
	}

	p.match(lexer.Dedent)
	return p.spannedRange(document.FromMap(m), start), true
}

// expectBlockEntryEnd consumes the newline ending a block map entry. An
// entry whose value was itself a block map already consumed its terminator.
func (p *Parser) expectBlockEntryEnd() {
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

// skipSoft skips newline tokens inside flow context and returns how many
// were skipped.
func (p *Parser) skipSoft() int {
	n := 0
	for p.match(lexer.Newline) {
		n++
	}
	return n
}
