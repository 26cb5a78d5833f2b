package parser

import (
	"strconv"
	"strings"

	"github.com/hedl-lang/hedl/compiler/errors"
	"github.com/hedl-lang/hedl/compiler/lexer"
	"github.com/hedl-lang/hedl/document"
)

// parseVersion parses `%VERSION: MAJOR.MINOR`
func (p *Parser) parseVersion() bool {
	p.advance()
	if _, ok := p.consume(lexer.Colon, errors.CodeExpectedColon); !ok {
		p.synchronize()
		return false
	}

	tok := p.peek()
	if tok.Kind != lexer.Float {
		p.errorAt(tok, errors.CodeMalformedVersion, errors.Message(errors.CodeMalformedVersion))
		p.synchronize()
		return false
	}
	p.advance()

	major, minor, ok := splitVersion(tok.Lexeme)
	if !ok {
		p.errorAt(tok, errors.CodeMalformedVersion, errors.Message(errors.CodeMalformedVersion))
		return false
	}
	p.doc.SetVersion(major, minor)
	p.expectStatementEnd()
	return true
}

// splitVersion splits "MAJOR.MINOR" into its two non-negative components.
// Exponents, signs, and extra dots all fail.
func splitVersion(lexeme string) (major, minor int, ok bool) {
	before, after, found := strings.Cut(lexeme, ".")
	if !found || before == "" || after == "" {
		return 0, 0, false
	}
	for _, part := range []string{before, after} {
		for _, c := range part {
			if c < '0' || c > '9' {
				return 0, 0, false
			}
		}
	}
	major, err := strconv.Atoi(before)
	if err != nil {
		return 0, 0, false
	}
	minor, err = strconv.Atoi(after)
	if err != nil {
		return 0, 0, false
	}
	return major, minor, true
}

// parseAliasDirective parses `%ALIAS: name = value`
func (p *Parser) parseAliasDirective() {
	p.advance()
	if _, ok := p.consume(lexer.Colon, errors.CodeExpectedColon); !ok {
		p.synchronize()
		return
	}
	nameTok, ok := p.consume(lexer.Ident, errors.CodeExpectedIdentifier)
	if !ok {
		p.synchronize()
		return
	}
	if _, ok := p.consume(lexer.Equal, errors.CodeUnexpectedToken); !ok {
		p.synchronize()
		return
	}

	value, ok := p.parseValue(false)
	if !ok {
		p.synchronize()
		return
	}
	switch value.Kind() {
	case document.KindList, document.KindMap, document.KindRecord:
		p.errorAt(nameTok, errors.CodeAliasValueKind, errors.Message(errors.CodeAliasValueKind))
		p.expectStatementEnd()
		return
	}

	alias := &document.Alias{
		Name:    nameTok.Lexeme,
		Value:   value,
		SpanOrd: p.doc.RecordSpan(spanOf(nameTok)),
	}
	if !p.doc.AddAlias(alias) {
		p.errorAt(nameTok, errors.CodeDuplicateName, "Name %q is already defined", nameTok.Lexeme)
	}
	p.expectStatementEnd()
}

// parseSchemaDirective parses `%SCHEMA: Name { field-decls }`
func (p *Parser) parseSchemaDirective() {
	p.advance()
	if _, ok := p.consume(lexer.Colon, errors.CodeExpectedColon); !ok {
		p.synchronize()
		return
	}
	nameTok, ok := p.consume(lexer.Ident, errors.CodeExpectedIdentifier)
	if !ok {
		p.synchronize()
		return
	}
	if _, ok := p.consume(lexer.LBrace, errors.CodeExpectedBrace); !ok {
		p.synchronize()
		return
	}

	schema := document.NewSchema(nameTok.Lexeme, p.doc.RecordSpan(spanOf(nameTok)))

	p.skipSoft()
	for !p.check(lexer.RBrace) && !p.isAtEnd() && !p.failed {
		field, fieldTok, ok := p.parseFieldDecl()
		if !ok {
			p.synchronize()
			return
		}
		if !schema.AddField(field) {
			p.errorAt(fieldTok, errors.CodeDuplicateField, "Field %q is already declared", field.Name)
		}

		sep := p.skipSoft()
		if p.match(lexer.Comma) {
			p.skipSoft()
			continue
		}
		if sep == 0 && !p.check(lexer.RBrace) {
			p.errorAt(p.peek(), errors.CodeBadFieldDecl, "Expected ',' or '}' after field declaration")
			p.synchronize()
			return
		}
	}

	if _, ok := p.consume(lexer.RBrace, errors.CodeExpectedBrace); !ok {
		p.synchronize()
		return
	}
	if !p.doc.AddSchema(schema) {
		p.errorAt(nameTok, errors.CodeDuplicateName, "Name %q is already defined", nameTok.Lexeme)
	}
	p.expectStatementEnd()
}

// parseFieldDecl parses `name: type` or `name?: type = default`
func (p *Parser) parseFieldDecl() (*document.Field, lexer.Token, bool) {
	nameTok, ok := p.consume(lexer.Ident, errors.CodeExpectedIdentifier)
	if !ok {
		return nil, nameTok, false
	}
	optional := p.match(lexer.Question)
	if _, ok := p.consume(lexer.Colon, errors.CodeExpectedColon); !ok {
		return nil, nameTok, false
	}
	typeTok, ok := p.consume(lexer.Ident, errors.CodeBadFieldDecl)
	if !ok {
		return nil, nameTok, false
	}

	ftype := document.FieldType{SchemaOrd: -1}
	if kind, primitive := document.PrimitiveType(typeTok.Lexeme); primitive {
		ftype.Kind = kind
	} else {
		ftype.Kind = document.TypeSchema
		ftype.Schema = typeTok.Lexeme
	}

	field := &document.Field{
		Name:     nameTok.Lexeme,
		Type:     ftype,
		Optional: optional,
		SpanOrd:  p.doc.RecordSpan(spanOf(nameTok)),
	}

	if p.match(lexer.Equal) {
		def, ok := p.parseValue(false)
		if !ok {
			return nil, nameTok, false
		}
		switch def.Kind() {
		case document.KindList, document.KindMap, document.KindRecord:
			p.errorAt(nameTok, errors.CodeBadFieldDecl, "Field defaults must be scalars")
			return nil, nameTok, false
		}
		field.Default = &def
	}
	return field, nameTok, true
}

// parseImportDirective parses `%IMPORT: <arg>`. Imports are advisory; the
// resolver flags them as unsupported.
func (p *Parser) parseImportDirective() {
	dirTok := p.advance()
	if _, ok := p.consume(lexer.Colon, errors.CodeExpectedColon); !ok {
		p.synchronize()
		return
	}

	var arg string
	tok := p.peek()
	switch tok.Kind {
	case lexer.String:
		p.advance()
		arg = tok.Literal.(string)
	case lexer.Ident:
		p.advance()
		arg = tok.Lexeme
	default:
		p.errorAt(tok, errors.CodeExpectedValue, "Expected import target")
		p.synchronize()
		return
	}

	p.doc.AddImport(document.Import{Arg: arg, SpanOrd: p.doc.RecordSpan(spanOf(dirTok))})
	p.expectStatementEnd()
}
