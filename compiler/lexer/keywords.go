package lexer

// keywords maps bareword lexemes to their token kinds
var keywords = map[string]Kind{
	"true":  True,
	"false": False,
	"null":  Null,
}

// directives maps directive names (without the leading %) to token kinds
var directives = map[string]Kind{
	"VERSION": DirVersion,
	"ALIAS":   DirAlias,
	"SCHEMA":  DirSchema,
	"IMPORT":  DirImport,
}

// lookupKeyword returns the token kind for a bareword, if it is a keyword
func lookupKeyword(lexeme string) (Kind, bool) {
	k, ok := keywords[lexeme]
	return k, ok
}

// lookupDirective returns the token kind for a directive name
func lookupDirective(name string) (Kind, bool) {
	k, ok := directives[name]
	return k, ok
}
