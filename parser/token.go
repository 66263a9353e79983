package parser

// TokenKind identifies the kind of token produced by the tokenizer.
type TokenKind int

const (
	TokenKeyword TokenKind = iota
	TokenInteger
	TokenText  // single-quoted string literal
	TokenPunct // one of ( ) , =
	TokenIdent
)

var kindNames = map[TokenKind]string{
	TokenKeyword: "keyword",
	TokenInteger: "integer",
	TokenText:    "string",
	TokenPunct:   "punctuation",
	TokenIdent:   "identifier",
}

func (k TokenKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Token is a single lexical unit produced by the tokenizer.
type Token struct {
	Kind    TokenKind
	Literal string
	Pos     int // byte offset of the token start in the input
}

// keywords is the fixed, case-sensitive keyword set of the command
// language. Lowercase variants are ordinary identifiers.
var keywords = map[string]bool{
	"CREATE":    true,
	"DATABASE":  true,
	"USE":       true,
	"SHOW":      true,
	"DATABASES": true,
	"DROP":      true,
	"INSERT":    true,
	"INTO":      true,
	"VALUES":    true,
	"SELECT":    true,
	"FROM":      true,
	"WHERE":     true,
	"UPDATE":    true,
	"SET":       true,
	"DELETE":    true,
}

// classify maps a flushed word to keyword, integer or identifier.
func classify(word string) TokenKind {
	if keywords[word] {
		return TokenKeyword
	}
	if allDigits(word) {
		return TokenInteger
	}
	return TokenIdent
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
