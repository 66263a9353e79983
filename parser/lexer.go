package parser

import (
	"strings"
	"unicode"
)

// Tokenize splits one command line into a flat token sequence. It never
// fails: an empty line yields an empty sequence and unrecognized input
// simply becomes identifier tokens.
//
// A single quote toggles string-literal mode. Inside a literal every
// character, including spaces and keyword spellings, accumulates verbatim
// into one Text token, emitted at the closing quote. An unterminated
// literal silently runs to the end of the input; whatever accumulated is
// then flushed through normal classification, exactly as if it had never
// been quoted.
func Tokenize(input string) []Token {
	var (
		tokens   []Token
		buf      strings.Builder
		start    int
		inString bool
	)

	flush := func() {
		if buf.Len() == 0 {
			return
		}
		word := buf.String()
		tokens = append(tokens, Token{Kind: classify(word), Literal: word, Pos: start})
		buf.Reset()
	}

	for i, r := range input {
		switch {
		case r == '\'':
			if inString {
				tokens = append(tokens, Token{Kind: TokenText, Literal: buf.String(), Pos: start})
				buf.Reset()
				inString = false
			} else {
				if buf.Len() == 0 {
					start = i
				}
				inString = true
			}
		case inString:
			buf.WriteRune(r)
		case unicode.IsSpace(r):
			flush()
		case r == '(' || r == ')' || r == ',' || r == '=':
			flush()
			tokens = append(tokens, Token{Kind: TokenPunct, Literal: string(r), Pos: i})
		default:
			if buf.Len() == 0 {
				start = i
			}
			buf.WriteRune(r)
		}
	}
	flush()
	return tokens
}
