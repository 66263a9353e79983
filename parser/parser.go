package parser

import (
	"fmt"
	"strconv"
)

// SyntaxError reports the token index at which grammar validation failed.
type SyntaxError struct {
	TokenIndex int
	Expected   string
}

func (e *SyntaxError) Error() string {
	if e.Expected == "" {
		return fmt.Sprintf("syntax error at token %d", e.TokenIndex)
	}
	return fmt.Sprintf("syntax error at token %d: expected %s", e.TokenIndex, e.Expected)
}

// UnknownCommandError is returned when the leading word of a line does
// not start any known command.
type UnknownCommandError struct {
	Name string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("unknown command %q", e.Name)
}

// parser validates a token sequence against one fixed command grammar.
// There is no backtracking: each grammar is a fixed run of expect checks
// and the first mismatch wins.
type parser struct {
	tokens []Token
	i      int
}

// Parse tokenizes one command line and matches it against the command
// grammars. A blank line returns (nil, nil). The command is chosen by the
// literal text of the first token; SELECT picks the select-all form when
// the line has exactly four tokens and the WHERE-id form otherwise.
func Parse(line string) (Statement, error) {
	tokens := Tokenize(line)
	if len(tokens) == 0 {
		return nil, nil
	}

	p := &parser{tokens: tokens}
	switch tokens[0].Literal {
	case "CREATE":
		return p.parseCreateDatabase()
	case "USE":
		return p.parseUse()
	case "SHOW":
		return p.parseShowDatabases()
	case "DROP":
		return p.parseDropDatabase()
	case "INSERT":
		return p.parseInsert()
	case "SELECT":
		if len(tokens) == 4 {
			return p.parseSelectAll()
		}
		return p.parseSelect()
	case "UPDATE":
		return p.parseUpdate()
	case "DELETE":
		return p.parseDelete()
	default:
		return nil, &UnknownCommandError{Name: tokens[0].Literal}
	}
}

// -------------------------------------------------------------------------
// Helpers
// -------------------------------------------------------------------------

// expect checks the current token's kind and, when literal is non-empty,
// its exact text, then advances.
func (p *parser) expect(kind TokenKind, literal string) error {
	if p.i >= len(p.tokens) || p.tokens[p.i].Kind != kind ||
		(literal != "" && p.tokens[p.i].Literal != literal) {
		want := kind.String()
		if literal != "" {
			want = strconv.Quote(literal)
		}
		return &SyntaxError{TokenIndex: p.i, Expected: want}
	}
	p.i++
	return nil
}

// take returns the current token after checking its kind, then advances.
func (p *parser) take(kind TokenKind) (Token, error) {
	if p.i >= len(p.tokens) || p.tokens[p.i].Kind != kind {
		return Token{}, &SyntaxError{TokenIndex: p.i, Expected: kind.String()}
	}
	tok := p.tokens[p.i]
	p.i++
	return tok, nil
}

// takeInt extracts an integer operand. Values are range-checked to 32
// bits because that is the width the table file stores.
func (p *parser) takeInt() (int64, error) {
	tok, err := p.take(TokenInteger)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(tok.Literal, 10, 32)
	if err != nil {
		return 0, &SyntaxError{TokenIndex: p.i - 1, Expected: "32-bit integer"}
	}
	return v, nil
}

// end rejects trailing tokens after a complete grammar.
func (p *parser) end() error {
	if p.i != len(p.tokens) {
		return &SyntaxError{TokenIndex: p.i, Expected: "end of command"}
	}
	return nil
}

// -------------------------------------------------------------------------
// Command grammars
// -------------------------------------------------------------------------

func (p *parser) parseCreateDatabase() (Statement, error) {
	if err := p.expect(TokenKeyword, "CREATE"); err != nil {
		return nil, err
	}
	if err := p.expect(TokenKeyword, "DATABASE"); err != nil {
		return nil, err
	}
	name, err := p.take(TokenIdent)
	if err != nil {
		return nil, err
	}
	if err := p.end(); err != nil {
		return nil, err
	}
	return &CreateDatabaseStmt{Name: name.Literal}, nil
}

func (p *parser) parseUse() (Statement, error) {
	if err := p.expect(TokenKeyword, "USE"); err != nil {
		return nil, err
	}
	name, err := p.take(TokenIdent)
	if err != nil {
		return nil, err
	}
	if err := p.end(); err != nil {
		return nil, err
	}
	return &UseStmt{Name: name.Literal}, nil
}

func (p *parser) parseShowDatabases() (Statement, error) {
	if err := p.expect(TokenKeyword, "SHOW"); err != nil {
		return nil, err
	}
	if err := p.expect(TokenKeyword, "DATABASES"); err != nil {
		return nil, err
	}
	if err := p.end(); err != nil {
		return nil, err
	}
	return &ShowDatabasesStmt{}, nil
}

func (p *parser) parseDropDatabase() (Statement, error) {
	if err := p.expect(TokenKeyword, "DROP"); err != nil {
		return nil, err
	}
	if err := p.expect(TokenKeyword, "DATABASE"); err != nil {
		return nil, err
	}
	name, err := p.take(TokenIdent)
	if err != nil {
		return nil, err
	}
	if err := p.end(); err != nil {
		return nil, err
	}
	return &DropDatabaseStmt{Name: name.Literal}, nil
}

func (p *parser) parseInsert() (Statement, error) {
	if err := p.expect(TokenKeyword, "INSERT"); err != nil {
		return nil, err
	}
	if err := p.expect(TokenKeyword, "INTO"); err != nil {
		return nil, err
	}
	// Every database has exactly one implicit table, always addressed
	// by the literal identifier "table".
	if err := p.expect(TokenIdent, "table"); err != nil {
		return nil, err
	}
	if err := p.expect(TokenKeyword, "VALUES"); err != nil {
		return nil, err
	}
	if err := p.expect(TokenPunct, "("); err != nil {
		return nil, err
	}
	id, err := p.takeInt()
	if err != nil {
		return nil, err
	}
	if err := p.expect(TokenPunct, ","); err != nil {
		return nil, err
	}
	name, err := p.take(TokenText)
	if err != nil {
		return nil, err
	}
	if err := p.expect(TokenPunct, ")"); err != nil {
		return nil, err
	}
	if err := p.end(); err != nil {
		return nil, err
	}
	return &InsertStmt{ID: id, Name: name.Literal}, nil
}

// parseWhereID matches the shared trailer `WHERE id = <int>`.
func (p *parser) parseWhereID() (int64, error) {
	if err := p.expect(TokenKeyword, "WHERE"); err != nil {
		return 0, err
	}
	if err := p.expect(TokenIdent, "id"); err != nil {
		return 0, err
	}
	if err := p.expect(TokenPunct, "="); err != nil {
		return 0, err
	}
	return p.takeInt()
}

func (p *parser) parseSelect() (Statement, error) {
	if err := p.expect(TokenKeyword, "SELECT"); err != nil {
		return nil, err
	}
	if err := p.expect(TokenIdent, "*"); err != nil {
		return nil, err
	}
	if err := p.expect(TokenKeyword, "FROM"); err != nil {
		return nil, err
	}
	if err := p.expect(TokenIdent, "table"); err != nil {
		return nil, err
	}
	id, err := p.parseWhereID()
	if err != nil {
		return nil, err
	}
	if err := p.end(); err != nil {
		return nil, err
	}
	return &SelectStmt{ID: id}, nil
}

func (p *parser) parseSelectAll() (Statement, error) {
	if err := p.expect(TokenKeyword, "SELECT"); err != nil {
		return nil, err
	}
	if err := p.expect(TokenIdent, "*"); err != nil {
		return nil, err
	}
	if err := p.expect(TokenKeyword, "FROM"); err != nil {
		return nil, err
	}
	if err := p.expect(TokenIdent, "table"); err != nil {
		return nil, err
	}
	return &SelectAllStmt{}, nil
}

func (p *parser) parseUpdate() (Statement, error) {
	if err := p.expect(TokenKeyword, "UPDATE"); err != nil {
		return nil, err
	}
	if err := p.expect(TokenIdent, "table"); err != nil {
		return nil, err
	}
	if err := p.expect(TokenKeyword, "SET"); err != nil {
		return nil, err
	}
	col, err := p.take(TokenIdent)
	if err != nil {
		return nil, err
	}
	if err := p.expect(TokenPunct, "="); err != nil {
		return nil, err
	}
	value, err := p.take(TokenText)
	if err != nil {
		return nil, err
	}
	id, err := p.parseWhereID()
	if err != nil {
		return nil, err
	}
	if err := p.end(); err != nil {
		return nil, err
	}
	return &UpdateStmt{Column: col.Literal, Value: value.Literal, ID: id}, nil
}

func (p *parser) parseDelete() (Statement, error) {
	if err := p.expect(TokenKeyword, "DELETE"); err != nil {
		return nil, err
	}
	if err := p.expect(TokenKeyword, "FROM"); err != nil {
		return nil, err
	}
	if err := p.expect(TokenIdent, "table"); err != nil {
		return nil, err
	}
	id, err := p.parseWhereID()
	if err != nil {
		return nil, err
	}
	if err := p.end(); err != nil {
		return nil, err
	}
	return &DeleteStmt{ID: id}, nil
}
