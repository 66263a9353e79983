package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommands(t *testing.T) {
	tests := []struct {
		input string
		want  Statement
	}{
		{"CREATE DATABASE shop", &CreateDatabaseStmt{Name: "shop"}},
		{"USE shop", &UseStmt{Name: "shop"}},
		{"SHOW DATABASES", &ShowDatabasesStmt{}},
		{"DROP DATABASE shop", &DropDatabaseStmt{Name: "shop"}},
		{"INSERT INTO table VALUES (1, 'pen')", &InsertStmt{ID: 1, Name: "pen"}},
		{"INSERT INTO table VALUES ( 42 , 'two words' )", &InsertStmt{ID: 42, Name: "two words"}},
		{"SELECT * FROM table WHERE id = 7", &SelectStmt{ID: 7}},
		{"SELECT * FROM table", &SelectAllStmt{}},
		{"UPDATE table SET name = 'marker' WHERE id = 1", &UpdateStmt{Column: "name", Value: "marker", ID: 1}},
		{"DELETE FROM table WHERE id = 1", &DeleteStmt{ID: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			stmt, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, stmt)
		})
	}
}

func TestParseBlankLine(t *testing.T) {
	stmt, err := Parse("   ")
	require.NoError(t, err)
	assert.Nil(t, stmt)
}

func TestParseUnknownCommand(t *testing.T) {
	_, err := Parse("FROB everything")
	var unknown *UnknownCommandError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "FROB", unknown.Name)
}

func TestParseLowercaseKeywordIsUnknown(t *testing.T) {
	_, err := Parse("select * FROM table")
	var unknown *UnknownCommandError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "select", unknown.Name)
}

func TestParseSyntaxErrorPositions(t *testing.T) {
	tests := []struct {
		input     string
		wantIndex int
	}{
		{"CREATE DATABASE", 2},                          // missing name
		{"CREATE TABLE shop", 1},                        // TABLE is an identifier here, not DATABASE
		{"CREATE DATABASE shop extra", 3},               // trailing token
		{"USE", 1},                                      // missing name
		{"SHOW TABLES", 1},                              // only SHOW DATABASES exists
		{"INSERT INTO tbl VALUES (1, 'x')", 2},          // the table placeholder is literally "table"
		{"INSERT INTO table VALUES (1 'x')", 6},         // missing comma
		{"INSERT INTO table VALUES ('x', 'y')", 5},      // id must be an integer
		{"SELECT * FROM table WHERE id = 'x'", 7},       // id operand must be an integer
		{"SELECT * FROM table WHERE id = 1 extra", 8},   // trailing token
		{"SELECT * FROM table WHERE name = 'pen'", 5},   // only id lookups exist
		{"UPDATE table SET name = 'x' WHERE id = y", 9}, // id operand must be an integer
		{"DELETE FROM table WHERE id =", 6},             // missing operand
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Parse(tt.input)
			var syn *SyntaxError
			require.ErrorAs(t, err, &syn)
			assert.Equal(t, tt.wantIndex, syn.TokenIndex)
		})
	}
}

func TestParseSelectDispatchByTokenCount(t *testing.T) {
	// Exactly four tokens means select-all; anything else parses the
	// WHERE-id form.
	stmt, err := Parse("SELECT * FROM table")
	require.NoError(t, err)
	assert.IsType(t, &SelectAllStmt{}, stmt)

	_, err = Parse("SELECT * FROM table WHERE")
	var syn *SyntaxError
	require.ErrorAs(t, err, &syn)
}

func TestParseIntegerRange(t *testing.T) {
	_, err := Parse("SELECT * FROM table WHERE id = 2147483647")
	require.NoError(t, err)

	_, err = Parse("SELECT * FROM table WHERE id = 2147483648")
	var syn *SyntaxError
	require.ErrorAs(t, err, &syn)
	assert.Equal(t, 7, syn.TokenIndex)
}
