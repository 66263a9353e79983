package executor

import (
	"errors"
	"fmt"
	"strings"

	"onetable/parser"
	"onetable/storage"
)

// ErrNoDatabase is returned for table-scoped commands while no database
// is selected.
var ErrNoDatabase = errors.New("no database selected; use CREATE DATABASE or USE")

// Session executes command lines against a registry. It carries the
// current selection explicitly, so independent sessions (one per REPL or
// per server connection) never share selection state.
type Session struct {
	reg     *storage.Registry
	current *storage.Table
	name    string
}

// NewSession creates a session with no database selected.
func NewSession(reg *storage.Registry) *Session {
	return &Session{reg: reg}
}

// CurrentName returns the selected database name, or "" when none is
// selected.
func (s *Session) CurrentName() string {
	return s.name
}

// Execute parses and runs one command line. A blank line returns
// (nil, nil). Errors are reported per line; the caller prints them and
// keeps its loop running.
func (s *Session) Execute(line string) (*Result, error) {
	stmt, err := parser.Parse(line)
	if err != nil {
		return nil, err
	}
	if stmt == nil {
		return nil, nil
	}

	switch st := stmt.(type) {
	case *parser.CreateDatabaseStmt:
		return s.execCreateDatabase(st)
	case *parser.UseStmt:
		return s.execUse(st)
	case *parser.ShowDatabasesStmt:
		return s.execShowDatabases()
	case *parser.DropDatabaseStmt:
		return s.execDropDatabase(st)
	case *parser.InsertStmt:
		return s.execInsert(st)
	case *parser.SelectStmt:
		return s.execSelect(st)
	case *parser.SelectAllStmt:
		return s.execSelectAll()
	case *parser.UpdateStmt:
		return s.execUpdate(st)
	case *parser.DeleteStmt:
		return s.execDelete(st)
	default:
		return nil, fmt.Errorf("unsupported statement type %T", stmt)
	}
}

// table returns the selected table for table-scoped commands.
func (s *Session) table() (*storage.Table, error) {
	if s.current == nil {
		return nil, ErrNoDatabase
	}
	return s.current, nil
}

func (s *Session) execCreateDatabase(st *parser.CreateDatabaseStmt) (*Result, error) {
	t, err := s.reg.Create(st.Name)
	if err != nil {
		return nil, err
	}
	s.current = t
	s.name = st.Name
	return &Result{Message: fmt.Sprintf("Database '%s' created and selected", st.Name)}, nil
}

func (s *Session) execUse(st *parser.UseStmt) (*Result, error) {
	t, err := s.reg.Use(st.Name)
	if err != nil {
		return nil, err
	}
	s.current = t
	s.name = st.Name
	return &Result{Message: fmt.Sprintf("Switched to database '%s'", st.Name)}, nil
}

func (s *Session) execShowDatabases() (*Result, error) {
	var b strings.Builder
	b.WriteString("Databases:")
	for _, name := range s.reg.List() {
		b.WriteString("\n  ")
		b.WriteString(name)
		if name == s.name {
			b.WriteString(" (current)")
		}
	}
	return &Result{Message: b.String()}, nil
}

func (s *Session) execDropDatabase(st *parser.DropDatabaseStmt) (*Result, error) {
	if err := s.reg.Drop(st.Name); err != nil {
		return nil, err
	}
	if st.Name == s.name {
		s.current = nil
		s.name = ""
		return &Result{Message: fmt.Sprintf("Database '%s' dropped. No database selected.", st.Name)}, nil
	}
	return &Result{Message: fmt.Sprintf("Database '%s' dropped", st.Name)}, nil
}

func (s *Session) execInsert(st *parser.InsertStmt) (*Result, error) {
	t, err := s.table()
	if err != nil {
		return nil, err
	}
	if err := t.Insert(storage.Row{st.ID, st.Name}); err != nil {
		return nil, err
	}
	return &Result{Message: fmt.Sprintf("Inserted successfully into '%s'", s.name)}, nil
}

func (s *Session) execSelect(st *parser.SelectStmt) (*Result, error) {
	t, err := s.table()
	if err != nil {
		return nil, err
	}
	row, err := t.Get(st.ID)
	if err != nil {
		return nil, err
	}
	return &Result{Rows: []storage.Row{row}}, nil
}

func (s *Session) execSelectAll() (*Result, error) {
	t, err := s.table()
	if err != nil {
		return nil, err
	}
	rows := t.ListAll()
	if len(rows) == 0 {
		return &Result{Message: "no data"}, nil
	}
	return &Result{Rows: rows}, nil
}

func (s *Session) execUpdate(st *parser.UpdateStmt) (*Result, error) {
	t, err := s.table()
	if err != nil {
		return nil, err
	}
	// The grammar fixes the updatable column to the table's single TEXT
	// payload column.
	payload := t.Schema()[1]
	if st.Column != payload.Name {
		return nil, fmt.Errorf("unknown column %q; only %q can be updated", st.Column, payload.Name)
	}
	row, err := t.Get(st.ID)
	if err != nil {
		return nil, err
	}
	row[1] = st.Value
	if err := t.Update(st.ID, row); err != nil {
		return nil, err
	}
	return &Result{Message: fmt.Sprintf("Updated successfully in '%s'", s.name)}, nil
}

func (s *Session) execDelete(st *parser.DeleteStmt) (*Result, error) {
	t, err := s.table()
	if err != nil {
		return nil, err
	}
	if _, err := t.Get(st.ID); err != nil {
		return nil, err
	}
	t.Remove(st.ID)
	return &Result{Message: fmt.Sprintf("Deleted successfully from '%s'", s.name)}, nil
}
