package storage

import "fmt"

// DataType identifies a column's data type.
type DataType uint8

const (
	TypeInteger DataType = iota
	TypeText
)

func (d DataType) String() string {
	switch d {
	case TypeInteger:
		return "INTEGER"
	case TypeText:
		return "TEXT"
	default:
		return "UNKNOWN"
	}
}

// ColumnDef describes a column in a table. Immutable once the table is
// constructed.
type ColumnDef struct {
	Name     string
	DataType DataType
}

// Schema is the ordered column list of a table. It must be non-empty and
// column 0 must be INTEGER: that column is the primary key.
type Schema []ColumnDef

// DefaultSchema returns the fixed two-column schema every database's
// implicit table uses.
func DefaultSchema() Schema {
	return Schema{
		{Name: "id", DataType: TypeInteger},
		{Name: "name", DataType: TypeText},
	}
}

// Validate checks the schema invariant.
func (s Schema) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("schema must have at least one column")
	}
	if s[0].DataType != TypeInteger {
		return fmt.Errorf("first column must be INTEGER for the primary key")
	}
	return nil
}

// ValidateRow checks a row's shape and per-column value tags against the
// schema. Values are tagged by their dynamic type:
//
//	int64  (INTEGER)
//	string (TEXT)
func (s Schema) ValidateRow(row Row) error {
	if len(row) != len(s) {
		return &ValueCountError{Expected: len(s), Got: len(row)}
	}
	for i, col := range s {
		switch col.DataType {
		case TypeInteger:
			if _, ok := row[i].(int64); !ok {
				return &TypeMismatchError{Column: col.Name, Want: TypeInteger}
			}
		case TypeText:
			if _, ok := row[i].(string); !ok {
				return &TypeMismatchError{Column: col.Name, Want: TypeText}
			}
		}
	}
	return nil
}

// Row is a single table row in schema column order.
type Row []any

// ID returns the primary key value (column 0). Only valid for rows that
// passed schema validation.
func (r Row) ID() int64 {
	id, _ := r[0].(int64)
	return id
}

// Clone returns an independent copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	copy(out, r)
	return out
}

// -------------------------------------------------------------------------
// Typed errors, reported per line by the interpreter
// -------------------------------------------------------------------------

// DuplicateKeyError is returned when an insert reuses an existing id.
type DuplicateKeyError struct{ ID int64 }

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate id: %d already exists", e.ID)
}

// NotFoundError is returned when a lookup misses.
type NotFoundError struct{ ID int64 }

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("id %d not found", e.ID)
}

// ValueCountError is returned when a row's width doesn't match the schema.
type ValueCountError struct{ Expected, Got int }

func (e *ValueCountError) Error() string {
	return fmt.Sprintf("expected %d values, got %d", e.Expected, e.Got)
}

// TypeMismatchError is returned when a row value's tag disagrees with its
// column's declared type.
type TypeMismatchError struct {
	Column string
	Want   DataType
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch in column %q: expected %s", e.Column, e.Want)
}

// PrimaryKeyChangeError is returned when an update tries to move a row to
// a different primary key.
type PrimaryKeyChangeError struct{ ID, NewID int64 }

func (e *PrimaryKeyChangeError) Error() string {
	return fmt.Sprintf("cannot change primary key %d to %d", e.ID, e.NewID)
}

// InvalidIndexColumnError is returned when creating an index on a column
// that is out of range, the primary key, or not TEXT.
type InvalidIndexColumnError struct{ Column int }

func (e *InvalidIndexColumnError) Error() string {
	return fmt.Sprintf("column %d cannot be indexed", e.Column)
}

// SchemaMismatchError is returned when a table file was written for a
// different schema than the table it is loaded into.
type SchemaMismatchError struct{ Reason string }

func (e *SchemaMismatchError) Error() string {
	return "schema mismatch: " + e.Reason
}

// DatabaseExistsError is returned when creating a database name that is
// already registered.
type DatabaseExistsError struct{ Name string }

func (e *DatabaseExistsError) Error() string {
	return fmt.Sprintf("database %q already exists", e.Name)
}

// DatabaseNotFoundError is returned when referencing an unregistered
// database name.
type DatabaseNotFoundError struct{ Name string }

func (e *DatabaseNotFoundError) Error() string {
	return fmt.Sprintf("database %q does not exist", e.Name)
}
