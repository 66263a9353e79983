package storage

import (
	"sync"

	sorted "github.com/tobshub/go-sortedmap"
)

// Table owns one table's rows and an optional secondary index.
//
// Rows live in a sorted map keyed by primary key, so ListAll and the
// table file writer always see ascending id order. A sync.RWMutex gives
// single-writer / multi-reader access when the TCP server runs several
// connections; each operation is internally consistent but multi-step
// interpreter sequences (get then update) are not atomic across
// operations.
type Table struct {
	mu     sync.RWMutex
	schema Schema
	rows   *sorted.SortedMap[int64, Row]
	index  *stringIndex // nil until CreateIndex
}

// NewTable constructs an empty table with the given schema.
func NewTable(schema Schema) (*Table, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	return &Table{
		schema: schema,
		rows:   newRowMap(),
	}, nil
}

func newRowMap() *sorted.SortedMap[int64, Row] {
	return sorted.New[int64, Row](0, func(a, b Row) bool { return a.ID() < b.ID() })
}

// Schema returns the table's column definitions.
func (t *Table) Schema() Schema {
	return t.schema
}

// Insert validates the row against the schema and stores it. The row's
// id must not be present yet.
func (t *Table) Insert(row Row) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.schema.ValidateRow(row); err != nil {
		return err
	}
	id := row.ID()
	if t.rows.Has(id) {
		return &DuplicateKeyError{ID: id}
	}
	stored := row.Clone()
	t.rows.Insert(id, stored)
	if t.index != nil {
		t.index.add(id, stored)
	}
	return nil
}

// Get returns a copy of the row with the given id.
func (t *Table) Get(id int64) (Row, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	row, ok := t.rows.Get(id)
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	return row.Clone(), nil
}

// Update replaces the row stored under id. The new row must validate
// against the schema and keep the same primary key; the secondary index
// entry is moved from the old value to the new one.
func (t *Table) Update(id int64, row Row) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	old, ok := t.rows.Get(id)
	if !ok {
		return &NotFoundError{ID: id}
	}
	if err := t.schema.ValidateRow(row); err != nil {
		return err
	}
	if row.ID() != id {
		return &PrimaryKeyChangeError{ID: id, NewID: row.ID()}
	}
	stored := row.Clone()
	if t.index != nil {
		t.index.remove(id, old)
	}
	t.rows.Replace(id, stored)
	if t.index != nil {
		t.index.add(id, stored)
	}
	return nil
}

// Remove deletes the row with the given id. Removing an absent id is a
// no-op.
func (t *Table) Remove(id int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	old, ok := t.rows.Get(id)
	if !ok {
		return
	}
	t.rows.Delete(id)
	if t.index != nil {
		t.index.remove(id, old)
	}
}

// CreateIndex builds the secondary index on the given TEXT column,
// scanning all current rows. At most one index exists at a time;
// creating a new one discards the old. Column 0 (the primary key) can
// never carry the secondary index.
func (t *Table) CreateIndex(column int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if column <= 0 || column >= len(t.schema) || t.schema[column].DataType != TypeText {
		return &InvalidIndexColumnError{Column: column}
	}
	ix := newStringIndex(column)
	t.forEach(func(id int64, row Row) {
		ix.add(id, row)
	})
	t.index = ix
	return nil
}

// SelectByIndex returns copies of all rows whose indexed column equals
// value, in ascending id order. Without an index, or without a match, it
// returns nil.
func (t *Table) SelectByIndex(value string) []Row {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.index == nil {
		return nil
	}
	var out []Row
	for _, id := range t.index.lookup(value) {
		if row, ok := t.rows.Get(id); ok {
			out = append(out, row.Clone())
		}
	}
	return out
}

// ListAll returns copies of every row in ascending id order.
func (t *Table) ListAll() []Row {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Row, 0, t.rows.Len())
	t.forEach(func(_ int64, row Row) {
		out = append(out, row.Clone())
	})
	return out
}

// RowCount returns the number of rows.
func (t *Table) RowCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.rows.Len()
}

// forEach visits every row in ascending id order. Callers must hold the
// lock and must not mutate the map from f.
func (t *Table) forEach(f func(id int64, row Row)) {
	if t.rows.Len() == 0 {
		return
	}
	iter, err := t.rows.IterCh()
	if err != nil {
		return
	}
	defer iter.Close()
	for rec := range iter.Records() {
		f(rec.Key, rec.Val)
	}
}
