package storage

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	sorted "github.com/tobshub/go-sortedmap"
)

// Table file layout, little-endian, lengths before variable data:
//
//	uint64  column count
//	per column: int32 name length, name bytes, int32 type tag
//	uint64  row count
//	per row: int32 id, then per schema column:
//	         INTEGER: int32 value
//	         TEXT:    int32 length, bytes
//
// The id is stored twice per row: once as the row key and again as
// column 0. Both copies must agree on load.

// maxStringLen caps on-disk string and column-name lengths so a corrupt
// length field cannot trigger a giant allocation.
const maxStringLen = 1 << 24

// Save writes the table's schema and rows to path, replacing any
// previous file. The data is written to a temp file first and renamed
// into place so an interrupted save never leaves a corrupt file behind.
func (t *Table) Save(path string) error {
	t.mu.RLock()
	defer t.mu.RUnlock()

	tmp, err := os.CreateTemp(filepath.Dir(path), ".onetable-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	if err := t.write(w); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename into %s: %w", path, err)
	}
	return nil
}

func (t *Table) write(w io.Writer) error {
	if err := binary.Write(w, binary.LittleEndian, uint64(len(t.schema))); err != nil {
		return err
	}
	for _, col := range t.schema {
		if err := writeString(w, col.Name); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, int32(col.DataType)); err != nil {
			return err
		}
	}

	if err := binary.Write(w, binary.LittleEndian, uint64(t.rows.Len())); err != nil {
		return err
	}
	var werr error
	t.forEach(func(id int64, row Row) {
		if werr != nil {
			return
		}
		if werr = binary.Write(w, binary.LittleEndian, int32(id)); werr != nil {
			return
		}
		for i, col := range t.schema {
			switch col.DataType {
			case TypeInteger:
				werr = binary.Write(w, binary.LittleEndian, int32(row[i].(int64)))
			case TypeText:
				werr = writeString(w, row[i].(string))
			}
			if werr != nil {
				return
			}
		}
	})
	return werr
}

// Load replaces the table's rows with the contents of the file at path.
// A missing file is not an error: the table is simply left empty. The
// stored schema is verified against the table's schema before any row
// data is touched; on SchemaMismatchError (or any read error) the
// table's existing rows are left exactly as they were. If a secondary
// index exists it is rebuilt over the loaded rows.
func (t *Table) Load(path string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	if err := t.verifySchema(r); err != nil {
		return err
	}

	rows, err := t.readRows(r)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	t.rows = rows
	if t.index != nil {
		ix := newStringIndex(t.index.column)
		t.forEach(func(id int64, row Row) {
			ix.add(id, row)
		})
		t.index = ix
	}
	return nil
}

func (t *Table) verifySchema(r io.Reader) error {
	var count uint64
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return fmt.Errorf("read column count: %w", err)
	}
	if count != uint64(len(t.schema)) {
		return &SchemaMismatchError{
			Reason: fmt.Sprintf("stored file has %d columns, table has %d", count, len(t.schema)),
		}
	}
	for i, col := range t.schema {
		name, err := readString(r)
		if err != nil {
			return fmt.Errorf("read column %d name: %w", i, err)
		}
		var tag int32
		if err := binary.Read(r, binary.LittleEndian, &tag); err != nil {
			return fmt.Errorf("read column %d type: %w", i, err)
		}
		if name != col.Name {
			return &SchemaMismatchError{
				Reason: fmt.Sprintf("column %d is named %q in the file, %q in the table", i, name, col.Name),
			}
		}
		if DataType(tag) != col.DataType {
			return &SchemaMismatchError{
				Reason: fmt.Sprintf("column %q has type tag %d in the file, expected %d", col.Name, tag, col.DataType),
			}
		}
	}
	return nil
}

func (t *Table) readRows(r io.Reader) (*sorted.SortedMap[int64, Row], error) {
	var count uint64
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("read row count: %w", err)
	}

	rows := newRowMap()
	for n := uint64(0); n < count; n++ {
		var id int32
		if err := binary.Read(r, binary.LittleEndian, &id); err != nil {
			return nil, fmt.Errorf("read row %d id: %w", n, err)
		}
		row := make(Row, 0, len(t.schema))
		for _, col := range t.schema {
			switch col.DataType {
			case TypeInteger:
				var v int32
				if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
					return nil, fmt.Errorf("read row %d column %q: %w", n, col.Name, err)
				}
				row = append(row, int64(v))
			case TypeText:
				v, err := readString(r)
				if err != nil {
					return nil, fmt.Errorf("read row %d column %q: %w", n, col.Name, err)
				}
				row = append(row, v)
			}
		}
		if err := t.schema.ValidateRow(row); err != nil {
			return nil, fmt.Errorf("row %d: %w", n, err)
		}
		if row.ID() != int64(id) {
			return nil, fmt.Errorf("row %d: key %d disagrees with column 0 value %d", n, id, row.ID())
		}
		if !rows.Insert(int64(id), row) {
			return nil, fmt.Errorf("row %d: duplicate id %d in file", n, id)
		}
	}
	return rows, nil
}

func writeString(w io.Writer, s string) error {
	if err := binary.Write(w, binary.LittleEndian, int32(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func readString(r io.Reader) (string, error) {
	var length int32
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		return "", err
	}
	if length < 0 || length > maxStringLen {
		return "", fmt.Errorf("invalid string length %d", length)
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}
