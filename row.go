package pgdock

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Row is a borrowed view of the current result row. It and every DataView
// taken from it alias driver memory that is reused for the next row, so both
// are valid only until the enclosing callback returns. Use Field(i).Copy()
// to retain a value.
type Row struct {
	fields []pgconn.FieldDescription
	values [][]byte
}

// Len returns the number of fields in the row.
func (r Row) Len() int { return len(r.values) }

// Name returns the name of field i.
func (r Row) Name(i int) string { return r.fields[i].Name }

// Format returns the wire representation of field i.
func (r Row) Format(i int) Format { return Format(r.fields[i].Format) }

// Field returns a view of field i. SQL NULL yields the invalid view; an
// empty non-NULL value yields a valid empty one.
func (r Row) Field(i int) DataView {
	src := r.values[i]
	if src == nil {
		return DataView{}
	}
	return DataView{b: src, format: Format(r.fields[i].Format)}
}

// Index returns the index of the first field named name, or -1 when the row
// has no such field.
func (r Row) Index(name string) int {
	for i := range r.fields {
		if r.fields[i].Name == name {
			return i
		}
	}
	return -1
}

// drainResult walks a statement's rows, handing each to fn when fn is
// non-nil, and finishes with the command tag. A callback error stops the
// walk; closing the reader consumes whatever the server already sent.
func drainResult(rr *pgconn.ResultReader, fn func(Row) error) (pgconn.CommandTag, error) {
	var cbErr error
	for rr.NextRow() {
		if fn == nil {
			continue
		}
		row := Row{fields: rr.FieldDescriptions(), values: rr.Values()}
		if err := fn(row); err != nil {
			cbErr = err
			break
		}
	}
	tag, err := rr.Close()
	if cbErr != nil {
		return tag, cbErr
	}
	if err != nil {
		return tag, fmt.Errorf("failed to execute statement: %w", wrapServerError(err))
	}
	return tag, nil
}
