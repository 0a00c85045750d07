package seqinfo

import (
	"encoding/csv"
	"io"

	"github.com/agentstation/taxsync/pkg/errors"
)

// Writer emits Records as CSV. Every row is flushed as soon as it is
// written, so a consumer sees all completed rows even if the run stops.
type Writer struct {
	name   string
	csv    *csv.Writer
	schema *Schema
	rows   int
}

// NewWriter returns a Writer for rows shaped like schema.
func NewWriter(w io.Writer, name string, schema *Schema) *Writer {
	return &Writer{
		name:   name,
		csv:    csv.NewWriter(w),
		schema: schema,
	}
}

// WriteHeader writes the schema's column names.
func (w *Writer) WriteHeader() error {
	return w.write(w.schema.columns)
}

// Write writes rec, which must share the writer's schema, and flushes it.
func (w *Writer) Write(rec *Record) error {
	if !w.schema.Equal(rec.Schema()) {
		return errors.NewValidationError("schema", rec.Schema().Columns(), "record columns differ from output header")
	}
	if err := w.write(rec.values); err != nil {
		return err
	}
	w.rows++
	return nil
}

func (w *Writer) write(fields []string) error {
	if err := w.csv.Write(fields); err != nil {
		return errors.WrapIO("write", w.name, err)
	}
	w.csv.Flush()
	return errors.WrapIO("flush", w.name, w.csv.Error())
}

// Rows returns the number of data rows written.
func (w *Writer) Rows() int {
	return w.rows
}
