package seqinfo

import (
	"bufio"
	"bytes"
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"

	"github.com/agentstation/taxsync/pkg/errors"
)

// utf8BOM is the byte order mark some spreadsheet exports prepend.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Reader streams Records from CSV input one row at a time.
type Reader struct {
	name   string
	csv    *csv.Reader
	schema *Schema
	line   int
}

// NewReader reads the header row from r and returns a Reader positioned at
// the first data row. name labels errors (a path, or "stdin").
//
// Input without a usable header is a SchemaError.
func NewReader(r io.Reader, name string) (*Reader, error) {
	cr := csv.NewReader(skipBOM(r))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.NewSchemaError(name, "missing header row", err)
	}
	if err != nil {
		return nil, errors.NewSchemaError(name, "unreadable header row", parseError(name, err))
	}

	named := false
	for _, col := range header {
		if col != "" {
			named = true
			break
		}
	}
	if !named {
		return nil, errors.NewSchemaError(name, "header row has no column names", nil)
	}

	line, _ := cr.FieldPos(0)
	return &Reader{
		name:   name,
		csv:    cr,
		schema: NewSchema(header),
		line:   line,
	}, nil
}

// skipBOM drops a leading UTF-8 byte order mark.
func skipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br
}

// Schema returns the schema declared by the header row.
func (r *Reader) Schema() *Schema {
	return r.schema
}

// Name returns the label used in errors.
func (r *Reader) Name() string {
	return r.name
}

// Line returns the input line on which the most recently read row started.
func (r *Reader) Line() int {
	return r.line
}

// Next returns the next Record, or io.EOF when the input is exhausted.
// Rows shorter than the header are padded with empty values; rows longer
// than the header are a ParseError.
func (r *Reader) Next() (*Record, error) {
	fields, err := r.csv.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, parseError(r.name, err)
	}
	r.line, _ = r.csv.FieldPos(0)

	if len(fields) > r.schema.Len() {
		return nil, &errors.ParseError{
			Format:  "csv",
			File:    r.name,
			Line:    r.line,
			Message: fmt.Sprintf("row has %d fields, header declares %d", len(fields), r.schema.Len()),
		}
	}
	return NewRecord(r.schema, fields), nil
}

// parseError converts an encoding/csv error into a ParseError.
func parseError(name string, err error) error {
	var csvErr *csv.ParseError
	if stderrors.As(err, &csvErr) {
		return &errors.ParseError{
			Format:  "csv",
			File:    name,
			Line:    csvErr.Line,
			Message: csvErr.Err.Error(),
			Err:     err,
		}
	}
	return errors.WrapIO("read", name, err)
}
