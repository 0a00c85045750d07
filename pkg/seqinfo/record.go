// Package seqinfo reads and writes sequence-metadata tables: CSV files whose
// header row fixes the column set and order for every row that follows.
//
// A Record keeps its values positionally against a shared Schema, so a row
// written back out has exactly the columns, in exactly the order, that the
// input header declared.
package seqinfo

import (
	"slices"
)

// Schema is the ordered column list of a table. It is immutable once built.
type Schema struct {
	columns []string
	index   map[string]int
}

// NewSchema builds a Schema from header columns. When a name repeats, lookups
// by name resolve to its first position.
func NewSchema(columns []string) *Schema {
	s := &Schema{
		columns: slices.Clone(columns),
		index:   make(map[string]int, len(columns)),
	}
	for i, c := range columns {
		if _, seen := s.index[c]; !seen {
			s.index[c] = i
		}
	}
	return s
}

// Columns returns a copy of the column names in order.
func (s *Schema) Columns() []string {
	return slices.Clone(s.columns)
}

// Len returns the number of columns.
func (s *Schema) Len() int {
	return len(s.columns)
}

// Index returns the position of column.
func (s *Schema) Index(column string) (int, bool) {
	i, ok := s.index[column]
	return i, ok
}

// Has reports whether column is part of the schema.
func (s *Schema) Has(column string) bool {
	_, ok := s.index[column]
	return ok
}

// Equal reports whether both schemas list the same columns in the same order.
func (s *Schema) Equal(other *Schema) bool {
	if s == other {
		return true
	}
	if s == nil || other == nil {
		return false
	}
	return slices.Equal(s.columns, other.columns)
}

// Record is one table row.
type Record struct {
	schema *Schema
	values []string
}

// NewRecord returns a Record over schema. Missing trailing values are empty;
// extra values are dropped.
func NewRecord(schema *Schema, values []string) *Record {
	v := make([]string, schema.Len())
	copy(v, values)
	return &Record{schema: schema, values: v}
}

// FromMap builds a Record over schema from a column->value map. Columns absent
// from the map are empty; keys absent from the schema are ignored.
func FromMap(schema *Schema, m map[string]string) *Record {
	r := NewRecord(schema, nil)
	for col, val := range m {
		r.Set(col, val)
	}
	return r
}

// Schema returns the record's schema.
func (r *Record) Schema() *Schema {
	return r.schema
}

// Get returns the value of column. A column outside the schema reads as "".
func (r *Record) Get(column string) (string, bool) {
	i, ok := r.schema.Index(column)
	if !ok {
		return "", false
	}
	return r.values[i], true
}

// Set replaces the value of column. It never adds a column: when column is
// outside the schema the record is left untouched and Set returns false.
func (r *Record) Set(column, value string) bool {
	i, ok := r.schema.Index(column)
	if !ok {
		return false
	}
	r.values[i] = value
	return true
}

// Values returns a copy of the values in schema order.
func (r *Record) Values() []string {
	return slices.Clone(r.values)
}

// Map returns the record as a column->value map.
func (r *Record) Map() map[string]string {
	m := make(map[string]string, len(r.values))
	for i, c := range r.schema.columns {
		if _, seen := m[c]; !seen {
			m[c] = r.values[i]
		}
	}
	return m
}

// Clone returns an independent copy sharing the same schema.
func (r *Record) Clone() *Record {
	return &Record{schema: r.schema, values: slices.Clone(r.values)}
}
