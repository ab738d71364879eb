package cdss

import "encoding/json"

// Record is one result row as returned by the API. Field sets vary by
// endpoint and are not validated here.
type Record map[string]any

// Frame is the accumulated result set of one query: all records in page
// order, with column names in first-seen order. It is created fresh per
// call and never shared.
type Frame struct {
	Columns []string
	Rows    []Record
}

func newFrame() *Frame {
	return &Frame{}
}

// appendRecords adds a page of records, extending Columns with any
// fields not seen before.
func (f *Frame) appendRecords(rows []Record) {
	seen := make(map[string]bool, len(f.Columns))
	for _, c := range f.Columns {
		seen[c] = true
	}
	for _, r := range rows {
		for k := range r {
			if !seen[k] {
				seen[k] = true
				f.Columns = append(f.Columns, k)
			}
		}
		f.Rows = append(f.Rows, r)
	}
}

// Len returns the number of rows.
func (f *Frame) Len() int { return len(f.Rows) }

// Float reads a numeric field from a record. JSON numbers decode as
// float64; numeric strings are not coerced.
func (r Record) Float(key string) (float64, bool) {
	v, ok := r[key]
	if !ok {
		return 0, false
	}
	f, ok := v.(float64)
	return f, ok
}

// String reads a string field from a record.
func (r Record) String(key string) (string, bool) {
	v, ok := r[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// MarshalJSON renders the frame as its row list, which is the shape the
// proxy serves back to clients.
func (f *Frame) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Rows)
}
