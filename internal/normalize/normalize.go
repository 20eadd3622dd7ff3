// Package normalize folds the per-endpoint response shapes of the brokerage
// API into one stable internal schema. Each endpoint carries a fixed rename
// table; fields the table does not know about are dropped at the boundary.
package normalize

import (
	"sort"

	"minerva/pkg/errors"
)

// Record is the endpoint-independent shape the rest of the system consumes.
type Record struct {
	Endpoint string                   `json:"endpoint"`
	Name     string                   `json:"name"`
	Fields   map[string]interface{}   `json:"fields,omitempty"`
	Rows     []map[string]interface{} `json:"rows,omitempty"`
	RowsName string                   `json:"rows_name,omitempty"`
}

// Truncation metadata stamped by the transport survives normalization
// unchanged so downstream consumers can tell a capped list from a short one.
var passthrough = []string{"limited_to", "total_count", "return_code", "return_msg"}

// Normalize maps a raw endpoint payload into a Record. The operation is
// idempotent: feeding a Record's Payload back through Normalize yields an
// equal Record, because each rename accepts either the remote or the
// internal field name on input.
func Normalize(opcode string, payload map[string]interface{}) (Record, error) {
	table, ok := tables[opcode]
	if !ok {
		return Record{}, errors.Wrapf(errors.ErrUnknownEndpoint, "normalize: no rename table for %s", opcode)
	}

	rec := Record{Endpoint: opcode, Name: table.Name}

	fields := make(map[string]interface{})
	for remote, internal := range table.Scalars {
		if v, found := pick(payload, remote, internal); found {
			fields[internal] = v
		}
	}
	for _, key := range passthrough {
		if v, found := payload[key]; found {
			fields[key] = v
		}
	}
	if len(fields) > 0 {
		rec.Fields = fields
	}

	if table.ListField != "" {
		raw, found := pick(payload, table.ListField, table.ListName)
		if found {
			rows, ok := raw.([]interface{})
			if !ok {
				return Record{}, errors.Wrapf(errors.ErrMalformedResponse, "normalize: %s field %q is not a list", opcode, table.ListField)
			}
			rec.RowsName = table.ListName
			rec.Rows = make([]map[string]interface{}, 0, len(rows))
			for _, item := range rows {
				row, ok := item.(map[string]interface{})
				if !ok {
					return Record{}, errors.Wrapf(errors.ErrMalformedResponse, "normalize: %s row is not an object", opcode)
				}
				out := make(map[string]interface{})
				for remote, internal := range table.Row {
					if v, found := pick(row, remote, internal); found {
						out[internal] = v
					}
				}
				rec.Rows = append(rec.Rows, out)
			}
		}
	}

	return rec, nil
}

// Payload reconstructs a map carrying the Record's internal field names,
// suitable for re-normalization or serialization.
func (r Record) Payload() map[string]interface{} {
	out := make(map[string]interface{}, len(r.Fields)+1)
	for k, v := range r.Fields {
		out[k] = v
	}
	if r.Rows != nil {
		rows := make([]interface{}, len(r.Rows))
		for i, row := range r.Rows {
			copied := make(map[string]interface{}, len(row))
			for k, v := range row {
				copied[k] = v
			}
			rows[i] = copied
		}
		out[r.RowsName] = rows
	}
	return out
}

// Known reports whether a rename table exists for the opcode.
func Known(opcode string) bool {
	_, ok := tables[opcode]
	return ok
}

// Opcodes lists every endpoint the normalizer understands, sorted.
func Opcodes() []string {
	out := make([]string, 0, len(tables))
	for op := range tables {
		out = append(out, op)
	}
	sort.Strings(out)
	return out
}

// pick reads the remote name first and falls back to the internal one, which
// is what makes Normalize idempotent.
func pick(m map[string]interface{}, remote, internal string) (interface{}, bool) {
	if v, ok := m[remote]; ok {
		return v, true
	}
	if v, ok := m[internal]; ok {
		return v, true
	}
	return nil, false
}
