/*
 * Copyright 2025 Livebook Contributors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package bigquery

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"time"

	"cloud.google.com/go/civil"
)

// Value stores the contents of a single cell from a query result.
//
// Depending on the field type, a Value holds nil, bool, int64, float64,
// *big.Rat, string, civil.Date, civil.Time, civil.DateTime, time.Time (UTC),
// a map[string]Value for RECORD fields, or a []Value for REPEATED fields.
type Value any

// decodeValue converts one raw cell into a native value, dispatching on the
// field's mode first and its type second.
//
// Only the non-finite FLOAT sentinels are a hard failure. Every other
// unrecognized value degrades to the raw wire string, so that schema
// additions the codec does not yet understand keep decoding.
func decodeValue(raw any, fs *FieldSchema) (Value, error) {
	if raw == nil {
		return nil, nil
	}

	if fs.Mode == RepeatedMode {
		elems, ok := raw.([]any)
		if !ok {
			return raw, nil
		}
		elem := *fs
		elem.Mode = NullableMode
		values := make([]Value, 0, len(elems))
		for _, e := range elems {
			v, err := decodeValue(unwrapCell(e), &elem)
			if err != nil {
				return nil, err
			}
			values = append(values, v)
		}
		return values, nil
	}

	if fs.Type == RecordFieldType {
		return decodeRecord(raw, fs)
	}

	s, ok := raw.(string)
	if !ok {
		// All supported scalar types travel as strings. Anything else is a
		// shape the codec does not know; pass it through.
		return raw, nil
	}

	switch fs.Type {
	case FloatFieldType:
		switch s {
		case "NaN", "Infinity", "-Infinity":
			return nil, &UnsupportedValueError{Value: s}
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return s, nil
		}
		return f, nil
	case IntegerFieldType:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return s, nil
		}
		return n, nil
	case NumericFieldType, BigNumericFieldType:
		r, ok := new(big.Rat).SetString(s)
		if !ok {
			return s, nil
		}
		return r, nil
	case BooleanFieldType:
		switch s {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return s, nil
	case DateFieldType:
		d, err := civil.ParseDate(s)
		if err != nil {
			return s, nil
		}
		return d, nil
	case TimeFieldType:
		t, err := civil.ParseTime(s)
		if err != nil {
			return s, nil
		}
		return t, nil
	case DateTimeFieldType:
		dt, err := civil.ParseDateTime(s)
		if err != nil {
			return s, nil
		}
		return dt, nil
	case TimestampFieldType:
		return decodeTimestamp(s), nil
	default:
		return s, nil
	}
}

// decodeRecord converts a nested row structure into a map keyed by the nested
// field names. The raw cell is either {"f": [...]} or the bare cell list.
func decodeRecord(raw any, fs *FieldSchema) (Value, error) {
	var cells []any
	switch r := raw.(type) {
	case map[string]any:
		f, ok := r["f"].([]any)
		if !ok {
			return raw, nil
		}
		cells = f
	case []any:
		cells = r
	default:
		return raw, nil
	}
	if len(cells) != len(fs.Fields) {
		return raw, nil
	}

	record := make(map[string]Value, len(fs.Fields))
	for i, nested := range fs.Fields {
		v, err := decodeValue(unwrapCell(cells[i]), nested)
		if err != nil {
			return nil, err
		}
		record[nested.Name] = v
	}
	return record, nil
}

// unwrapCell strips the {"v": ...} envelope the wire format wraps around
// repeated elements and nested record cells.
func unwrapCell(raw any) any {
	if m, ok := raw.(map[string]any); ok {
		if v, ok := m["v"]; ok {
			return v
		}
	}
	return raw
}

// decodeTimestamp parses a TIMESTAMP cell into a UTC time.Time.
//
// Result cells carry Unix seconds as a decimal (possibly scientific-notation)
// string with a fractional sub-second part. The canonical datetime string
// form emitted by the parameter encoder is accepted as well, so that an
// encoded timestamp decodes back to the same instant. Precision beyond whole
// microseconds is discarded.
func decodeTimestamp(s string) Value {
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return time.UnixMicro(int64(math.Round(f * 1e6))).UTC()
	}
	if t, err := time.ParseInLocation(timestampParamLayout, s, time.UTC); err == nil {
		return t
	}
	return s
}

// decodeRow converts one wire row into a slice of native values aligned with
// the schema's field order.
func decodeRow(row *wireRow, schema Schema) ([]Value, error) {
	if len(row.F) != len(schema) {
		return nil, fmt.Errorf("bigquery: row has %d cells but schema has %d fields", len(row.F), len(schema))
	}
	values := make([]Value, len(schema))
	for i, fs := range schema {
		v, err := decodeValue(row.F[i].V, fs)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}
