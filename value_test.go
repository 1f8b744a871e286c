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
	"errors"
	"math/big"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/require"
)

func TestDecodeScalarValues(t *testing.T) {
	for _, tc := range []struct {
		name     string
		raw      any
		typ      FieldType
		expected Value
	}{
		{"integer", "42", IntegerFieldType, int64(42)},
		{"negative integer", "-7", IntegerFieldType, int64(-7)},
		{"float", "1.5", FloatFieldType, 1.5},
		{"float scientific", "1.5E2", FloatFieldType, 150.0},
		{"boolean true", "true", BooleanFieldType, true},
		{"boolean false", "false", BooleanFieldType, false},
		{"string", "hello", StringFieldType, "hello"},
		{"date", "2023-04-05", DateFieldType, civil.Date{Year: 2023, Month: 4, Day: 5}},
		{"time", "13:37:00", TimeFieldType, civil.Time{Hour: 13, Minute: 37}},
		{"datetime", "2023-04-05T13:37:00", DateTimeFieldType, civil.DateTime{
			Date: civil.Date{Year: 2023, Month: 4, Day: 5},
			Time: civil.Time{Hour: 13, Minute: 37},
		}},
		{"null", nil, StringFieldType, nil},
		{"unknown type passes through", "POINT(1 2)", FieldType("GEOGRAPHY"), "POINT(1 2)"},
		{"unparsable integer degrades to string", "abc", IntegerFieldType, "abc"},
		{"uppercase boolean degrades to string", "TRUE", BooleanFieldType, "TRUE"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			v, err := decodeValue(tc.raw, &FieldSchema{Name: "x", Type: tc.typ})
			require.NoError(t, err)
			require.Equal(t, tc.expected, v)
		})
	}
}

func TestDecodeNumeric(t *testing.T) {
	for _, typ := range []FieldType{NumericFieldType, BigNumericFieldType} {
		v, err := decodeValue("1.10", &FieldSchema{Name: "n", Type: typ})
		require.NoError(t, err)
		r, ok := v.(*big.Rat)
		require.True(t, ok)
		require.Zero(t, r.Cmp(big.NewRat(11, 10)))
	}
}

func TestDecodeTimestampEpoch(t *testing.T) {
	fs := &FieldSchema{Name: "ts", Type: TimestampFieldType}

	v, err := decodeValue("1700000000.123456", fs)
	require.NoError(t, err)
	require.Equal(t, time.Unix(1700000000, 123456000).UTC(), v)

	// The service renders epoch seconds in scientific notation.
	v, err = decodeValue("1.7E9", fs)
	require.NoError(t, err)
	require.Equal(t, time.Unix(1700000000, 0).UTC(), v)
}

func TestDecodeNonFiniteFloat(t *testing.T) {
	fs := &FieldSchema{Name: "f", Type: FloatFieldType}
	for _, sentinel := range []string{"NaN", "Infinity", "-Infinity"} {
		_, err := decodeValue(sentinel, fs)
		var unsupported *UnsupportedValueError
		require.ErrorAs(t, err, &unsupported)
		require.Equal(t, sentinel, unsupported.Value)
	}
}

func TestDecodeRepeated(t *testing.T) {
	fs := &FieldSchema{Name: "xs", Type: IntegerFieldType, Mode: RepeatedMode}

	v, err := decodeValue([]any{"10", "20"}, fs)
	require.NoError(t, err)
	require.Equal(t, []Value{int64(10), int64(20)}, v)

	// The same field with the wire's {"v": ...} element envelopes.
	v, err = decodeValue([]any{
		map[string]any{"v": "10"},
		map[string]any{"v": "20"},
	}, fs)
	require.NoError(t, err)
	require.Equal(t, []Value{int64(10), int64(20)}, v)
}

func TestDecodeRecord(t *testing.T) {
	fs := &FieldSchema{
		Name: "r",
		Type: RecordFieldType,
		Fields: Schema{
			{Name: "id", Type: IntegerFieldType},
		},
	}

	v, err := decodeValue([]any{map[string]any{"v": "1"}}, fs)
	require.NoError(t, err)
	require.Equal(t, map[string]Value{"id": int64(1)}, v)

	v, err = decodeValue(map[string]any{"f": []any{map[string]any{"v": "1"}}}, fs)
	require.NoError(t, err)
	require.Equal(t, map[string]Value{"id": int64(1)}, v)
}

func TestDecodeRepeatedRecord(t *testing.T) {
	fs := &FieldSchema{
		Name: "rs",
		Type: RecordFieldType,
		Mode: RepeatedMode,
		Fields: Schema{
			{Name: "id", Type: IntegerFieldType},
			{Name: "name", Type: StringFieldType},
		},
	}

	raw := []any{
		map[string]any{"v": map[string]any{"f": []any{
			map[string]any{"v": "1"},
			map[string]any{"v": "Ale"},
		}}},
		map[string]any{"v": map[string]any{"f": []any{
			map[string]any{"v": "2"},
			map[string]any{"v": "Wojtek"},
		}}},
	}
	v, err := decodeValue(raw, fs)
	require.NoError(t, err)
	require.Equal(t, []Value{
		map[string]Value{"id": int64(1), "name": "Ale"},
		map[string]Value{"id": int64(2), "name": "Wojtek"},
	}, v)
}

func TestDecodeRowSchemaAlignment(t *testing.T) {
	schema := Schema{
		{Name: "id", Type: IntegerFieldType},
		{Name: "name", Type: StringFieldType},
	}

	row := &wireRow{F: []wireCell{{V: "1"}, {V: "Ale"}}}
	values, err := decodeRow(row, schema)
	require.NoError(t, err)
	require.Len(t, values, len(schema))

	short := &wireRow{F: []wireCell{{V: "1"}}}
	_, err = decodeRow(short, schema)
	require.Error(t, err)
}

// impliedField maps a parameter wire type back to the field descriptor a
// result column of that type would carry.
func impliedField(typ string) *FieldSchema {
	ft := FieldType(typ)
	if typ == "BOOL" {
		ft = BooleanFieldType
	}
	return &FieldSchema{Name: "p", Type: ft}
}

func TestParamRoundTrip(t *testing.T) {
	for _, tc := range []struct {
		name  string
		value any
		equal func(t *testing.T, decoded Value)
	}{
		{"bool", true, nil},
		{"int", int64(42), nil},
		{"float", 1.25, nil},
		{"string", "hello", nil},
		{"date", civil.Date{Year: 2023, Month: 4, Day: 5}, nil},
		{"time", civil.Time{Hour: 13, Minute: 37, Second: 1}, nil},
		{"datetime", civil.DateTime{
			Date: civil.Date{Year: 2023, Month: 4, Day: 5},
			Time: civil.Time{Hour: 13, Minute: 37, Second: 1},
		}, nil},
		{"timestamp", time.Date(2023, 4, 5, 13, 37, 1, 123456000, time.UTC), func(t *testing.T, decoded Value) {
			ts, ok := decoded.(time.Time)
			require.True(t, ok)
			require.True(t, ts.Equal(time.Date(2023, 4, 5, 13, 37, 1, 123456000, time.UTC)))
		}},
		{"decimal", big.NewRat(11, 10), func(t *testing.T, decoded Value) {
			r, ok := decoded.(*big.Rat)
			require.True(t, ok)
			// "1.10" and "1.1" are the same number.
			require.Zero(t, r.Cmp(big.NewRat(11, 10)))
		}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			wireValue, wireType := paramValue(tc.value)
			decoded, err := decodeValue(wireValue, impliedField(wireType))
			require.NoError(t, err)
			if tc.equal != nil {
				tc.equal(t, decoded)
				return
			}
			require.Equal(t, tc.value, decoded)
		})
	}
}

func TestParamRoundTripIsHardError(t *testing.T) {
	// Encoding never produces a non-finite sentinel, but a decoder fed one
	// must fail rather than coerce.
	_, err := decodeValue("NaN", impliedField("FLOAT"))
	require.True(t, errors.As(err, new(*UnsupportedValueError)))
}
