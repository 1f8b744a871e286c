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

// Schema describes the fields of a query result.
//
// The schema arrives on the first page of a query response and is reused for
// every subsequent page; follow-up pages do not repeat it.
type Schema []*FieldSchema

// FieldSchema describes a single field.
type FieldSchema struct {
	// Name is the field name.
	Name string
	// Type is the field data type.
	Type FieldType
	// Mode is the field repetition mode. An empty mode is treated as NULLABLE.
	Mode FieldMode
	// Fields describes the nested fields when Type is RecordFieldType.
	Fields Schema
}

// FieldType is the type tag of a field as reported by the service.
type FieldType string

const (
	// StringFieldType is a string field type.
	StringFieldType FieldType = "STRING"
	// IntegerFieldType is an integer field type.
	IntegerFieldType FieldType = "INTEGER"
	// FloatFieldType is a floating-point field type.
	FloatFieldType FieldType = "FLOAT"
	// NumericFieldType is a decimal field type with 38 digits of precision.
	NumericFieldType FieldType = "NUMERIC"
	// BigNumericFieldType is a decimal field type with 76 digits of precision.
	BigNumericFieldType FieldType = "BIGNUMERIC"
	// BooleanFieldType is a boolean field type.
	BooleanFieldType FieldType = "BOOLEAN"
	// DateFieldType is a civil date field type.
	DateFieldType FieldType = "DATE"
	// TimeFieldType is a civil time field type.
	TimeFieldType FieldType = "TIME"
	// DateTimeFieldType is a civil datetime field type, with no time zone.
	DateTimeFieldType FieldType = "DATETIME"
	// TimestampFieldType is an absolute point in time, reported in UTC.
	TimestampFieldType FieldType = "TIMESTAMP"
	// RecordFieldType is a struct field type with nested fields.
	RecordFieldType FieldType = "RECORD"
)

// FieldMode is the repetition mode of a field.
type FieldMode string

const (
	// NullableMode marks a field that may hold null.
	NullableMode FieldMode = "NULLABLE"
	// RequiredMode marks a field that never holds null.
	RequiredMode FieldMode = "REQUIRED"
	// RepeatedMode marks a field that holds an array of values.
	RepeatedMode FieldMode = "REPEATED"
)

// ColumnNames returns the field names in schema order.
func (s Schema) ColumnNames() []string {
	names := make([]string, len(s))
	for i, fs := range s {
		names[i] = fs.Name
	}
	return names
}

// wireFieldSchema is the wire form of a field descriptor in a query response.
type wireFieldSchema struct {
	Name   string             `json:"name"`
	Type   string             `json:"type"`
	Mode   string             `json:"mode,omitempty"`
	Fields []*wireFieldSchema `json:"fields,omitempty"`
}

func schemaFromWire(fields []*wireFieldSchema) Schema {
	schema := make(Schema, 0, len(fields))
	for _, f := range fields {
		fs := &FieldSchema{
			Name: f.Name,
			Type: FieldType(f.Type),
			Mode: FieldMode(f.Mode),
		}
		if len(f.Fields) > 0 {
			fs.Fields = schemaFromWire(f.Fields)
		}
		schema = append(schema, fs)
	}
	return schema
}
