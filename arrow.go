package bigquery

import (
	"fmt"
	"math/big"
	"time"

	"cloud.google.com/go/civil"
	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"google.golang.org/api/iterator"
)

// ArrowSchema maps the result schema to an Arrow schema.
//
// NUMERIC and BIGNUMERIC columns map to Arrow strings: the wire schema does
// not carry a precision or scale to pin a decimal type to.
func (s Schema) ArrowSchema() (*arrow.Schema, error) {
	fields, err := arrowFields(s)
	if err != nil {
		return nil, err
	}
	return arrow.NewSchema(fields, nil), nil
}

func arrowFields(s Schema) ([]arrow.Field, error) {
	fields := make([]arrow.Field, 0, len(s))
	for _, fs := range s {
		dt, err := arrowType(fs)
		if err != nil {
			return nil, err
		}
		if fs.Mode == RepeatedMode {
			dt = arrow.ListOf(dt)
		}
		fields = append(fields, arrow.Field{
			Name:     fs.Name,
			Type:     dt,
			Nullable: fs.Mode != RequiredMode,
		})
	}
	return fields, nil
}

func arrowType(fs *FieldSchema) (arrow.DataType, error) {
	switch fs.Type {
	case IntegerFieldType:
		return arrow.PrimitiveTypes.Int64, nil
	case FloatFieldType:
		return arrow.PrimitiveTypes.Float64, nil
	case BooleanFieldType:
		return arrow.FixedWidthTypes.Boolean, nil
	case DateFieldType:
		return arrow.FixedWidthTypes.Date32, nil
	case TimeFieldType:
		return arrow.FixedWidthTypes.Time64us, nil
	case DateTimeFieldType:
		return &arrow.TimestampType{Unit: arrow.Microsecond}, nil
	case TimestampFieldType:
		return arrow.FixedWidthTypes.Timestamp_us, nil
	case RecordFieldType:
		nested, err := arrowFields(fs.Fields)
		if err != nil {
			return nil, err
		}
		return arrow.StructOf(nested...), nil
	default:
		return arrow.BinaryTypes.String, nil
	}
}

// ToArrowBatch drains the remaining rows of the result and returns them as a
// single Arrow record. The caller owns the record and must Release it.
func (r *Result) ToArrowBatch() (arrow.Record, error) {
	aschema, err := r.Schema.ArrowSchema()
	if err != nil {
		return nil, err
	}

	b := array.NewRecordBuilder(memory.NewGoAllocator(), aschema)
	defer b.Release()

	for {
		row, err := r.it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		for i, fs := range r.Schema {
			if err := appendArrowValue(b.Field(i), fs, row[i]); err != nil {
				return nil, err
			}
		}
	}
	return b.NewRecord(), nil
}

func appendArrowValue(fb array.Builder, fs *FieldSchema, v Value) error {
	if v == nil {
		fb.AppendNull()
		return nil
	}

	if fs.Mode == RepeatedMode {
		lb, ok := fb.(*array.ListBuilder)
		if !ok {
			return fmt.Errorf("bigquery: field %s: expected list builder, got %T", fs.Name, fb)
		}
		elems, ok := v.([]Value)
		if !ok {
			return fmt.Errorf("bigquery: field %s: expected []Value, got %T", fs.Name, v)
		}
		lb.Append(true)
		elem := *fs
		elem.Mode = NullableMode
		for _, e := range elems {
			if err := appendArrowValue(lb.ValueBuilder(), &elem, e); err != nil {
				return err
			}
		}
		return nil
	}

	switch fb := fb.(type) {
	case *array.Int64Builder:
		n, ok := v.(int64)
		if !ok {
			return typeMismatch(fs, v)
		}
		fb.Append(n)
	case *array.Float64Builder:
		f, ok := v.(float64)
		if !ok {
			return typeMismatch(fs, v)
		}
		fb.Append(f)
	case *array.BooleanBuilder:
		t, ok := v.(bool)
		if !ok {
			return typeMismatch(fs, v)
		}
		fb.Append(t)
	case *array.Date32Builder:
		d, ok := v.(civil.Date)
		if !ok {
			return typeMismatch(fs, v)
		}
		fb.Append(arrow.Date32FromTime(d.In(time.UTC)))
	case *array.Time64Builder:
		t, ok := v.(civil.Time)
		if !ok {
			return typeMismatch(fs, v)
		}
		micros := int64(t.Hour)*3600_000_000 + int64(t.Minute)*60_000_000 +
			int64(t.Second)*1_000_000 + int64(t.Nanosecond)/1_000
		fb.Append(arrow.Time64(micros))
	case *array.TimestampBuilder:
		switch t := v.(type) {
		case time.Time:
			fb.Append(arrow.Timestamp(t.UnixMicro()))
		case civil.DateTime:
			fb.Append(arrow.Timestamp(t.In(time.UTC).UnixMicro()))
		default:
			return typeMismatch(fs, v)
		}
	case *array.StructBuilder:
		m, ok := v.(map[string]Value)
		if !ok {
			return typeMismatch(fs, v)
		}
		fb.Append(true)
		for j, nested := range fs.Fields {
			if err := appendArrowValue(fb.FieldBuilder(j), nested, m[nested.Name]); err != nil {
				return err
			}
		}
	case *array.StringBuilder:
		switch v := v.(type) {
		case string:
			fb.Append(v)
		case *big.Rat:
			fb.Append(ratString(v))
		default:
			fb.Append(fmt.Sprint(v))
		}
	default:
		return fmt.Errorf("bigquery: field %s: no arrow conversion for builder %T", fs.Name, fb)
	}
	return nil
}

func typeMismatch(fs *FieldSchema, v Value) error {
	return fmt.Errorf("bigquery: field %s: unexpected value type %T", fs.Name, v)
}
