package dataset

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/common"
)

// RowsFromRecord converts one Arrow record batch into rows. Integer and float
// columns become numbers, strings become text, timestamps and dates become
// instants, booleans become "true"/"false" text and nulls become null.
// Dictionary-encoded columns resolve to their dictionary values.
func RowsFromRecord(rec arrow.Record) ([]Row, error) {
	nrows := int(rec.NumRows())
	rows := make([]Row, nrows)
	for i := range rows {
		rows[i] = make(Row, rec.NumCols())
	}

	for c := 0; c < int(rec.NumCols()); c++ {
		name := rec.ColumnName(c)
		values, err := columnValues(rec.Column(c))
		if err != nil {
			return nil, fmt.Errorf("column %s %w", name, err)
		}
		for i, v := range values {
			rows[i][name] = v
		}
	}
	return rows, nil
}

// FromRecord converts an Arrow record batch into a dataset.
func FromRecord(rec arrow.Record, summary *Summary) (*Dataset, error) {
	rows, err := RowsFromRecord(rec)
	if err != nil {
		return nil, err
	}
	return New(rows, summary), nil
}

func columnValues(col arrow.Array) ([]Value, error) {
	out := make([]Value, col.Len())

	if numbers, ok := numericValues(col); ok {
		for i := range out {
			if col.IsNull(i) {
				out[i] = Null()
				continue
			}
			out[i] = Num(numbers[i])
		}
		return out, nil
	}

	if dict, ok := col.(*array.Dictionary); ok {
		values, err := columnValues(dict.Dictionary())
		if err != nil {
			return nil, fmt.Errorf("dictionary %w", err)
		}
		for i := range out {
			if dict.IsNull(i) {
				out[i] = Null()
				continue
			}
			out[i] = values[dict.GetValueIndex(i)]
		}
		return out, nil
	}

	for i := range out {
		v, err := arrowValue(col, i)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

// numericValues widens a fixed-width numeric column. Entries at null slots
// are unspecified.
func numericValues(col arrow.Array) ([]float64, bool) {
	switch arr := col.(type) {
	case *array.Float64:
		return common.Widen(arr.Float64Values()), true
	case *array.Float32:
		return common.Widen(arr.Float32Values()), true
	case *array.Int64:
		return common.Widen(arr.Int64Values()), true
	case *array.Int32:
		return common.Widen(arr.Int32Values()), true
	case *array.Int16:
		return common.Widen(arr.Int16Values()), true
	case *array.Int8:
		return common.Widen(arr.Int8Values()), true
	case *array.Uint64:
		return common.Widen(arr.Uint64Values()), true
	case *array.Uint32:
		return common.Widen(arr.Uint32Values()), true
	case *array.Uint16:
		return common.Widen(arr.Uint16Values()), true
	case *array.Uint8:
		return common.Widen(arr.Uint8Values()), true
	default:
		return nil, false
	}
}

func arrowValue(col arrow.Array, i int) (Value, error) {
	if col.IsNull(i) {
		return Null(), nil
	}

	switch arr := col.(type) {
	case *array.String:
		return Text(arr.Value(i)), nil
	case *array.LargeString:
		return Text(arr.Value(i)), nil
	case *array.Boolean:
		if arr.Value(i) {
			return Text("true"), nil
		}
		return Text("false"), nil
	case *array.Timestamp:
		unit := arr.DataType().(*arrow.TimestampType).Unit
		return Time(arr.Value(i).ToTime(unit)), nil
	case *array.Date32:
		return Time(arr.Value(i).ToTime()), nil
	case *array.Date64:
		return Time(arr.Value(i).ToTime()), nil
	default:
		return Null(), fmt.Errorf("unsupported arrow type %s", col.DataType())
	}
}

// ToRecord converts a dataset into an Arrow record batch with the given
// columns (all columns when none are given). A column becomes float64 when
// every non-null value is a number, a UTC millisecond timestamp when every
// non-null value is an instant, and a string otherwise. The caller owns the
// returned record and must Release it.
func ToRecord(ds *Dataset, mem memory.Allocator, columns ...string) arrow.Record {
	if len(columns) == 0 {
		columns = ds.Columns()
	}

	fields := make([]arrow.Field, len(columns))
	arrays := make([]arrow.Array, len(columns))
	for c, name := range columns {
		values := ds.Column(name)
		arr := buildArray(mem, columnKind(values), values)
		fields[c] = arrow.Field{Name: name, Type: arr.DataType(), Nullable: true}
		arrays[c] = arr
	}

	schema := arrow.NewSchema(fields, nil)
	rec := array.NewRecord(schema, arrays, int64(ds.Len()))
	for _, arr := range arrays {
		arr.Release()
	}
	return rec
}

func columnKind(values []Value) Kind {
	kind := KindNull
	for _, v := range values {
		if v.IsNull() {
			continue
		}
		if kind == KindNull {
			kind = v.Kind()
			continue
		}
		if v.Kind() != kind {
			return KindText
		}
	}
	return kind
}

func buildArray(mem memory.Allocator, kind Kind, values []Value) arrow.Array {
	switch kind {
	case KindNumber:
		b := array.NewFloat64Builder(mem)
		defer b.Release()
		for _, v := range values {
			if v.IsNull() {
				b.AppendNull()
				continue
			}
			b.Append(v.num)
		}
		return b.NewArray()
	case KindTime:
		b := array.NewTimestampBuilder(mem, &arrow.TimestampType{Unit: arrow.Millisecond, TimeZone: "UTC"})
		defer b.Release()
		for _, v := range values {
			if v.IsNull() {
				b.AppendNull()
				continue
			}
			b.Append(arrow.Timestamp(v.ts.UTC().UnixMilli()))
		}
		return b.NewArray()
	default:
		b := array.NewStringBuilder(mem)
		defer b.Release()
		for _, v := range values {
			if v.IsNull() {
				b.AppendNull()
				continue
			}
			b.Append(v.String())
		}
		return b.NewArray()
	}
}
