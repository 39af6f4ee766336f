package reader

import (
	"bytes"
	"strings"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vegasq/parquet2jsonl/typed"
)

// uuidExtensionName is the canonical Arrow extension name for UUID columns.
const uuidExtensionName = "arrow.uuid"

// CellValue converts the value at index i of arr to a typed value.
//
// Nested arrays are converted recursively. Dictionary arrays are resolved to
// their dictionary value. Types without a typed counterpart become
// typed.Other carrying Arrow's textual rendering. The result never aliases
// Arrow buffers.
func CellValue(arr arrow.Array, i int) typed.Value {
	if arr.IsNull(i) {
		return typed.Null{}
	}

	switch a := arr.(type) {
	case *array.Null:
		return typed.Null{}
	case *array.Boolean:
		return typed.Bool(a.Value(i))

	case *array.Int8:
		return typed.Int(a.Value(i))
	case *array.Int16:
		return typed.Int(a.Value(i))
	case *array.Int32:
		return typed.Int(a.Value(i))
	case *array.Int64:
		return typed.Int(a.Value(i))
	case *array.Uint8:
		return typed.Uint(a.Value(i))
	case *array.Uint16:
		return typed.Uint(a.Value(i))
	case *array.Uint32:
		return typed.Uint(a.Value(i))
	case *array.Uint64:
		return typed.Uint(a.Value(i))

	case *array.Float16:
		return typed.Float{V: float64(a.Value(i).Float32()), Bits: 16}
	case *array.Float32:
		return typed.Float{V: float64(a.Value(i)), Bits: 32}
	case *array.Float64:
		return typed.Float{V: a.Value(i), Bits: 64}

	case *array.String:
		return typed.String(strings.Clone(a.Value(i)))
	case *array.LargeString:
		return typed.String(strings.Clone(a.Value(i)))
	case *array.StringView:
		return typed.String(strings.Clone(a.Value(i)))
	case *array.Binary:
		return typed.Bytes(bytes.Clone(a.Value(i)))
	case *array.LargeBinary:
		return typed.Bytes(bytes.Clone(a.Value(i)))
	case *array.BinaryView:
		return typed.Bytes(bytes.Clone(a.Value(i)))
	case *array.FixedSizeBinary:
		return typed.Bytes(bytes.Clone(a.Value(i)))

	case *array.Date32:
		return typed.Time{T: a.Value(i).ToTime(), Kind: typed.Date}
	case *array.Date64:
		return typed.Time{T: a.Value(i).ToTime(), Kind: typed.Date}
	case *array.Time32:
		unit := a.DataType().(*arrow.Time32Type).Unit
		return typed.Time{T: a.Value(i).ToTime(unit), Kind: typed.TimeOfDay}
	case *array.Time64:
		unit := a.DataType().(*arrow.Time64Type).Unit
		return typed.Time{T: a.Value(i).ToTime(unit), Kind: typed.TimeOfDay}
	case *array.Timestamp:
		tt := a.DataType().(*arrow.TimestampType)
		return typed.Time{
			T:     a.Value(i).ToTime(tt.Unit),
			Kind:  typed.Timestamp,
			Zoned: tt.TimeZone != "",
		}
	case *array.Duration:
		unit := a.DataType().(*arrow.DurationType).Unit
		return typed.Duration(time.Duration(a.Value(i)) * unit.Multiplier())

	case *array.Decimal128:
		scale := a.DataType().(*arrow.Decimal128Type).Scale
		return typed.Decimal{Decimal: decimal.NewFromBigInt(a.Value(i).BigInt(), -scale)}
	case *array.Decimal256:
		scale := a.DataType().(*arrow.Decimal256Type).Scale
		return typed.Decimal{Decimal: decimal.NewFromBigInt(a.Value(i).BigInt(), -scale)}

	case *array.Map:
		return mapValue(a, i)
	case *array.LargeList:
		l := listValue(a, i)
		l.Large = true
		return l
	case array.ListLike:
		return listValue(a, i)
	case *array.Struct:
		return structValue(a, i)
	case *array.Dictionary:
		return CellValue(a.Dictionary(), a.GetValueIndex(i))

	case array.ExtensionArray:
		return extensionValue(a, i)
	default:
		return typed.Other{Type: arr.DataType().String(), Text: arr.ValueStr(i)}
	}
}

func listValue(a array.ListLike, i int) typed.List {
	start, end := a.ValueOffsets(i)
	values := a.ListValues()

	items := make([]typed.Value, 0, end-start)
	for j := start; j < end; j++ {
		items = append(items, CellValue(values, int(j)))
	}
	return typed.List{Items: items}
}

func mapValue(a *array.Map, i int) typed.Map {
	start, end := a.ValueOffsets(i)
	keys, items := a.Keys(), a.Items()

	n := int(end - start)
	m := typed.Map{
		Keys:   make([]typed.Value, 0, n),
		Values: make([]typed.Value, 0, n),
	}
	for j := int(start); j < int(end); j++ {
		m.Keys = append(m.Keys, CellValue(keys, j))
		m.Values = append(m.Values, CellValue(items, j))
	}
	return m
}

func structValue(a *array.Struct, i int) typed.Struct {
	st := a.DataType().(*arrow.StructType)

	fields := make([]typed.Field, a.NumField())
	for f := range fields {
		fields[f] = typed.Field{
			Name:  st.Field(f).Name,
			Value: CellValue(a.Field(f), i),
		}
	}
	return typed.Struct{Fields: fields}
}

func extensionValue(a array.ExtensionArray, i int) typed.Value {
	storage := a.Storage()
	if a.ExtensionType().ExtensionName() == uuidExtensionName {
		if fsb, ok := storage.(*array.FixedSizeBinary); ok {
			if u, err := uuid.FromBytes(fsb.Value(i)); err == nil {
				return typed.UUID(u)
			}
		}
	}
	return CellValue(storage, i)
}
