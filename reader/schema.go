package reader

import (
	"fmt"
	"os"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// SchemaInfo represents metadata about a single top-level column in a Parquet
// file.
type SchemaInfo struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	PhysicalType string `json:"physical_type"`
	LogicalType  string `json:"logical_type"`
	Required     bool   `json:"required"`
	Optional     bool   `json:"optional"`
	Repeated     bool   `json:"repeated"`
}

// ExtractSchemaInfo extracts schema information from a Parquet file.
//
// One entry is returned per top-level column, in file order. Nested columns
// carry a readable type such as MAP<INT64, STRING>, LIST<STRING> or
// STRUCT<a: INT64, b: STRING>. Groups report GROUP as their physical type.
func ExtractSchemaInfo(path string) ([]SchemaInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pqFile, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}

	fields := pqFile.Schema().Fields()
	infos := make([]SchemaInfo, len(fields))
	for i, field := range fields {
		infos[i] = columnInfo(field)
	}
	return infos, nil
}

func columnInfo(field parquet.Field) SchemaInfo {
	info := SchemaInfo{
		Name:     field.Name(),
		Type:     typeName(field),
		Required: field.Required(),
		Optional: field.Optional(),
		Repeated: field.Repeated(),
	}

	if field.Leaf() {
		info.PhysicalType = physicalType(field)
		info.LogicalType = logicalType(field)
	} else {
		info.PhysicalType = "GROUP"
		switch {
		case isMap(field):
			info.LogicalType = "MAP"
		case isList(field):
			info.LogicalType = "LIST"
		}
	}

	return info
}

// typeName renders the type of a field, recursing into groups. A repeated
// field without a LIST annotation is shown as a list of its element.
func typeName(field parquet.Field) string {
	var name string
	switch {
	case field.Leaf():
		name = leafType(field)
	case isMap(field):
		kv := field.Fields()[0].Fields()
		name = "MAP<" + typeName(kv[0]) + ", " + typeName(kv[1]) + ">"
	case isList(field):
		name = "LIST<" + elementType(field.Fields()[0]) + ">"
	default:
		parts := make([]string, 0, len(field.Fields()))
		for _, child := range field.Fields() {
			parts = append(parts, child.Name()+": "+typeName(child))
		}
		name = "STRUCT<" + strings.Join(parts, ", ") + ">"
	}

	if field.Repeated() {
		return "LIST<" + name + ">"
	}
	return name
}

// elementType renders the element of a list whose repeated middle level is rep.
func elementType(rep parquet.Field) string {
	if rep.Leaf() {
		return leafType(rep)
	}
	children := rep.Fields()
	if len(children) == 1 {
		return typeName(children[0])
	}
	parts := make([]string, 0, len(children))
	for _, child := range children {
		parts = append(parts, child.Name()+": "+typeName(child))
	}
	return "STRUCT<" + strings.Join(parts, ", ") + ">"
}

// isMap reports whether a group follows the parquet MAP layout: a single
// repeated key_value group holding a key and a value.
func isMap(field parquet.Field) bool {
	children := field.Fields()
	if len(children) != 1 {
		return false
	}
	kv := children[0]
	if !kv.Repeated() || kv.Leaf() {
		return false
	}
	inner := kv.Fields()
	return len(inner) == 2 && inner[0].Name() == "key"
}

// isList reports whether a group follows the parquet LIST layout: a single
// repeated child, either the element itself or a group wrapping it.
func isList(field parquet.Field) bool {
	children := field.Fields()
	return len(children) == 1 && children[0].Repeated() && !isMap(field)
}

// kindNames holds the physical type name of each parquet kind and the name
// shown for a leaf of that kind without a logical type.
var kindNames = map[parquet.Kind]struct{ physical, display string }{
	parquet.Boolean:           {"BOOLEAN", "BOOLEAN"},
	parquet.Int32:             {"INT32", "INT32"},
	parquet.Int64:             {"INT64", "INT64"},
	parquet.Int96:             {"INT96", "INT96"},
	parquet.Float:             {"FLOAT", "FLOAT32"},
	parquet.Double:            {"DOUBLE", "FLOAT64"},
	parquet.ByteArray:         {"BYTE_ARRAY", "BYTE_ARRAY"},
	parquet.FixedLenByteArray: {"FIXED_LEN_BYTE_ARRAY", "FIXED_LEN_BYTE_ARRAY"},
}

func physicalType(leaf parquet.Field) string {
	if names, ok := kindNames[leaf.Type().Kind()]; ok {
		return names.physical
	}
	return "UNKNOWN"
}

func logicalType(leaf parquet.Field) string {
	if lt := leaf.Type().LogicalType(); lt != nil {
		return lt.String()
	}
	return ""
}

// leafType names a leaf by its logical type when it has one the reader
// knows, and by its physical kind otherwise.
func leafType(leaf parquet.Field) string {
	if lt := leaf.Type().LogicalType(); lt != nil {
		switch {
		case lt.UTF8 != nil:
			return "STRING"
		case lt.Enum != nil:
			return "ENUM"
		case lt.UUID != nil:
			return "UUID"
		case lt.Integer != nil:
			if lt.Integer.IsSigned {
				return fmt.Sprintf("INT%d", lt.Integer.BitWidth)
			}
			return fmt.Sprintf("UINT%d", lt.Integer.BitWidth)
		case lt.Date != nil:
			return "DATE"
		case lt.Time != nil:
			return "TIME"
		case lt.Timestamp != nil:
			return "TIMESTAMP"
		case lt.Decimal != nil:
			return fmt.Sprintf("DECIMAL(%d,%d)", lt.Decimal.Precision, lt.Decimal.Scale)
		case lt.Json != nil:
			return "JSON"
		case lt.Bson != nil:
			return "BSON"
		}
	}

	if names, ok := kindNames[leaf.Type().Kind()]; ok {
		return names.display
	}
	return "UNKNOWN"
}
