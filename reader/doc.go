// Package reader streams Apache Parquet files as rows of typed cell values.
//
// Files are decoded through Arrow's pqarrow reader one record batch at a
// time, and each cell is converted to a typed.Value with CellValue. Nested
// maps, lists and structs are preserved as typed containers.
//
// # Basic Usage
//
//	r, err := reader.NewReader("data.parquet", reader.WithBatchSize(4096))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	for {
//	    row, err := r.Next(ctx)
//	    if errors.Is(err, io.EOF) {
//	        break
//	    }
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(r.Columns(), row)
//	}
//
// # Schema Introspection
//
// ExtractSchemaInfo reads the file footer with parquet-go and reports one
// entry per top-level column, with nested types rendered as
// MAP<K, V>, LIST<T> or STRUCT<name: T, ...>:
//
//	infos, err := reader.ExtractSchemaInfo("data.parquet")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, info := range infos {
//	    fmt.Printf("%s: %s\n", info.Name, info.Type)
//	}
package reader
