// Package output streams normalized rows to JSON Lines or CSV.
//
// The Emitter reads one row at a time from a Source, normalizes each cell
// with the normalize package and writes the row through a Formatter, so
// memory use stays proportional to one row rather than to the whole file.
//
// # Supported Formats
//
//   - JSON Lines: One JSON object per line, "\n" terminated, keys in column order
//   - CSV: Header row in column order, nested values as compact JSON text
//
// # Basic Usage
//
// Emitting a parquet file as JSON Lines:
//
//	r, err := reader.NewReader("data.parquet")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	emitter := output.NewEmitter(output.WithProgress(func(done, total int64) {
//	    log.Printf("%d/%d rows", done, total)
//	}))
//	n, err := emitter.EmitFile(ctx, r, "out/data.jsonl", func(w io.Writer) output.Formatter {
//	    return output.NewJSONFormatter(w)
//	})
//
// # Failures
//
// Emission stops at the first failing row. Rows written before it stay in
// the destination, so a failed file may be partial. The error says why:
//   - *RowError: a cell could not be normalized (row index and column name)
//   - *SourceError: the source failed to produce a row
//   - *SinkError: writing or flushing the destination failed
//
// A row is never written partially.
package output
