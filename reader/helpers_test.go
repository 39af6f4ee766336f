package reader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	pq "github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/require"
)

// writeRows writes rows to a parquet file in a temporary directory using
// parquet-go's generic writer and returns its path.
func writeRows[T any](t *testing.T, name string, rows []T) string {
	t.Helper()

	testFile := filepath.Join(t.TempDir(), name)
	f, err := os.Create(testFile)
	if err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	writer := pq.NewGenericWriter[T](f)
	if _, err := writer.Write(rows); err != nil {
		t.Fatalf("failed to write test data: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("failed to close file: %v", err)
	}

	return testFile
}

// writeRecords writes Arrow records to a parquet file in a temporary directory
// and returns its path. Every record must share schema.
func writeRecords(t *testing.T, name string, schema *arrow.Schema, recs ...arrow.Record) string {
	t.Helper()

	testFile := filepath.Join(t.TempDir(), name)
	f, err := os.Create(testFile)
	require.NoError(t, err, "failed to create test file")
	defer func() { _ = f.Close() }()

	writer, err := pqarrow.NewFileWriter(schema, f, parquet.NewWriterProperties(), pqarrow.DefaultWriterProps())
	require.NoError(t, err, "failed to create arrow writer")
	for _, rec := range recs {
		require.NoError(t, writer.Write(rec), "failed to write record")
	}
	require.NoError(t, writer.Close(), "failed to close writer")

	return testFile
}
