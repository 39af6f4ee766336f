package convert

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vegasq/parquet2jsonl/internal/observability"
	"github.com/vegasq/parquet2jsonl/output"
)

type person struct {
	ID   int64  `parquet:"id"`
	Name string `parquet:"name"`
}

func writePeople(t *testing.T, path string, n int) {
	t.Helper()

	rows := make([]person, n)
	for i := range rows {
		rows[i] = person{ID: int64(i + 1), Name: fmt.Sprintf("p%d", i+1)}
	}

	f, err := os.Create(path)
	require.NoError(t, err)
	writer := parquet.NewGenericWriter[person](f)
	_, err = writer.Write(rows)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	require.NoError(t, f.Close())
}

func TestDiscoverFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.parquet", "a.parquet", "notes.txt", "c.parquet.bak"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.parquet"), 0755))

	files, err := DiscoverFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.parquet"), filepath.Join(dir, "b.parquet")}, files)
}

func TestDiscoverFiles_Missing(t *testing.T) {
	_, err := DiscoverFiles(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, ErrInputNotFound)
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "data.2024.jsonl"), OutputPath("out", "/in/data.2024.parquet", output.FormatJSONL))
	assert.Equal(t, filepath.Join("out", "data.csv"), OutputPath("out", "data.parquet", output.FormatCSV))
}

func TestConvertDir_DefaultOutputDir(t *testing.T) {
	dir := t.TempDir()
	writePeople(t, filepath.Join(dir, "people.parquet"), 3)

	summary, err := New(Options{}, nil, nil).ConvertDir(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Files)
	assert.Equal(t, 1, summary.Converted)
	assert.Equal(t, int64(3), summary.Rows)

	data, err := os.ReadFile(filepath.Join(dir, "jsonl_output", "people.jsonl"))
	require.NoError(t, err)
	assert.Equal(t,
		"{\"id\": 1, \"name\": \"p1\"}\n{\"id\": 2, \"name\": \"p2\"}\n{\"id\": 3, \"name\": \"p3\"}\n",
		string(data))
}

func TestConvertDir_NoFiles(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(t.TempDir(), "out")

	summary, err := New(Options{OutputDir: out}, nil, nil).ConvertDir(context.Background(), dir)
	require.NoError(t, err)
	assert.Zero(t, summary.Files)
	assert.DirExists(t, out, "output directory is created up front")
}

func TestConvertDir_MissingInput(t *testing.T) {
	_, err := New(Options{}, nil, nil).ConvertDir(context.Background(), filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, ErrInputNotFound)
}

func TestConvertDir_FailureIsIsolated(t *testing.T) {
	dir := t.TempDir()
	out := t.TempDir()
	writePeople(t, filepath.Join(dir, "a.parquet"), 2)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.parquet"), []byte("not a parquet file"), 0644))
	writePeople(t, filepath.Join(dir, "c.parquet"), 5)

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	metrics := observability.NewMetrics(prometheus.NewRegistry())

	summary, err := New(Options{OutputDir: out}, logger, metrics).ConvertDir(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Files)
	assert.Equal(t, 2, summary.Converted)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, int64(7), summary.Rows)
	require.Len(t, summary.Failures, 1)
	assert.Equal(t, filepath.Join(dir, "b.parquet"), summary.Failures[0].Path)

	assert.FileExists(t, filepath.Join(out, "a.jsonl"))
	assert.FileExists(t, filepath.Join(out, "c.jsonl"))
	assert.Contains(t, logs.String(), "conversion failed")
	assert.Contains(t, logs.String(), "b.parquet")

	assert.Equal(t, float64(7), testutil.ToFloat64(metrics.RowsConverted.WithLabelValues("jsonl")))
	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.FilesConverted.WithLabelValues("jsonl", observability.StatusSuccess)))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.FilesConverted.WithLabelValues("jsonl", observability.StatusFailure)))
}

func TestConvertDir_ParallelMatchesSequential(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 6; i++ {
		writePeople(t, filepath.Join(dir, fmt.Sprintf("part-%d.parquet", i)), 50+i)
	}

	read := func(outDir string) map[string]string {
		entries, err := os.ReadDir(outDir)
		require.NoError(t, err)
		files := make(map[string]string, len(entries))
		for _, e := range entries {
			data, err := os.ReadFile(filepath.Join(outDir, e.Name()))
			require.NoError(t, err)
			files[e.Name()] = string(data)
		}
		return files
	}

	seqOut, parOut := t.TempDir(), t.TempDir()
	_, err := New(Options{OutputDir: seqOut, Jobs: 1, BatchSize: 7}, nil, nil).ConvertDir(context.Background(), dir)
	require.NoError(t, err)
	summary, err := New(Options{OutputDir: parOut, Jobs: 4}, nil, nil).ConvertDir(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 6, summary.Converted)
	assert.Len(t, read(parOut), 6)
	assert.Equal(t, read(seqOut), read(parOut))
}

func TestConvertDir_CSV(t *testing.T) {
	dir := t.TempDir()
	out := t.TempDir()
	writePeople(t, filepath.Join(dir, "people.parquet"), 2)

	_, err := New(Options{OutputDir: out, Format: output.FormatCSV}, nil, nil).ConvertDir(context.Background(), dir)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(out, "people.csv"))
	require.NoError(t, err)
	assert.Equal(t, "id,name\n1,p1\n2,p2\n", string(data))
}

func TestConvertFile_Compact(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "people.parquet")
	out := filepath.Join(dir, "out", "people.jsonl")
	writePeople(t, in, 1)

	n, err := New(Options{Compact: true}, nil, nil).ConvertFile(context.Background(), in, out)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "{\"id\":1,\"name\":\"p1\"}\n", string(data))
}

func TestConvertFile_ErrorCarriesPath(t *testing.T) {
	in := filepath.Join(t.TempDir(), "missing.parquet")

	_, err := New(Options{}, nil, nil).ConvertFile(context.Background(), in, filepath.Join(t.TempDir(), "x.jsonl"))

	var fileErr *FileError
	require.ErrorAs(t, err, &fileErr)
	assert.Equal(t, in, fileErr.Path)
	assert.True(t, strings.HasPrefix(err.Error(), "failed to convert "+in))
}

func TestConvertDir_Cancelled(t *testing.T) {
	dir := t.TempDir()
	writePeople(t, filepath.Join(dir, "a.parquet"), 3)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := New(Options{OutputDir: t.TempDir()}, nil, nil).ConvertDir(ctx, dir)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, summary)
	assert.Equal(t, 1, summary.Failed)
}
