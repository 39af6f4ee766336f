package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vegasq/parquet2jsonl/canonical"
)

func TestJSONFormatter_WriteRow(t *testing.T) {
	tests := []struct {
		name    string
		compact bool
		rows    []*canonical.Mapping
		want    string
	}{
		{
			name: "no rows",
			want: "",
		},
		{
			name: "single row",
			rows: []*canonical.Mapping{
				canonical.MappingOf(
					canonical.Entry{Key: "id", Value: canonical.Int(1)},
					canonical.Entry{Key: "name", Value: canonical.Text("alice")},
				),
			},
			want: "{\"id\": 1, \"name\": \"alice\"}\n",
		},
		{
			name:    "compact",
			compact: true,
			rows: []*canonical.Mapping{
				canonical.MappingOf(
					canonical.Entry{Key: "id", Value: canonical.Int(1)},
					canonical.Entry{Key: "tags", Value: canonical.Sequence{canonical.Text("a")}},
				),
			},
			want: "{\"id\":1,\"tags\":[\"a\"]}\n",
		},
		{
			name: "multiple rows keep order",
			rows: []*canonical.Mapping{
				canonical.MappingOf(canonical.Entry{Key: "b", Value: canonical.Int(1)}, canonical.Entry{Key: "a", Value: canonical.Int(2)}),
				canonical.MappingOf(canonical.Entry{Key: "b", Value: canonical.Int(3)}, canonical.Entry{Key: "a", Value: canonical.Int(4)}),
			},
			want: "{\"b\": 1, \"a\": 2}\n{\"b\": 3, \"a\": 4}\n",
		},
		{
			name: "empty record",
			rows: []*canonical.Mapping{canonical.NewMapping(0)},
			want: "{}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			formatter, err := NewFormatter(FormatJSONL, &buf, tt.compact)
			require.NoError(t, err)

			require.NoError(t, formatter.Begin(nil))
			for _, row := range tt.rows {
				require.NoError(t, formatter.WriteRow(row))
			}
			require.NoError(t, formatter.Flush())

			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestJSONFormatter_OutputFormat(t *testing.T) {
	var buf bytes.Buffer
	formatter := NewJSONFormatter(&buf)

	row := canonical.MappingOf(
		canonical.Entry{Key: "name", Value: canonical.Text("Zoë <b>&</b>")},
		canonical.Entry{Key: "score", Value: canonical.Float{V: 95.5, Bits: 64}},
		canonical.Entry{Key: "nested", Value: canonical.MappingOf(
			canonical.Entry{Key: "ok", Value: canonical.Bool(true)},
			canonical.Entry{Key: "none", Value: canonical.Null{}},
		)},
	)
	require.NoError(t, formatter.WriteRow(row))
	require.NoError(t, formatter.WriteRow(row))
	require.NoError(t, formatter.Flush())

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	for _, line := range lines {
		// Non-ASCII and HTML characters are written as is.
		assert.Contains(t, line, "Zoë <b>&</b>")
		assert.True(t, json.Valid([]byte(line)), "line is not valid JSON: %s", line)
	}
}

func TestJSONFormatter_BuffersUntilFlush(t *testing.T) {
	var buf bytes.Buffer
	formatter := NewJSONFormatter(&buf)

	require.NoError(t, formatter.WriteRow(canonical.MappingOf(canonical.Entry{Key: "id", Value: canonical.Int(7)})))
	assert.Equal(t, len("{\"id\": 7}\n"), formatter.Buffered())
	assert.Zero(t, buf.Len())

	require.NoError(t, formatter.Flush())
	assert.Zero(t, formatter.Buffered())
	assert.Equal(t, "{\"id\": 7}\n", buf.String())
}

func TestJSONFormatter_SetOutput(t *testing.T) {
	var buf1, buf2 bytes.Buffer
	formatter := NewJSONFormatter(&buf1)
	row := canonical.MappingOf(canonical.Entry{Key: "id", Value: canonical.Int(1)})

	require.NoError(t, formatter.WriteRow(row))
	require.NoError(t, formatter.Flush())

	formatter.SetOutput(&buf2)
	require.NoError(t, formatter.WriteRow(row))
	require.NoError(t, formatter.Flush())

	assert.Equal(t, "{\"id\": 1}\n", buf1.String())
	assert.Equal(t, "{\"id\": 1}\n", buf2.String())
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantExt string
		wantErr bool
	}{
		{in: "jsonl", want: FormatJSONL, wantExt: ".jsonl"},
		{in: "JSON", want: FormatJSONL, wantExt: ".jsonl"},
		{in: "csv", want: FormatCSV, wantExt: ".csv"},
		{in: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantExt, got.Extension())
		})
	}
}
