// Package convert turns a directory of parquet files into one output file
// per input, isolating failures to the file they occur in.
package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vegasq/parquet2jsonl/internal/observability"
	"github.com/vegasq/parquet2jsonl/normalize"
	"github.com/vegasq/parquet2jsonl/output"
	"github.com/vegasq/parquet2jsonl/reader"
)

// ErrInputNotFound is returned when the input directory does not exist.
var ErrInputNotFound = errors.New("input directory does not exist")

// FileError reports the failure to convert one input file.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("failed to convert %s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// Options configures a Converter. Zero values select the defaults.
type Options struct {
	OutputDir        string
	Format           output.Format
	Compact          bool
	Jobs             int
	MaxDepth         int
	BatchSize        int
	ProgressInterval int64
}

// Summary describes a finished directory conversion.
type Summary struct {
	Files     int
	Converted int
	Failed    int
	Rows      int64
	Failures  []*FileError
}

// Converter converts parquet files. It is safe for concurrent use.
type Converter struct {
	opts       Options
	logger     *slog.Logger
	metrics    *observability.Metrics
	normalizer *normalize.Normalizer
}

// New creates a Converter. logger and metrics may be nil. An unknown format
// falls back to JSON Lines.
func New(opts Options, logger *slog.Logger, metrics *observability.Metrics) *Converter {
	if f, err := output.ParseFormat(string(opts.Format)); err == nil {
		opts.Format = f
	} else {
		opts.Format = output.FormatJSONL
	}
	if opts.Jobs < 1 {
		opts.Jobs = 1
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Converter{
		opts:       opts,
		logger:     logger,
		metrics:    metrics,
		normalizer: normalize.New(normalize.WithMaxDepth(opts.MaxDepth)),
	}
}

// DiscoverFiles returns the *.parquet files directly inside dir, sorted by
// name. Subdirectories are not searched.
func DiscoverFiles(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrInputNotFound, dir)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat input directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("input path is not a directory: %s", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".parquet" {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// OutputPath returns the output file for input: its base name with the
// format's extension, inside outDir.
func OutputPath(outDir, input string, format output.Format) string {
	stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(outDir, stem+format.Extension())
}

// ConvertDir converts every parquet file in inDir into the output directory,
// which defaults to inDir/jsonl_output. A file that fails is logged and
// recorded in the summary; the others are still converted. The returned
// error is reserved for problems that stop the whole run.
func (c *Converter) ConvertDir(ctx context.Context, inDir string) (*Summary, error) {
	files, err := DiscoverFiles(inDir)
	if err != nil {
		return nil, err
	}

	outDir := c.opts.OutputDir
	if outDir == "" {
		outDir = filepath.Join(inDir, "jsonl_output")
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	if len(files) == 0 {
		c.logger.Info("no parquet files found", "dir", inDir)
		return &Summary{}, nil
	}
	c.logger.Info("found parquet files to convert",
		"count", len(files),
		"output_dir", outDir,
		"format", c.opts.Format,
		"jobs", c.opts.Jobs,
		"max_depth", c.normalizer.MaxDepth(),
	)

	type result struct {
		rows int64
		err  error
	}
	results := make([]result, len(files))

	var g errgroup.Group
	g.SetLimit(c.opts.Jobs)
	for i, in := range files {
		g.Go(func() error {
			rows, err := c.ConvertFile(ctx, in, OutputPath(outDir, in, c.opts.Format))
			results[i] = result{rows: rows, err: err}
			return nil
		})
	}
	_ = g.Wait()

	summary := &Summary{Files: len(files)}
	for i, res := range results {
		summary.Rows += res.rows
		if res.err == nil {
			summary.Converted++
			continue
		}

		summary.Failed++
		var fileErr *FileError
		if !errors.As(res.err, &fileErr) {
			fileErr = &FileError{Path: files[i], Err: res.err}
		}
		summary.Failures = append(summary.Failures, fileErr)
	}

	c.logger.Info("conversion finished",
		"files", summary.Files,
		"converted", summary.Converted,
		"failed", summary.Failed,
		"rows", summary.Rows,
	)

	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}

// ConvertFile converts the parquet file in into out and returns the number of
// rows written. On failure out may hold the rows written before it.
func (c *Converter) ConvertFile(ctx context.Context, in, out string) (int64, error) {
	start := time.Now()
	logger := c.logger.With("input", in)
	logger.Info("converting file", "output", out)

	rows, err := c.convertFile(ctx, logger, in, out)

	status := observability.StatusSuccess
	if err != nil {
		status = observability.StatusFailure
	}
	c.metrics.AddRows(string(c.opts.Format), rows)
	c.metrics.ObserveFile(string(c.opts.Format), status, time.Since(start).Seconds())

	if err != nil {
		logger.Error("conversion failed", append(errorAttrs(err), "rows_written", rows)...)
		return rows, &FileError{Path: in, Err: err}
	}

	logger.Info("file converted", "rows", rows, "duration", time.Since(start))
	return rows, nil
}

func (c *Converter) convertFile(ctx context.Context, logger *slog.Logger, in, out string) (int64, error) {
	r, err := reader.NewReader(in, reader.WithBatchSize(c.opts.BatchSize))
	if err != nil {
		return 0, err
	}
	defer func() { _ = r.Close() }()
	logger.Debug("opened parquet file", "rows", r.NumRows(), "schema", r.ArrowSchema().String())

	emitter := output.NewEmitter(
		output.WithNormalizer(c.normalizer),
		output.WithProgressInterval(c.opts.ProgressInterval),
		output.WithProgress(func(done, total int64) {
			logger.Debug("progress", "rows", done, "total", total)
		}),
	)

	return emitter.EmitFile(ctx, r, out, c.newFormatter)
}

func (c *Converter) newFormatter(w io.Writer) output.Formatter {
	// Format was validated by New.
	f, _ := output.NewFormatter(c.opts.Format, w, c.opts.Compact)
	return f
}

// errorAttrs returns log attributes locating err within the file.
func errorAttrs(err error) []any {
	attrs := []any{"error", err}

	var rowErr *output.RowError
	var srcErr *output.SourceError
	switch {
	case errors.As(err, &rowErr):
		attrs = append(attrs, "row", rowErr.Row, "column", rowErr.Column)
	case errors.As(err, &srcErr):
		attrs = append(attrs, "row", srcErr.Row)
	}
	return attrs
}
