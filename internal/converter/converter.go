// Package converter drives batch conversion of JSON files into workbooks.
package converter

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/mcncl/jsonsheet/internal/config"
	"github.com/mcncl/jsonsheet/internal/errors"
	"github.com/mcncl/jsonsheet/internal/models"
	"github.com/mcncl/jsonsheet/internal/naming"
	"github.com/mcncl/jsonsheet/internal/parser"
	"github.com/mcncl/jsonsheet/internal/recordset"
	"github.com/mcncl/jsonsheet/internal/writer"
)

// JSONExtension is the only extension accepted as input.
const JSONExtension = ".json"

const progressDescription = "Converting JSON to Excel"

// Result describes one converted file.
type Result struct {
	Input   string
	Output  string
	Rows    int
	Columns int
	Size    int64
}

// Failure records why a file was skipped.
type Failure struct {
	Path string
	Err  error
}

// Summary counts the outcome of a batch.
type Summary struct {
	Total     int
	Succeeded int
	Results   []Result
	Failures  []Failure
}

// Failed returns the number of files that were not converted.
func (s Summary) Failed() int {
	return s.Total - s.Succeeded
}

func (s *Summary) add(other Summary) {
	s.Total += other.Total
	s.Succeeded += other.Succeeded
	s.Results = append(s.Results, other.Results...)
	s.Failures = append(s.Failures, other.Failures...)
}

// Converter converts JSON files on a filesystem into xlsx workbooks.
type Converter struct {
	fs       afero.Fs
	cfg      *config.Config
	logger   *zap.SugaredLogger
	clock    clockwork.Clock
	namer    *naming.Namer
	builder  *recordset.Builder
	progress io.Writer
}

// New creates a Converter. progress receives the progress bar and may be nil.
func New(fs afero.Fs, cfg *config.Config, logger *zap.SugaredLogger, clock clockwork.Clock, progress io.Writer) (*Converter, error) {
	namer, err := naming.NewNamer(clock, cfg.Output.Timezone, cfg.Output.TimestampFormat)
	if err != nil {
		return nil, errors.NewConfigError("cannot build output names", err)
	}
	if !cfg.Progress.Enabled {
		progress = nil
	}
	return &Converter{
		fs:       fs,
		cfg:      cfg,
		logger:   logger,
		clock:    clock,
		namer:    namer,
		builder:  &recordset.Builder{Policy: cfg.HeaderPolicy()},
		progress: progress,
	}, nil
}

// Discover lists the .json files directly inside dir, sorted by name.
func Discover(fs afero.Fs, dir string) ([]string, error) {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, errors.NewInputError(fmt.Sprintf("cannot read input directory '%s'", dir), err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), JSONExtension) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	if len(files) == 0 {
		return nil, errors.NewInputError(fmt.Sprintf("no JSON files in '%s'", dir), errors.ErrNoJSONFiles)
	}
	return files, nil
}

// Chunk splits files into consecutive groups of at most size files.
func Chunk(files []string, size int) [][]string {
	if size < 1 {
		size = 1
	}
	var chunks [][]string
	for start := 0; start < len(files); start += size {
		end := start + size
		if end > len(files) {
			end = len(files)
		}
		chunks = append(chunks, files[start:end])
	}
	return chunks
}

// RunDir discovers the configured input directory and converts everything in it.
func (c *Converter) RunDir(ctx context.Context) (Summary, error) {
	files, err := Discover(c.fs, c.cfg.Files.InputDir)
	if err != nil {
		return Summary{}, err
	}
	return c.Run(ctx, files)
}

// Run converts files chunk by chunk. Failing files are logged and counted,
// only a cancelled context or an unusable output directory stop the run.
func (c *Converter) Run(ctx context.Context, files []string) (Summary, error) {
	if err := c.fs.MkdirAll(c.cfg.Files.OutputDir, 0o755); err != nil {
		return Summary{}, errors.NewOutputError(fmt.Sprintf("cannot create output directory '%s'", c.cfg.Files.OutputDir), err)
	}

	var total Summary
	chunks := Chunk(files, c.cfg.Files.Chunk)
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		c.logger.Debugf("Processing chunk %d of %d (%d files)", i+1, len(chunks), len(chunk))
		total.add(c.ConvertBatch(ctx, chunk))
	}
	return total, ctx.Err()
}

// ConvertBatch converts each file in order and logs a summary for the batch.
func (c *Converter) ConvertBatch(ctx context.Context, files []string) Summary {
	summary := Summary{Total: len(files)}
	bar := c.newProgressBar(len(files))

	for _, path := range files {
		if ctx.Err() != nil {
			break
		}
		if c.cfg.Progress.Delay > 0 {
			c.clock.Sleep(c.cfg.Progress.Delay)
		}

		result, err := c.ConvertFile(path)
		if err != nil {
			c.logger.Errorf("%s conversion failed! Error: %s", path, errors.UserFriendlyError(err))
			c.logger.Debugf("%s: %v", path, err)
			summary.Failures = append(summary.Failures, Failure{Path: path, Err: err})
		} else {
			c.logger.Infof("%s conversion successful. Converted to %s.", path, result.Output)
			c.logger.Infof("Size of converted file: %d bytes", result.Size)
			summary.Succeeded++
			summary.Results = append(summary.Results, *result)
		}
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	if summary.Failed() == 0 {
		c.logger.Infof("Completed %d files. Conversion of JSON to Excel file is successful.", summary.Total)
	} else {
		c.logger.Infof("Completed %d files. Conversion of JSON to Excel file failed for %d file(s).", summary.Total, summary.Failed())
	}
	return summary
}

// ConvertFile converts a single JSON file into a workbook in the output directory.
func (c *Converter) ConvertFile(path string) (*Result, error) {
	if !strings.HasSuffix(path, JSONExtension) {
		return nil, errors.NewInputError(fmt.Sprintf("skipping '%s': invalid file format, please provide a JSON file", path), errors.ErrInvalidExtension)
	}

	root, err := parser.ParseFile(c.fs, path)
	if err != nil {
		return nil, err
	}

	rs, err := c.builder.Build(root)
	if err != nil {
		return nil, errors.NewBuildError(fmt.Sprintf("cannot convert '%s': %v", path, err), err)
	}

	output, err := c.uniqueOutput(c.namer.OutputPath(c.cfg.Files.OutputDir, path))
	if err != nil {
		return nil, err
	}

	headers, collisions := c.cfg.HeaderNames(rs.Headers)
	for _, i := range collisions {
		c.logger.Warnf("%s: header for column %q collides with an earlier column, using %q", path, rs.Headers[i], headers[i])
	}

	if err := c.writeWorkbook(output, headers, rs); err != nil {
		return nil, err
	}

	stat, err := c.fs.Stat(output)
	if err != nil {
		return nil, errors.NewOutputError(fmt.Sprintf("cannot stat '%s'", output), err)
	}

	return &Result{
		Input:   path,
		Output:  output,
		Rows:    len(rs.Rows),
		Columns: len(rs.Headers),
		Size:    stat.Size(),
	}, nil
}

// uniqueOutput returns output, or output with a _N suffix before the
// extension when a workbook of that name already exists.
func (c *Converter) uniqueOutput(output string) (string, error) {
	ext := filepath.Ext(output)
	base := strings.TrimSuffix(output, ext)
	candidate := output
	for n := 1; ; n++ {
		exists, err := afero.Exists(c.fs, candidate)
		if err != nil {
			return "", errors.NewOutputError(fmt.Sprintf("cannot check '%s'", candidate), err)
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s_%d%s", base, n, ext)
	}
}

func (c *Converter) writeWorkbook(output string, headers []string, rs *models.RecordSet) error {
	f, err := c.fs.Create(output)
	if err != nil {
		return errors.NewOutputError(fmt.Sprintf("cannot create '%s'", output), err)
	}

	writeErr := writer.Write(f, c.cfg.Excel.SheetName, headers, rs.Rows)
	closeErr := f.Close()
	if writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		_ = c.fs.Remove(output)
		return errors.NewOutputError(fmt.Sprintf("cannot write '%s'", output), writeErr)
	}
	return nil
}

func (c *Converter) newProgressBar(total int) *progressbar.ProgressBar {
	w := c.progress
	if w == nil {
		w = io.Discard
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(progressDescription),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() { _, _ = fmt.Fprintln(w) }),
	)
}
