// Package loader opens building model files and returns them as model.Model
// values. It is the only place that maps file system and parse failures to
// error codes; everything downstream treats missing data as absence.
package loader

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"

	ckerrors "vkfcheck/internal/errors"
	"vkfcheck/internal/ifc"
	"vkfcheck/internal/model"
	"vkfcheck/internal/slogutil"
	"vkfcheck/internal/step"
)

// Format identifies a model file encoding.
type Format string

const (
	FormatIFC     Format = "ifc"
	FormatIFCZip  Format = "ifczip"
	FormatIFCGzip Format = "ifc.gz"
	FormatYAML    Format = "yaml"
)

// suffixes is checked in order; longer suffixes come first.
var suffixes = []struct {
	suffix string
	format Format
}{
	{".ifc.gz", FormatIFCGzip},
	{".ifczip", FormatIFCZip},
	{".ifc", FormatIFC},
	{".yaml", FormatYAML},
	{".yml", FormatYAML},
	{".json", FormatYAML},
}

// DetectFormat returns the format implied by the file name.
func DetectFormat(path string) (Format, bool) {
	name := strings.ToLower(filepath.Base(path))
	for _, s := range suffixes {
		if strings.HasSuffix(name, s.suffix) {
			return s.format, true
		}
	}
	return "", false
}

// Loader opens model files.
type Loader struct {
	logger *slog.Logger
}

// New creates a loader. A nil logger discards diagnostics.
func New(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slogutil.NewDiscardLogger()
	}
	return &Loader{logger: logger}
}

// Load opens path and returns the model it contains. Failures are
// *errors.CheckError values coded MODEL_NOT_FOUND, FORMAT_UNSUPPORTED or
// MODEL_UNREADABLE; a cancelled context is returned as is.
func (l *Loader) Load(ctx context.Context, path string) (model.Model, error) {
	details := map[string]string{"path": path}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ckerrors.NewCheckError(ckerrors.ModelNotFound,
				fmt.Sprintf("model file not found: %s", path), err, nil).WithDetails(details)
		}
		return nil, ckerrors.NewCheckError(ckerrors.ModelUnreadable,
			"failed to stat model file", err, nil).WithDetails(details)
	}
	if info.IsDir() {
		return nil, ckerrors.NewCheckError(ckerrors.ModelUnreadable,
			fmt.Sprintf("model path is a directory: %s", path), nil, nil).WithDetails(details)
	}

	format, ok := DetectFormat(path)
	if !ok {
		return nil, ckerrors.NewCheckError(ckerrors.FormatUnsupported,
			fmt.Sprintf("no model reader for %q files", filepath.Ext(path)), nil, nil).WithDetails(details)
	}
	details["format"] = string(format)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	m, err := l.open(ctx, path, format)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, ckerrors.NewCheckError(ckerrors.ModelUnreadable,
			fmt.Sprintf("failed to read %s model", format), err, nil).WithDetails(details)
	}

	l.logger.Info("model loaded",
		"path", path,
		"format", string(format),
		"schema", m.Schema(),
		"size_bytes", info.Size(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return m, nil
}

func (l *Loader) open(ctx context.Context, path string, format Format) (model.Model, error) {
	switch format {
	case FormatIFC:
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer func() { _ = f.Close() }()
		return l.parseIFC(ctx, f)

	case FormatIFCGzip:
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer func() { _ = f.Close() }()
		zr, err := gzip.NewReader(bufio.NewReader(f))
		if err != nil {
			return nil, fmt.Errorf("opening gzip stream: %w", err)
		}
		defer func() { _ = zr.Close() }()
		return l.parseIFC(ctx, zr)

	case FormatIFCZip:
		return l.openZip(ctx, path)

	case FormatYAML:
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer func() { _ = f.Close() }()
		doc, err := DecodeDocument(&ctxReader{ctx: ctx, r: f})
		if err != nil {
			return nil, fmt.Errorf("decoding model document: %w", err)
		}
		return doc.Build(l.logger)
	}
	return nil, fmt.Errorf("unhandled format %q", format)
}

// openZip parses the first .ifc entry of an archive.
func (l *Loader) openZip(ctx context.Context, path string) (model.Model, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	defer func() { _ = zr.Close() }()

	for _, entry := range zr.File {
		if entry.FileInfo().IsDir() || !strings.EqualFold(filepath.Ext(entry.Name), ".ifc") {
			continue
		}
		rc, err := entry.Open()
		if err != nil {
			return nil, fmt.Errorf("opening archive entry %s: %w", entry.Name, err)
		}
		defer func() { _ = rc.Close() }()

		l.logger.Debug("reading archive entry", "archive", path, "entry", entry.Name)
		return l.parseIFC(ctx, rc)
	}
	return nil, fmt.Errorf("archive contains no .ifc entry")
}

func (l *Loader) parseIFC(ctx context.Context, r io.Reader) (model.Model, error) {
	f, err := step.Parse(&ctxReader{ctx: ctx, r: r})
	if err != nil {
		return nil, err
	}
	return ifc.New(f, l.logger), nil
}

// ctxReader stops reading once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
