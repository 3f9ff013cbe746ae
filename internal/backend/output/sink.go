package output

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidCode is returned for codes that cannot be used as part of a file name
// inside the output directory.
var ErrInvalidCode = errors.New("code cannot be used as a file name")

// Processor post-processes an encoded PNG before it is written
type Processor interface {
	Execute(imageData []byte) ([]byte, error)
}

// Sink writes badges to badge_<code>.png files in a single directory
type Sink struct {
	dir       string
	processor Processor
}

// NewSink creates dir when it does not exist. processor may be nil.
func NewSink(dir string, processor Processor) (*Sink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}
	return &Sink{
		dir:       dir,
		processor: processor,
	}, nil
}

func (s *Sink) Dir() string {
	return s.dir
}

// Path returns the file a badge for code is written to. The code is used verbatim;
// codes with path separators or dot segments are rejected.
func (s *Sink) Path(code string) (string, error) {
	if code == "" || code == "." || code == ".." || strings.ContainsAny(code, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidCode, code)
	}
	return filepath.Join(s.dir, "badge_"+code+".png"), nil
}

// Exists reports whether a badge for code has been written before
func (s *Sink) Exists(code string) bool {
	path, err := s.Path(code)
	if err != nil {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Save encodes img as PNG, applies the processor and overwrites any previous file for code
func (s *Sink) Save(img image.Image, code string) (string, error) {
	path, err := s.Path(code)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode badge: %w", err)
	}

	data := buf.Bytes()
	if s.processor != nil {
		data, err = s.processor.Execute(data)
		if err != nil {
			return "", fmt.Errorf("failed to post-process badge: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write badge %s: %w", path, err)
	}

	slog.Info("badge saved", "code", code, "path", path, "size_bytes", len(data))
	return path, nil
}
