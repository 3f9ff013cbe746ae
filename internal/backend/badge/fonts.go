package badge

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
)

// FallbackFace is drawn with whenever the configured font cannot be loaded
var FallbackFace font.Face = basicfont.Face7x13

// FontLoadError reports why a font face could not be created at a given size
type FontLoadError struct {
	Path string
	Size int
	Err  error
}

func (e *FontLoadError) Error() string {
	return fmt.Sprintf("failed to load font %s at size %d: %v", e.Path, e.Size, e.Err)
}

func (e *FontLoadError) Unwrap() error {
	return e.Err
}

// LoadFace opens a TrueType/OpenType font and returns a face whose em size is size pixels.
// Every failure is reported as a *FontLoadError.
func LoadFace(path string, size int) (font.Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &FontLoadError{Path: path, Size: size, Err: err}
	}
	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, &FontLoadError{Path: path, Size: size, Err: err}
	}
	if size <= 0 {
		return nil, &FontLoadError{Path: path, Size: size, Err: fmt.Errorf("size must be positive")}
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, &FontLoadError{Path: path, Size: size, Err: err}
	}
	return face, nil
}

// ResolveFace applies the fallback policy: a font that fails to load is replaced by
// FallbackFace. The second return value reports whether the fallback was used.
func ResolveFace(path string, size int) (font.Face, bool) {
	face, err := LoadFace(path, size)
	if err == nil {
		return face, false
	}

	var loadErr *FontLoadError
	if errors.As(err, &loadErr) {
		slog.Warn("font unavailable, using built-in face",
			"path", loadErr.Path, "size", loadErr.Size, "error", loadErr.Err)
	} else {
		slog.Warn("font unavailable, using built-in face", "path", path, "error", err)
	}
	return FallbackFace, true
}
