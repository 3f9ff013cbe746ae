package badge

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"log/slog"
	"os"
	"strconv"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrTemplate marks every failure to open or decode the badge template
var ErrTemplate = errors.New("template unavailable")

// LoadTemplate reads the template at path and returns it as a fresh RGBA canvas
func LoadTemplate(path string) (*image.RGBA, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplate, path, err)
	}

	img, err := decodeTemplate(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplate, path, err)
	}

	bounds := img.Bounds()
	canvas := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(canvas, canvas.Bounds(), img, bounds.Min, draw.Src)
	return canvas, nil
}

func decodeTemplate(data []byte) (image.Image, error) {
	if isSVGData(data) {
		return rasterizeSVG(data)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	slog.Debug("template decoded",
		"format", format,
		"width", img.Bounds().Dx(),
		"height", img.Bounds().Dy())
	return img, nil
}

// isSVGData looks for an svg root element in the first 4KB
func isSVGData(data []byte) bool {
	n := len(data)
	if n > 4096 {
		n = 4096
	}
	return bytes.Contains(bytes.ToLower(data[:n]), []byte("<svg"))
}

// rasterizeSVG renders an SVG template at its declared width and height,
// falling back to the viewBox extent when no explicit size is given.
func rasterizeSVG(data []byte) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse SVG: %w", err)
	}

	width, height, ok := svgExplicitSize(data)
	if !ok {
		width, height = int(icon.ViewBox.W), int(icon.ViewBox.H)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("SVG template has no usable size")
	}

	icon.SetTarget(0, 0, float64(width), float64(height))
	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	scanner := rasterx.NewScannerGV(width, height, canvas, canvas.Bounds())
	icon.Draw(rasterx.NewDasher(width, height, scanner), 1.0)

	slog.Debug("SVG template rasterized", "width", width, "height", height, "explicit_size", ok)
	return canvas, nil
}

// svgExplicitSize reads the width and height attributes of the root svg element
func svgExplicitSize(data []byte) (int, int, bool) {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	for {
		token, err := decoder.Token()
		if err != nil {
			return 0, 0, false
		}
		start, isStart := token.(xml.StartElement)
		if !isStart {
			continue
		}
		if !strings.EqualFold(start.Name.Local, "svg") {
			return 0, 0, false
		}

		var width, height int
		for _, attr := range start.Attr {
			switch attr.Name.Local {
			case "width":
				width = leadingInt(attr.Value)
			case "height":
				height = leadingInt(attr.Value)
			}
		}
		return width, height, width > 0 && height > 0
	}
}

// leadingInt parses values such as "300", "300px" or "300.5"
func leadingInt(value string) int {
	value = strings.TrimSpace(value)
	end := 0
	for end < len(value) && (value[end] >= '0' && value[end] <= '9' || value[end] == '.') {
		end++
	}
	f, err := strconv.ParseFloat(value[:end], 64)
	if err != nil {
		return 0
	}
	return int(f)
}
