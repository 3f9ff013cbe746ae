package commands

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"

	"github.com/jo-hoe/badgeprinter/internal/backend/commandstructure"
)

// DitherParams represents typed parameters for the dither command
type DitherParams struct {
	Palette  []color.RGBA
	Strength float64
}

// NewDitherParamsFromMap reads an optional palette of [r, g, b] triples (default black and
// white, as used by thermal badge printers) and an optional error diffusion strength in [0, 1].
func NewDitherParamsFromMap(params map[string]any) (*DitherParams, error) {
	ditherParams := &DitherParams{
		Palette:  []color.RGBA{{0, 0, 0, 255}, {255, 255, 255, 255}},
		Strength: 1,
	}

	if paletteParam, ok := params["palette"]; ok {
		palette, err := parsePalette(paletteParam)
		if err != nil {
			return nil, fmt.Errorf("invalid palette: %w", err)
		}
		ditherParams.Palette = palette
	}

	if strengthParam, ok := params["strength"]; ok {
		var strength float64
		switch v := strengthParam.(type) {
		case float64:
			strength = v
		case int:
			strength = float64(v)
		default:
			return nil, fmt.Errorf("strength must be a number")
		}
		if strength < 0 || strength > 1 {
			return nil, fmt.Errorf("strength must be between 0 and 1, got %f", strength)
		}
		ditherParams.Strength = strength
	}

	return ditherParams, nil
}

func parsePalette(paletteParam any) ([]color.RGBA, error) {
	entries, ok := paletteParam.([]any)
	if !ok {
		return nil, fmt.Errorf("palette must be an array of RGB arrays")
	}
	if len(entries) < 2 {
		return nil, fmt.Errorf("palette needs at least two colors, got %d", len(entries))
	}

	palette := make([]color.RGBA, len(entries))
	for i, entry := range entries {
		components, ok := entry.([]any)
		if !ok || len(components) != 3 {
			return nil, fmt.Errorf("color at index %d must be an array of 3 values (RGB)", i)
		}
		var rgb [3]uint8
		for j, component := range components {
			var v int
			switch n := component.(type) {
			case int:
				v = n
			case float64:
				v = int(n)
			default:
				return nil, fmt.Errorf("RGB value at color %d, component %d must be a number", i, j)
			}
			if v < 0 || v > 255 {
				return nil, fmt.Errorf("RGB value at color %d, component %d must be 0-255, got %d", i, j, v)
			}
			rgb[j] = uint8(v)
		}
		palette[i] = color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255}
	}
	return palette, nil
}

// DitherCommand reduces a badge to a small palette with Floyd-Steinberg error diffusion.
// Transparent areas are composited over white first.
type DitherCommand struct {
	name   string
	params *DitherParams
}

func NewDitherCommand(params map[string]any) (commandstructure.Command, error) {
	typedParams, err := NewDitherParamsFromMap(params)
	if err != nil {
		return nil, err
	}

	return &DitherCommand{
		name:   "DitherCommand",
		params: typedParams,
	}, nil
}

func (c *DitherCommand) Name() string {
	return c.name
}

func (c *DitherCommand) Execute(imageData []byte) ([]byte, error) {
	img, err := decodePNG(imageData)
	if err != nil {
		slog.Error("DitherCommand: failed to decode badge", "error", err)
		return nil, err
	}

	slog.Debug("DitherCommand: dithering badge",
		"palette_size", len(c.params.Palette),
		"strength", c.params.Strength)
	return encodePNG(c.dither(img))
}

func (c *DitherCommand) GetParams() *DitherParams {
	return c.params
}

func (c *DitherCommand) dither(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := image.NewRGBA(image.Rect(0, 0, w, h))

	// error rows hold per-channel error for the current and the next scanline
	curr := make([][3]float64, w+2)
	next := make([][3]float64, w+2)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b := overWhite(img.At(bounds.Min.X+x, bounds.Min.Y+y))
			want := [3]float64{
				clamp(r + curr[x+1][0]),
				clamp(g + curr[x+1][1]),
				clamp(b + curr[x+1][2]),
			}

			chosen := c.nearest(want)
			out.SetRGBA(x, y, chosen)

			got := [3]float64{float64(chosen.R), float64(chosen.G), float64(chosen.B)}
			for ch := 0; ch < 3; ch++ {
				e := (want[ch] - got[ch]) * c.params.Strength
				curr[x+2][ch] += e * 7 / 16
				next[x][ch] += e * 3 / 16
				next[x+1][ch] += e * 5 / 16
				next[x+2][ch] += e * 1 / 16
			}
		}
		curr, next = next, curr
		for i := range next {
			next[i] = [3]float64{}
		}
	}
	return out
}

func (c *DitherCommand) nearest(want [3]float64) color.RGBA {
	best := c.params.Palette[0]
	bestDist := -1.0
	for _, candidate := range c.params.Palette {
		dr := want[0] - float64(candidate.R)
		dg := want[1] - float64(candidate.G)
		db := want[2] - float64(candidate.B)
		dist := dr*dr + dg*dg + db*db
		if bestDist < 0 || dist < bestDist {
			best = candidate
			bestDist = dist
		}
	}
	return best
}

// overWhite composites c over an opaque white background and returns 8-bit channels
func overWhite(c color.Color) (float64, float64, float64) {
	r, g, b, a := c.RGBA()
	white := float64(0xffff - a)
	return (float64(r) + white) / 257, (float64(g) + white) / 257, (float64(b) + white) / 257
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

func init() {
	if err := commandstructure.DefaultRegistry.Register("DitherCommand", NewDitherCommand); err != nil {
		panic(fmt.Sprintf("failed to register DitherCommand: %v", err))
	}
}
