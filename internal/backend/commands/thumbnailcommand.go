package commands

import (
	"fmt"
	"image"
	"log/slog"
	"math"

	"github.com/jo-hoe/badgeprinter/internal/backend/commandstructure"
	xdraw "golang.org/x/image/draw"
)

// Thumbnail shrinks img to fit within maxWidth x maxHeight keeping its aspect ratio.
// Images that already fit are returned unchanged; thumbnails are never enlarged.
func Thumbnail(img image.Image, maxWidth, maxHeight int) image.Image {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= maxWidth && height <= maxHeight {
		return img
	}

	scale := math.Min(float64(maxWidth)/float64(width), float64(maxHeight)/float64(height))
	targetWidth := max(1, int(math.Round(float64(width)*scale)))
	targetHeight := max(1, int(math.Round(float64(height)*scale)))

	thumbnail := image.NewRGBA(image.Rect(0, 0, targetWidth, targetHeight))
	xdraw.CatmullRom.Scale(thumbnail, thumbnail.Bounds(), img, bounds, xdraw.Src, nil)
	return thumbnail
}

// ThumbnailParams represents typed parameters for the thumbnail command
type ThumbnailParams struct {
	Width  int
	Height int
}

func NewThumbnailParamsFromMap(params map[string]any) (*ThumbnailParams, error) {
	if err := commandstructure.ValidateRequiredParams(params, []string{"width", "height"}); err != nil {
		return nil, err
	}

	width := commandstructure.GetIntParam(params, "width", 0)
	height := commandstructure.GetIntParam(params, "height", 0)
	if width <= 0 {
		return nil, fmt.Errorf("width must be positive, got %d", width)
	}
	if height <= 0 {
		return nil, fmt.Errorf("height must be positive, got %d", height)
	}

	return &ThumbnailParams{Width: width, Height: height}, nil
}

// ThumbnailCommand bounds a badge to a maximum size, e.g. for small label printers
type ThumbnailCommand struct {
	name   string
	params *ThumbnailParams
}

func NewThumbnailCommand(params map[string]any) (commandstructure.Command, error) {
	typedParams, err := NewThumbnailParamsFromMap(params)
	if err != nil {
		return nil, err
	}

	return &ThumbnailCommand{
		name:   "ThumbnailCommand",
		params: typedParams,
	}, nil
}

func (c *ThumbnailCommand) Name() string {
	return c.name
}

func (c *ThumbnailCommand) Execute(imageData []byte) ([]byte, error) {
	img, err := decodePNG(imageData)
	if err != nil {
		slog.Error("ThumbnailCommand: failed to decode badge", "error", err)
		return nil, err
	}

	thumbnail := Thumbnail(img, c.params.Width, c.params.Height)
	if thumbnail == img {
		return imageData, nil
	}
	slog.Debug("ThumbnailCommand: badge reduced",
		"width", thumbnail.Bounds().Dx(),
		"height", thumbnail.Bounds().Dy())
	return encodePNG(thumbnail)
}

func (c *ThumbnailCommand) GetParams() *ThumbnailParams {
	return c.params
}

func init() {
	if err := commandstructure.DefaultRegistry.Register("ThumbnailCommand", NewThumbnailCommand); err != nil {
		panic(fmt.Sprintf("failed to register ThumbnailCommand: %v", err))
	}
}
