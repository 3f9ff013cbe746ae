package commands

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log/slog"

	"github.com/jo-hoe/badgeprinter/internal/backend/commandstructure"
	xdraw "golang.org/x/image/draw"
)

// CardParams describes the printable area of the card stock in pixels
type CardParams struct {
	Width      int
	Height     int
	Background color.RGBA
}

// NewCardParamsFromMap reads width and height (required) and background ("white" or "black")
func NewCardParamsFromMap(params map[string]any) (*CardParams, error) {
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

	var background color.RGBA
	switch name := commandstructure.GetStringParam(params, "background", "white"); name {
	case "white":
		background = color.RGBA{255, 255, 255, 255}
	case "black":
		background = color.RGBA{0, 0, 0, 255}
	default:
		return nil, fmt.Errorf("invalid background: %s (must be 'white' or 'black')", name)
	}

	return &CardParams{
		Width:      width,
		Height:     height,
		Background: background,
	}, nil
}

// CardCommand fits a badge onto a card of fixed pixel size, keeping the aspect
// ratio and centring it on the background colour.
type CardCommand struct {
	name   string
	params *CardParams
}

func NewCardCommand(params map[string]any) (commandstructure.Command, error) {
	typedParams, err := NewCardParamsFromMap(params)
	if err != nil {
		return nil, err
	}

	return &CardCommand{
		name:   "CardCommand",
		params: typedParams,
	}, nil
}

func (c *CardCommand) Name() string {
	return c.name
}

func (c *CardCommand) Execute(imageData []byte) ([]byte, error) {
	img, err := decodePNG(imageData)
	if err != nil {
		slog.Error("CardCommand: failed to decode badge", "error", err)
		return nil, err
	}

	bounds := img.Bounds()
	if bounds.Dx() == c.params.Width && bounds.Dy() == c.params.Height {
		slog.Debug("CardCommand: badge already matches card size")
		return imageData, nil
	}

	scaledWidth, scaledHeight := fitDimensions(bounds.Dx(), bounds.Dy(), c.params.Width, c.params.Height)
	offsetX := (c.params.Width - scaledWidth) / 2
	offsetY := (c.params.Height - scaledHeight) / 2
	slog.Debug("CardCommand: placing badge on card",
		"original_width", bounds.Dx(),
		"original_height", bounds.Dy(),
		"scaled_width", scaledWidth,
		"scaled_height", scaledHeight,
		"offset_x", offsetX,
		"offset_y", offsetY)

	card := image.NewRGBA(image.Rect(0, 0, c.params.Width, c.params.Height))
	draw.Draw(card, card.Bounds(), &image.Uniform{C: c.params.Background}, image.Point{}, draw.Src)
	target := image.Rect(offsetX, offsetY, offsetX+scaledWidth, offsetY+scaledHeight)
	xdraw.ApproxBiLinear.Scale(card, target, img, bounds, xdraw.Over, nil)

	return encodePNG(card)
}

func (c *CardCommand) GetParams() *CardParams {
	return c.params
}

// fitDimensions scales width x height up or down to the largest size inside the target
func fitDimensions(width, height, targetWidth, targetHeight int) (int, int) {
	if width*targetHeight > height*targetWidth {
		// wider than the card: full width
		return targetWidth, max(1, height*targetWidth/width)
	}
	return max(1, width*targetHeight/height), targetHeight
}

func init() {
	if err := commandstructure.DefaultRegistry.Register("CardCommand", NewCardCommand); err != nil {
		panic(fmt.Sprintf("failed to register CardCommand: %v", err))
	}
}
