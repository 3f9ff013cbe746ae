package commands

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/jo-hoe/badgeprinter/internal/backend/commandstructure"
)

const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// OrientationParams represents typed parameters for the orientation command
type OrientationParams struct {
	Orientation string
	Clockwise   bool
}

// NewOrientationParamsFromMap reads orientation (default portrait) and clockwise (default true)
func NewOrientationParamsFromMap(params map[string]any) (*OrientationParams, error) {
	orientation := commandstructure.GetStringParam(params, "orientation", OrientationPortrait)
	if orientation != OrientationPortrait && orientation != OrientationLandscape {
		return nil, fmt.Errorf("invalid orientation: %s (must be '%s' or '%s')",
			orientation, OrientationPortrait, OrientationLandscape)
	}

	return &OrientationParams{
		Orientation: orientation,
		Clockwise:   commandstructure.GetBoolParam(params, "clockwise", true),
	}, nil
}

// OrientationCommand turns a badge by 90 degrees when it does not match the
// orientation of the card stock loaded in the printer. Square badges are left as is.
type OrientationCommand struct {
	name   string
	params *OrientationParams
}

func NewOrientationCommand(params map[string]any) (commandstructure.Command, error) {
	typedParams, err := NewOrientationParamsFromMap(params)
	if err != nil {
		return nil, err
	}

	return &OrientationCommand{
		name:   "OrientationCommand",
		params: typedParams,
	}, nil
}

func (c *OrientationCommand) Name() string {
	return c.name
}

func (c *OrientationCommand) Execute(imageData []byte) ([]byte, error) {
	img, err := decodePNG(imageData)
	if err != nil {
		slog.Error("OrientationCommand: failed to decode badge", "error", err)
		return nil, err
	}

	width, height := img.Bounds().Dx(), img.Bounds().Dy()
	if width == height {
		slog.Debug("OrientationCommand: square badge, no rotation")
		return imageData, nil
	}

	isPortrait := height > width
	if isPortrait == (c.params.Orientation == OrientationPortrait) {
		slog.Debug("OrientationCommand: badge already in target orientation",
			"orientation", c.params.Orientation)
		return imageData, nil
	}

	slog.Debug("OrientationCommand: rotating badge",
		"width", width,
		"height", height,
		"clockwise", c.params.Clockwise)
	return encodePNG(rotate90(img, c.params.Clockwise))
}

func (c *OrientationCommand) GetParams() *OrientationParams {
	return c.params
}

// rotate90 returns img turned a quarter turn in the requested direction
func rotate90(img image.Image, clockwise bool) *image.RGBA {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	rotated := image.NewRGBA(image.Rect(0, 0, height, width))

	parallelFor(height, func(y int) {
		for x := 0; x < width; x++ {
			c := img.At(bounds.Min.X+x, bounds.Min.Y+y)
			if clockwise {
				rotated.Set(height-1-y, x, c)
			} else {
				rotated.Set(y, width-1-x, c)
			}
		}
	})
	return rotated
}

func init() {
	if err := commandstructure.DefaultRegistry.Register("OrientationCommand", NewOrientationCommand); err != nil {
		panic(fmt.Sprintf("failed to register OrientationCommand: %v", err))
	}
}
