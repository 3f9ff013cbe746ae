package badge

import (
	"image"
	"log/slog"

	"github.com/jo-hoe/badgeprinter/internal/backend/records"
	"golang.org/x/image/font"
)

// Renderer composes badges from a fixed template and font
type Renderer struct {
	templatePath string
	fontPath     string
	layout       Layout
}

func NewRenderer(templatePath, fontPath string, layout Layout) *Renderer {
	return &Renderer{
		templatePath: templatePath,
		fontPath:     fontPath,
		layout:       layout,
	}
}

// Compose draws the record's name and company onto a copy of the template.
// Template errors wrap ErrTemplate; font errors never surface.
func (r *Renderer) Compose(record records.Record) (*image.RGBA, error) {
	canvas, err := LoadTemplate(r.templatePath)
	if err != nil {
		slog.Error("Renderer: failed to load template", "path", r.templatePath, "error", err)
		return nil, err
	}

	bounds := canvas.Bounds()
	placement := r.layout.Resolve(bounds.Dx(), bounds.Dy())
	slog.Debug("Renderer: composing badge",
		"code", record.Code,
		"width", bounds.Dx(),
		"height", bounds.Dy(),
		"name_size", placement.NameSize,
		"company_size", placement.CompanySize,
		"name_anchor", placement.NameAnchor,
		"company_anchor", placement.CompanyAnchor)

	nameFace, _ := ResolveFace(r.fontPath, placement.NameSize)
	defer closeFace(nameFace)
	companyFace, _ := ResolveFace(r.fontPath, placement.CompanySize)
	defer closeFace(companyFace)

	drawCenteredText(canvas, nameFace, record.Name, placement.NameAnchor)
	drawCenteredText(canvas, companyFace, record.Company, placement.CompanyAnchor)

	return canvas, nil
}

func closeFace(face font.Face) {
	if face == FallbackFace {
		return
	}
	if err := face.Close(); err != nil {
		slog.Warn("failed to close font face", "error", err)
	}
}
