package frontend

import (
	"bytes"
	"encoding/base64"
	"errors"
	"html/template"
	"image/png"
	"log/slog"
	"net/http"

	"github.com/jo-hoe/badgeprinter/internal/backend/records"
	"github.com/jo-hoe/badgeprinter/internal/core"
	"github.com/labstack/echo/v4"
)

const (
	MainPageName   = "index.html"
	DialogViewName = "dialog.html"
)

type FrontendService struct {
	coreService *core.CoreService
	config      *core.ServiceConfig
}

// DialogView is the modal shown after an action, optionally with the badge preview
type DialogView struct {
	Title     string
	Message   string
	Code      string
	Thumbnail template.URL
	Width     int
	Height    int
}

func NewFrontendService(config *core.ServiceConfig, coreService *core.CoreService) *FrontendService {
	return &FrontendService{
		coreService: coreService,
		config:      config,
	}
}

// rootRedirectHandler redirects root path to index.html
func (service *FrontendService) rootRedirectHandler(ctx echo.Context) error {
	return ctx.Redirect(http.StatusMovedPermanently, "/"+MainPageName)
}

func (service *FrontendService) SetRoutes(e *echo.Echo) {
	e.Renderer = newTemplate()

	e.GET("/", service.rootRedirectHandler)
	e.GET("/"+MainPageName, service.indexHandler)
	e.POST("/htmx/preview", service.htmxPreviewHandler)
	e.POST("/htmx/print", service.htmxPrintHandler)

	// Favicon (SVG) route
	e.GET("/icon.svg", service.iconHandler)
}

func (service *FrontendService) indexHandler(ctx echo.Context) error {
	return ctx.Render(http.StatusOK, MainPageName, nil)
}

// htmxPreviewHandler always answers 200 so htmx swaps the dialog into the page
func (service *FrontendService) htmxPreviewHandler(ctx echo.Context) error {
	code := ctx.FormValue("code")
	result, err := service.coreService.PreviewAndSave(code)
	if err != nil {
		return service.renderError(ctx, code, err)
	}

	view := DialogView{
		Title:   "Saved",
		Message: "Badge saved to " + result.Path,
		Code:    result.Record.Code,
	}
	var buffer bytes.Buffer
	if err := png.Encode(&buffer, result.Thumbnail); err != nil {
		slog.Error("htmxPreviewHandler: failed to encode thumbnail", "code", code, "error", err)
	} else {
		bounds := result.Thumbnail.Bounds()
		view.Thumbnail = template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(buffer.Bytes()))
		view.Width = bounds.Dx()
		view.Height = bounds.Dy()
	}

	service.setNoCache(ctx)
	return ctx.Render(http.StatusOK, DialogViewName, view)
}

func (service *FrontendService) htmxPrintHandler(ctx echo.Context) error {
	code := ctx.FormValue("code")
	result, err := service.coreService.Print(ctx.Request().Context(), code)
	if err != nil {
		return service.renderError(ctx, code, err)
	}

	service.setNoCache(ctx)
	return ctx.Render(http.StatusOK, DialogViewName, DialogView{
		Title:   "Printing",
		Message: result.Message(),
		Code:    code,
	})
}

func (service *FrontendService) renderError(ctx echo.Context, code string, err error) error {
	view := DialogView{Title: "Error", Message: err.Error(), Code: code}
	switch {
	case errors.Is(err, core.ErrEmptyCode), errors.Is(err, records.ErrNotFound):
		slog.Info("badge request rejected", "code", code, "error", err)
	default:
		slog.Error("badge request failed", "code", code, "error", err)
	}
	service.setNoCache(ctx)
	return ctx.Render(http.StatusOK, DialogViewName, view)
}

func (service *FrontendService) setNoCache(ctx echo.Context) {
	ctx.Response().Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
	ctx.Response().Header().Set("Pragma", "no-cache")
	ctx.Response().Header().Set("Expires", "0")
}

func (service *FrontendService) iconHandler(ctx echo.Context) error {
	data, err := assetsFS.ReadFile("views/icon.svg")
	if err != nil {
		slog.Error("iconHandler: failed to read icon.svg", "status", http.StatusInternalServerError, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to load icon")
	}
	// Cache for 7 days
	ctx.Response().Header().Set("Cache-Control", "public, max-age=604800, immutable")
	return ctx.Blob(http.StatusOK, "image/svg+xml", data)
}
