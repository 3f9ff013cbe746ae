package backend

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/jo-hoe/badgeprinter/internal/backend/badge"
	"github.com/jo-hoe/badgeprinter/internal/backend/database"
	"github.com/jo-hoe/badgeprinter/internal/backend/output"
	"github.com/jo-hoe/badgeprinter/internal/backend/records"
	"github.com/jo-hoe/badgeprinter/internal/core"

	"github.com/labstack/echo/v4"
)

const mimePNG = "image/png"

type APIService struct {
	config      *core.ServiceConfig
	coreService *core.CoreService
}

// BadgeRequest selects the record a badge is produced for
type BadgeRequest struct {
	Code string `json:"code" form:"code" validate:"required,max=256"`
}

type BadgeResponse struct {
	Code    string         `json:"code"`
	Path    string         `json:"path"`
	Record  records.Record `json:"record"`
	Width   int            `json:"width"`
	Height  int            `json:"height"`
	Message string         `json:"message"`
}

type PrintResponse struct {
	Code    string `json:"code"`
	Path    string `json:"path"`
	Reused  bool   `json:"reused"`
	Printed bool   `json:"printed"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func NewAPIService(config *core.ServiceConfig, coreService *core.CoreService) *APIService {
	return &APIService{
		config:      config,
		coreService: coreService,
	}
}

func (s *APIService) SetRoutes(e *echo.Echo) {
	// Set probe route
	e.GET("/probe", func(c echo.Context) error {
		return c.String(http.StatusOK, "API Service is running")
	})

	e.GET("/api/records/:code", s.getRecordHandler)
	e.POST("/api/badges", s.previewAndSaveHandler)
	e.POST("/api/badges/print", s.printHandler)
	e.GET("/api/badges/:code/image", s.getBadgeImageHandler)
	e.GET("/api/badges/:code/history", s.getHistoryHandler)
}

func (s *APIService) getRecordHandler(ctx echo.Context) error {
	record, err := s.coreService.Record(ctx.Param("code"))
	if err != nil {
		return toHTTPError(err)
	}
	return ctx.JSON(http.StatusOK, record)
}

func (s *APIService) previewAndSaveHandler(ctx echo.Context) error {
	request, err := bindBadgeRequest(ctx)
	if err != nil {
		return err
	}

	result, err := s.coreService.PreviewAndSave(request.Code)
	if err != nil {
		return toHTTPError(err)
	}

	bounds := result.Badge.Bounds()
	return ctx.JSON(http.StatusCreated, BadgeResponse{
		Code:    result.Record.Code,
		Path:    result.Path,
		Record:  result.Record,
		Width:   bounds.Dx(),
		Height:  bounds.Dy(),
		Message: "Badge saved to " + result.Path,
	})
}

func (s *APIService) printHandler(ctx echo.Context) error {
	request, err := bindBadgeRequest(ctx)
	if err != nil {
		return err
	}

	result, err := s.coreService.Print(ctx.Request().Context(), request.Code)
	if err != nil {
		return toHTTPError(err)
	}

	response := PrintResponse{
		Code:    request.Code,
		Path:    result.Path,
		Reused:  result.Reused,
		Printed: result.Printed,
		Message: result.Message(),
	}
	if result.PrintErr != nil {
		response.Error = result.PrintErr.Error()
	}
	return ctx.JSON(http.StatusOK, response)
}

func (s *APIService) getBadgeImageHandler(ctx echo.Context) error {
	path, exists, err := s.coreService.BadgePath(ctx.Param("code"))
	if err != nil {
		return toHTTPError(err)
	}
	if !exists {
		return echo.NewHTTPError(http.StatusNotFound, "badge has not been saved yet")
	}

	ctx.Response().Header().Set(echo.HeaderContentType, mimePNG)
	return ctx.File(path)
}

func (s *APIService) getHistoryHandler(ctx echo.Context) error {
	events, err := s.coreService.History(ctx.Param("code"))
	if err != nil {
		slog.Error("getHistoryHandler: failed to read history", "code", ctx.Param("code"), "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to read badge history")
	}
	if events == nil {
		events = []*database.BadgeEvent{}
	}
	return ctx.JSON(http.StatusOK, events)
}

func bindBadgeRequest(ctx echo.Context) (*BadgeRequest, error) {
	request := new(BadgeRequest)
	if err := ctx.Bind(request); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "received malformed request body")
	}
	if err := ctx.Validate(request); err != nil {
		return nil, err
	}
	return request, nil
}

// toHTTPError maps core errors to status codes; the message is the text a user would see
func toHTTPError(err error) error {
	switch {
	case errors.Is(err, core.ErrEmptyCode), errors.Is(err, output.ErrInvalidCode):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, records.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, badge.ErrTemplate):
		slog.Error("badge template unavailable", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	default:
		slog.Error("badge request failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to produce badge")
	}
}
