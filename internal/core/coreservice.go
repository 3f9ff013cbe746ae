package core

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"strings"

	"github.com/jo-hoe/badgeprinter/internal/backend/badge"
	"github.com/jo-hoe/badgeprinter/internal/backend/commands"
	"github.com/jo-hoe/badgeprinter/internal/backend/commandstructure"
	"github.com/jo-hoe/badgeprinter/internal/backend/database"
	"github.com/jo-hoe/badgeprinter/internal/backend/output"
	"github.com/jo-hoe/badgeprinter/internal/backend/records"
)

// ErrEmptyCode is returned when an action is triggered without a code.
// Like records.ErrNotFound its text is the dialog message.
var ErrEmptyCode = errors.New("Enter a code")

const (
	MessageSentToPrinter = "Sent to printer."
	MessagePrintManually = "Saved. Print manually."
)

// PreviewResult is the outcome of a successful Preview & Save
type PreviewResult struct {
	Record    records.Record
	Badge     *image.RGBA
	Thumbnail image.Image
	Path      string
}

// PrintResult is the outcome of a Print action that produced a badge file.
// PrintErr is set when the file exists but the printer could not be reached.
type PrintResult struct {
	Path     string
	Reused   bool
	Printed  bool
	PrintErr error
}

// Message is the text shown to the user after printing
func (r *PrintResult) Message() string {
	if r.Printed {
		return MessageSentToPrinter
	}
	return MessagePrintManually
}

type CoreService struct {
	config          *ServiceConfig
	store           *records.Store
	renderer        *badge.Renderer
	sink            *output.Sink
	printer         output.Printer
	databaseService database.DatabaseService
}

type Option func(*CoreService)

// WithPrinter replaces the printer derived from the configuration
func WithPrinter(printer output.Printer) Option {
	return func(s *CoreService) {
		s.printer = printer
	}
}

// NewCoreService loads the records and prepares the output directory.
// Any error is fatal for the caller: the badge printer cannot run without its data.
func NewCoreService(config *ServiceConfig, options ...Option) (*CoreService, error) {
	store, err := loadStore(config.DataSource)
	if err != nil {
		return nil, err
	}

	pipeline, err := commandstructure.NewPipelineFromConfig(commandstructure.DefaultRegistry, toCommandConfigs(config.Commands))
	if err != nil {
		return nil, fmt.Errorf("invalid badge commands: %w", err)
	}

	sink, err := output.NewSink(config.OutputDir, pipeline)
	if err != nil {
		return nil, err
	}

	databaseService, err := database.NewDatabase(config.Database.Type, config.Database.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize history database: %w", err)
	}
	slog.Info("database initialized successfully", "type", config.Database.Type)

	service := &CoreService{
		config:          config,
		store:           store,
		renderer:        badge.NewRenderer(config.TemplatePath, config.FontPath, badge.DefaultLayout()),
		sink:            sink,
		printer:         output.NewPrinter(config.Printer.Command, config.Printer.Args),
		databaseService: databaseService,
	}
	for _, option := range options {
		option(service)
	}
	return service, nil
}

func loadStore(source DataSource) (*records.Store, error) {
	switch source.Type {
	case DataSourceCSV:
		return records.LoadCSV(source.Path)
	case DataSourceSQLite:
		db, err := database.OpenSQLiteRecordSource(source.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open record database %s: %w", source.Path, err)
		}
		defer func() {
			if cerr := db.Close(); cerr != nil {
				slog.Warn("failed to close record database", "path", source.Path, "error", cerr)
			}
		}()
		rows, err := db.GetRecords()
		if err != nil {
			return nil, fmt.Errorf("failed to read records from %s: %w", source.Path, err)
		}
		slog.Info("records loaded", "path", source.Path, "count", len(rows))
		return records.NewStore(rows), nil
	default:
		return nil, fmt.Errorf("unsupported data source type: %s", source.Type)
	}
}

func toCommandConfigs(configs []CommandConfig) []commandstructure.CommandConfig {
	result := make([]commandstructure.CommandConfig, 0, len(configs))
	for _, config := range configs {
		result = append(result, commandstructure.CommandConfig{Name: config.Name, Params: config.Params})
	}
	return result
}

// PreviewAndSave renders the badge for code, saves it and returns a bounded thumbnail.
// Nothing is written when the lookup or the rendering fails.
func (s *CoreService) PreviewAndSave(code string) (*PreviewResult, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrEmptyCode
	}

	record, rendered, err := s.render(code)
	if err != nil {
		return nil, err
	}

	path, err := s.sink.Save(rendered, code)
	if err != nil {
		return nil, err
	}
	s.recordEvent(database.BadgeEvent{Code: code, Action: database.ActionPreview, Path: path})

	return &PreviewResult{
		Record:    record,
		Badge:     rendered,
		Thumbnail: commands.Thumbnail(rendered, s.config.ThumbnailSize, s.config.ThumbnailSize),
		Path:      path,
	}, nil
}

// Print sends the badge for code to the printer. An existing badge file is reused as-is;
// otherwise the badge is rendered and saved first. Printer failures do not fail the call.
func (s *CoreService) Print(ctx context.Context, code string) (*PrintResult, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrEmptyCode
	}

	result := &PrintResult{}
	if s.sink.Exists(code) {
		path, err := s.sink.Path(code)
		if err != nil {
			return nil, err
		}
		result.Path = path
		result.Reused = true
		slog.Info("reusing saved badge", "code", code, "path", path)
	} else {
		_, rendered, err := s.render(code)
		if err != nil {
			return nil, err
		}
		path, err := s.sink.Save(rendered, code)
		if err != nil {
			return nil, err
		}
		result.Path = path
	}

	if err := s.printer.Print(ctx, result.Path); err != nil {
		slog.Warn("printing failed, badge must be printed manually", "code", code, "path", result.Path, "error", err)
		result.PrintErr = err
	} else {
		result.Printed = true
	}

	s.recordEvent(database.BadgeEvent{
		Code:    code,
		Action:  database.ActionPrint,
		Path:    result.Path,
		Reused:  result.Reused,
		Printed: result.Printed,
	})
	return result, nil
}

// Record returns the record for code
func (s *CoreService) Record(code string) (records.Record, error) {
	return s.store.Lookup(strings.TrimSpace(code))
}

// BadgePath returns the path of the saved badge for code and whether it exists
func (s *CoreService) BadgePath(code string) (string, bool, error) {
	code = strings.TrimSpace(code)
	path, err := s.sink.Path(code)
	if err != nil {
		return "", false, err
	}
	return path, s.sink.Exists(code), nil
}

// History lists the saved and printed badges for code, oldest first
func (s *CoreService) History(code string) ([]*database.BadgeEvent, error) {
	return s.databaseService.GetBadgeEvents(strings.TrimSpace(code))
}

func (s *CoreService) Close() error {
	return s.databaseService.Close()
}

func (s *CoreService) render(code string) (records.Record, *image.RGBA, error) {
	record, err := s.store.Lookup(code)
	if err != nil {
		slog.Info("badge lookup failed", "code", code, "error", err)
		return records.Record{}, nil, err
	}

	rendered, err := s.renderer.Compose(record)
	if err != nil {
		return records.Record{}, nil, err
	}
	return record, rendered, nil
}

// recordEvent never fails the user action; history is best effort
func (s *CoreService) recordEvent(event database.BadgeEvent) {
	if _, err := s.databaseService.CreateBadgeEvent(event); err != nil {
		slog.Warn("failed to record badge event", "code", event.Code, "action", event.Action, "error", err)
	}
}
