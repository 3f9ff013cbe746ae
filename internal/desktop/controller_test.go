package desktop

import (
	"context"
	"errors"
	"image"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"

	"github.com/jo-hoe/badgeprinter/internal/backend/records"
	"github.com/jo-hoe/badgeprinter/internal/core"
)

type message struct {
	title string
	text  string
	err   error
}

type fakeNotifier struct {
	messages []message
}

func (n *fakeNotifier) ShowInfo(title, text string) {
	n.messages = append(n.messages, message{title: title, text: text})
}

func (n *fakeNotifier) ShowError(err error) {
	n.messages = append(n.messages, message{title: "Error", text: err.Error(), err: err})
}

type fakeService struct {
	previewErr error
	printErr   error
	printed    bool
	codes      []string
	// blockPrint waits for the context like a printer command that never returns
	blockPrint bool
}

func (s *fakeService) PreviewAndSave(code string) (*core.PreviewResult, error) {
	s.codes = append(s.codes, code)
	if s.previewErr != nil {
		return nil, s.previewErr
	}
	return &core.PreviewResult{
		Record:    records.Record{Code: code, Name: "Jane Doe", Company: "Acme"},
		Badge:     image.NewRGBA(image.Rect(0, 0, 1000, 600)),
		Thumbnail: image.NewRGBA(image.Rect(0, 0, 400, 240)),
		Path:      "badges_out/badge_" + code + ".png",
	}, nil
}

func (s *fakeService) Print(ctx context.Context, code string) (*core.PrintResult, error) {
	s.codes = append(s.codes, code)
	if s.printErr != nil {
		return nil, s.printErr
	}
	result := &core.PrintResult{Path: "badges_out/badge_" + code + ".png", Printed: s.printed}
	if s.blockPrint {
		<-ctx.Done()
		result.Printed = false
		result.PrintErr = ctx.Err()
	}
	return result, nil
}

func newTestController(t *testing.T, service *fakeService) (*Controller, *fakeNotifier) {
	t.Helper()
	app := test.NewApp()
	t.Cleanup(app.Quit)

	notifier := &fakeNotifier{}
	controller := NewController(service, notifier)
	window := test.NewWindow(controller.Content())
	t.Cleanup(window.Close)
	return controller, notifier
}

func onlyMessage(t *testing.T, notifier *fakeNotifier) message {
	t.Helper()
	if len(notifier.messages) != 1 {
		t.Fatalf("expected exactly one dialog, got %+v", notifier.messages)
	}
	return notifier.messages[0]
}

func TestController_PreviewAndSave(t *testing.T) {
	service := &fakeService{}
	controller, notifier := newTestController(t, service)

	test.Type(controller.CodeEntry, "A1")
	test.Tap(controller.PreviewButton)

	got := onlyMessage(t, notifier)
	if got.title != "Saved" || got.text != "Badge saved to badges_out/badge_A1.png" {
		t.Errorf("unexpected dialog %+v", got)
	}
	if controller.Preview.Image == nil || controller.Preview.Image.Bounds().Dx() != 400 {
		t.Error("expected the thumbnail to be shown")
	}
	if len(service.codes) != 1 || service.codes[0] != "A1" {
		t.Errorf("expected code A1 to be requested, got %v", service.codes)
	}
}

func TestController_SubmitTriggersPreview(t *testing.T) {
	service := &fakeService{}
	controller, notifier := newTestController(t, service)

	test.Type(controller.CodeEntry, "A1")
	controller.CodeEntry.OnSubmitted(controller.CodeEntry.Text)

	if got := onlyMessage(t, notifier); got.title != "Saved" {
		t.Errorf("expected saved dialog, got %+v", got)
	}
}

func TestController_Failures(t *testing.T) {
	tests := []struct {
		name      string
		service   *fakeService
		tap       func(*Controller)
		wantTitle string
		wantText  string
		wantError bool
	}{
		{"Empty code on preview", &fakeService{previewErr: core.ErrEmptyCode}, func(c *Controller) { test.Tap(c.PreviewButton) }, "Error", "Enter a code", false},
		{"Empty code on print", &fakeService{printErr: core.ErrEmptyCode}, func(c *Controller) { test.Tap(c.PrintButton) }, "Error", "Enter a code", false},
		{"Unknown code", &fakeService{previewErr: records.ErrNotFound}, func(c *Controller) { test.Tap(c.PreviewButton) }, "Error", "Code not found", true},
		{"Template failure", &fakeService{printErr: errors.New("template unavailable: badge_template.jpg")}, func(c *Controller) { test.Tap(c.PrintButton) }, "Error", "template unavailable: badge_template.jpg", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			controller, notifier := newTestController(t, tt.service)
			tt.tap(controller)

			got := onlyMessage(t, notifier)
			if got.title != tt.wantTitle || got.text != tt.wantText {
				t.Errorf("expected %s/%s, got %+v", tt.wantTitle, tt.wantText, got)
			}
			if (got.err != nil) != tt.wantError {
				t.Errorf("expected error dialog %v, got %+v", tt.wantError, got)
			}
			if controller.Preview.Image != nil {
				t.Error("expected no preview after a failure")
			}
		})
	}
}

func TestController_Print(t *testing.T) {
	tests := []struct {
		name     string
		printed  bool
		wantText string
	}{
		{"Sent", true, core.MessageSentToPrinter},
		{"Manual", false, core.MessagePrintManually},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			controller, notifier := newTestController(t, &fakeService{printed: tt.printed})
			test.Type(controller.CodeEntry, "A1")
			test.Tap(controller.PrintButton)

			got := onlyMessage(t, notifier)
			if got.title != "Printing" || got.text != tt.wantText {
				t.Errorf("unexpected dialog %+v", got)
			}
		})
	}
}

func TestController_PrintTimeout(t *testing.T) {
	controller, notifier := newTestController(t, &fakeService{printed: true, blockPrint: true})
	controller.SetPrintTimeout(20 * time.Millisecond)
	test.Type(controller.CodeEntry, "A1")

	controller.Print()

	got := onlyMessage(t, notifier)
	if got.title != "Printing" || got.text != core.MessagePrintManually {
		t.Errorf("expected manual print message, got %+v", got)
	}
}
