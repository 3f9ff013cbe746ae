package desktop

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/jo-hoe/badgeprinter/internal/core"
)

const (
	WindowTitle   = "Badge Printer"
	previewLength = 400

	// DefaultPrintTimeout bounds how long the window waits for the print command
	DefaultPrintTimeout = 30 * time.Second
)

// BadgeService is the part of core.CoreService the window drives
type BadgeService interface {
	PreviewAndSave(code string) (*core.PreviewResult, error)
	Print(ctx context.Context, code string) (*core.PrintResult, error)
}

// Notifier shows modal messages on top of the window
type Notifier interface {
	ShowInfo(title, message string)
	ShowError(err error)
}

type dialogNotifier struct {
	window fyne.Window
}

func (n *dialogNotifier) ShowInfo(title, message string) {
	dialog.ShowInformation(title, message, n.window)
}

func (n *dialogNotifier) ShowError(err error) {
	dialog.ShowError(err, n.window)
}

// Controller owns the widgets of the badge window. Its handlers run on the UI thread
// and block until the badge is saved or printed.
type Controller struct {
	service      BadgeService
	notifier     Notifier
	printTimeout time.Duration

	CodeEntry     *widget.Entry
	PreviewButton *widget.Button
	PrintButton   *widget.Button
	Preview       *canvas.Image
}

func NewController(service BadgeService, notifier Notifier) *Controller {
	c := &Controller{
		service:      service,
		notifier:     notifier,
		printTimeout: DefaultPrintTimeout,
	}

	c.CodeEntry = widget.NewEntry()
	c.CodeEntry.SetPlaceHolder("Code")
	c.CodeEntry.OnSubmitted = func(string) { c.PreviewAndSave() }

	c.PreviewButton = widget.NewButton("Preview & Save", c.PreviewAndSave)
	c.PrintButton = widget.NewButton("Print", c.Print)

	c.Preview = canvas.NewImageFromImage(nil)
	c.Preview.FillMode = canvas.ImageFillContain
	c.Preview.SetMinSize(fyne.NewSize(previewLength, previewLength))
	return c
}

// Content lays out the code field, both actions and the preview below them
func (c *Controller) Content() fyne.CanvasObject {
	buttons := container.NewHBox(c.PreviewButton, c.PrintButton)
	topBar := container.NewBorder(nil, nil, widget.NewLabel("Code"), buttons, c.CodeEntry)
	return container.NewBorder(topBar, nil, nil, nil, container.NewCenter(c.Preview))
}

func (c *Controller) PreviewAndSave() {
	result, err := c.service.PreviewAndSave(c.CodeEntry.Text)
	if err != nil {
		c.showFailure(err)
		return
	}

	c.Preview.Image = result.Thumbnail
	c.Preview.Refresh()
	c.notifier.ShowInfo("Saved", "Badge saved to "+result.Path)
}

// SetPrintTimeout changes how long Print waits for the printer. A printer that does not
// answer in time is reported like any other print failure.
func (c *Controller) SetPrintTimeout(timeout time.Duration) {
	c.printTimeout = timeout
}

func (c *Controller) Print() {
	ctx, cancel := context.WithTimeout(context.Background(), c.printTimeout)
	defer cancel()

	result, err := c.service.Print(ctx, c.CodeEntry.Text)
	if err != nil {
		c.showFailure(err)
		return
	}
	c.notifier.ShowInfo("Printing", result.Message())
}

func (c *Controller) showFailure(err error) {
	if errors.Is(err, core.ErrEmptyCode) {
		c.notifier.ShowInfo("Error", err.Error())
		return
	}
	slog.Warn("badge action failed", "code", c.CodeEntry.Text, "error", err)
	c.notifier.ShowError(err)
}

// Run opens the badge window and blocks until it is closed
func Run(application fyne.App, service BadgeService) {
	window := application.NewWindow(WindowTitle)
	controller := NewController(service, &dialogNotifier{window: window})
	window.SetContent(controller.Content())
	window.Resize(fyne.NewSize(560, 520))
	window.Canvas().Focus(controller.CodeEntry)
	window.ShowAndRun()
}
