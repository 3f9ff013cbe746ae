//go:build windows

package output

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sys/windows"
)

// shellPrinter asks the file association of .png files to print the badge
type shellPrinter struct{}

func newPlatformPrinter() Printer {
	return shellPrinter{}
}

func (shellPrinter) Print(_ context.Context, path string) error {
	verb, err := windows.UTF16PtrFromString("print")
	if err != nil {
		return err
	}
	file, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return fmt.Errorf("invalid badge path %s: %w", path, err)
	}
	if err := windows.ShellExecute(0, verb, file, nil, nil, windows.SW_HIDE); err != nil {
		return fmt.Errorf("print verb failed for %s: %w", path, err)
	}

	slog.Info("badge sent to printer", "path", path)
	return nil
}
