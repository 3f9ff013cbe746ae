package output

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// waitDelay caps how long a cancelled print command may keep its output open
const waitDelay = 2 * time.Second

// Printer sends a saved badge file to a printer
type Printer interface {
	Print(ctx context.Context, path string) error
}

// CommandPrinter runs an external command with the badge path as its last argument
type CommandPrinter struct {
	command string
	args    []string
}

func NewCommandPrinter(command string, args ...string) *CommandPrinter {
	return &CommandPrinter{
		command: command,
		args:    args,
	}
}

func (p *CommandPrinter) Print(ctx context.Context, path string) error {
	args := append(append([]string{}, p.args...), path)
	cmd := exec.CommandContext(ctx, p.command, args...)

	cmd.WaitDelay = waitDelay

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s failed: %w: %s", p.command, err, msg)
		}
		return fmt.Errorf("%s failed: %w", p.command, err)
	}

	slog.Info("badge sent to printer", "command", p.command, "path", path)
	return nil
}

// NewPrinter returns a CommandPrinter when command is set and the platform default otherwise
func NewPrinter(command string, args []string) Printer {
	if command != "" {
		return NewCommandPrinter(command, args...)
	}
	return newPlatformPrinter()
}
