package commandstructure

import (
	"fmt"
	"log/slog"
	"time"
)

// Pipeline runs a fixed sequence of commands over a badge
type Pipeline struct {
	commands []Command
}

func NewPipeline(commands []Command) *Pipeline {
	return &Pipeline{
		commands: commands,
	}
}

// NewPipelineFromConfig creates every configured command up front so that
// configuration errors surface at startup rather than on the first badge.
func NewPipelineFromConfig(registry *CommandRegistry, configs []CommandConfig) (*Pipeline, error) {
	commands := make([]Command, 0, len(configs))
	for i, config := range configs {
		command, err := registry.Create(config.Name, config.Params)
		if err != nil {
			return nil, fmt.Errorf("failed to create command at index %d (%s): %w", i, config.Name, err)
		}
		commands = append(commands, command)
	}
	return NewPipeline(commands), nil
}

func (p *Pipeline) Len() int {
	return len(p.commands)
}

// Execute applies all commands in order; an empty pipeline returns the input unchanged
func (p *Pipeline) Execute(imageData []byte) ([]byte, error) {
	if len(p.commands) == 0 {
		return imageData, nil
	}

	start := time.Now()
	currentData := imageData
	for idx, command := range p.commands {
		commandStart := time.Now()
		processedData, err := command.Execute(currentData)
		if err != nil {
			slog.Error("command execution failed",
				"index", idx,
				"command_name", command.Name(),
				"error", err)
			return nil, fmt.Errorf("command %s (index %d) failed: %w", command.Name(), idx, err)
		}

		slog.Debug("command completed",
			"index", idx,
			"command_name", command.Name(),
			"duration_ms", time.Since(commandStart).Milliseconds(),
			"input_size_bytes", len(currentData),
			"output_size_bytes", len(processedData))
		currentData = processedData
	}

	slog.Info("badge post-processing completed",
		"command_count", len(p.commands),
		"total_duration_ms", time.Since(start).Milliseconds())
	return currentData, nil
}
