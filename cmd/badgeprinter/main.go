package main

import (
	"log"
	"log/slog"
	"os"

	"fyne.io/fyne/v2/app"

	"github.com/jo-hoe/badgeprinter/internal/core"
	"github.com/jo-hoe/badgeprinter/internal/desktop"
)

func main() {
	configPath := core.ConfigPath()
	config, err := core.LoadConfigOrDefault(configPath)
	if err != nil {
		log.Printf("failed to load config from %s: %v", configPath, err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: config.SlogLevel()})))

	// the records must load before any window is shown
	coreService, err := core.NewCoreService(config)
	if err != nil {
		log.Printf("failed to start badge printer: %v", err)
		os.Exit(1)
	}
	defer func() {
		if err := coreService.Close(); err != nil {
			log.Printf("core service close error: %v", err)
		}
	}()

	desktop.Run(app.NewWithID("com.github.jo-hoe.badgeprinter"), coreService)
}
