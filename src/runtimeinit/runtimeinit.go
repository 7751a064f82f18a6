package runtimeinit

import (
	"fmt"
	"log"

	"github.com/spf13/afero"

	"snapshot/src/annotation"
	"snapshot/src/clipboard"
	"snapshot/src/config"
)

type Options struct {
	LoadOptions  config.LoadOptions
	SetupLogging func(bool)
	// Fs reads the style file. Defaults to the OS filesystem.
	Fs afero.Fs
	// InitClipboard defaults to clipboard.Init.
	InitClipboard func() error
}

// Runtime is what the process needs after bootstrap.
type Runtime struct {
	Config *config.Config
	Style  annotation.Style
}

// Bootstrap loads configuration, sets up logging, loads the annotation style
// and initializes the clipboard, in that order.
func Bootstrap(opts Options) (*Runtime, error) {
	cfg, err := config.LoadWithOptions(opts.LoadOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if opts.SetupLogging != nil {
		opts.SetupLogging(cfg.EnableFileLogging)
	}
	log.Printf("Config: hotkey=%s cancel=%s output=%s dim=%.2f scale=%.2f", cfg.Hotkey, cfg.CancelKey, cfg.OutputDir, cfg.DimAlpha, cfg.DisplayScale)

	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	style, err := config.LoadStyle(fs, cfg.StyleFile)
	if err != nil {
		// A broken style file is not fatal; markers fall back to the default.
		log.Printf("Style: %v, using default", err)
		style = annotation.DefaultStyle
	}

	initClipboard := opts.InitClipboard
	if initClipboard == nil {
		initClipboard = clipboard.Init
	}
	if err := initClipboard(); err != nil {
		return nil, fmt.Errorf("failed to initialize clipboard: %w", err)
	}

	return &Runtime{Config: cfg, Style: style}, nil
}
