// Package main is the headless cutroom tool: it loads a project file and
// renders it with an export preset. Editing happens through the embedding
// mobile UI; this binary exists for batch exports and CI.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cutroom/cutroom/internal/app"
	"github.com/cutroom/cutroom/internal/event"
	"github.com/cutroom/cutroom/internal/export"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath  string
		projectPath string
		outPath     string
		presetName  string
		logLevel    string
		showVersion bool
		quiet       bool
	)

	flag.StringVar(&configPath, "config", "", "Path to configuration file")
	flag.StringVar(&configPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&projectPath, "project", "", "Project file to export")
	flag.StringVar(&projectPath, "p", "", "Project file to export (shorthand)")
	flag.StringVar(&outPath, "out", "", "Output media file")
	flag.StringVar(&outPath, "o", "", "Output media file (shorthand)")
	flag.StringVar(&presetName, "preset", "", "Export preset name (default from config)")
	flag.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.BoolVar(&quiet, "quiet", false, "Suppress progress output")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "cutroom - timeline export tool\n\n")
		fmt.Fprintf(os.Stderr, "Usage: cutroom -project cut.yaml -out cut.mp4 [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nPresets: %v\n", export.PresetNames())
	}
	flag.Parse()

	if showVersion {
		fmt.Printf("cutroom %s (%s)\n", version, commit)
		return 0
	}
	if projectPath == "" || outPath == "" {
		flag.Usage()
		return 2
	}

	application, err := app.New(app.Options{ConfigPath: configPath})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Shutdown()

	if logLevel != "" {
		application.Logger().SetLevel(app.ParseLogLevel(logLevel))
	}

	if err := application.OpenProject(projectPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if !quiet {
		_, _ = application.Bus().SubscribeFunc(event.TopicExportProgress, func(ev event.TopicProvider) {
			fmt.Fprintf(os.Stderr, "\rexporting... %3d%%", ev.(event.ExportProgress).Percent)
		})
	}

	// SIGINT and SIGTERM cancel the export; partial segment files are the
	// encoder's temp dir problem, the output path is never left truncated.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = application.Export(ctx, presetName, outPath)
	if !quiet {
		fmt.Fprintln(os.Stderr)
	}
	if err != nil {
		if errors.Is(err, export.ErrExportCanceled) {
			fmt.Fprintln(os.Stderr, "export canceled")
			return 130
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	fmt.Printf("wrote %s\n", outPath)
	return 0
}
