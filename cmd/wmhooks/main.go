// Package main is the entry point for the wmhooks daemon.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mvoss/wmhooks/internal/app"
	"github.com/mvoss/wmhooks/internal/config"
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
		rcPath      string
		logLevel    string
		logFile     string
		showVersion bool
	)

	flag.StringVar(&configPath, "config", "", "Path to settings file (default: user config dir)")
	flag.StringVar(&configPath, "c", "", "Path to settings file (shorthand)")
	flag.StringVar(&rcPath, "rc", "", "Path to Lua config file (overrides settings file)")
	flag.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.StringVar(&logFile, "log-file", "", "Log output file (default: stderr)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "wmhooks - scriptable X11 event hooks\n\n")
		fmt.Fprintf(os.Stderr, "Usage: wmhooks [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nSend SIGUSR1 to a running daemon to reload its config.\n")
	}
	flag.Parse()

	if showVersion {
		fmt.Printf("wmhooks %s (%s)\n", version, commit)
		return 0
	}

	if configPath == "" {
		configPath = config.DefaultPath()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if rcPath != "" {
		cfg.RC = rcPath
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if logFile != "" {
		cfg.LogFile = logFile
	}

	out := os.Stderr
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot open log file: %v\n", err)
			return 1
		}
		defer f.Close()
		out = f
	}
	log := app.NewLogger(app.ParseLevel(cfg.LogLevel), out)

	if err := app.New(cfg, log).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
