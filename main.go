package main

import (
	"fmt"
	"log"
	"os"

	"github.com/aordonez-dev/unimarc-ingest/cmd"
	"github.com/aordonez-dev/unimarc-ingest/internal/conf"
	"github.com/aordonez-dev/unimarc-ingest/internal/logging"
)

func main() {
	settings, err := conf.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	level := logging.ParseLevel(settings.Log.Level)
	if settings.Debug {
		level = logging.ParseLevel("debug")
	}
	logging.Init(level)

	if settings.Log.Enabled {
		fileLogger, closeLogger, err := logging.NewFileLogger(settings.Log.Path, "unimarc-ingest", level)
		if err != nil {
			log.Fatalf("Error opening log file: %v", err)
		}
		defer func() {
			if err := closeLogger(); err != nil {
				fmt.Fprintf(os.Stderr, "Error closing log file: %v\n", err)
			}
		}()
		fileLogger.Info("File logging enabled", "path", settings.Log.Path)
	}

	rootCmd := cmd.RootCommand(settings)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
