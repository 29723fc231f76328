package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"salescli/internal/app"
	"salescli/internal/config"
	"salescli/internal/errors"
	"salescli/internal/infrastructure"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, stdout io.Writer) int {
	fs := flag.NewFlagSet("salesreport", flag.ContinueOnError)
	fs.SetOutput(stdout)
	configFile := fs.String("config", "", "path to a YAML configuration file")
	showVersion := fs.Bool("version", false, "print version information and exit")
	if err := fs.Parse(args); err != nil {
		return errors.ExitConfig
	}

	if *showVersion {
		fmt.Fprintf(stdout, "%s %s (built %s)\n", app.AppName, app.VERSION, app.BuildTime)
		return errors.ExitOK
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		err = errors.NewConfigError("failed to load configuration", err)
		fmt.Fprintln(stdout, errors.UserMessage(err))
		return errors.ExitCode(err)
	}

	// Log file location is relative to the working directory, like every other output
	if paths, err := config.GetPaths(cfg); err == nil {
		cfg.Logging.FilePath = paths.LogFile
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	application, err := app.NewApplication(cfg, logger, stdout)
	if err != nil {
		logger.Error("Failed to initialize application", slog.String("error", err.Error()))
		fmt.Fprintln(stdout, errors.UserMessage(err))
		return errors.ExitFatal
	}

	if _, err := application.Run(context.Background()); err != nil {
		fmt.Fprintln(stdout, errors.UserMessage(err))
		return errors.ExitCode(err)
	}
	return errors.ExitOK
}
