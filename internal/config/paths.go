package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Paths contains the resolved locations a run reads from and writes to.
// Relative configuration values are resolved against the working directory,
// the same directory the input file is looked up in.
type Paths struct {
	WorkingDir  string
	InputFile   string
	ChartsDir   string
	ReportsDir  string
	LogFile     string
	MetricsFile string
}

// GetPaths resolves every configured path against the current working directory
func GetPaths(cfg *Config) (*Paths, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return ResolvePaths(wd, cfg), nil
}

// ResolvePaths resolves the configured paths against baseDir
func ResolvePaths(baseDir string, cfg *Config) *Paths {
	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(baseDir, p)
	}

	return &Paths{
		WorkingDir:  baseDir,
		InputFile:   resolve(cfg.Input.File),
		ChartsDir:   resolve(cfg.Charts.OutputDir),
		ReportsDir:  resolve(cfg.Export.Dir),
		LogFile:     resolve(cfg.Logging.FilePath),
		MetricsFile: resolve(cfg.Telemetry.MetricsFile),
	}
}

// EnsureDirectories creates the output directories needed by the enabled features
func (p *Paths) EnsureDirectories(cfg *Config) error {
	var directories []string
	if cfg.Charts.Enabled {
		directories = append(directories, p.ChartsDir)
	}
	if cfg.Export.CSV || cfg.Export.Workbook {
		directories = append(directories, p.ReportsDir)
	}
	if p.MetricsFile != "" {
		directories = append(directories, filepath.Dir(p.MetricsFile))
	}

	logger := slog.Default()
	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		logger.Debug("Ensured directory exists", slog.String("directory", dir))
	}

	return nil
}

// GetChartPath returns the file a chart is rendered to, e.g. charts/monthly_sales_trend.png
func (p *Paths) GetChartPath(slug, format string) string {
	return filepath.Join(p.ChartsDir, fmt.Sprintf("%s.%s", slug, strings.ToLower(format)))
}

// GetReportPath returns the path for a report file
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// LogPathResolution logs the resolved paths for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Debug("Path resolution summary",
		slog.Group("directories",
			slog.String("working", p.WorkingDir),
			slog.String("charts", p.ChartsDir),
			slog.String("reports", p.ReportsDir),
		),
		slog.Group("files",
			slog.String("input", p.InputFile),
			slog.Bool("input_exists", FileExists(p.InputFile)),
			slog.String("log", p.LogFile),
			slog.String("metrics", p.MetricsFile),
		))
}
