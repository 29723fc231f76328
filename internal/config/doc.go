// Package config provides centralized configuration management for salescli.
//
// # Configuration Sources
//
// Configuration is assembled from the following sources, later ones winning:
//
//  1. Default values (Default)
//  2. A YAML file (salescli.yaml, configs/salescli.yaml, or -config)
//  3. Environment variables, including any set by a .env file in the working directory
//
// # Environment Variables
//
// All environment variables follow the pattern SALES_* for namespacing:
//
//	SALES_INPUT_FILE=sales_data_sample.csv
//	SALES_INPUT_ENCODINGS=latin-1,windows-1252,cp1252
//	SALES_COLUMNS_DATE=ORDERDATE
//	SALES_CHARTS_FORMAT=svg
//	SALES_CHARTS_VIEWER=xdg-open
//	SALES_EXPORT_WORKBOOK=true
//	SALES_LOGGING_LEVEL=debug
//	SALES_TELEMETRY_METRICS_FILE=metrics/salescli.prom
//
// # Path Management
//
// Paths resolves every relative location against the working directory:
//
//	paths, err := config.GetPaths(cfg)
//	chart := paths.GetChartPath("monthly_sales_trend", "png")
//
// # Validation
//
// Struct tags are checked with go-playground/validator after loading; an
// invalid configuration is reported before any input is read.
package config
