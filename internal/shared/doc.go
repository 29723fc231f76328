// Package shared holds code used across the salescli packages that does not
// belong to a single pipeline stage.
//
// The testutil subpackage provides captured slog loggers and generated sales
// CSV fixtures for package tests. It must only be imported from _test.go files.
package shared
