package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salescli/internal/app"
	"salescli/internal/errors"
	"salescli/internal/shared/testutil"
)

// chdir switches to dir for the duration of the test
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestRun_Version(t *testing.T) {
	var out bytes.Buffer
	code := run([]string{"-version"}, &out)

	assert.Equal(t, errors.ExitOK, code)
	assert.Contains(t, out.String(), app.VERSION)
}

func TestRun(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(t *testing.T, dir string)
		args     []string
		wantCode int
		wantOut  string
	}{
		{
			name:     "missing input file",
			wantCode: errors.ExitFatal,
			wantOut:  "Error: 'sales_data_sample.csv' not found. Please ensure the file is in the working directory or provide the correct path.",
		},
		{
			name: "missing date column",
			setup: func(t *testing.T, dir string) {
				records := [][]string{{"SALES", "PRODUCTLINE"}, {"10.5", "Ships"}}
				src := testutil.WriteCSV(t, "sales_data_sample.csv", records)
				copyFile(t, src, filepath.Join(dir, "sales_data_sample.csv"))
			},
			wantCode: errors.ExitFatal,
			wantOut:  "Error: ORDERDATE column not found.",
		},
		{
			name: "invalid configuration",
			setup: func(t *testing.T, dir string) {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("charts:\n  format: gif\n"), 0644))
			},
			args:     []string{"-config", "bad.yaml"},
			wantCode: errors.ExitConfig,
			wantOut:  "Error: invalid configuration",
		},
		{
			name: "successful run",
			setup: func(t *testing.T, dir string) {
				src := testutil.WriteCSV(t, "sales_data_sample.csv", testutil.SalesRecords(12))
				copyFile(t, src, filepath.Join(dir, "sales_data_sample.csv"))
			},
			wantCode: errors.ExitOK,
			wantOut:  "Summary Statistics:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if tt.setup != nil {
				tt.setup(t, dir)
			}
			chdir(t, dir)

			var out bytes.Buffer
			code := run(tt.args, &out)

			assert.Equal(t, tt.wantCode, code)
			assert.Contains(t, out.String(), tt.wantOut)
		})
	}
}

func copyFile(t *testing.T, src, dst string) {
	t.Helper()
	data, err := os.ReadFile(src)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(dst, data, 0644))
}
