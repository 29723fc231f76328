package charts

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Viewer displays a rendered chart file
type Viewer interface {
	Show(ctx context.Context, path string) error
}

// CommandViewer opens each chart with an external command and waits for it to
// exit before returning. The command line is split on whitespace and the file
// path appended as the last argument.
type CommandViewer struct {
	Command string
}

// Show runs the viewer command on path
func (v CommandViewer) Show(ctx context.Context, path string) error {
	fields := strings.Fields(v.Command)
	if len(fields) == 0 {
		return fmt.Errorf("empty viewer command")
	}
	args := append(fields[1:len(fields):len(fields)], path)
	cmd := exec.CommandContext(ctx, fields[0], args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("viewer %q failed: %w: %s", fields[0], err, strings.TrimSpace(string(out)))
	}
	return nil
}
