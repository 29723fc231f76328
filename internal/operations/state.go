package operations

import (
	"io"
	"time"

	"salescli/internal/charts"
	"salescli/internal/dataprocessing"
	"salescli/internal/salesdata"
)

// State carries the data passed between steps of one run
type State struct {
	RunID     string
	StartTime time.Time

	// Console receives the printed report
	Console io.Writer

	Table   *salesdata.Table
	Load    dataprocessing.LoadReport
	Clean   dataprocessing.CleanReport
	Summary dataprocessing.Summary

	// Charts holds every chart that had data, rendered or not
	Charts []charts.Chart
	// Rendered maps chart slugs to the files written
	Rendered map[string]string
	// Exports lists the report files written
	Exports []string

	Steps []*StepState
}

// NewState creates the state for a run
func NewState(runID string, console io.Writer) *State {
	if console == nil {
		console = io.Discard
	}
	return &State{
		RunID:     runID,
		StartTime: time.Now(),
		Console:   console,
		Rendered:  make(map[string]string),
	}
}

// StepState returns the recorded state of a step, or nil if it has not run
func (s *State) StepState(id string) *StepState {
	for _, st := range s.Steps {
		if st.ID == id {
			return st
		}
	}
	return nil
}
