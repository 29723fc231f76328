// Package operations runs the sales analysis as an ordered list of steps.
//
// A Manager executes each Step in turn against a shared State, wrapping every
// step in a trace span, timing it and recording its outcome in a StepState.
// A step that returns an error stops the run; a step that returns a SkipError
// is marked skipped and the run continues.
//
// The standard pipeline is built by DefaultSteps:
//
//	load → clean → summarize → reindex → visualize → export
package operations
