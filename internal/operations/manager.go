package operations

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"salescli/internal/infrastructure"
)

// TracerName is the instrumentation scope of the run spans
const TracerName = "salescli.operations"

// Manager executes steps in order
type Manager struct {
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *infrastructure.PipelineMetrics
	steps   []Step
}

// NewManager creates a manager for the given steps. A nil tracer disables
// spans and nil metrics disable step timing.
func NewManager(logger *slog.Logger, tracer trace.Tracer, metrics *infrastructure.PipelineMetrics, steps ...Step) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer(TracerName)
	}
	return &Manager{
		logger:  infrastructure.WithComponent(logger, "operations"),
		tracer:  tracer,
		metrics: metrics,
		steps:   steps,
	}
}

// Steps returns the IDs of the registered steps in execution order
func (m *Manager) Steps() []string {
	ids := make([]string, len(m.steps))
	for i, s := range m.steps {
		ids[i] = s.ID()
	}
	return ids
}

// Run executes every step against state. The first failing step stops the
// run and its error is returned wrapped in an *OperationError.
func (m *Manager) Run(ctx context.Context, state *State) error {
	ctx, span := m.tracer.Start(ctx, "salescli.run",
		trace.WithAttributes(attribute.String("run.id", state.RunID)))
	defer span.End()

	m.logger.InfoContext(ctx, "Run started", slog.Int("steps", len(m.steps)))

	for _, step := range m.steps {
		if err := m.runStep(ctx, step, state); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			m.logger.ErrorContext(ctx, "Run failed",
				slog.String("step", step.ID()),
				slog.String("error", err.Error()))
			return &OperationError{Step: step.ID(), Cause: err}
		}
	}

	m.logger.InfoContext(ctx, "Run completed",
		slog.Duration("duration", time.Since(state.StartTime)))
	return nil
}

func (m *Manager) runStep(ctx context.Context, step Step, state *State) error {
	st := NewStepState(step.ID(), step.Name())
	state.Steps = append(state.Steps, st)

	ctx, span := m.tracer.Start(ctx, "step."+step.ID(),
		trace.WithAttributes(attribute.String("step.name", step.Name())))
	defer span.End()

	st.Start()
	m.logger.DebugContext(ctx, "Step started", slog.String("step", step.ID()))

	err := step.Execute(ctx, state)
	switch {
	case err == nil:
		st.Complete()
		span.SetStatus(codes.Ok, "")
	case IsSkip(err):
		st.Skip(err.Error())
		span.SetAttributes(attribute.Bool("step.skipped", true))
		m.logger.InfoContext(ctx, "Step skipped",
			slog.String("step", step.ID()),
			slog.String("reason", err.Error()))
		err = nil
	default:
		st.Fail(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	m.metrics.RecordStep(ctx, step.ID(), st.Duration())
	m.logger.DebugContext(ctx, "Step finished",
		slog.String("step", step.ID()),
		slog.String("status", string(st.Status)),
		slog.Duration("duration", st.Duration()))
	return err
}
