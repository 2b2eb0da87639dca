package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	apperrors "github.com/Chriskfigures777/Niceone/internal/errors"
	"github.com/Chriskfigures777/Niceone/internal/observability"
	"github.com/Chriskfigures777/Niceone/plugin/ai/timeout"
)

// MetricsRecorder receives one record per finished tool call.
type MetricsRecorder interface {
	RecordToolCall(tool string, code string, success bool, d time.Duration)
}

// Executor runs tools with a deadline and turns every failure into a Result.
// Calls are never retried: a booking mutation must not run twice.
type Executor struct {
	timeout time.Duration
	metrics MetricsRecorder
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithTimeout sets the deadline for one tool call.
func WithTimeout(d time.Duration) ExecutorOption {
	return func(e *Executor) {
		e.timeout = d
	}
}

// WithMetrics records each call in m.
func WithMetrics(m MetricsRecorder) ExecutorOption {
	return func(e *Executor) {
		e.metrics = m
	}
}

// NewExecutor creates an executor with the tool execution timeout.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{timeout: timeout.ToolExecutionTimeout}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs tool with input and always returns a Result.
func (e *Executor) Execute(ctx context.Context, tool Tool, input string) *Result {
	reqCtx := observability.FromContextOrNew(ctx).ForTool(tool.Name())
	ctx = observability.WithRequestContext(ctx, reqCtx)

	execCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	result, err := runSafely(execCtx, tool, input)
	var panicked *panicError
	if errors.As(err, &panicked) {
		reqCtx.Error("tool panicked", err, slog.String("stack", truncate(panicked.stack)))
		result = &Result{Code: apperrors.ErrCodeInternal, Output: "Error: " + tool.Name() + " failed unexpectedly. Please try again."}
	} else if err != nil {
		result = failure(err)
	} else if result == nil {
		result = &Result{Code: apperrors.ErrCodeInternal, Output: "Error: tool returned no result"}
	}
	if !result.Success && errors.Is(execCtx.Err(), context.DeadlineExceeded) {
		result = &Result{
			Code:   apperrors.ErrCodeTimeout,
			Output: fmt.Sprintf("Error: %s did not finish in time. Please try again.", tool.Name()),
		}
	}

	e.record(tool.Name(), result, reqCtx.Duration())
	attrs := []slog.Attr{
		slog.String(observability.LogFieldErrorCode, string(result.Code)),
		slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()),
	}
	if result.Success {
		reqCtx.Info("tool call succeeded", attrs...)
	} else {
		reqCtx.Warn("tool call failed", append(attrs, slog.String("output", truncate(result.Output)))...)
	}
	return result
}

type panicError struct {
	value any
	stack string
}

func (e *panicError) Error() string {
	return fmt.Sprintf("panic: %v", e.value)
}

// runSafely turns a panic inside a tool into an error.
func runSafely(ctx context.Context, tool Tool, input string) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, &panicError{value: r, stack: string(debug.Stack())}
		}
	}()
	return tool.Run(ctx, input)
}

func failure(err error) *Result {
	return &Result{
		Code:   apperrors.ErrCodeInvalidArgument,
		Output: "Error: invalid tool input: " + err.Error(),
	}
}

func (e *Executor) record(name string, r *Result, d time.Duration) {
	if e.metrics != nil {
		e.metrics.RecordToolCall(name, string(r.Code), r.Success, d)
	}
}

func truncate(s string) string {
	if len(s) <= timeout.MaxTruncateLength {
		return s
	}
	return s[:timeout.MaxTruncateLength] + "..."
}
