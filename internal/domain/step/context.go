package step

import (
	"context"

	"github.com/felixgeelhaar/shipshape/internal/ports"
)

// RunContext carries the cancellation context and the run logger into
// Check and Apply.
type RunContext struct {
	ctx    context.Context
	logger ports.Logger
}

// NewRunContext creates a new RunContext with the given context.
func NewRunContext(ctx context.Context) RunContext {
	return RunContext{ctx: ctx}
}

// Context returns the underlying context.Context.
func (r RunContext) Context() context.Context {
	return r.ctx
}

// Logger returns the run logger. Never nil.
func (r RunContext) Logger() ports.Logger {
	if r.logger == nil {
		return nopLogger{}
	}
	return r.logger
}

// WithLogger returns a new RunContext carrying the given logger.
func (r RunContext) WithLogger(logger ports.Logger) RunContext {
	return RunContext{ctx: r.ctx, logger: logger}
}

// nopLogger keeps steps from nil-checking the logger. The real nop
// implementation lives in adapters/logging; this one avoids a domain
// package depending on an adapter.
type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...ports.Field) {}
func (nopLogger) Info(context.Context, string, ...ports.Field)  {}
func (nopLogger) Warn(context.Context, string, ...ports.Field)  {}
func (nopLogger) Error(context.Context, string, ...ports.Field) {}
func (n nopLogger) With(...ports.Field) ports.Logger            { return n }
func (nopLogger) Level() ports.Level                            { return ports.LevelInfo }
func (nopLogger) SetLevel(ports.Level)                          {}
