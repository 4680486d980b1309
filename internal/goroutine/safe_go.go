package goroutine

import (
	"context"
	"runtime/debug"

	"github.com/koicare/pondflow/internal/logger"
)

type Logger interface {
	Errorf(format string, args ...interface{})
}

// RecoveryHandler runs goroutines that log instead of crashing on panic.
type RecoveryHandler struct {
	logger Logger
}

func NewRecoveryHandler(logger Logger) *RecoveryHandler {
	return &RecoveryHandler{logger: logger}
}

func (rh *RecoveryHandler) SafeGo(fn func()) {
	go func() {
		defer rh.recover()
		fn()
	}()
}

func (rh *RecoveryHandler) SafeGoWithContext(ctx context.Context, fn func(context.Context)) {
	go func() {
		defer rh.recover()
		fn(ctx)
	}()
}

func (rh *RecoveryHandler) recover() {
	if r := recover(); r != nil {
		rh.logger.Errorf("panic in goroutine: %v\nstack trace:\n%s", r, debug.Stack())
	}
}

// processLogger resolves logger.Log on each call so it follows logger.Init.
type processLogger struct{}

func (processLogger) Errorf(format string, args ...interface{}) {
	logger.Log.Errorf(format, args...)
}

var DefaultRecoveryHandler = NewRecoveryHandler(processLogger{})

func SafeGo(fn func()) {
	DefaultRecoveryHandler.SafeGo(fn)
}

func SafeGoWithContext(ctx context.Context, fn func(context.Context)) {
	DefaultRecoveryHandler.SafeGoWithContext(ctx, fn)
}
