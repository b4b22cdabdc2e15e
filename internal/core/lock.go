package core

import (
	"context"

	"go.uber.org/zap"
)

// RequestLock serializes message handling. Unlike sync.Mutex, a waiter
// gives up when its context ends.
type RequestLock struct {
	sem chan struct{}
}

func NewRequestLock() *RequestLock {
	return &RequestLock{
		sem: make(chan struct{}, 1),
	}
}

// LockWithContext reports whether the lock was acquired before ctx ended.
func (l *RequestLock) LockWithContext(ctx context.Context) bool {
	select {
	case l.sem <- struct{}{}:
		return true
	case <-ctx.Done():
		return false
	}
}

func (l *RequestLock) Unlock() {
	select {
	case <-l.sem:
	default:
	}
}

// Do runs onSuccess while holding the lock. If ctx ends first, onTimeout
// runs instead (when non-nil).
func (l *RequestLock) Do(ctx context.Context, operation string, onSuccess func(), onTimeout func()) {
	var logger *zap.SugaredLogger
	if logCtx, ok := ctx.(interface{ GetLogger() *zap.SugaredLogger }); ok {
		logger = logCtx.GetLogger()
	} else {
		logger = GetLogger()
	}

	logger.Debugw("lock_acquiring", "operation", operation)
	if !l.LockWithContext(ctx) {
		logger.Warnw("lock_timeout", "operation", operation)
		if onTimeout != nil {
			onTimeout()
		}
		return
	}
	logger.Debugw("lock_acquired", "operation", operation)
	defer func() {
		logger.Debugw("lock_released", "operation", operation)
		l.Unlock()
	}()

	onSuccess()
}
