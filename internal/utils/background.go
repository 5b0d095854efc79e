package utils

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Background runs fire-and-forget work off the request path.
// Failures never reach the submitter; they are logged with the task name.
//
// Tasks receive the executor's own context, which is cancelled only by
// Shutdown once the drain finishes or times out. A process signal therefore
// does not abort a send that is already in flight.
type Background struct {
	ctx    context.Context
	cancel context.CancelFunc
	logger logrus.FieldLogger
	wg     sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewBackground creates an idle executor
func NewBackground(logger logrus.FieldLogger) *Background {
	ctx, cancel := context.WithCancel(context.Background())
	return &Background{
		ctx:    ctx,
		cancel: cancel,
		logger: logger,
	}
}

// Go runs fn on its own goroutine. After Shutdown the task is dropped with a
// warning.
func (b *Background) Go(name string, fn func(ctx context.Context) error) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		b.logger.WithField("task", name).Warn("background executor stopped, task dropped")
		return
	}
	b.wg.Add(1)
	b.mu.Unlock()

	go func() {
		defer b.wg.Done()
		if err := b.run(fn); err != nil {
			b.logger.WithError(err).WithField("task", name).Error("background task failed")
		}
	}()
}

func (b *Background) run(fn func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(b.ctx)
}

// Wait blocks until every submitted task has returned
func (b *Background) Wait() {
	b.wg.Wait()
}

// Shutdown stops accepting tasks and waits up to timeout for running ones.
// The task context is cancelled afterwards; tasks still running at the
// deadline are abandoned and reported in the returned error.
func (b *Background) Shutdown(timeout time.Duration) error {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
	defer b.cancel()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("background tasks still running after %s", timeout)
	}
}
