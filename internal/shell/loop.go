package shell

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Loop is a single-goroutine task queue standing in for the UI thread.
// Functions passed to Dispatch run one at a time, in order, on the
// goroutine that called Run.
type Loop struct {
	mu      sync.Mutex
	queue   []func()
	wake    chan struct{}
	stopped bool
	log     *zap.Logger
}

// NewLoop creates a loop. Call Run to start processing.
func NewLoop(log *zap.Logger) *Loop {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loop{
		wake: make(chan struct{}, 1),
		log:  log.Named("ui"),
	}
}

// Dispatch queues fn. It never blocks. Functions dispatched after the loop
// stopped are dropped.
func (l *Loop) Dispatch(fn func()) {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		l.log.Debug("dispatch after loop stopped, dropped")
		return
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Run processes queued functions until ctx is done.
func (l *Loop) Run(ctx context.Context) {
	defer func() {
		l.mu.Lock()
		l.stopped = true
		l.queue = nil
		l.mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-l.wake:
		}
		for {
			fn, ok := l.next()
			if !ok {
				break
			}
			l.run(fn)
		}
	}
}

func (l *Loop) next() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		return nil, false
	}
	fn := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return fn, true
}

func (l *Loop) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.log.Error("panic in UI task", zap.Any("panic", r))
		}
	}()
	fn()
}
