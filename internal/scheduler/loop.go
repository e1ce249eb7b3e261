package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/muurk/plexgdm/internal/logging"
	"go.uber.org/zap"
)

// DefaultTick is the period at which a running loop counts towards its
// interval and checks for cancellation.
const DefaultTick = time.Second

// Action is the work a Loop repeats. ctx is cancelled when the loop stops.
type Action func(ctx context.Context)

// Loop is a restartable periodic task with at most one worker.
type Loop struct {
	name   string
	action Action
	tick   time.Duration

	// interval is read by the worker on every tick
	interval atomic.Int64

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	runs   atomic.Int64
}

// NewLoop creates a stopped loop that repeats action after every interval
// ticks.
func NewLoop(name string, interval int, action Action) *Loop {
	l := &Loop{
		name:   name,
		action: action,
		tick:   DefaultTick,
	}
	l.interval.Store(int64(interval))
	return l
}

// SetTick changes the tick period. It only affects workers started
// afterwards.
func (l *Loop) SetTick(tick time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tick = tick
}

// SetInterval changes the number of ticks between runs. A running worker
// compares against the new value from its next tick on, so shortening the
// interval below the ticks already counted triggers a run on the next tick.
func (l *Loop) SetInterval(interval int) {
	l.interval.Store(int64(interval))
}

// Interval returns the number of ticks between runs
func (l *Loop) Interval() int {
	return int(l.interval.Load())
}

// Running reports whether a worker is active
func (l *Loop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cancel != nil
}

// Runs returns how many times the action has started since the loop was
// created.
func (l *Loop) Runs() int64 {
	return l.runs.Load()
}

// Start launches the worker. It returns false, doing nothing, if the loop is
// already running.
func (l *Loop) Start() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cancel != nil {
		logging.Debug("Loop already running", zap.String("loop", l.name))
		return false
	}

	logging.Info("Loop starting up",
		zap.String("loop", l.name),
		zap.Int("interval", l.Interval()),
	)

	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	l.done = make(chan struct{})

	go l.run(ctx, l.tick, l.done)
	return true
}

// Stop cancels the worker and waits for it to exit. It returns false,
// doing nothing, if the loop is not running.
func (l *Loop) Stop() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cancel == nil {
		logging.Debug("Loop not running", zap.String("loop", l.name))
		return false
	}

	logging.Info("Loop shutting down", zap.String("loop", l.name))

	l.cancel()
	<-l.done

	l.cancel = nil
	l.done = nil
	return true
}

func (l *Loop) run(ctx context.Context, tick time.Duration, done chan struct{}) {
	defer close(done)

	l.perform(ctx)

	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	count := int64(0)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			count++
			if count > l.interval.Load() {
				l.perform(ctx)
				count = 0
			}
		}
	}
}

func (l *Loop) perform(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	l.runs.Add(1)
	l.action(ctx)
}
