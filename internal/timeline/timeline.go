package timeline

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/jpalmerr/userboard"
)

// Step is a single scripted dispatch.
type Step struct {
	// After is the offset from Start at which Action is dispatched.
	After time.Duration

	// Action is dispatched to the store when the offset elapses.
	Action userboard.Action
}

// Dispatcher accepts actions. *userboard.Store satisfies it.
type Dispatcher interface {
	Dispatch(action userboard.Action)
}

// Timeline dispatches a fixed script of actions at their offsets.
//
// Steps run in order of After; steps with equal offsets keep the order they
// were given in. All lifecycle methods are safe for concurrent use.
type Timeline struct {
	steps      []Step
	dispatcher Dispatcher
	logger     *slog.Logger

	mu       sync.Mutex
	started  bool
	stopped  bool
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	done     chan struct{}
	doneOnce sync.Once
}

// New creates a [Timeline] for steps. The steps slice is copied.
//
// Steps with a nil Action are skipped. The timeline does nothing until
// [Timeline.Start] is called.
func New(steps []Step, dispatcher Dispatcher, logger *slog.Logger) *Timeline {
	ordered := make([]Step, 0, len(steps))
	for _, s := range steps {
		if s.Action == nil {
			continue
		}
		ordered = append(ordered, s)
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].After < ordered[j].After
	})

	if logger == nil {
		logger = slog.Default()
	}

	return &Timeline{
		steps:      ordered,
		dispatcher: dispatcher,
		logger:     logger,
		done:       make(chan struct{}),
	}
}

// Steps returns a copy of the ordered script.
func (t *Timeline) Steps() []Step {
	return append([]Step(nil), t.steps...)
}

// Done returns a channel that is closed once every step has been dispatched
// or the timeline has been stopped.
func (t *Timeline) Done() <-chan struct{} {
	return t.done
}

// Start begins replaying the script in a background goroutine.
//
// Offsets are measured from the call to Start. The goroutine exits when the
// last step has been dispatched, ctx is cancelled, or [Timeline.Stop] is
// called. If ctx is nil, context.Background() is used.
// Start is idempotent; if Stop was called first, Start is a no-op.
func (t *Timeline) Start(ctx context.Context) {
	t.mu.Lock()
	if t.started || t.stopped {
		t.mu.Unlock()
		return
	}
	t.started = true

	if ctx == nil {
		ctx = context.Background()
	}
	runCtx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	t.wg.Add(1)
	t.mu.Unlock()

	go func() {
		defer t.wg.Done()
		defer t.finish()
		t.run(runCtx, time.Now())
	}()
}

// Stop halts the timeline and waits for its goroutine to exit.
//
// Steps not yet dispatched are abandoned. Stop is idempotent and safe to call
// before Start.
func (t *Timeline) Stop() {
	t.mu.Lock()
	if !t.stopped {
		t.stopped = true
		if t.cancel != nil {
			t.cancel()
		}
	}
	t.mu.Unlock()

	t.wg.Wait()
	t.finish()
}

func (t *Timeline) finish() {
	t.doneOnce.Do(func() { close(t.done) })
}

// run dispatches each step once its offset from start has elapsed.
func (t *Timeline) run(ctx context.Context, start time.Time) {
	for i, step := range t.steps {
		if !wait(ctx, time.Until(start.Add(step.After))) {
			t.logger.Debug("timeline stopped",
				"dispatched", i,
				"remaining", len(t.steps)-i,
			)
			return
		}

		t.logger.Info("timeline dispatch",
			"step", i,
			"after", step.After.String(),
			"action", step.Action.Kind(),
		)
		t.dispatcher.Dispatch(step.Action)
	}

	t.logger.Debug("timeline finished", "steps", len(t.steps))
}

// wait blocks for d and reports whether it elapsed before ctx was cancelled.
func wait(ctx context.Context, d time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
