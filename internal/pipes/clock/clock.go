// Package clock provides the flow clock: two periodic schedules, one for
// elapsed seconds and one for water advancement, started and cancelled as
// a unit.
package clock

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/tui-pipes/internal/logging"
)

// Handler is invoked on each firing. ctx is cancelled when the clock stops;
// handlers that hand work to another goroutine should select on it.
type Handler func(ctx context.Context)

// Config sets the clock periods.
type Config struct {
	TickEvery time.Duration // elapsed-time tick, normally one second
	FlowEvery time.Duration // time between flow advances after the first
}

// DefaultConfig returns one-second ticks and a five-second flow period.
func DefaultConfig() Config {
	return Config{
		TickEvery: time.Second,
		FlowEvery: 5 * time.Second,
	}
}

// FlowClock runs the tick and flow schedules on background goroutines.
// It may be started again after Stop.
type FlowClock struct {
	cfg    Config
	logger *log.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	group  *errgroup.Group
}

// New creates a stopped clock.
func New(cfg Config, logger *log.Logger) *FlowClock {
	if cfg.TickEvery <= 0 {
		cfg.TickEvery = time.Second
	}
	if cfg.FlowEvery <= 0 {
		cfg.FlowEvery = DefaultConfig().FlowEvery
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &FlowClock{cfg: cfg, logger: logger}
}

// Start begins both schedules. The first flow fires after delay, then
// every FlowEvery. Starting a running clock restarts it.
func (c *FlowClock) Start(delay time.Duration, onTick, onFlow Handler) {
	c.Stop()

	c.mu.Lock()
	defer c.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	group, ctx := errgroup.WithContext(ctx)
	c.cancel = cancel
	c.group = group

	group.Go(func() error {
		c.runTicks(ctx, onTick)
		return nil
	})
	group.Go(func() error {
		c.runFlow(ctx, delay, onFlow)
		return nil
	})

	c.logger.Debug("flow clock started", "delay", delay, "flow_every", c.cfg.FlowEvery)
}

// Stop cancels both schedules and waits for their goroutines. No handler
// starts after Stop returns. Stop must not be called from a handler.
func (c *FlowClock) Stop() {
	c.mu.Lock()
	cancel, group := c.cancel, c.group
	c.cancel, c.group = nil, nil
	c.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	//nolint:errcheck // Schedule goroutines never return errors
	group.Wait()
	c.logger.Debug("flow clock stopped")
}

// Running reports whether the schedules are active.
func (c *FlowClock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancel != nil
}

func (c *FlowClock) runTicks(ctx context.Context, onTick Handler) {
	ticker := time.NewTicker(c.cfg.TickEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if ctx.Err() != nil {
				return
			}
			onTick(ctx)
		}
	}
}

func (c *FlowClock) runFlow(ctx context.Context, delay time.Duration, onFlow Handler) {
	first := time.NewTimer(delay)
	defer first.Stop()

	select {
	case <-ctx.Done():
		return
	case <-first.C:
	}
	if ctx.Err() != nil {
		return
	}
	onFlow(ctx)

	ticker := time.NewTicker(c.cfg.FlowEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if ctx.Err() != nil {
				return
			}
			onFlow(ctx)
		}
	}
}
