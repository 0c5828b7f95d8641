package host

import (
	"context"
	"sync"
	"time"
)

const DefaultPollInterval = 100 * time.Millisecond

// WaitReady polls probe until it reports true. There is no upper bound; only
// ctx stops the wait.
func WaitReady(ctx context.Context, probe func() bool, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	if probe() {
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if probe() {
				return nil
			}
		}
	}
}

// Gate is a one-shot readiness signal.
type Gate struct {
	once sync.Once
	ch   chan struct{}
}

func NewGate() *Gate {
	return &Gate{ch: make(chan struct{})}
}

func (g *Gate) Open() {
	g.once.Do(func() { close(g.ch) })
}

func (g *Gate) Done() <-chan struct{} {
	return g.ch
}

// Ready reports whether Open was called.
func (g *Gate) Ready() bool {
	select {
	case <-g.ch:
		return true
	default:
		return false
	}
}
