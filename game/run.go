package game

import (
	"context"
	"errors"
	"time"

	bt "github.com/joeycumines/go-behaviortree"
	"github.com/milk9111/sentinel/ecs"
)

const DefaultTPS = 30

// RunOptions bound a real-time run. MaxTicks <= 0 runs until ctx ends.
type RunOptions struct {
	TPS      int
	MaxTicks int
	// OnStep sees each step's events on the ticker goroutine.
	OnStep func(tick int, evs []ecs.Event)
}

// Run steps the game at a fixed rate on a behavior-tree ticker until ctx
// is cancelled or MaxTicks steps have run. Update must not be called
// concurrently while Run is active.
func (g *Game) Run(ctx context.Context, opts RunOptions) error {
	interval := tickInterval(opts.TPS)
	dt := interval.Seconds()
	start := g.ticks

	step := bt.New(func([]bt.Node) (bt.Status, error) {
		if opts.MaxTicks > 0 && g.ticks-start >= opts.MaxTicks {
			return bt.Failure, nil
		}
		evs := g.Update(dt)
		if opts.OnStep != nil {
			opts.OnStep(g.ticks, evs)
		}
		return bt.Running, nil
	})

	ticker := bt.NewTickerStopOnFailure(ctx, interval, step)
	<-ticker.Done()
	if err := ticker.Err(); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}

// tickInterval converts a tick rate to a ticker period. Rates above one tick
// per nanosecond clamp to 1ns.
func tickInterval(tps int) time.Duration {
	if tps <= 0 {
		tps = DefaultTPS
	}
	interval := time.Second / time.Duration(tps)
	if interval <= 0 {
		interval = time.Nanosecond
	}
	return interval
}
