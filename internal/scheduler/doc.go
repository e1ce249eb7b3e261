// Package scheduler runs an action repeatedly in the background.
//
// A Loop performs its action once as soon as it starts, then counts ticks
// (one second by default) and performs it again whenever the count exceeds
// the configured interval. Counting ticks rather than sleeping for the whole
// interval bounds how long Stop waits: the worker sees cancellation within
// one tick.
//
//	loop := scheduler.NewLoop("discovery", 120, func(ctx context.Context) {
//	    engine.Discover(ctx)
//	})
//	loop.Start()
//	defer loop.Stop()
//
// Start on a running loop and Stop on a stopped loop are logged no-ops. Stop
// returns only after the worker goroutine has exited.
package scheduler
