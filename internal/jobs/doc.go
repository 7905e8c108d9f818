// Package jobs implements background tasks that run independently of
// HTTP request handling.
//
// # ViewSweeper
//
// Open views live in memory and expire after a period without access. The
// sweeper closes them on a ticker:
//
//	sweeper := jobs.NewViewSweeper(jobs.ViewSweeperConfig{
//	    Views:    registry,
//	    Interval: cfg.Views.SweepInterval,
//	})
//	sweeper.Start()
//	defer sweeper.Stop()
//
// Jobs log what they did and never stop the process.
package jobs
