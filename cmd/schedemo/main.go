package main

import (
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/Ariaszzzhc/reactor-core-go/internal/env"
	"github.com/Ariaszzzhc/reactor-core-go/internal/log"
	"github.com/Ariaszzzhc/reactor-core-go/scheduler"
	"github.com/Ariaszzzhc/reactor-core-go/scheduler/schedulerapi"
	"github.com/pingcap/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
)

func main() {
	app := cli.NewApp()
	app.Name = "schedemo"
	app.Usage = "Run periodic and one-shot tasks on the default scheduler"
	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "Enable debug logging",
		},
		&cli.DurationFlag{
			Name:  "tick",
			Usage: "Timer precision of the default scheduler",
			Value: env.TimerPrecision,
		},
		&cli.StringFlag{
			Name:  "metrics",
			Usage: "Serve prometheus metrics on this address, e.g. :9100",
		},
	}
	app.Commands = []*cli.Command{
		{
			Name:  "every",
			Usage: "Run a periodic task until it has fired --count times",
			Flags: []cli.Flag{
				&cli.DurationFlag{
					Name:  "initial-delay",
					Usage: "Delay before the first firing",
				},
				&cli.DurationFlag{
					Name:  "period",
					Usage: "Spacing between firings",
					Value: time.Second,
				},
				&cli.IntFlag{
					Name:  "count",
					Usage: "Shut the worker down after this many firings",
					Value: 5,
				},
				&cli.IntFlag{
					Name:  "fail-at",
					Usage: "Panic on this firing to show that the task stops (0 disables)",
				},
			},
			Action: runEvery,
		},
		{
			Name:  "after",
			Usage: "Run one task after --delay",
			Flags: []cli.Flag{
				&cli.DurationFlag{
					Name:  "delay",
					Usage: "Delay before the task runs",
					Value: time.Second,
				},
			},
			Action: runAfter,
		},
	}
	app.Before = setup
	if err := app.Run(os.Args); err != nil {
		log.Error("Schedemo exited with error.", log.Err(err))
		os.Exit(1)
	}
}

// setup 把全局参数写入 env, 必须在第一次访问默认调度器之前执行
func setup(c *cli.Context) error {
	tick := c.Duration("tick")
	if tick <= 0 {
		return errors.Errorf("tick must be positive, got %v", tick)
	}
	env.Debug = c.Bool("debug")
	env.TimerPrecision = tick

	if addr := c.String("metrics"); addr != "" {
		http.Handle("/metrics", promhttp.Handler())
		go func() {
			if err := http.ListenAndServe(addr, nil); err != nil {
				log.Error("Metrics server stopped.", log.Str("addr", addr), log.Err(err))
			}
		}()
		log.Info("Serving metrics.", log.Str("addr", addr))
	}
	return nil
}

func runEvery(c *cli.Context) error {
	count := c.Int("count")
	if count <= 0 {
		return errors.Errorf("count must be positive, got %d", count)
	}
	failAt := int64(c.Int("fail-at"))

	stopped := make(chan struct{})
	s := scheduler.Default()
	w := s.CreateWorker()
	defer w.Shutdown()

	start := s.Now()
	var fired atomic.Int64
	w.SchedulePeriodically(func() {
		n := fired.Add(1)
		log.Info("Task fired.", log.Int64("n", n), log.Int64("elapsed_ms", s.Now()-start))
		if n == failAt {
			close(stopped)
			panic(errors.Errorf("task failed on firing %d", n))
		}
		if n == int64(count) {
			w.Shutdown()
			close(stopped)
		}
	}, schedulerapi.ScheduleOptions{
		InitialDelay: c.Duration("initial-delay"),
		Period:       c.Duration("period"),
	})

	<-stopped
	log.Info("Worker done.", log.Str("worker", w.ID()), log.Int64("fired", fired.Load()))
	return nil
}

func runAfter(c *cli.Context) error {
	done := make(chan struct{})
	s := scheduler.Default()
	start := s.Now()
	scheduler.Schedule(func() {
		log.Info("Task fired.", log.Int64("elapsed_ms", s.Now()-start))
		close(done)
	}, c.Duration("delay"))

	<-done
	return nil
}
