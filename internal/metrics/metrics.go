package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 任务类型标签
const (
	KindOnce     = "once"     // 一次性任务
	KindPeriodic = "periodic" // 周期任务
)

// 调度器指标, 均以调度器名称作为第一个标签
var (
	TasksScheduled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reactor_scheduler_tasks_scheduled_total",
		Help: "Tasks armed on a timer, by scheduler and kind",
	}, []string{"scheduler", "kind"})

	TasksRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reactor_scheduler_tasks_rejected_total",
		Help: "Scheduling requests rejected by a shut down worker",
	}, []string{"scheduler"})

	TaskFirings = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reactor_scheduler_task_firings_total",
		Help: "Task executions started, by scheduler and kind",
	}, []string{"scheduler", "kind"})

	TaskFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reactor_scheduler_task_failures_total",
		Help: "Task executions that panicked, by scheduler and kind",
	}, []string{"scheduler", "kind"})

	TasksDisposed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reactor_scheduler_tasks_disposed_total",
		Help: "Tasks cancelled explicitly, by worker shutdown or after a failure",
	}, []string{"scheduler", "kind"})

	ActiveWorkers = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "reactor_scheduler_active_workers",
		Help: "Workers created and not yet shut down",
	}, []string{"scheduler"})

	ClockPanics = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reactor_clock_callback_panics_total",
		Help: "Timer callbacks that panicked and were recovered by the clock",
	}, []string{"clock"})
)
