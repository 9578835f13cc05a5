package scheduler

import (
	"sync"
	"time"

	"github.com/Ariaszzzhc/reactor-core-go/internal/env"
	"github.com/Ariaszzzhc/reactor-core-go/scheduler/defscheduler"
	"github.com/Ariaszzzhc/reactor-core-go/scheduler/schedulerapi"
	"github.com/Ariaszzzhc/reactor-core-go/scheduler/tickclock"
)

// 默认的全局调度器, 第一次访问时创建, 之后不再改变, 进程退出前不会关闭
var (
	defaultOnce      sync.Once              // 保证只创建一次
	defaultScheduler schedulerapi.Scheduler // 默认调度器
)

// Default 返回默认的全局调度器, 底层是一个已启动的 tick 时钟, 精度为 env.TimerPrecision
func Default() schedulerapi.Scheduler {
	defaultOnce.Do(func() {
		clock := tickclock.NewClock(env.SchedulerName, env.TimerPrecision)
		clock.Start()
		defaultScheduler = defscheduler.NewScheduler(clock, defscheduler.WithName(env.SchedulerName))
	})
	return defaultScheduler
}

// Schedule 在默认调度器上等待 delay 后执行一次 task
func Schedule(task schedulerapi.Task, delay time.Duration) schedulerapi.Disposable {
	return Default().Schedule(task, delay)
}

// SchedulePeriodically 在默认调度器上调度周期任务
func SchedulePeriodically(task schedulerapi.Task, options schedulerapi.ScheduleOptions) schedulerapi.Disposable {
	return Default().SchedulePeriodically(task, options)
}

// CreateWorker 在默认调度器上创建一个 Worker
func CreateWorker() schedulerapi.Worker {
	return Default().CreateWorker()
}

// Now 返回默认调度器的当前时间(毫秒)
func Now() int64 {
	return Default().Now()
}
