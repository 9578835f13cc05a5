package defscheduler

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/Ariaszzzhc/reactor-core-go/internal/log"
	"github.com/Ariaszzzhc/reactor-core-go/internal/metrics"
	"github.com/Ariaszzzhc/reactor-core-go/scheduler/schedulerapi"
	"github.com/google/uuid"
)

// scheduler 默认的调度器, 把调度策略翻译成 Clock 上的定时器
type scheduler struct {
	name    string                    // 调度器名称
	clock   schedulerapi.Clock        // 宿主定时器
	onError schedulerapi.ErrorHandler // 周期任务错误回调
	lastNow atomic.Int64              // Now 的最大返回值, 保证单调
}

// NewScheduler 构造一个基于 clock 的调度器
func NewScheduler(clock schedulerapi.Clock, opts ...Option) schedulerapi.Scheduler {
	if clock == nil {
		panic("reactor/scheduler: nil clock")
	}
	options := &Options{Name: "default"}
	for _, opt := range opts {
		opt(options)
	}
	return &scheduler{
		name:    options.Name,
		clock:   clock,
		onError: options.ErrorHandler,
	}
}

// Name 返回调度器名称
func (s *scheduler) Name() string {
	return s.name
}

// Schedule 等待 delay 后执行一次 task
func (s *scheduler) Schedule(task schedulerapi.Task, delay time.Duration) schedulerapi.Disposable {
	checkTask(task)
	id := s.clock.AfterFunc(delay, func() {
		metrics.TaskFirings.WithLabelValues(s.name, metrics.KindOnce).Inc()
		completed := false
		defer func() {
			if !completed {
				metrics.TaskFailures.WithLabelValues(s.name, metrics.KindOnce).Inc()
			}
		}()
		task()
		completed = true
	})
	metrics.TasksScheduled.WithLabelValues(s.name, metrics.KindOnce).Inc()
	return schedulerapi.NewCallbackDisposable(func() {
		s.clock.Cancel(id)
		metrics.TasksDisposed.WithLabelValues(s.name, metrics.KindOnce).Inc()
	})
}

// SchedulePeriodically 两阶段调度: 等待 InitialDelay 执行一次, 然后按 Period 固定频率执行
func (s *scheduler) SchedulePeriodically(task schedulerapi.Task, options schedulerapi.ScheduleOptions) schedulerapi.Disposable {
	checkTask(task)
	p := newPeriodicTask(s, task, options.Period, &sync.Mutex{}, nopTracker{})
	p.mu.Lock()
	defer p.mu.Unlock()

	p.armLocked(options.InitialDelay)
	return p
}

// CreateWorker 创建一个新的 Worker
func (s *scheduler) CreateWorker() schedulerapi.Worker {
	w := &worker{
		id:       uuid.NewString(),
		s:        s,
		once:     make(timerSet),
		periodic: make(timerSet),
	}
	metrics.ActiveWorkers.WithLabelValues(s.name).Inc()
	log.Debug("Worker created.", log.Str("scheduler", s.name), log.Str("worker", w.id))
	return w
}

// Now 返回当前时间(毫秒), 时钟回拨时返回之前的最大值
func (s *scheduler) Now() int64 {
	now := s.clock.Now().UnixMilli()
	for {
		last := s.lastNow.Load()
		if now <= last {
			return last
		}
		if s.lastNow.CompareAndSwap(last, now) {
			return now
		}
	}
}

// reportError 周期任务因 panic 停止
func (s *scheduler) reportError(err error) {
	log.Debug("Periodic task stopped.", log.Str("scheduler", s.name), log.Err(err))
	if s.onError != nil {
		s.onError(err)
	}
}

// checkTask 空任务是编程错误
func checkTask(task schedulerapi.Task) {
	if task == nil {
		panic("reactor/scheduler: nil task")
	}
}
