package defscheduler

import (
	"sync"
	"time"

	"github.com/Ariaszzzhc/reactor-core-go/internal/log"
	"github.com/Ariaszzzhc/reactor-core-go/internal/metrics"
	"github.com/Ariaszzzhc/reactor-core-go/scheduler/schedulerapi"
)

// worker 实现 Worker 接口和 timerTracker 接口
var (
	_ schedulerapi.Worker = (*worker)(nil)
	_ timerTracker        = (*worker)(nil)
)

// worker 一组任务的作用域, 记录自己注册的全部定时器
type worker struct {
	id       string     // 唯一标识
	s        *scheduler // 所属调度器
	mu       sync.Mutex // 保护下面的字段, 以及本 Worker 全部周期任务的状态
	shutdown bool       // 是否已关闭
	once     timerSet   // 一次性定时器, 包括周期任务的初始定时器
	periodic timerSet   // 周期定时器
}

// ID 返回 Worker 的唯一标识
func (w *worker) ID() string {
	return w.id
}

// Schedule 等待 delay 后执行一次 task, 执行后自动注销
func (w *worker) Schedule(task schedulerapi.Task, delay time.Duration) schedulerapi.Disposable {
	checkTask(task)
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.shutdown {
		return w.reject()
	}
	t := &workerTask{w: w, task: task}
	t.id = w.s.clock.AfterFunc(delay, t.run)
	w.once.add(t.id)
	metrics.TasksScheduled.WithLabelValues(w.s.name, metrics.KindOnce).Inc()
	return t
}

// SchedulePeriodically 两阶段调度, 定时器都登记在 Worker 上
func (w *worker) SchedulePeriodically(task schedulerapi.Task, options schedulerapi.ScheduleOptions) schedulerapi.Disposable {
	checkTask(task)
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.shutdown {
		return w.reject()
	}
	p := newPeriodicTask(w.s, task, options.Period, &w.mu, w)
	p.armLocked(options.InitialDelay)
	return p
}

// Shutdown 先设置关闭标记, 再取消全部定时器; 可重复调用
func (w *worker) Shutdown() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.shutdown {
		return
	}
	w.shutdown = true
	nOnce := w.once.drain(w.s.clock.Cancel)
	nPeriodic := w.periodic.drain(w.s.clock.Cancel)

	metrics.ActiveWorkers.WithLabelValues(w.s.name).Dec()
	metrics.TasksDisposed.WithLabelValues(w.s.name, metrics.KindOnce).Add(float64(nOnce))
	metrics.TasksDisposed.WithLabelValues(w.s.name, metrics.KindPeriodic).Add(float64(nPeriodic))
	log.Debug("Worker shut down.", log.Str("scheduler", w.s.name), log.Str("worker", w.id), log.Int64("cancelled", int64(nOnce+nPeriodic)))
}

// IsShutdown 检查 Worker 是否已关闭
func (w *worker) IsShutdown() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.shutdown
}

// reject 已关闭的 Worker 不再接受任务
func (w *worker) reject() schedulerapi.Disposable {
	metrics.TasksRejected.WithLabelValues(w.s.name).Inc()
	log.Debug("Worker already shut down, new tasks are not accepted.", log.Str("scheduler", w.s.name), log.Str("worker", w.id))
	return schedulerapi.Rejected
}

//==== timerTracker, 调用方持有 w.mu

func (w *worker) accepting() bool {
	return !w.shutdown
}

func (w *worker) trackOnce(id schedulerapi.TimerID) {
	w.once.add(id)
}

func (w *worker) untrackOnce(id schedulerapi.TimerID) {
	w.once.remove(id)
}

func (w *worker) trackPeriodic(id schedulerapi.TimerID) {
	w.periodic.add(id)
}

func (w *worker) untrackPeriodic(id schedulerapi.TimerID) {
	w.periodic.remove(id)
}

//====

// workerTask 实现 Disposable 接口
var _ schedulerapi.Disposable = (*workerTask)(nil)

// workerTask Worker 上的一次性任务
type workerTask struct {
	w        *worker
	task     schedulerapi.Task
	id       schedulerapi.TimerID // 由 w.mu 保护
	finished bool                 // 已执行或已取消, 由 w.mu 保护
}

// run 定时器回调; 无论 task 是否 panic 都会注销定时器, panic 继续交给时钟处理
func (t *workerTask) run() {
	metrics.TaskFirings.WithLabelValues(t.w.s.name, metrics.KindOnce).Inc()
	completed := false
	defer func() {
		if !completed {
			metrics.TaskFailures.WithLabelValues(t.w.s.name, metrics.KindOnce).Inc()
		}
		t.release()
	}()
	t.task()
	completed = true
}

// release 任务执行完毕, 注销定时器
func (t *workerTask) release() {
	t.w.mu.Lock()
	defer t.w.mu.Unlock()

	t.finished = true
	t.w.once.remove(t.id)
}

// Dispose 取消并注销定时器, 可重复调用
func (t *workerTask) Dispose() {
	t.w.mu.Lock()
	defer t.w.mu.Unlock()

	if t.finished {
		return
	}
	t.finished = true
	t.w.s.clock.Cancel(t.id)
	t.w.once.remove(t.id)
	metrics.TasksDisposed.WithLabelValues(t.w.s.name, metrics.KindOnce).Inc()
}
