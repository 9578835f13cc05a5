package defscheduler

import (
	"sync"
	"time"

	"github.com/Ariaszzzhc/reactor-core-go/internal/metrics"
	"github.com/Ariaszzzhc/reactor-core-go/scheduler/schedulerapi"
	"github.com/pingcap/errors"
	"github.com/timandy/routine"
)

// periodicTask 实现 Disposable 接口
var _ schedulerapi.Disposable = (*periodicTask)(nil)

// taskState 周期任务状态
type taskState int32

const (
	statePending   taskState = iota // 只有初始定时器
	stateRecurring                  // 初始定时器已触发, 周期定时器已注册
	stateDisposed                   // 终态
)

// timerTracker 记录周期任务占用的定时器, 所有方法都在持有任务锁的情况下调用
type timerTracker interface {
	accepting() bool
	trackOnce(id schedulerapi.TimerID)
	untrackOnce(id schedulerapi.TimerID)
	trackPeriodic(id schedulerapi.TimerID)
	untrackPeriodic(id schedulerapi.TimerID)
}

// nopTracker 不属于任何 Worker 的周期任务使用
type nopTracker struct{}

func (nopTracker) accepting() bool                      { return true }
func (nopTracker) trackOnce(schedulerapi.TimerID)       {}
func (nopTracker) untrackOnce(schedulerapi.TimerID)     {}
func (nopTracker) trackPeriodic(schedulerapi.TimerID)   {}
func (nopTracker) untrackPeriodic(schedulerapi.TimerID) {}

// periodicTask 固定频率的周期任务: 初始定时器触发后注册周期定时器
type periodicTask struct {
	mu          sync.Locker          // 状态锁; 属于 Worker 时与 Worker 共用一把锁
	s           *scheduler           // 所属调度器
	task        schedulerapi.Task    // 任务
	period      time.Duration        // 周期
	tracker     timerTracker         // 定时器登记
	state       taskState            // 当前状态
	initialID   schedulerapi.TimerID // 初始定时器
	recurringID schedulerapi.TimerID // 周期定时器, 进入 stateRecurring 后有效
}

// newPeriodicTask 构造函数
func newPeriodicTask(s *scheduler, task schedulerapi.Task, period time.Duration, mu sync.Locker, tracker timerTracker) *periodicTask {
	if period <= 0 {
		period = schedulerapi.MinPeriod
	}
	return &periodicTask{
		mu:      mu,
		s:       s,
		task:    task,
		period:  period,
		tracker: tracker,
	}
}

// armLocked 注册初始定时器
func (p *periodicTask) armLocked(initialDelay time.Duration) {
	p.initialID = p.s.clock.AfterFunc(initialDelay, p.fireInitial)
	p.tracker.trackOnce(p.initialID)
	metrics.TasksScheduled.WithLabelValues(p.s.name, metrics.KindPeriodic).Inc()
}

// fireInitial 初始定时器的回调: 先注册周期定时器, 再执行第一次任务, 保证固定频率
func (p *periodicTask) fireInitial() {
	p.mu.Lock()
	if p.state != statePending {
		p.mu.Unlock()
		return
	}
	p.tracker.untrackOnce(p.initialID)
	if !p.tracker.accepting() {
		p.state = stateDisposed
		p.mu.Unlock()
		return
	}
	p.recurringID = p.s.clock.EveryFunc(p.period, p.fire)
	p.tracker.trackPeriodic(p.recurringID)
	p.state = stateRecurring
	p.mu.Unlock()

	p.run()
}

// fire 周期定时器的回调
func (p *periodicTask) fire() {
	p.mu.Lock()
	live := p.state == stateRecurring && p.tracker.accepting()
	p.mu.Unlock()

	if live {
		p.run()
	}
}

// run 执行任务, panic 时停止整个周期任务
func (p *periodicTask) run() {
	metrics.TaskFirings.WithLabelValues(p.s.name, metrics.KindPeriodic).Inc()
	defer func() {
		if r := recover(); r != nil {
			p.fail(r)
		}
	}()
	p.task()
}

// fail 取消全部定时器并上报错误
func (p *periodicTask) fail(cause any) {
	p.mu.Lock()
	disposed := p.disposeLocked()
	p.mu.Unlock()

	metrics.TaskFailures.WithLabelValues(p.s.name, metrics.KindPeriodic).Inc()
	if disposed {
		metrics.TasksDisposed.WithLabelValues(p.s.name, metrics.KindPeriodic).Inc()
	}
	p.s.reportError(errors.Wrapf(routine.NewRuntimeError(cause), "periodic task on scheduler %s stopped", p.s.name))
}

// Dispose 取消当前阶段的定时器, 可重复调用
func (p *periodicTask) Dispose() {
	p.mu.Lock()
	disposed := p.disposeLocked()
	p.mu.Unlock()

	if disposed {
		metrics.TasksDisposed.WithLabelValues(p.s.name, metrics.KindPeriodic).Inc()
	}
}

// disposeLocked 按当前状态取消并注销定时器, 已经是终态时返回 false
func (p *periodicTask) disposeLocked() bool {
	switch p.state {
	case statePending:
		p.s.clock.Cancel(p.initialID)
		p.tracker.untrackOnce(p.initialID)
	case stateRecurring:
		p.s.clock.Cancel(p.recurringID)
		p.tracker.untrackPeriodic(p.recurringID)
	default:
		return false
	}
	p.state = stateDisposed
	return true
}
