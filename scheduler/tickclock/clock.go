package tickclock

import (
	"sync/atomic"
	"time"

	"github.com/Ariaszzzhc/reactor-core-go/internal/log"
	"github.com/Ariaszzzhc/reactor-core-go/internal/metrics"
	"github.com/Ariaszzzhc/reactor-core-go/scheduler/schedulerapi"
	"github.com/timandy/routine"
)

// Clock 实现 schedulerapi.Clock 接口
var _ schedulerapi.Clock = (*Clock)(nil)

// 时钟状态常量
const (
	StateCreated int32 = 0 // 已创建, 但未启动
	StateRunning int32 = 1 // 正在运行
	StateClosed  int32 = 2 // 已关闭
)

// Clock 基于 tick 的时钟, 所有定时器回调都在同一个协程中执行
type Clock struct {
	name  string        // 时钟名称
	tick  time.Duration // 最小时间粒度
	state atomic.Int32  // 时钟状态
	chDie chan struct{} // 关闭信号通道
	tm    timerManager  // 管理所有的定时器
}

// NewClock 构造一个新的时钟, 需要调用 Start() 方法来启动.
func NewClock(name string, tick time.Duration) *Clock {
	if tick <= 0 {
		panic("reactor/clock: non-positive tick")
	}
	return &Clock{
		name:  name,
		tick:  tick,
		chDie: make(chan struct{}),
		tm:    newTimerManager(),
	}
}

// runTimerTask 执行一个定时器回调, 捕获 panic
func (c *Clock) runTimerTask(id schedulerapi.TimerID, fn func()) {
	defer func() {
		if err := recover(); err != nil {
			metrics.ClockPanics.WithLabelValues(c.name).Inc()
			log.Error("Clock execute timer error.", log.Str("clock", c.name), log.Int64("timer", int64(id)), log.Err(routine.NewRuntimeError(err)))
		}
	}()
	fn()
}

// run 时钟的主循环
func (c *Clock) run() {
	log.Debug("Clock starting.", log.Str("clock", c.name), log.Dur("tick", c.tick))

	ticker := time.NewTicker(c.tick)
	defer func() {
		ticker.Stop()
		c.tm.close()
		log.Debug("Clock closed.", log.Str("clock", c.name))
	}()

	for {
		select {
		case <-ticker.C:
			c.tm.cron(c)

		case <-c.chDie:
			return
		}
	}
}

// Start 启动时钟
func (c *Clock) Start() {
	if !c.state.CompareAndSwap(StateCreated, StateRunning) {
		return
	}

	// 子协程启动循环
	go c.run()
}

// Close 关闭时钟, 丢弃所有定时器
func (c *Clock) Close() {
	if !c.state.CompareAndSwap(StateRunning, StateClosed) {
		return
	}
	close(c.chDie)
}

// State 返回时钟的当前状态
func (c *Clock) State() int32 {
	return c.state.Load()
}

// Len 返回尚未停止的定时器数量
func (c *Clock) Len() int {
	return c.tm.len()
}

//====

// Now 返回当前时间
func (c *Clock) Now() time.Time {
	return time.Now()
}

// AfterFunc 等待 delay 后执行一次 fn, 实际触发时间按 tick 对齐
func (c *Clock) AfterFunc(delay time.Duration, fn func()) schedulerapi.TimerID {
	if c.state.Load() == StateClosed {
		log.Debug("Clock already closed, timer will never fire.", log.Str("clock", c.name))
	}
	return c.tm.newAfterTimer(delay, fn)
}

// EveryFunc 每隔 period 执行一次 fn, 固定频率
func (c *Clock) EveryFunc(period time.Duration, fn func()) schedulerapi.TimerID {
	return c.tm.newTimer(period, fn)
}

// Cancel 取消定时器
func (c *Clock) Cancel(id schedulerapi.TimerID) {
	c.tm.cancel(id)
}
