package virtualclock

import (
	"sync"
	"time"

	"github.com/Ariaszzzhc/reactor-core-go/internal/log"
	"github.com/Ariaszzzhc/reactor-core-go/internal/metrics"
	"github.com/Ariaszzzhc/reactor-core-go/scheduler/schedulerapi"
	"github.com/timandy/routine"
)

// Clock 实现 schedulerapi.Clock 接口
var _ schedulerapi.Clock = (*Clock)(nil)

// timer 虚拟定时器
type timer struct {
	id     schedulerapi.TimerID
	fn     func()
	when   time.Time     // 下一次触发时间
	period time.Duration // 周期, 0 表示一次性
}

// Clock 手动推进的虚拟时钟, 时间只在 Advance 中流逝, 回调在调用 Advance 的协程中同步执行.
// 用于测试, 也可以作为离线回放的时钟.
type Clock struct {
	mu     sync.Mutex
	now    time.Time
	lastID schedulerapi.TimerID
	timers map[schedulerapi.TimerID]*timer
}

// NewClock 构造一个从 start 开始的虚拟时钟
func NewClock(start time.Time) *Clock {
	return &Clock{
		now:    start,
		timers: make(map[schedulerapi.TimerID]*timer),
	}
}

// Now 返回虚拟的当前时间
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

// AfterFunc 在虚拟时间 now+delay 执行一次 fn, delay 非正数时在下一次 Advance 执行
func (c *Clock) AfterFunc(delay time.Duration, fn func()) schedulerapi.TimerID {
	if fn == nil {
		panic("reactor/clock: nil timer function")
	}
	if delay < 0 {
		delay = 0
	}
	return c.add(fn, delay, 0)
}

// EveryFunc 从 now+period 开始, 每隔 period 执行一次 fn
func (c *Clock) EveryFunc(period time.Duration, fn func()) schedulerapi.TimerID {
	if fn == nil {
		panic("reactor/clock: nil timer function")
	}
	if period <= 0 {
		panic("reactor/clock: non-positive interval")
	}
	return c.add(fn, period, period)
}

// Cancel 取消定时器
func (c *Clock) Cancel(id schedulerapi.TimerID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.timers, id)
}

// Pending 返回尚未停止的定时器数量
func (c *Clock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.timers)
}

// Advance 推进虚拟时间 d, 按触发时间顺序执行所有到期的回调, 同一时刻按创建顺序执行.
// 回调执行时 Now 返回该回调的触发时间.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		t, ok := c.next(target)
		if !ok {
			return
		}
		c.runTimerTask(t)
	}
}

// add 注册定时器
func (c *Clock) add(fn func(), delay, period time.Duration) schedulerapi.TimerID {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastID++
	c.timers[c.lastID] = &timer{
		id:     c.lastID,
		fn:     fn,
		when:   c.now.Add(delay),
		period: period,
	}
	return c.lastID
}

// next 取出最早到期的定时器并把时间推进到它的触发时间; 没有到期的定时器时把时间推进到 target
func (c *Clock) next(target time.Time) (timer, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var due *timer
	for _, t := range c.timers {
		if t.when.After(target) {
			continue
		}
		if due == nil || t.when.Before(due.when) || (t.when.Equal(due.when) && t.id < due.id) {
			due = t
		}
	}
	if due == nil {
		if target.After(c.now) {
			c.now = target
		}
		return timer{}, false
	}

	if due.when.After(c.now) {
		c.now = due.when
	}
	fired := *due
	if due.period > 0 {
		due.when = due.when.Add(due.period) // 固定频率, 与回调耗时无关
	} else {
		delete(c.timers, due.id)
	}
	return fired, true
}

// runTimerTask 执行回调, 捕获 panic
func (c *Clock) runTimerTask(t timer) {
	defer func() {
		if err := recover(); err != nil {
			metrics.ClockPanics.WithLabelValues("virtual").Inc()
			log.Error("Clock execute timer error.", log.Str("clock", "virtual"), log.Int64("timer", int64(t.id)), log.Err(routine.NewRuntimeError(err)))
		}
	}()
	t.fn()
}
