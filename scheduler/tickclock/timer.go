package tickclock

import (
	"sync/atomic"
	"time"

	"github.com/Ariaszzzhc/reactor-core-go/scheduler/schedulerapi"
)

// timer 表示一个定时任务
type timer struct {
	id       schedulerapi.TimerID // 定时器 ID
	fn       func()               // 执行的函数
	when     int64                // 绝对触发时间(ns)
	interval int64                // 周期任务间隔(ns), 0 表示一次性任务
	closed   atomic.Bool          // 运行时变量, 定时器是否已关闭
}

// stop 关闭定时器
func (t *timer) stop() {
	t.closed.CompareAndSwap(false, true)
}

// stopped 检查定时器是否已停止
func (t *timer) stopped() bool {
	return t.closed.Load()
}

// exec 执行定时器任务
func (t *timer) exec(c *Clock, ts int64) {
	//已关闭
	if t.stopped() {
		return
	}

	// 未到期
	if ts < t.when {
		return
	}

	// 一次性任务执行前关闭, 周期任务按固定频率推进
	if t.interval <= 0 {
		t.stop()
	} else {
		t.when += t.interval
	}
	c.runTimerTask(t.id, t.fn)
}

//====

// newTimer 构造一个周期定时器, 第一次在 interval 之后触发
func newTimer(id schedulerapi.TimerID, interval time.Duration, fn func()) *timer {
	return &timer{
		id:       id,
		fn:       fn,
		when:     time.Now().Add(interval).UnixNano(),
		interval: int64(interval),
	}
}

// newAfterTimer 构造一个一次性定时器, delay 非正数时在下一个 tick 触发
func newAfterTimer(id schedulerapi.TimerID, delay time.Duration, fn func()) *timer {
	if delay < 0 {
		delay = 0
	}
	return &timer{
		id:   id,
		fn:   fn,
		when: time.Now().Add(delay).UnixNano(),
	}
}
