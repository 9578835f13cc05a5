package tickclock

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/Ariaszzzhc/reactor-core-go/scheduler/schedulerapi"
	"github.com/eapache/queue"
)

// timerManager 定时器管理器
type timerManager struct {
	incrementCounter atomic.Int64                    // timer ID 自增计数器
	timers           map[schedulerapi.TimerID]*timer // 运行中的定时器, 只能在时钟的协程中读写
	mu               sync.Mutex                      // 读写 pending 和 registry 的锁
	pending          *queue.Queue                    // 外部创建 timer 时, 先放到这里边, 等待被 stealTimers 偷走
	registry         map[schedulerapi.TimerID]*timer // 全部未停止的定时器, 用于按 ID 取消
}

// newTimerManager 构造函数
func newTimerManager() timerManager {
	return timerManager{
		timers:   make(map[schedulerapi.TimerID]*timer),
		pending:  queue.New(),
		registry: make(map[schedulerapi.TimerID]*timer),
	}
}

// nextID 分配下一个定时器 ID, 从 1 开始
func (tm *timerManager) nextID() schedulerapi.TimerID {
	return schedulerapi.TimerID(tm.incrementCounter.Add(1))
}

// addTimer 可以在任意协程执行, 添加一个定时器到 pending 中
func (tm *timerManager) addTimer(t *timer) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	tm.registry[t.id] = t
	tm.pending.Add(t)
}

// 只能被时钟协程执行, 把 pending 转移 timers 中
func (tm *timerManager) stealTimers() {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	for tm.pending.Length() > 0 {
		t := tm.pending.Remove().(*timer)
		tm.timers[t.id] = t
	}
}

// 只能被时钟协程执行, 调度被管理的定时器
func (tm *timerManager) cron(c *Clock) {
	// 抢夺 timer 到 timers
	tm.stealTimers()

	// 没有定时器, 直接返回
	if len(tm.timers) == 0 {
		return
	}

	// 执行所有计时器任务
	ts := time.Now().UnixNano()
	var closingTimers []schedulerapi.TimerID // 用于存储需要关闭的计时器 ID
	for id, t := range tm.timers {
		// 执行定时器作业
		t.exec(c, ts)

		// 添加到待删除列表
		if t.stopped() {
			closingTimers = append(closingTimers, id)
		}
	}

	// 从 timers 中删除要关闭的, 下次不再遍历这些
	if len(closingTimers) == 0 {
		return
	}
	tm.mu.Lock()
	defer tm.mu.Unlock()
	for _, id := range closingTimers {
		delete(tm.timers, id)
		delete(tm.registry, id)
	}
}

// cancel 可以在任意协程执行, 停止定时器, 时钟协程会在下一次 cron 时移除它
func (tm *timerManager) cancel(id schedulerapi.TimerID) {
	tm.mu.Lock()
	t, ok := tm.registry[id]
	delete(tm.registry, id)
	tm.mu.Unlock()

	if ok {
		t.stop()
	}
}

// len 返回未停止的定时器数量
func (tm *timerManager) len() int {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	return len(tm.registry)
}

// 只能被时钟协程执行, 清空 timers, pending 和 registry
func (tm *timerManager) close() {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	for _, t := range tm.registry {
		t.stop()
	}
	tm.timers = make(map[schedulerapi.TimerID]*timer)
	tm.pending = queue.New()
	tm.registry = make(map[schedulerapi.TimerID]*timer)
}

//====

// newTimer 创建一个永久运行的定时器, 每隔 interval 执行一次 fn.
func (tm *timerManager) newTimer(interval time.Duration, fn func()) schedulerapi.TimerID {
	if fn == nil {
		panic("reactor/clock: nil timer function")
	}
	if interval <= 0 {
		panic("reactor/clock: non-positive interval")
	}
	t := newTimer(tm.nextID(), interval, fn)
	tm.addTimer(t)
	return t.id
}

// newAfterTimer 创建一个执行 1 次的定时器, 等待 delay 后执行 fn.
func (tm *timerManager) newAfterTimer(delay time.Duration, fn func()) schedulerapi.TimerID {
	if fn == nil {
		panic("reactor/clock: nil timer function")
	}
	t := newAfterTimer(tm.nextID(), delay, fn)
	tm.addTimer(t)
	return t.id
}
