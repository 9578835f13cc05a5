package schedulerapi

import "time"

// TimerID 定时器 ID, 由 Clock 从 1 开始分配, 0 表示未分配
type TimerID int64

// Clock 宿主的定时器原语, 调度器只通过这个接口访问时间.
// 实现不能在持有内部锁的情况下调用回调函数, 回调中可以再次调用 AfterFunc/EveryFunc/Cancel.
type Clock interface {
	// Now 返回当前时间
	Now() time.Time

	// AfterFunc 等待 delay 后执行一次 fn, delay 非正数表示尽快执行
	AfterFunc(delay time.Duration, fn func()) TimerID

	// EveryFunc 每隔 period 执行一次 fn, 第一次在 period 之后; 固定频率, 与 fn 的执行时长无关
	EveryFunc(period time.Duration, fn func()) TimerID

	// Cancel 取消定时器, 已取消或不存在的 ID 是空操作
	Cancel(id TimerID)
}
