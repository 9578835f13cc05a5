package schedulerapi

import (
	"time"
)

// MinPeriod 周期任务的最小间隔, 非正数的 Period 会被提升到这个值
const MinPeriod = time.Millisecond

// Task 定义一个任务类型
type Task func()

// ErrorHandler 周期任务因 panic 停止时的回调
type ErrorHandler func(err error)

// ScheduleOptions 周期任务的参数
type ScheduleOptions struct {
	InitialDelay time.Duration // 第一次执行前的等待时间, 非正数表示不等待
	Period       time.Duration // 后续两次执行之间的间隔
}

// Scheduler 调度器接口, 可以在多个协程之间共享
type Scheduler interface {
	// Name 返回调度器名称
	Name() string

	// Schedule 等待 delay 后执行一次 task. 调用 Dispose 可以取消尚未执行的任务.
	Schedule(task Task, delay time.Duration) Disposable

	// SchedulePeriodically 等待 InitialDelay 后执行 task, 之后每隔 Period 执行一次. task panic 后任务自动停止.
	SchedulePeriodically(task Task, options ScheduleOptions) Disposable

	// CreateWorker 创建一个新的 Worker
	CreateWorker() Worker

	// Now 返回当前时间(毫秒), 单调不减
	Now() int64
}

// Worker 一组任务的作用域, Shutdown 会取消它拥有的全部任务
type Worker interface {
	// ID 返回 Worker 的唯一标识
	ID() string

	// Schedule 等待 delay 后执行一次 task. Worker 已关闭时返回 Rejected.
	Schedule(task Task, delay time.Duration) Disposable

	// SchedulePeriodically 同 Scheduler.SchedulePeriodically. Worker 已关闭时返回 Rejected.
	SchedulePeriodically(task Task, options ScheduleOptions) Disposable

	// Shutdown 关闭 Worker, 取消全部任务, 之后的调度请求都会被拒绝
	Shutdown()

	// IsShutdown 检查 Worker 是否已关闭
	IsShutdown() bool
}
