package schedulerapi

import "sync/atomic"

// Disposable 可以被通知停止的资源, Dispose 可以重复调用, 效果等同于调用一次
type Disposable interface {
	// Dispose 释放资源, 取消尚未执行的任务
	Dispose()
}

// CallbackDisposable 实现 Disposable 接口
var _ Disposable = (*CallbackDisposable)(nil)

// Rejected 共享的空操作 Disposable, 表示任务从未被调度 (例如 Worker 已关闭)
var Rejected = NewCallbackDisposable(func() {})

// IsRejected 检查 d 是否为 Rejected
func IsRejected(d Disposable) bool {
	return d == Disposable(Rejected)
}

// CallbackDisposable 在第一次 Dispose 时执行清理函数, 之后的调用都是空操作
type CallbackDisposable struct {
	callback atomic.Pointer[func()] // 清理函数, 执行前置空
}

// NewCallbackDisposable 构造函数
func NewCallbackDisposable(callback func()) *CallbackDisposable {
	d := &CallbackDisposable{}
	if callback != nil {
		d.callback.Store(&callback)
	}
	return d
}

// Dispose 执行并清除清理函数, 并发调用时只有一个调用者能拿到函数
func (d *CallbackDisposable) Dispose() {
	if fn := d.callback.Swap(nil); fn != nil {
		(*fn)()
	}
}

// Disposed 检查清理函数是否已经被消费
func (d *CallbackDisposable) Disposed() bool {
	return d.callback.Load() == nil
}
