package defscheduler

import (
	"github.com/Ariaszzzhc/reactor-core-go/scheduler/schedulerapi"
)

// Options 调度器的配置
type Options struct {
	Name         string                    // 调度器名称, 用于日志和监控指标
	ErrorHandler schedulerapi.ErrorHandler // 周期任务 panic 后的回调, 为空时错误被丢弃
}

// Option 修改调度器配置的函数
type Option func(*Options)

// WithName 设置调度器名称
func WithName(name string) Option {
	return func(opt *Options) {
		opt.Name = name
	}
}

// WithErrorHandler 设置周期任务的错误回调
func WithErrorHandler(handler schedulerapi.ErrorHandler) Option {
	return func(opt *Options) {
		opt.ErrorHandler = handler
	}
}
