package env

import (
	"time"
)

//goland:noinspection GoVarAndConstTypeMayBeOmitted,GoCommentStart
var (
	Debug          bool          = false                  //调试模式, 输出调度器的启动/关闭/拒绝等日志
	TimerPrecision time.Duration = 10 * time.Millisecond //定时器精度, 默认调度器 tick 时钟的最小时间粒度
	SchedulerName  string        = "default"             //默认调度器名称, 用作日志和监控指标的标签
)
