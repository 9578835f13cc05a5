package defscheduler

import "github.com/Ariaszzzhc/reactor-core-go/scheduler/schedulerapi"

// timerSet 定时器 ID 集合, 非并发安全, 由 worker 的锁保护
type timerSet map[schedulerapi.TimerID]struct{}

func (s timerSet) add(id schedulerapi.TimerID) {
	s[id] = struct{}{}
}

// remove 删除 ID, 不存在时是空操作
func (s timerSet) remove(id schedulerapi.TimerID) {
	delete(s, id)
}

// drain 清空集合, 对每个 ID 执行 fn, 返回清空的数量
func (s timerSet) drain(fn func(id schedulerapi.TimerID)) int {
	n := len(s)
	for id := range s {
		fn(id)
		delete(s, id)
	}
	return n
}
