package scheduler

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Ariaszzzhc/reactor-core-go/scheduler/schedulerapi"
	"github.com/stretchr/testify/assert"
)

// 默认调度器只创建一次
func TestDefault_Singleton(t *testing.T) {
	var wg sync.WaitGroup
	results := make([]schedulerapi.Scheduler, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = Default()
		}(i)
	}
	wg.Wait()

	for _, s := range results {
		assert.Same(t, Default(), s)
	}
	assert.Equal(t, "default", Default().Name())
}

// Schedule 一次性任务
func TestSchedule_Once(t *testing.T) {
	var cnt atomic.Int32
	d := Schedule(func() { cnt.Add(1) }, 10*time.Millisecond)
	assert.NotNil(t, d)
	assert.Eventually(t, func() bool {
		return cnt.Load() == 1
	}, time.Second, 5*time.Millisecond)

	time.Sleep(50 * time.Millisecond)
	assert.EqualValues(t, 1, cnt.Load())
	assert.NotPanics(t, d.Dispose)
}

// Schedule 取消后不执行
func TestSchedule_Dispose(t *testing.T) {
	var cnt atomic.Int32
	d := Schedule(func() { cnt.Add(1) }, 50*time.Millisecond)
	d.Dispose()
	d.Dispose()
	time.Sleep(100 * time.Millisecond)
	assert.Zero(t, cnt.Load())
}

// SchedulePeriodically 周期执行, 取消后停止
func TestSchedulePeriodically(t *testing.T) {
	var cnt atomic.Int32
	d := SchedulePeriodically(func() { cnt.Add(1) }, schedulerapi.ScheduleOptions{
		InitialDelay: 10 * time.Millisecond,
		Period:       20 * time.Millisecond,
	})
	assert.Eventually(t, func() bool {
		return cnt.Load() >= 3
	}, time.Second, 5*time.Millisecond)

	d.Dispose()
	runCount := cnt.Load()
	time.Sleep(80 * time.Millisecond)
	assert.EqualValues(t, runCount, cnt.Load())
}

// CreateWorker 关闭后拒绝任务
func TestCreateWorker(t *testing.T) {
	w := CreateWorker()
	assert.NotEmpty(t, w.ID())

	var cnt atomic.Int32
	w.Schedule(func() { cnt.Add(1) }, 30*time.Millisecond)
	w.Shutdown()
	assert.True(t, w.IsShutdown())

	d := w.Schedule(func() { cnt.Add(1) }, 0)
	assert.True(t, schedulerapi.IsRejected(d))
	time.Sleep(80 * time.Millisecond)
	assert.Zero(t, cnt.Load())
}

// Now 单调不减
func TestNow(t *testing.T) {
	before := time.Now().UnixMilli()
	first := Now()
	second := Now()
	assert.GreaterOrEqual(t, first, before)
	assert.GreaterOrEqual(t, second, first)
}
