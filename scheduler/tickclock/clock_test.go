package tickclock

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestClock 测试时钟的生命周期
func TestClock(t *testing.T) {
	t.Run("New Clock", func(t *testing.T) {
		c := NewClock("test-clock", 5*time.Millisecond)
		assert.Equal(t, "test-clock", c.name)
		assert.Equal(t, StateCreated, c.State())

		c.Start()
		defer c.Close()
		assert.Equal(t, StateRunning, c.State())
	})

	t.Run("Invalid Tick", func(t *testing.T) {
		assert.PanicsWithValue(t, "reactor/clock: non-positive tick", func() {
			NewClock("test", 0)
		})
	})

	t.Run("Close Clock", func(t *testing.T) {
		c := NewClock("test", 5*time.Millisecond)
		c.Close()
		assert.Equal(t, StateCreated, c.State())

		c.Start()
		c.Start()
		assert.Equal(t, StateRunning, c.State())

		c.Close()
		assert.Equal(t, StateClosed, c.State())

		// 重复关闭应该安全
		c.Close()
		assert.Equal(t, StateClosed, c.State())
	})

	t.Run("Close Drops Timers", func(t *testing.T) {
		c := NewClock("test", 5*time.Millisecond)
		c.Start()

		var cnt atomic.Int32
		c.AfterFunc(100*time.Millisecond, func() { cnt.Add(1) })
		c.Close()
		assert.Eventually(t, func() bool {
			return c.Len() == 0
		}, time.Second, 5*time.Millisecond)

		time.Sleep(150 * time.Millisecond)
		assert.Zero(t, cnt.Load())
	})
}

// TestClock_Timers 测试定时器
func TestClock_Timers(t *testing.T) {
	c := NewClock("test", 5*time.Millisecond)
	c.Start()
	defer c.Close()

	t.Run("AfterFunc", func(t *testing.T) {
		var cnt atomic.Int32
		id := c.AfterFunc(20*time.Millisecond, func() { cnt.Add(1) })
		assert.Greater(t, int64(id), int64(0))

		assert.Eventually(t, func() bool {
			return cnt.Load() == 1
		}, time.Second, 5*time.Millisecond)

		time.Sleep(50 * time.Millisecond)
		assert.EqualValues(t, 1, cnt.Load())
	})

	t.Run("AfterFunc Non-positive Delay", func(t *testing.T) {
		var cnt atomic.Int32
		c.AfterFunc(0, func() { cnt.Add(1) })
		c.AfterFunc(-time.Second, func() { cnt.Add(1) })

		assert.Eventually(t, func() bool {
			return cnt.Load() == 2
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("EveryFunc", func(t *testing.T) {
		var cnt atomic.Int32
		id := c.EveryFunc(10*time.Millisecond, func() { cnt.Add(1) })

		assert.Eventually(t, func() bool {
			return cnt.Load() >= 3
		}, time.Second, 5*time.Millisecond)

		c.Cancel(id)
		runCount := cnt.Load()
		time.Sleep(50 * time.Millisecond)
		assert.EqualValues(t, runCount, cnt.Load())
	})

	t.Run("Cancel Before Fire", func(t *testing.T) {
		var cnt atomic.Int32
		id := c.AfterFunc(30*time.Millisecond, func() { cnt.Add(1) })
		c.Cancel(id)
		c.Cancel(id)
		c.Cancel(0)

		time.Sleep(80 * time.Millisecond)
		assert.Zero(t, cnt.Load())
	})

	t.Run("Released After Fire", func(t *testing.T) {
		var cnt atomic.Int32
		c.AfterFunc(0, func() { cnt.Add(1) })
		assert.Eventually(t, func() bool {
			return cnt.Load() == 1 && c.Len() == 0
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("Panic Callback", func(t *testing.T) {
		var executed atomic.Bool
		c.AfterFunc(0, func() {
			executed.Store(true)
			panic("test panic")
		})
		assert.Eventually(t, func() bool {
			return executed.Load()
		}, time.Second, 5*time.Millisecond)

		// 时钟应该仍然可以处理新定时器
		var after atomic.Bool
		c.AfterFunc(0, func() { after.Store(true) })
		assert.Eventually(t, func() bool {
			return after.Load()
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("Schedule From Callback", func(t *testing.T) {
		var cnt atomic.Int32
		c.AfterFunc(0, func() {
			c.AfterFunc(0, func() { cnt.Add(1) })
		})
		assert.Eventually(t, func() bool {
			return cnt.Load() == 1
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("Invalid Arguments", func(t *testing.T) {
		assert.PanicsWithValue(t, "reactor/clock: nil timer function", func() {
			c.AfterFunc(time.Second, nil)
		})
		assert.PanicsWithValue(t, "reactor/clock: non-positive interval", func() {
			c.EveryFunc(0, func() {})
		})
	})
}

// TestTimer_Exec 测试定时器的触发逻辑
func TestTimer_Exec(t *testing.T) {
	c := NewClock("test", time.Second)

	t.Run("Fixed Rate", func(t *testing.T) {
		var cnt atomic.Int32
		tm := newTimer(1, 50*time.Millisecond, func() { cnt.Add(1) })
		start := tm.when

		// 未到期不执行
		tm.exec(c, start-1)
		assert.Zero(t, cnt.Load())

		// 到期执行, 下一次触发时间只依赖上一次的目标时间
		tm.exec(c, start+int64(30*time.Millisecond))
		assert.EqualValues(t, 1, cnt.Load())
		assert.Equal(t, start+int64(50*time.Millisecond), tm.when)
		assert.False(t, tm.stopped())
	})

	t.Run("Once", func(t *testing.T) {
		var cnt atomic.Int32
		tm := newAfterTimer(2, 0, func() { cnt.Add(1) })
		tm.exec(c, tm.when)
		tm.exec(c, tm.when+1)
		assert.EqualValues(t, 1, cnt.Load())
		assert.True(t, tm.stopped())
	})

	t.Run("Stopped", func(t *testing.T) {
		var cnt atomic.Int32
		tm := newTimer(3, time.Millisecond, func() { cnt.Add(1) })
		tm.stop()
		tm.stop()
		tm.exec(c, tm.when)
		assert.Zero(t, cnt.Load())
	})
}
