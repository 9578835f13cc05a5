package virtualclock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestClock_AfterFunc(t *testing.T) {
	c := NewClock(epoch)

	var fired []time.Duration
	record := func() { fired = append(fired, c.Now().Sub(epoch)) }
	c.AfterFunc(30*time.Millisecond, record)
	c.AfterFunc(10*time.Millisecond, record)
	c.AfterFunc(-time.Second, record)
	assert.Equal(t, 3, c.Pending())

	c.Advance(0)
	assert.Equal(t, []time.Duration{0}, fired)

	c.Advance(20 * time.Millisecond)
	assert.Equal(t, []time.Duration{0, 10 * time.Millisecond}, fired)
	assert.Equal(t, epoch.Add(20*time.Millisecond), c.Now())

	c.Advance(time.Second)
	assert.Equal(t, []time.Duration{0, 10 * time.Millisecond, 30 * time.Millisecond}, fired)
	assert.Zero(t, c.Pending())
}

func TestClock_EveryFunc(t *testing.T) {
	c := NewClock(epoch)

	var fired []time.Duration
	id := c.EveryFunc(50*time.Millisecond, func() {
		fired = append(fired, c.Now().Sub(epoch))
	})
	c.Advance(160 * time.Millisecond)
	assert.Equal(t, []time.Duration{50 * time.Millisecond, 100 * time.Millisecond, 150 * time.Millisecond}, fired)

	c.Cancel(id)
	c.Cancel(id)
	c.Advance(time.Second)
	assert.Len(t, fired, 3)
	assert.Zero(t, c.Pending())
}

func TestClock_SameInstantKeepsCreationOrder(t *testing.T) {
	c := NewClock(epoch)

	var order []int
	for i := 0; i < 5; i++ {
		i := i
		c.AfterFunc(10*time.Millisecond, func() { order = append(order, i) })
	}
	c.Advance(10 * time.Millisecond)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestClock_CallbackSchedules(t *testing.T) {
	c := NewClock(epoch)

	var fired []time.Duration
	c.AfterFunc(10*time.Millisecond, func() {
		c.AfterFunc(5*time.Millisecond, func() {
			fired = append(fired, c.Now().Sub(epoch))
		})
	})
	c.Advance(100 * time.Millisecond)
	assert.Equal(t, []time.Duration{15 * time.Millisecond}, fired)
}

func TestClock_PanicRecovered(t *testing.T) {
	c := NewClock(epoch)

	var after bool
	c.AfterFunc(time.Millisecond, func() { panic("test panic") })
	c.AfterFunc(2*time.Millisecond, func() { after = true })
	assert.NotPanics(t, func() {
		c.Advance(10 * time.Millisecond)
	})
	assert.True(t, after)
}

func TestClock_InvalidArguments(t *testing.T) {
	c := NewClock(epoch)
	assert.PanicsWithValue(t, "reactor/clock: nil timer function", func() {
		c.AfterFunc(0, nil)
	})
	assert.PanicsWithValue(t, "reactor/clock: non-positive interval", func() {
		c.EveryFunc(0, func() {})
	})
}
