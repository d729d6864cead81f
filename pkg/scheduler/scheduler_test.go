// Copyright © 2020 mg
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerOrdersByInstant(t *testing.T) {
	s := New()
	var order []int
	s.At(300*time.Nanosecond, func() { order = append(order, 3) })
	s.At(100*time.Nanosecond, func() { order = append(order, 1) })
	s.At(200*time.Nanosecond, func() { order = append(order, 2) })
	s.Run()
	assert.Equal(t, []int{1, 2, 3}, order)
	assert.Equal(t, 300*time.Nanosecond, s.Now())
}

func TestSchedulerFIFOAtEqualInstants(t *testing.T) {
	s := New()
	var order []int
	for i := 0; i < 10; i++ {
		i := i
		s.At(time.Microsecond, func() { order = append(order, i) })
	}
	s.Run()
	require.Len(t, order, 10)
	for i, v := range order {
		assert.Equal(t, i, v)
	}
}

func TestSchedulerAdvancesVirtualTime(t *testing.T) {
	s := New()
	var seen []time.Duration
	s.After(time.Millisecond, func() {
		seen = append(seen, s.Now())
		s.After(time.Millisecond, func() {
			seen = append(seen, s.Now())
		})
	})
	s.Run()
	assert.Equal(t, []time.Duration{time.Millisecond, 2 * time.Millisecond}, seen)
}

func TestSchedulerCallRunsBeforeLaterEvents(t *testing.T) {
	s := New()
	var order []string
	s.After(time.Microsecond, func() { order = append(order, "later") })
	s.Call(func() { order = append(order, "now") })
	s.Run()
	assert.Equal(t, []string{"now", "later"}, order)
}

func TestSchedulerPastInstantClampsToNow(t *testing.T) {
	s := New()
	var ran bool
	s.After(time.Microsecond, func() {
		s.At(0, func() { ran = true })
	})
	s.Run()
	assert.True(t, ran)
	assert.Equal(t, time.Microsecond, s.Now())
}

func TestSchedulerShutdown(t *testing.T) {
	s := New()
	count := 0
	var tick func()
	tick = func() {
		count++
		if count == 3 {
			s.Shutdown()
		}
		s.After(time.Microsecond, tick)
	}
	s.Call(tick)
	s.Run()
	assert.Equal(t, 3, count)
	assert.NotZero(t, s.Pending())
}
