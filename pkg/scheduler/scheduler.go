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

// Package scheduler drives the whole machine on simulated time. Every chip
// is a plain state container; work happens only when the queue delivers a
// message to it. Time never advances by sleeping, only by dispatching the
// earliest queued message and jumping the clock to its instant.
package scheduler

import (
	"container/heap"
	"time"
)

// event is one deferred message. seq breaks ties so that two events queued
// for the same instant run in enqueue order.
type event struct {
	instant time.Duration
	seq     uint64
	fn      func()
}

type eventHeap []*event

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	if h[i].instant != h[j].instant {
		return h[i].instant < h[j].instant
	}
	return h[i].seq < h[j].seq
}

func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x interface{}) {
	*h = append(*h, x.(*event))
}

func (h *eventHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

// Scheduler is a single-threaded priority queue of deferred messages keyed
// by virtual time. Handlers run one at a time and may enqueue new messages,
// including self-messages at future instants.
type Scheduler struct {
	now      time.Duration
	seq      uint64
	queue    eventHeap
	shutdown bool
}

// New creates a scheduler with the virtual clock at zero
func New() *Scheduler {
	s := &Scheduler{}
	heap.Init(&s.queue)
	return s
}

// Now returns the virtual time elapsed since power-on
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// At enqueues fn to run at the given virtual instant. Instants in the past
// are clamped to now.
func (s *Scheduler) At(instant time.Duration, fn func()) {
	if instant < s.now {
		instant = s.now
	}
	s.seq++
	heap.Push(&s.queue, &event{instant: instant, seq: s.seq, fn: fn})
}

// After enqueues fn to run delay after the current virtual instant
func (s *Scheduler) After(delay time.Duration, fn func()) {
	s.At(s.now+delay, fn)
}

// Call enqueues fn at the current instant, behind anything already queued
// for this instant
func (s *Scheduler) Call(fn func()) {
	s.At(s.now, fn)
}

// Next dispatches the earliest queued message, advancing the virtual clock
// to its instant. It reports false once the queue is empty or the scheduler
// was shut down.
func (s *Scheduler) Next() bool {
	if s.shutdown || s.queue.Len() == 0 {
		return false
	}
	e := heap.Pop(&s.queue).(*event)
	s.now = e.instant
	e.fn()
	return true
}

// Run dispatches messages until the queue drains or Shutdown is called
func (s *Scheduler) Run() {
	for s.Next() {
	}
}

// Shutdown makes Run return after the current handler
func (s *Scheduler) Shutdown() {
	s.shutdown = true
}

// Pending returns the number of queued messages
func (s *Scheduler) Pending() int {
	return s.queue.Len()
}
