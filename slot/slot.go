// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package slot provides a single-item, overwrite-on-write mailbox used to hand
// the most recent value from a producer goroutine to a render goroutine.
//
// A Slot never queues: a Store replaces whatever was there, and a value that
// was replaced before anyone took it is counted as a drop. The mutex is held
// only for the copy of the value itself, never across conversion or paint.
package slot

import (
	"sync"
	"sync/atomic"
)

// Slot holds at most one value of type T plus a fresh flag.
//
// The zero value is an empty Slot ready for use. Store is meant for a single
// producer; Take, Peek and Fresh may be called from any goroutine.
type Slot[T any] struct {
	mu    sync.Mutex
	val   T
	has   bool
	fresh bool

	stores atomic.Uint64
	drops  atomic.Uint64

	readyOnce sync.Once
	ready     chan struct{}
}

func (s *Slot[T]) readyCh() chan struct{} {
	s.readyOnce.Do(func() {
		s.ready = make(chan struct{}, 1)
	})
	return s.ready
}

// Store replaces the held value and marks it fresh.
// If the previous value was still fresh it is counted as dropped.
func (s *Slot[T]) Store(v T) {
	s.mu.Lock()
	if s.fresh {
		s.drops.Add(1)
	}
	s.val = v
	s.has = true
	s.fresh = true
	s.mu.Unlock()

	s.stores.Add(1)
	select {
	case s.readyCh() <- struct{}{}:
	default:
	}
}

// Take returns the held value and clears the fresh flag.
// It returns the zero value and false when nothing new was stored since the
// last Take.
func (s *Slot[T]) Take() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.fresh {
		var zero T
		return zero, false
	}
	s.fresh = false
	return s.val, true
}

// Peek returns the most recently stored value without touching the fresh
// flag. The boolean is false only if nothing was ever stored or the slot was
// cleared.
func (s *Slot[T]) Peek() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.val, s.has
}

// Fresh reports whether a value was stored since the last Take.
func (s *Slot[T]) Fresh() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fresh
}

// Clear empties the slot. Counters are kept.
func (s *Slot[T]) Clear() {
	s.mu.Lock()
	var zero T
	s.val = zero
	s.has = false
	s.fresh = false
	s.mu.Unlock()
}

// Ready returns a channel that receives after a Store. Notifications
// coalesce: several stores before a receive produce one signal.
func (s *Slot[T]) Ready() <-chan struct{} {
	return s.readyCh()
}

// Stores returns the total number of Store calls.
func (s *Slot[T]) Stores() uint64 {
	return s.stores.Load()
}

// Drops returns how many stored values were overwritten before being taken.
func (s *Slot[T]) Drops() uint64 {
	return s.drops.Load()
}
