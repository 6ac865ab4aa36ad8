// Package pool provides a generation-checked arena. Values live behind
// Handles that pair a slot index with a generation counter, so a Handle to
// a freed slot never resolves to whatever occupies that slot later.
package pool

import (
	"fmt"
	"iter"
)

// Handle identifies a value stored in a Pool. The zero Handle is "none" and
// never resolves.
type Handle[T any] struct {
	index      uint32
	generation uint32
}

// None returns the handle that never resolves.
func None[T any]() Handle[T] {
	return Handle[T]{}
}

// NewHandle builds a handle from raw parts. Intended for persistence and
// tests; a fabricated handle resolves only if it matches a live slot.
func NewHandle[T any](index, generation uint32) Handle[T] {
	return Handle[T]{index: index, generation: generation}
}

// IsNone reports whether h is the none handle.
func (h Handle[T]) IsNone() bool { return h.generation == 0 }

// IsSome reports whether h could refer to a value.
func (h Handle[T]) IsSome() bool { return h.generation != 0 }

// Index returns the slot index.
func (h Handle[T]) Index() uint32 { return h.index }

// Generation returns the generation the handle was issued with.
func (h Handle[T]) Generation() uint32 { return h.generation }

func (h Handle[T]) String() string {
	if h.IsNone() {
		return "[none]"
	}
	return fmt.Sprintf("[%d:%d]", h.index, h.generation)
}

type slot[T any] struct {
	generation uint32
	value      *T
}

// Pool owns values of type T. The zero Pool is ready to use. A Pool is not
// safe for concurrent use.
type Pool[T any] struct {
	slots []slot[T]
	free  []uint32
	alive int
}

// Spawn stores v and returns its handle. Freed slots are reused with the
// generation that was bumped when they were freed.
func (p *Pool[T]) Spawn(v *T) Handle[T] {
	if v == nil {
		panic("pool: cannot spawn nil value")
	}
	p.alive++
	if n := len(p.free); n > 0 {
		index := p.free[n-1]
		p.free = p.free[:n-1]
		s := &p.slots[index]
		s.value = v
		return Handle[T]{index: index, generation: s.generation}
	}
	p.slots = append(p.slots, slot[T]{generation: 1, value: v})
	return Handle[T]{index: uint32(len(p.slots) - 1), generation: 1}
}

// Get returns the value behind h, or false for a none, stale or
// out-of-range handle.
func (p *Pool[T]) Get(h Handle[T]) (*T, bool) {
	if h.generation == 0 || int(h.index) >= len(p.slots) {
		return nil, false
	}
	s := &p.slots[h.index]
	if s.value == nil || s.generation != h.generation {
		return nil, false
	}
	return s.value, true
}

// IsValid reports whether h currently resolves.
func (p *Pool[T]) IsValid(h Handle[T]) bool {
	_, ok := p.Get(h)
	return ok
}

// Free removes the value behind h and returns it. The slot's generation is
// bumped so h and every copy of it go stale.
func (p *Pool[T]) Free(h Handle[T]) (*T, bool) {
	v, ok := p.Get(h)
	if !ok {
		return nil, false
	}
	s := &p.slots[h.index]
	s.value = nil
	s.generation++
	if s.generation == 0 {
		// Wrapped; zero is reserved for the none handle.
		s.generation = 1
	}
	p.free = append(p.free, h.index)
	p.alive--
	return v, true
}

// Len returns the number of live values.
func (p *Pool[T]) Len() int { return p.alive }

// Cap returns the number of slots, live or free.
func (p *Pool[T]) Cap() int { return len(p.slots) }

// All iterates over live values in slot order.
func (p *Pool[T]) All() iter.Seq2[Handle[T], *T] {
	return func(yield func(Handle[T], *T) bool) {
		for i := range p.slots {
			s := &p.slots[i]
			if s.value == nil {
				continue
			}
			if !yield(Handle[T]{index: uint32(i), generation: s.generation}, s.value) {
				return
			}
		}
	}
}

// Clear frees every value. Outstanding handles go stale.
func (p *Pool[T]) Clear() {
	for i := range p.slots {
		s := &p.slots[i]
		if s.value == nil {
			continue
		}
		s.value = nil
		s.generation++
		if s.generation == 0 {
			s.generation = 1
		}
		p.free = append(p.free, uint32(i))
	}
	p.alive = 0
}
