// Package array implements a growable contiguous buffer whose capacity moves
// only by doubling and halving. It backs the image, instance and draw queue
// collections of a scene.
package array

import (
	"fmt"
	"unsafe"

	"github.com/oliverbestmann/pixl/gfxerr"
)

// Array is a generic growable buffer. Indices handed out by an Array stay
// valid until the next Delete. Pointers obtained with Ref are invalidated by
// any Push that grows the backing storage.
type Array[T any] struct {
	// backing storage, len(data) is the capacity
	data  []T
	count int

	// maximum capacity in elements, zero means unlimited
	limit int
}

// New returns an empty Array with a capacity of one element.
func New[T any]() *Array[T] {
	return &Array[T]{data: make([]T, 1)}
}

// SetLimit caps the capacity the array may grow to. Growing past the limit
// fails with gfxerr.AllocationError.
func (a *Array[T]) SetLimit(limit int) {
	a.limit = limit
}

func (a *Array[T]) Len() int {
	return a.count
}

func (a *Array[T]) Cap() int {
	return len(a.data)
}

// ElementSize returns the size in bytes of one element.
func (a *Array[T]) ElementSize() uintptr {
	var zeroT T
	return unsafe.Sizeof(zeroT)
}

// Push appends item, doubling the capacity first if the array is full.
// On failure the array keeps its previous content and capacity.
func (a *Array[T]) Push(item T) error {
	if a.count == len(a.data) {
		if err := a.resize(len(a.data) * 2); err != nil {
			return err
		}
	}

	a.data[a.count] = item
	a.count++

	return nil
}

func (a *Array[T]) Get(index int) T {
	a.check(index)
	return a.data[index]
}

// Ref returns a pointer to the element at index. The pointer must not be kept
// across a Push.
func (a *Array[T]) Ref(index int) *T {
	a.check(index)
	return &a.data[index]
}

func (a *Array[T]) Set(index int, item T) {
	a.check(index)
	a.data[index] = item
}

// Delete removes the element at index and moves all following elements one
// slot to the left. The capacity halves once the count drops to a quarter
// of it.
func (a *Array[T]) Delete(index int) {
	a.check(index)

	copy(a.data[index:a.count-1], a.data[index+1:a.count])

	// clear the vacated slot so it does not keep references alive
	var zeroT T
	a.data[a.count-1] = zeroT
	a.count--

	if capacity := len(a.data); capacity > 1 && a.count == capacity/4 {
		// shrinking never exceeds the limit and cannot fail
		_ = a.resize(capacity / 2)
	}
}

// DeleteFunc deletes every element for which del returns true. Elements are
// removed back to front, so the capacity follows the same halving steps as
// individual Delete calls.
func (a *Array[T]) DeleteFunc(del func(T) bool) int {
	var deleted int

	for idx := a.count - 1; idx >= 0; idx-- {
		if del(a.data[idx]) {
			a.Delete(idx)
			deleted++
		}
	}

	return deleted
}

// Items returns the live elements. The slice aliases the backing storage and
// is only valid until the array is mutated again.
func (a *Array[T]) Items() []T {
	return a.data[:a.count:a.count]
}

// Free drops the backing storage. The array must not be used afterwards.
func (a *Array[T]) Free() {
	a.data = nil
	a.count = 0
}

func (a *Array[T]) resize(capacity int) error {
	if a.limit > 0 && capacity > a.limit {
		return fmt.Errorf("grow array to %d elements: %w", capacity, gfxerr.Set(gfxerr.AllocationError))
	}

	data := make([]T, capacity)
	copy(data, a.data[:a.count])
	a.data = data

	return nil
}

func (a *Array[T]) check(index int) {
	if index < 0 || index >= a.count {
		panic(fmt.Sprintf("array: index %d out of range [0, %d)", index, a.count))
	}
}
