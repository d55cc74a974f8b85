package memory

import "unsafe"

// Array is a growable buffer with explicit release. The zero value is not
// usable; create one with NewArray.
type Array[T any] struct {
	items    []T
	released bool
}

// NewArray returns an empty array with room for capacity elements.
func NewArray[T any](capacity int) *Array[T] {
	track()
	return &Array[T]{items: make([]T, 0, growCap[T](capacity))}
}

func (a *Array[T]) check() {
	if a.released {
		panic("memory: array used after release")
	}
}

// Len returns the number of elements.
func (a *Array[T]) Len() int { return len(a.items) }

// Push appends v, growing the backing store when full.
func (a *Array[T]) Push(v T) {
	a.check()
	if len(a.items) == cap(a.items) {
		a.reserve(len(a.items) + 1)
	}
	a.items = append(a.items, v)
}

// SetLen resizes the array. New elements are zeroed.
func (a *Array[T]) SetLen(n int) {
	a.check()
	if n > cap(a.items) {
		a.reserve(n)
	}
	old := len(a.items)
	a.items = a.items[:n]
	if n > old {
		clear(a.items[old:])
	}
}

func (a *Array[T]) reserve(want int) {
	newCap := max(2*cap(a.items), want)
	ns := make([]T, len(a.items), growCap[T](newCap))
	copy(ns, a.items)
	a.items = ns
}

// At returns element i. It panics when i is out of range.
func (a *Array[T]) At(i int) T {
	a.check()
	return a.items[i]
}

// Ptr returns a pointer to element i, valid until the next growth.
func (a *Array[T]) Ptr(i int) *T {
	a.check()
	return &a.items[i]
}

// Set overwrites element i.
func (a *Array[T]) Set(i int, v T) {
	a.check()
	a.items[i] = v
}

// Slice returns the live elements. The slice aliases the backing store.
func (a *Array[T]) Slice() []T {
	a.check()
	return a.items
}

// Bytes returns the raw bytes of the live elements without copying. T must
// not contain pointers.
func (a *Array[T]) Bytes() []byte {
	a.check()
	if len(a.items) == 0 {
		return nil
	}
	size := int(unsafe.Sizeof(a.items[0]))
	return unsafe.Slice((*byte)(unsafe.Pointer(&a.items[0])), len(a.items)*size)
}

// Release drops the backing store. Releasing twice is a no-op.
func (a *Array[T]) Release() {
	if a.released {
		return
	}
	a.items = nil
	a.released = true
	untrack()
}
