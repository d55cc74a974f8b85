package memory

// Owner is the single exclusive holder of a heap object. It is used through
// a pointer and never copied; Take moves the object to a new Owner.
// Release must be called exactly once by the final holder.
type Owner[T any] struct {
	value *T
}

// NewOwner moves v to the heap and returns its owner.
func NewOwner[T any](v T) *Owner[T] {
	p := new(T)
	*p = v
	track()
	return &Owner[T]{value: p}
}

// Get returns the owned object. It panics after Release.
func (o *Owner[T]) Get() *T {
	if o.value == nil {
		panic("memory: owner used after release")
	}
	return o.value
}

// Released reports whether the object has been released or moved out.
func (o *Owner[T]) Released() bool { return o.value == nil }

// Take moves the object into a new Owner, leaving o empty. The live count
// is unchanged.
func (o *Owner[T]) Take() *Owner[T] {
	n := &Owner[T]{value: o.Get()}
	o.value = nil
	return n
}

// Release drops the object. Releasing an empty owner is a no-op.
func (o *Owner[T]) Release() {
	if o.value == nil {
		return
	}
	o.value = nil
	untrack()
}

// NonOwner returns a copyable reference to the owned object.
func (o *Owner[T]) NonOwner() NonOwner[T] {
	return NonOwner[T]{owner: o}
}

// NonOwner is a cheap copyable reference derived from an Owner. It carries no
// lifetime guarantee; Get fails fast once the owner has released.
type NonOwner[T any] struct {
	owner *Owner[T]
}

// Valid reports whether the reference points at a live object.
func (r NonOwner[T]) Valid() bool {
	return r.owner != nil && r.owner.value != nil
}

// Get returns the referenced object. It panics on a zero reference or after
// the owner released.
func (r NonOwner[T]) Get() *T {
	if r.owner == nil {
		panic("memory: nil reference")
	}
	if r.owner.value == nil {
		panic("memory: reference used after owner release")
	}
	return r.owner.value
}
