package ecs

// Removable is implemented by all component stores so the Registry can
// bulk-remove an entity's data from every store on destroy.
type Removable interface {
	Remove(id EntityID)
}

// Store is a generic typed component store. Components are heap pointers,
// so a *T stays valid while other entities are added or removed.
// Iteration follows a dense id list and is deterministic for a given
// sequence of adds and removes.
type Store[T any] struct {
	index   map[EntityID]int
	ids     []EntityID
	items   []*T
	version uint64
}

func NewStore[T any]() *Store[T] {
	return &Store[T]{
		index: make(map[EntityID]int, 256),
		ids:   make([]EntityID, 0, 256),
		items: make([]*T, 0, 256),
	}
}

// Set attaches c to id, replacing any previous component.
func (s *Store[T]) Set(id EntityID, c *T) {
	if i, ok := s.index[id]; ok {
		s.items[i] = c
		return
	}
	s.index[id] = len(s.ids)
	s.ids = append(s.ids, id)
	s.items = append(s.items, c)
	s.version++
}

// Add attaches a copy of v and returns the stored pointer.
func (s *Store[T]) Add(id EntityID, v T) *T {
	c := new(T)
	*c = v
	s.Set(id, c)
	return c
}

func (s *Store[T]) Get(id EntityID) (*T, bool) {
	i, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return s.items[i], true
}

func (s *Store[T]) Remove(id EntityID) {
	i, ok := s.index[id]
	if !ok {
		return
	}
	last := len(s.ids) - 1
	if i != last {
		s.ids[i] = s.ids[last]
		s.items[i] = s.items[last]
		s.index[s.ids[i]] = i
	}
	s.items[last] = nil
	s.ids = s.ids[:last]
	s.items = s.items[:last]
	delete(s.index, id)
	s.version++
}

func (s *Store[T]) Has(id EntityID) bool {
	_, ok := s.index[id]
	return ok
}

func (s *Store[T]) Len() int {
	return len(s.ids)
}

// IDs returns the ids holding a component. The slice aliases the store.
func (s *Store[T]) IDs() []EntityID {
	return s.ids
}

// Version changes whenever the set of ids changes.
func (s *Store[T]) Version() uint64 {
	return s.version
}

func (s *Store[T]) Each(fn func(EntityID, *T)) {
	for i, id := range s.ids {
		fn(id, s.items[i])
	}
}
