package memory

// StringMap is a string-keyed map with explicit release. Keys iterate in
// insertion order.
type StringMap[V any] struct {
	items    map[string]V
	keys     []string
	released bool
}

func NewStringMap[V any](capacity int) *StringMap[V] {
	track()
	return &StringMap[V]{
		items: make(map[string]V, capacity),
		keys:  make([]string, 0, capacity),
	}
}

func (m *StringMap[V]) check() {
	if m.released {
		panic("memory: string map used after release")
	}
}

// Put stores v under key, replacing any previous value.
func (m *StringMap[V]) Put(key string, v V) {
	m.check()
	if _, ok := m.items[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.items[key] = v
}

// Get looks up key.
func (m *StringMap[V]) Get(key string) (V, bool) {
	m.check()
	v, ok := m.items[key]
	return v, ok
}

func (m *StringMap[V]) Len() int { return len(m.items) }

// Keys returns the keys in insertion order.
func (m *StringMap[V]) Keys() []string {
	m.check()
	return m.keys
}

// Release drops all entries. Releasing twice is a no-op.
func (m *StringMap[V]) Release() {
	if m.released {
		return
	}
	m.items = nil
	m.keys = nil
	m.released = true
	untrack()
}
