package ecs

// Each2 iterates over entities that have both component A and B, in the
// iteration order of sa.
func Each2[A, B any](sa *Store[A], sb *Store[B], fn func(EntityID, *A, *B)) {
	for i, id := range sa.ids {
		if j, ok := sb.index[id]; ok {
			fn(id, sa.items[i], sb.items[j])
		}
	}
}

// Inherited returns id's own component, or the nearest one found by walking
// its base chain through live template entities.
func Inherited[T any](s *Store[T], w *World, id EntityID) (*T, bool) {
	for hops := 0; w.Alive(id); hops++ {
		if c, ok := s.Get(id); ok {
			return c, true
		}
		base, ok := w.Base(id)
		if !ok || hops > maxBaseDepth {
			return nil, false
		}
		id = base
	}
	return nil, false
}

const maxBaseDepth = 64
