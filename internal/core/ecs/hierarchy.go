package ecs

import (
	"errors"
	"sort"
)

var (
	ErrNotAlive = errors.New("ecs: entity not alive")
	ErrCycle    = errors.New("ecs: relationship cycle")
)

// link holds an entity's relationships. depth is 0 for roots and for
// entities whose parent has died, parent depth + 1 otherwise; it is kept
// current on every reparent and destroy so ordering never needs a walk.
type link struct {
	parent   EntityID
	base     EntityID
	depth    int
	children []EntityID
}

func (w *World) linkOf(id EntityID) *link {
	l, ok := w.links[id]
	if !ok {
		l = &link{}
		w.links[id] = l
	}
	return l
}

// SetParent makes parent the parent of child. A zero parent detaches child
// and makes it a root.
func (w *World) SetParent(child, parent EntityID) error {
	if !w.Alive(child) {
		return ErrNotAlive
	}
	if !parent.IsZero() {
		if !w.Alive(parent) {
			return ErrNotAlive
		}
		if parent == child || w.isAncestor(child, parent) {
			return ErrCycle
		}
	}
	l := w.linkOf(child)
	if l.parent == parent {
		return nil
	}
	w.detach(child, l)
	l.parent = parent
	depth := 0
	if !parent.IsZero() {
		pl := w.linkOf(parent)
		pl.children = append(pl.children, child)
		depth = pl.depth + 1
	}
	w.setDepth(child, depth)
	w.version++
	return nil
}

// Parent returns the parent recorded for id. The parent may have died since;
// callers check Alive before using it.
func (w *World) Parent(id EntityID) (EntityID, bool) {
	l, ok := w.links[id]
	if !ok || l.parent.IsZero() {
		return NoEntity, false
	}
	return l.parent, true
}

// Children returns the live children of id in attach order.
func (w *World) Children(id EntityID) []EntityID {
	if l, ok := w.links[id]; ok {
		return l.children
	}
	return nil
}

// Depth returns the number of live ancestors of id.
func (w *World) Depth(id EntityID) int {
	if l, ok := w.links[id]; ok {
		return l.depth
	}
	return 0
}

// Cascade sorts ids in place so that every parent precedes its children.
// Entities of equal depth keep their relative order.
func (w *World) Cascade(ids []EntityID) {
	sort.SliceStable(ids, func(i, j int) bool {
		return w.Depth(ids[i]) < w.Depth(ids[j])
	})
}

// SetBase makes id inherit components it lacks from base (see Inherited).
func (w *World) SetBase(id, base EntityID) error {
	if !w.Alive(id) || !w.Alive(base) {
		return ErrNotAlive
	}
	for b := base; !b.IsZero(); {
		if b == id {
			return ErrCycle
		}
		bl, ok := w.links[b]
		if !ok {
			break
		}
		b = bl.base
	}
	w.linkOf(id).base = base
	return nil
}

// Base returns the template id inherits from, if any.
func (w *World) Base(id EntityID) (EntityID, bool) {
	l, ok := w.links[id]
	if !ok || l.base.IsZero() {
		return NoEntity, false
	}
	return l.base, true
}

// isAncestor reports whether a is a live ancestor of id.
func (w *World) isAncestor(a, id EntityID) bool {
	for {
		l, ok := w.links[id]
		if !ok || l.parent.IsZero() || !w.Alive(l.parent) {
			return false
		}
		if l.parent == a {
			return true
		}
		id = l.parent
	}
}

func (w *World) detach(id EntityID, l *link) {
	if l.parent.IsZero() {
		return
	}
	pl, ok := w.links[l.parent]
	if !ok {
		return
	}
	for i, c := range pl.children {
		if c == id {
			pl.children = append(pl.children[:i], pl.children[i+1:]...)
			break
		}
	}
}

func (w *World) setDepth(id EntityID, depth int) {
	l := w.linkOf(id)
	l.depth = depth
	for _, c := range l.children {
		w.setDepth(c, depth+1)
	}
}

// unlink drops id from the hierarchy ahead of its destruction. Children are
// orphaned in place: they keep the dead parent id and become depth-zero
// roots.
func (w *World) unlink(id EntityID) {
	l, ok := w.links[id]
	if !ok {
		return
	}
	w.detach(id, l)
	children := l.children
	l.children = nil
	for _, c := range children {
		w.setDepth(c, 0)
	}
	delete(w.links, id)
}
