package kura

import "github.com/rotisserie/eris"

// ComponentRef caches a pointer to one entity's component together with the
// location it was taken at. Get hands the pointer out only while the entity
// is alive and has not moved, so a cached reference can never read another
// entity's data after a swap-remove.
type ComponentRef[T any] struct {
	w   *World
	ptr *T
	ref Ref
}

// NewComponentRef pins e's component T.
func NewComponentRef[T any](w *World, e Entity) (ComponentRef[T], error) {
	ptr, err := GetComponent[T](w, e)
	if err != nil {
		return ComponentRef[T]{}, err
	}
	ref, err := w.Ref(e)
	if err != nil {
		return ComponentRef[T]{}, err
	}
	return ComponentRef[T]{w: w, ptr: ptr, ref: ref}, nil
}

// Entity returns the referenced entity.
func (c ComponentRef[T]) Entity() Entity {
	return c.ref.Entity
}

// Valid reports the two validity bits of the reference.
func (c ComponentRef[T]) Valid() (generationOK, locationOK bool) {
	return c.w.Check(c.ref)
}

// Get returns the cached pointer. It fails with ErrStaleHandle once the
// entity is released and with ErrStaleLocation once its row moved.
func (c ComponentRef[T]) Get() (*T, error) {
	generationOK, locationOK := c.w.Check(c.ref)
	if !generationOK {
		return nil, eris.Wrapf(ErrStaleHandle, "entity %v", c.ref.Entity)
	}
	if !locationOK {
		return nil, eris.Wrapf(ErrStaleLocation, "entity %v", c.ref.Entity)
	}
	return c.ptr, nil
}

// Refresh re-pins the component at the entity's current location.
func (c ComponentRef[T]) Refresh() (ComponentRef[T], error) {
	return NewComponentRef[T](c.w, c.ref.Entity)
}
