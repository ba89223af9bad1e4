package kura

import "github.com/rotisserie/eris"

// AddComponent registers T if needed, attaches it to e with its default
// value and returns a pointer to it. The pointer is valid until the next
// structural change; use ComponentRef to hold on to it longer.
func AddComponent[T any](w *World, e Entity) (*T, error) {
	id := RegisterComponent[T](w)
	if err := w.Add(e, id); err != nil {
		return nil, err
	}
	return GetComponent[T](w, e)
}

// SetComponent writes val into e's component T, attaching T first if e does
// not have it.
func SetComponent[T any](w *World, e Entity, val T) error {
	id := RegisterComponent[T](w)
	has, err := w.Has(e, id)
	if err != nil {
		return err
	}
	if !has {
		if err := w.Add(e, id); err != nil {
			return err
		}
	}
	r, s, err := w.get(e, id)
	if err != nil {
		return err
	}
	*(*T)(r.arch.ptr(s, r.row)) = val
	r.arch.touch(r.row, s, w.version)
	return nil
}

// GetComponent returns a pointer to e's component T. Reads through it do not
// mark the component as changed.
func GetComponent[T any](w *World, e Entity) (*T, error) {
	id, ok := ComponentIDOf[T](w)
	if !ok {
		if !w.Alive(e) {
			return nil, eris.Wrapf(ErrStaleHandle, "entity %v", e)
		}
		return nil, eris.Wrapf(ErrComponentNotFound, "entity %v has no %T", e, *new(T))
	}
	r, s, err := w.get(e, id)
	if err != nil {
		return nil, err
	}
	return (*T)(r.arch.ptr(s, r.row)), nil
}

// RemoveComponent detaches T from e.
func RemoveComponent[T any](w *World, e Entity) error {
	id, ok := ComponentIDOf[T](w)
	if !ok {
		if !w.Alive(e) {
			return eris.Wrapf(ErrStaleHandle, "entity %v", e)
		}
		return eris.Wrapf(ErrComponentNotFound, "entity %v has no %T", e, *new(T))
	}
	return w.Remove(e, id)
}

// HasComponent reports whether e is alive and has T.
func HasComponent[T any](w *World, e Entity) bool {
	id, ok := ComponentIDOf[T](w)
	if !ok {
		return false
	}
	has, err := w.Has(e, id)
	return err == nil && has
}
