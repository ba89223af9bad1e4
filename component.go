package kura

import (
	"reflect"
	"unsafe"

	"github.com/rotisserie/eris"
)

// ComponentID is a small, stable identifier for a component type. IDs are
// assigned by a Registry in registration order and never reused.
type ComponentID uint8

// MaxComponentTypes defines the maximum number of unique component types that
// can be registered in a Registry. It matches the width of Mask.
const MaxComponentTypes = 256

// componentInfo is the type-erased operations table for one component type.
// Every other part of the engine works on raw slots through it.
type componentInfo struct {
	typ       reflect.Type
	construct func(dst unsafe.Pointer)
	destruct  func(dst unsafe.Pointer)
	move      func(dst, src unsafe.Pointer)
	swap      func(a, b unsafe.Pointer)
	size      uintptr
	align     uintptr
	id        ComponentID
}

// Registry assigns component IDs and owns their descriptors. A Registry is
// owned by a World, or shared between worlds with WithRegistry so that IDs
// agree across them. Entries are never removed.
type Registry struct {
	byType map[reflect.Type]ComponentID
	infos  []componentInfo
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byType: make(map[reflect.Type]ComponentID, 16),
		infos:  make([]componentInfo, 0, 16),
	}
}

// Len returns the number of registered component types.
func (r *Registry) Len() int {
	return len(r.infos)
}

// Lookup returns the ID registered for t.
func (r *Registry) Lookup(t reflect.Type) (ComponentID, bool) {
	id, ok := r.byType[t]
	return id, ok
}

// Type returns the Go type registered under id. It panics if id is unknown.
func (r *Registry) Type(id ComponentID) reflect.Type {
	return r.info(id).typ
}

// Size returns the byte size of the component registered under id.
func (r *Registry) Size(id ComponentID) uintptr {
	return r.info(id).size
}

// info returns the descriptor for id. Using an unregistered id is a
// programming error and panics.
func (r *Registry) info(id ComponentID) *componentInfo {
	if int(id) >= len(r.infos) {
		panic(eris.Wrapf(ErrUnregisteredComponent, "component id %d", id))
	}
	return &r.infos[id]
}

// registered reports whether id has a descriptor.
func (r *Registry) registered(id ComponentID) bool {
	return int(id) < len(r.infos)
}

// registerComponent assigns an ID to T on first call. Later calls return the
// existing ID and ignore def.
func registerComponent[T any](r *Registry, def *T) ComponentID {
	t := reflect.TypeFor[T]()
	if id, ok := r.byType[t]; ok {
		return id
	}
	if len(r.infos) >= MaxComponentTypes {
		panic(eris.Wrapf(ErrCapacityExceeded, "cannot register %s: maximum is %d", t, MaxComponentTypes))
	}
	if hasPointers(t) {
		panic(eris.Wrapf(ErrPointerComponent, "cannot register %s", t))
	}
	var initial T
	if def != nil {
		initial = *def
	}
	id := ComponentID(len(r.infos))
	r.infos = append(r.infos, componentInfo{
		id:    id,
		typ:   t,
		size:  t.Size(),
		align: uintptr(t.Align()),
		construct: func(dst unsafe.Pointer) {
			*(*T)(dst) = initial
		},
		destruct: func(dst unsafe.Pointer) {
			var zero T
			*(*T)(dst) = zero
		},
		move: func(dst, src unsafe.Pointer) {
			*(*T)(dst) = *(*T)(src)
		},
		swap: func(a, b unsafe.Pointer) {
			pa, pb := (*T)(a), (*T)(b)
			*pa, *pb = *pb, *pa
		},
	})
	r.byType[t] = id
	return id
}

// hasPointers reports whether values of t hold references the garbage
// collector must see. Chunk memory is not scanned, so such types cannot be
// stored in it.
func hasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.Map, reflect.Slice,
		reflect.String, reflect.Interface, reflect.Chan, reflect.Func:
		return true
	case reflect.Array:
		return t.Len() > 0 && hasPointers(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			if hasPointers(t.Field(i).Type) {
				return true
			}
		}
	}
	return false
}

// RegisterComponent registers T with the world's registry and returns its ID.
// If T is already registered, it returns the existing ID.
// It panics if the maximum number of component types is exceeded or if T
// contains Go pointers.
func RegisterComponent[T any](w *World) ComponentID {
	return registerComponent[T](w.registry, nil)
}

// RegisterComponentDefault registers T with def as the value constructed into
// every new slot. The default only applies on first registration.
func RegisterComponentDefault[T any](w *World, def T) ComponentID {
	return registerComponent(w.registry, &def)
}

// ComponentIDOf returns the ID registered for T, if any.
func ComponentIDOf[T any](w *World) (ComponentID, bool) {
	return w.registry.Lookup(reflect.TypeFor[T]())
}
