package kura

import "github.com/rotisserie/eris"

var (
	// ErrStaleHandle is returned when an entity's generation no longer matches
	// the table, i.e. it was released and its index may have been reused.
	ErrStaleHandle = eris.New("stale entity handle")
	// ErrStaleLocation is returned by cached component references whose entity
	// is still alive but has physically moved since the reference was taken.
	ErrStaleLocation = eris.New("stale entity location")
	// ErrUnregisteredComponent marks use of a component id that was never registered.
	ErrUnregisteredComponent = eris.New("component not registered")
	// ErrCapacityExceeded marks registration beyond MaxComponentTypes.
	ErrCapacityExceeded = eris.New("component type capacity exceeded")
	// ErrPointerComponent marks a component type holding Go pointers.
	ErrPointerComponent = eris.New("component type contains pointers")
	// ErrComponentExists is returned when adding a component the entity already has.
	ErrComponentExists = eris.New("component already exists on entity")
	// ErrComponentNotFound is returned when removing or reading a component the
	// entity does not have.
	ErrComponentNotFound = eris.New("component does not exist on entity")
	// ErrNoComponents is returned by Add and Remove calls that name no component,
	// since they would leave the component set unchanged.
	ErrNoComponents = eris.New("no components given")
	// ErrRowTooLarge is returned when a component set does not fit in one chunk.
	ErrRowTooLarge = eris.New("component set exceeds chunk size")
	// ErrWorldLocked is returned by structural changes made while a view iterates.
	ErrWorldLocked = eris.New("world is locked by a running view")
)
