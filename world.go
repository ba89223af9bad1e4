package kura

import (
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// World owns every archetype, the entity table, the component registry and
// the chunk allocator. It is not safe for concurrent mutation: structural
// changes must be serialized by the caller, while read-only views may run in
// parallel as long as no structural change is in flight.
type World struct {
	registry    *Registry
	chunks      *ChunkAllocator
	byMask      map[Mask]*archetype
	empty       *archetype
	events      *EventBus
	metrics     *metrics
	id          string
	archetypes  []*archetype
	entities    entityTable
	logger      zerolog.Logger
	settings    settings
	viewVersion uint32 // bumped whenever a new archetype is created
	version     uint32 // change version stamped on written chunks
	locks       atomic.Int32 // running Each* calls; read-only views may run in parallel
}

// Location is where an entity's row currently lives.
type Location struct {
	Archetype int // position of the archetype in creation order
	Row       int
}

// NewWorld creates a World with only the empty archetype.
func NewWorld(opts ...Option) *World {
	w := &World{
		id:       uuid.NewString(),
		byMask:   make(map[Mask]*archetype),
		events:   &EventBus{},
		logger:   zerolog.Nop(),
		settings: defaultSettings(),
		version:  1,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.registry == nil {
		w.registry = NewRegistry()
	}
	w.logger = w.logger.With().Str("world_id", w.id).Logger()
	tags := append([]string{"world:" + w.id}, w.settings.statsdTags...)
	w.metrics = newMetrics(w.settings.statsd, w.logger, tags)
	w.chunks = NewChunkAllocator()
	w.chunks.logger = w.logger
	w.chunks.metrics = w.metrics
	w.chunks.Reserve(w.settings.chunkPool)
	w.entities = newEntityTable(w.settings.initialCapacity)
	w.archetypes = make([]*archetype, 0, 16)

	empty, err := w.archetypeFor(Mask{})
	if err != nil {
		panic(err)
	}
	w.empty = empty
	return w
}

// ID returns the world's unique identifier.
func (w *World) ID() string {
	return w.id
}

// Registry returns the component registry used by the world.
func (w *World) Registry() *Registry {
	return w.registry
}

// Events returns the bus the world publishes lifecycle events on.
func (w *World) Events() *EventBus {
	return w.events
}

// Len returns the number of alive entities.
func (w *World) Len() int {
	return w.entities.alive
}

// ArchetypeCount returns the number of archetypes ever created.
func (w *World) ArchetypeCount() int {
	return len(w.archetypes)
}

// ViewVersion returns the counter views compare against to notice new archetypes.
func (w *World) ViewVersion() uint32 {
	return w.viewVersion
}

// ChangeVersion returns the version currently stamped on written chunks.
func (w *World) ChangeVersion() uint32 {
	return w.version
}

// Advance starts a new change version and returns it. Writes made after the
// call are reported by EachChanged for any since value below it.
func (w *World) Advance() uint32 {
	w.version++
	return w.version
}

// Locked reports whether a view is iterating and structural changes are refused.
func (w *World) Locked() bool {
	return w.locks.Load() > 0
}

func (w *World) lock() {
	w.locks.Add(1)
}

func (w *World) unlock() {
	w.locks.Add(-1)
}

// Create creates a new entity with no components. It is placed in the empty
// archetype. Creation only appends rows, so it is allowed while a view runs;
// the running view does not visit the new entity.
func (w *World) Create() Entity {
	return w.spawn(w.empty)
}

// spawn creates an entity directly in a.
func (w *World) spawn(a *archetype) Entity {
	e := w.entities.acquire()
	row := a.add(e, w.version)
	w.entities.place(e, a, row)
	return e
}

// Alive reports whether e refers to a live entity.
func (w *World) Alive(e Entity) bool {
	_, ok := w.entities.lookup(e)
	return ok
}

// Ref snapshots e's current location version.
func (w *World) Ref(e Entity) (Ref, error) {
	r, ok := w.entities.lookup(e)
	if !ok {
		return Ref{}, eris.Wrapf(ErrStaleHandle, "entity %v", e)
	}
	return Ref{Entity: e, Version: r.version}, nil
}

// Check validates ref in two independent parts. generationOK is false once
// the entity was released. locationOK is additionally false when the entity
// is alive but its row moved since ref was taken, so data cached from the
// old row must not be used.
func (w *World) Check(ref Ref) (generationOK, locationOK bool) {
	r, ok := w.entities.lookup(ref.Entity)
	if !ok {
		return false, false
	}
	return true, r.version == ref.Version
}

// Location returns the archetype and row e currently occupies.
func (w *World) Location(e Entity) (Location, error) {
	r, ok := w.entities.lookup(e)
	if !ok {
		return Location{}, eris.Wrapf(ErrStaleHandle, "entity %v", e)
	}
	return Location{Archetype: r.arch.index, Row: r.row}, nil
}

// Mask returns e's component set.
func (w *World) Mask(e Entity) (Mask, error) {
	r, ok := w.entities.lookup(e)
	if !ok {
		return Mask{}, eris.Wrapf(ErrStaleHandle, "entity %v", e)
	}
	return r.arch.mask, nil
}

// Has reports whether e has component id.
func (w *World) Has(e Entity, id ComponentID) (bool, error) {
	m, err := w.Mask(e)
	if err != nil {
		return false, err
	}
	return m.Has(id), nil
}

// Add attaches the given components to e. The entity's row moves to the
// archetype for its new component set; new components hold their default
// value. Nothing changes if any component is already present or ids is empty.
func (w *World) Add(e Entity, ids ...ComponentID) error {
	if w.Locked() {
		return eris.Wrapf(ErrWorldLocked, "add components to %v", e)
	}
	r, ok := w.entities.lookup(e)
	if !ok {
		return eris.Wrapf(ErrStaleHandle, "add components to %v", e)
	}
	add := w.maskFor(ids)
	if add.IsZero() {
		return eris.Wrapf(ErrNoComponents, "add components to %v", e)
	}
	if r.arch.mask.Intersects(add) {
		id := firstOf(r.arch.mask, add)
		return eris.Wrapf(ErrComponentExists, "entity %v already has %s", e, w.registry.Type(id))
	}
	dst, err := w.archetypeFor(r.arch.mask.Or(add))
	if err != nil {
		return err
	}
	w.relocate(e, r, dst)
	return nil
}

// Remove detaches the given components from e. Removing the last component
// moves the entity back into the empty archetype. Nothing changes if any
// component is missing or ids is empty.
func (w *World) Remove(e Entity, ids ...ComponentID) error {
	if w.Locked() {
		return eris.Wrapf(ErrWorldLocked, "remove components from %v", e)
	}
	r, ok := w.entities.lookup(e)
	if !ok {
		return eris.Wrapf(ErrStaleHandle, "remove components from %v", e)
	}
	rm := w.maskFor(ids)
	if rm.IsZero() {
		return eris.Wrapf(ErrNoComponents, "remove components from %v", e)
	}
	if missing := rm.AndNot(r.arch.mask); !missing.IsZero() {
		return eris.Wrapf(ErrComponentNotFound, "entity %v has no %s", e, w.registry.Type(missing.IDs()[0]))
	}
	dst, err := w.archetypeFor(r.arch.mask.AndNot(rm))
	if err != nil {
		return err
	}
	w.relocate(e, r, dst)
	return nil
}

// Release destroys e. Its row is removed, its generation bumped and its
// index queued for reuse.
func (w *World) Release(e Entity) error {
	if w.Locked() {
		return eris.Wrapf(ErrWorldLocked, "release %v", e)
	}
	r, ok := w.entities.lookup(e)
	if !ok {
		return eris.Wrapf(ErrStaleHandle, "release %v", e)
	}
	row := r.row
	if displaced, moved := r.arch.remove(row, w.version); moved {
		w.entities.displaced(displaced, row)
	}
	w.entities.release(e)
	Publish(w.events, EntityReleased{Entity: e})
	return nil
}

// relocate moves e's row into dst and fixes up whichever entity the
// swap-remove displaced in the source archetype.
func (w *World) relocate(e Entity, r *entityRow, dst *archetype) {
	src, row := r.arch, r.row
	dstRow, displaced, moved := src.move(row, dst, w.version)
	w.entities.place(e, dst, dstRow)
	if moved {
		w.entities.displaced(displaced, row)
	}
}

// maskFor builds a mask from ids. An unregistered id is a programming error
// and panics.
func (w *World) maskFor(ids []ComponentID) Mask {
	var m Mask
	for _, id := range ids {
		if !w.registry.registered(id) {
			panic(eris.Wrapf(ErrUnregisteredComponent, "component id %d", id))
		}
		m.Set(id)
	}
	return m
}

// archetypeFor returns the archetype for mask, creating it on first use.
func (w *World) archetypeFor(mask Mask) (*archetype, error) {
	if a, ok := w.byMask[mask]; ok {
		return a, nil
	}
	l, err := computeLayout(w.registry, mask)
	if err != nil {
		return nil, err
	}
	a := newArchetype(len(w.archetypes), mask, l, w.chunks)
	w.archetypes = append(w.archetypes, a)
	w.byMask[mask] = a
	w.viewVersion++
	w.metrics.count("archetypes.created", 1)
	w.logger.Debug().
		Int("archetype", a.index).
		Int("entities_per_chunk", a.perChunk).
		Array("components", w.componentsArray(a.ids)).
		Msg("archetype created")
	Publish(w.events, ArchetypeCreated{Index: a.index, Mask: mask})
	return a, nil
}

// get returns the address of e's component id.
func (w *World) get(e Entity, id ComponentID) (*entityRow, int, error) {
	r, ok := w.entities.lookup(e)
	if !ok {
		return nil, -1, eris.Wrapf(ErrStaleHandle, "entity %v", e)
	}
	s := r.arch.slot(id)
	if s < 0 {
		return nil, -1, eris.Wrapf(ErrComponentNotFound, "entity %v has no %s", e, w.registry.Type(id))
	}
	return r, s, nil
}

// firstOf returns the lowest component ID present in both masks.
func firstOf(a, b Mask) ComponentID {
	return Mask{a[0] & b[0], a[1] & b[1], a[2] & b[2], a[3] & b[3]}.IDs()[0]
}
