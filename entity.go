package kura

import "fmt"

// Entity represents a unique identifier for an object in the World. It combines
// a recyclable 32-bit index with a 16-bit generation so that a handle to a
// released entity never matches the entity that later reuses its index.
type Entity struct {
	// Index is the recyclable slot in the entity table.
	Index uint32
	// Generation is bumped each time the slot is released. It starts at 1, so
	// the zero Entity is never alive.
	Generation uint16
}

// IsZero reports whether e is the zero handle.
func (e Entity) IsZero() bool {
	return e == Entity{}
}

func (e Entity) String() string {
	return fmt.Sprintf("%d:%d", e.Index, e.Generation)
}

// Ref is an entity handle together with the location version observed when
// it was taken. The version changes whenever the entity's row physically
// moves, so a Ref tells whether data cached from that row is still in place.
type Ref struct {
	Entity  Entity
	Version uint32
}

// entityRow is where an entity currently lives.
type entityRow struct {
	arch       *archetype
	row        int
	version    uint32 // bumped on every physical relocation
	generation uint16
	alive      bool
}

// entityTable maps entity indices to locations and recycles released
// indices first-in first-out.
type entityTable struct {
	rows     []entityRow
	free     []uint32
	freeHead int
	alive    int
}

func newEntityTable(capacity int) entityTable {
	return entityTable{
		rows: make([]entityRow, 0, capacity),
		free: make([]uint32, 0, capacity/4),
	}
}

// acquire pops a free index, or appends a new slot.
func (t *entityTable) acquire() Entity {
	var idx uint32
	if t.freeHead < len(t.free) {
		idx = t.free[t.freeHead]
		t.freeHead++
		if t.freeHead == len(t.free) {
			t.free = t.free[:0]
			t.freeHead = 0
		}
	} else {
		idx = uint32(len(t.rows))
		t.rows = extendSlice(t.rows, 1)
		t.rows[idx] = entityRow{generation: 1, row: -1}
	}
	r := &t.rows[idx]
	r.alive = true
	t.alive++
	return Entity{Index: idx, Generation: r.generation}
}

// lookup returns e's row if e is alive with a matching generation.
func (t *entityTable) lookup(e Entity) (*entityRow, bool) {
	if int(e.Index) >= len(t.rows) {
		return nil, false
	}
	r := &t.rows[e.Index]
	if !r.alive || r.generation != e.Generation {
		return nil, false
	}
	return r, true
}

// place records that e now lives at row of a.
func (t *entityTable) place(e Entity, a *archetype, row int) {
	r := &t.rows[e.Index]
	if r.arch != nil {
		r.version++
	}
	r.arch = a
	r.row = row
}

// displaced records that e was swapped into row by a removal in its archetype.
func (t *entityTable) displaced(e Entity, row int) {
	r := &t.rows[e.Index]
	r.row = row
	r.version++
}

// release clears e's slot, bumps its generation and queues the index.
func (t *entityTable) release(e Entity) {
	r := &t.rows[e.Index]
	r.arch = nil
	r.row = -1
	r.alive = false
	r.version++
	r.generation++
	if r.generation == 0 {
		r.generation = 1
	}
	if t.freeHead > 0 && t.freeHead >= len(t.free)/2 {
		n := copy(t.free, t.free[t.freeHead:])
		t.free = t.free[:n]
		t.freeHead = 0
	}
	t.free = append(t.free, e.Index)
	t.alive--
}
