package kura

import "unsafe"

// zeroBase is the address handed out for zero-size components.
var zeroBase uintptr

// archetype holds every entity whose component set is exactly mask. Rows
// are dense in [0, size) and spread over chunks of perChunk rows each.
// Archetypes never add or drop a component in place: a component change
// moves the row to another archetype.
type archetype struct {
	layout
	alloc    *ChunkAllocator
	chunks   []*Chunk
	versions [][]uint32 // last written change version, [chunk][slot]
	entities []Entity   // owner of each row
	slots    [MaxComponentTypes]int16
	mask     Mask
	index    int // position in World.archetypes
	size     int // live rows
}

func newArchetype(index int, mask Mask, l layout, alloc *ChunkAllocator) *archetype {
	a := &archetype{
		layout:   l,
		alloc:    alloc,
		mask:     mask,
		index:    index,
		chunks:   make([]*Chunk, 0, 4),
		versions: make([][]uint32, 0, 4),
	}
	for i := range a.slots {
		a.slots[i] = -1
	}
	for s, id := range l.ids {
		a.slots[id] = int16(s)
	}
	return a
}

// slot returns the column index of id, or -1 if the archetype lacks it.
func (a *archetype) slot(id ComponentID) int {
	return int(a.slots[id])
}

// chunkCount returns the number of chunks spanned by the live rows.
func (a *archetype) chunkCount() int {
	return (a.size + a.perChunk - 1) / a.perChunk
}

// rowsInChunk returns the number of live rows in chunk ci.
func (a *archetype) rowsInChunk(ci int) int {
	return min(a.size-ci*a.perChunk, a.perChunk)
}

// column returns the first byte of slot's column in chunk ci.
func (a *archetype) column(ci, slot int) unsafe.Pointer {
	if a.infos[slot].size == 0 {
		return unsafe.Pointer(&zeroBase)
	}
	return a.chunks[ci].at(a.offsets[slot])
}

// ptr returns the address of slot's component at row.
func (a *archetype) ptr(slot, row int) unsafe.Pointer {
	info := a.infos[slot]
	if info.size == 0 {
		return unsafe.Pointer(&zeroBase)
	}
	ci, i := row/a.perChunk, row%a.perChunk
	return a.chunks[ci].at(a.offsets[slot] + uintptr(i)*info.size)
}

// touch records that slot was written in row's chunk at version.
func (a *archetype) touch(row, slot int, version uint32) {
	a.versions[row/a.perChunk][slot] = version
}

// changedSince reports whether slot was written in chunk ci after version.
func (a *archetype) changedSince(ci, slot int, version uint32) bool {
	return a.versions[ci][slot] > version
}

// allocRow claims the next row for e without constructing anything. A new
// chunk is taken from the allocator when the row count sits on a chunk
// boundary.
func (a *archetype) allocRow(e Entity) int {
	row := a.size
	if row%a.perChunk == 0 {
		if a.rowSize > 0 {
			a.chunks = append(a.chunks, a.alloc.Allocate())
		}
		n := len(a.versions)
		a.versions = extendSlice(a.versions, 1)
		if a.versions[n] == nil {
			a.versions[n] = make([]uint32, len(a.ids))
		} else {
			clear(a.versions[n])
		}
	}
	a.entities = append(a.entities, e)
	a.size++
	return row
}

// add claims a row for e and constructs every component in it.
func (a *archetype) add(e Entity, version uint32) int {
	row := a.allocRow(e)
	for s, info := range a.infos {
		info.construct(a.ptr(s, row))
		a.touch(row, s, version)
	}
	return row
}

// remove swap-removes row: the last row's data is swapped into row and the
// vacated last row is destructed. If another entity was moved into row it is
// returned with moved set; the caller must fix up its table entry. A chunk
// emptied by the shrink goes back to the allocator.
func (a *archetype) remove(row int, version uint32) (displaced Entity, moved bool) {
	last := a.size - 1
	if row != last {
		for s, info := range a.infos {
			info.swap(a.ptr(s, row), a.ptr(s, last))
			a.touch(row, s, version)
		}
		displaced = a.entities[last]
		a.entities[row] = displaced
		moved = true
	}
	for s, info := range a.infos {
		info.destruct(a.ptr(s, last))
	}
	a.entities[last] = Entity{}
	a.entities = a.entities[:last]
	a.size--
	if a.size%a.perChunk == 0 {
		if a.rowSize > 0 {
			n := len(a.chunks) - 1
			c := a.chunks[n]
			a.chunks[n] = nil
			a.chunks = a.chunks[:n]
			a.alloc.Free(c)
		}
		a.versions = a.versions[:len(a.versions)-1]
	}
	return displaced, moved
}

// move relocates row into dst. Components present in both archetypes are
// moved, components only dst has are constructed, then row is swap-removed
// from a. It returns the new row in dst and the entity displaced in a, if any.
func (a *archetype) move(row int, dst *archetype, version uint32) (dstRow int, displaced Entity, moved bool) {
	dstRow = dst.allocRow(a.entities[row])
	for ds, info := range dst.infos {
		p := dst.ptr(ds, dstRow)
		if s := a.slot(info.id); s >= 0 {
			info.move(p, a.ptr(s, row))
		} else {
			info.construct(p)
		}
		dst.touch(dstRow, ds, version)
	}
	displaced, moved = a.remove(row, version)
	return dstRow, displaced, moved
}

// columnSlice returns chunk ci's live rows of the component in slot as a
// typed slice. The slice is only valid until the next structural change.
func columnSlice[T any](a *archetype, ci, slot int) []T {
	n := a.rowsInChunk(ci)
	if n <= 0 {
		return nil
	}
	return unsafe.Slice((*T)(a.column(ci, slot)), n)
}

// entitySlice returns the owners of chunk ci's live rows.
func (a *archetype) entitySlice(ci int) []Entity {
	start := ci * a.perChunk
	return a.entities[start : start+a.rowsInChunk(ci)]
}
