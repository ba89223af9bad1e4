package kura

import (
	"cmp"
	"slices"

	"github.com/rotisserie/eris"
)

// layout is the column plan of an archetype. Every component gets one
// contiguous run of bytes per chunk, replicated across all chunks:
// row i of the component in slot s lives in chunk i/perChunk at
// offsets[s] + (i%perChunk)*size.
type layout struct {
	ids      []ComponentID    // sorted by (align desc, id asc)
	infos    []*componentInfo // parallel to ids
	offsets  []uintptr        // parallel to ids
	rowSize  uintptr          // sum of component sizes
	perChunk int              // rows held by one chunk
}

// computeLayout plans the columns for the components in m. Columns are
// ordered by alignment descending, then ID ascending, so every column start
// is aligned without padding and the plan is deterministic.
func computeLayout(r *Registry, m Mask) (layout, error) {
	ids := m.IDs()
	for _, id := range ids {
		if !r.registered(id) {
			return layout{}, eris.Wrapf(ErrUnregisteredComponent, "component id %d", id)
		}
	}
	slices.SortFunc(ids, func(a, b ComponentID) int {
		if c := cmp.Compare(r.info(b).align, r.info(a).align); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	l := layout{
		ids:     ids,
		infos:   make([]*componentInfo, len(ids)),
		offsets: make([]uintptr, len(ids)),
	}
	for i, id := range ids {
		l.infos[i] = r.info(id)
		l.rowSize += l.infos[i].size
	}
	if l.rowSize == 0 {
		l.perChunk = ChunkSize
		return l, nil
	}
	if l.rowSize > ChunkSize {
		return layout{}, eris.Wrapf(ErrRowTooLarge, "row of %d bytes, chunk of %d", l.rowSize, ChunkSize)
	}
	l.perChunk = int(ChunkSize / l.rowSize)
	var off uintptr
	for i, info := range l.infos {
		l.offsets[i] = off
		off += info.size * uintptr(l.perChunk)
	}
	return l, nil
}
