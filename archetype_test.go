package kura

import (
	"testing"
	"unsafe"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type byteComp struct{ V uint8 }
type wordComp struct{ V int64 }
type halfComp struct{ V int32 }

func TestLayoutOrderingAndOffsets(t *testing.T) {
	r := NewRegistry()
	b := registerComponent[byteComp](r, nil)
	wd := registerComponent[wordComp](r, nil)
	h := registerComponent[halfComp](r, nil)

	l, err := computeLayout(r, MaskOf(b, wd, h))
	require.NoError(t, err)

	assert.Equal(t, []ComponentID{wd, h, b}, l.ids, "alignment descending")
	assert.Equal(t, uintptr(13), l.rowSize)
	assert.Equal(t, ChunkSize/13, l.perChunk)
	epc := uintptr(l.perChunk)
	assert.Equal(t, []uintptr{0, 8 * epc, 12 * epc}, l.offsets)
	assert.LessOrEqual(t, l.offsets[2]+epc, uintptr(ChunkSize))
}

func TestLayoutTieBreaksOnID(t *testing.T) {
	r := NewRegistry()
	type a struct{ V int32 }
	type b struct{ V float32 }
	ia := registerComponent[a](r, nil)
	ib := registerComponent[b](r, nil)

	l, err := computeLayout(r, MaskOf(ib, ia))
	require.NoError(t, err)
	assert.Equal(t, []ComponentID{ia, ib}, l.ids)
}

func TestLayoutZeroWidth(t *testing.T) {
	r := NewRegistry()
	tag := registerComponent[Tag](r, nil)

	l, err := computeLayout(r, MaskOf(tag))
	require.NoError(t, err)
	assert.Equal(t, ChunkSize, l.perChunk)
	assert.Zero(t, l.rowSize)

	l, err = computeLayout(r, Mask{})
	require.NoError(t, err)
	assert.Empty(t, l.ids)
}

func TestLayoutRowTooLarge(t *testing.T) {
	w, ids := setupWorld(t)
	huge := RegisterComponent[Huge](w)

	_, err := NewBuilder(w, huge)
	require.NoError(t, err)

	before := w.ArchetypeCount()
	_, err = NewBuilder(w, huge, ids.vel)
	assert.True(t, eris.Is(err, ErrRowTooLarge))
	assert.Equal(t, before, w.ArchetypeCount())
}

func newTestArchetype(t *testing.T, r *Registry, ids ...ComponentID) *archetype {
	t.Helper()
	m := MaskOf(ids...)
	l, err := computeLayout(r, m)
	require.NoError(t, err)
	return newArchetype(0, m, l, NewChunkAllocator())
}

func TestArchetypeRowAddressing(t *testing.T) {
	r := NewRegistry()
	pos := registerComponent[Position](r, nil)
	h := registerComponent[Health](r, nil)
	a := newTestArchetype(t, r, pos, h)

	n := a.perChunk + 3
	for i := range n {
		row := a.add(Entity{Index: uint32(i), Generation: 1}, 1)
		require.Equal(t, i, row)
		*(*Position)(a.ptr(a.slot(pos), row)) = Position{X: float32(i)}
	}
	require.Equal(t, 2, a.chunkCount())
	assert.Equal(t, a.perChunk, a.rowsInChunk(0))
	assert.Equal(t, 3, a.rowsInChunk(1))

	i := a.perChunk + 1
	want := unsafe.Add(a.chunks[1].at(a.offsets[a.slot(pos)]), uintptr(1)*unsafe.Sizeof(Position{}))
	assert.Equal(t, want, a.ptr(a.slot(pos), i))

	col := columnSlice[Position](a, 1, a.slot(pos))
	require.Len(t, col, 3)
	assert.Equal(t, float32(i), col[1].X)
}

func TestArchetypeSwapRemove(t *testing.T) {
	r := NewRegistry()
	pos := registerComponent[Position](r, nil)
	a := newTestArchetype(t, r, pos)
	s := a.slot(pos)

	for i := range 3 {
		row := a.add(Entity{Index: uint32(i), Generation: 1}, 1)
		*(*Position)(a.ptr(s, row)) = Position{X: float32(i)}
	}

	displaced, moved := a.remove(0, 2)
	require.True(t, moved)
	assert.Equal(t, Entity{Index: 2, Generation: 1}, displaced)
	assert.Equal(t, 2, a.size)
	assert.Equal(t, Position{X: 2}, *(*Position)(a.ptr(s, 0)))
	assert.Equal(t, []Entity{{Index: 2, Generation: 1}, {Index: 1, Generation: 1}}, a.entities)

	_, moved = a.remove(1, 2)
	assert.False(t, moved, "removing the last row displaces nobody")
	assert.Equal(t, 1, a.size)
}

func TestArchetypeReturnsTrailingChunk(t *testing.T) {
	r := NewRegistry()
	pos := registerComponent[Position](r, nil)
	a := newTestArchetype(t, r, pos)

	for i := range a.perChunk + 1 {
		a.add(Entity{Index: uint32(i), Generation: 1}, 1)
	}
	require.Len(t, a.chunks, 2)
	assert.Equal(t, 2, a.alloc.Stats().InUse)

	a.remove(0, 1)
	assert.Len(t, a.chunks, 1)
	assert.Len(t, a.versions, 1)
	assert.Equal(t, ChunkStats{Allocated: 2, Free: 1, InUse: 1}, a.alloc.Stats())

	a.add(Entity{Index: 99, Generation: 1}, 1)
	assert.Equal(t, uint64(1), a.alloc.Stats().Reused)
}

func TestArchetypeConstructsOverStaleChunk(t *testing.T) {
	r := NewRegistry()
	h := registerComponent(r, &Health{Current: 1, Max: 1})
	alloc := NewChunkAllocator()
	c := alloc.Allocate()
	for i := range c.Bytes() {
		c.Bytes()[i] = 0xFF
	}
	alloc.Free(c)

	l, err := computeLayout(r, MaskOf(h))
	require.NoError(t, err)
	a := newArchetype(0, MaskOf(h), l, alloc)
	row := a.add(Entity{Index: 1, Generation: 1}, 1)
	assert.Equal(t, Health{Current: 1, Max: 1}, *(*Health)(a.ptr(a.slot(h), row)))
}

func TestArchetypeMove(t *testing.T) {
	r := NewRegistry()
	pos := registerComponent[Position](r, nil)
	rot := registerComponent(r, &Rotation{Angle: 9})
	src := newTestArchetype(t, r, pos)
	dst := newTestArchetype(t, r, pos, rot)

	e0, e1 := Entity{Index: 0, Generation: 1}, Entity{Index: 1, Generation: 1}
	src.add(e0, 1)
	src.add(e1, 1)
	*(*Position)(src.ptr(src.slot(pos), 0)) = Position{1, 2, 3}
	*(*Position)(src.ptr(src.slot(pos), 1)) = Position{4, 5, 6}

	dstRow, displaced, moved := src.move(0, dst, 2)
	assert.Equal(t, 0, dstRow)
	assert.True(t, moved)
	assert.Equal(t, e1, displaced)
	assert.Equal(t, Position{1, 2, 3}, *(*Position)(dst.ptr(dst.slot(pos), 0)))
	assert.Equal(t, Rotation{Angle: 9}, *(*Rotation)(dst.ptr(dst.slot(rot), 0)))
	assert.Equal(t, Position{4, 5, 6}, *(*Position)(src.ptr(src.slot(pos), 0)))
	assert.Equal(t, []Entity{e0}, dst.entities)
}

func TestArchetypeChangeVersions(t *testing.T) {
	r := NewRegistry()
	pos := registerComponent[Position](r, nil)
	a := newTestArchetype(t, r, pos)
	s := a.slot(pos)

	a.add(Entity{Index: 0, Generation: 1}, 5)
	assert.True(t, a.changedSince(0, s, 4))
	assert.False(t, a.changedSince(0, s, 5))

	a.touch(0, s, 7)
	assert.True(t, a.changedSince(0, s, 6))
}
