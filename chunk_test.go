package kura

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkAlignment(t *testing.T) {
	for range 8 {
		c := newChunk()
		require.Len(t, c.Bytes(), ChunkSize)
		assert.Zero(t, uintptr(unsafe.Pointer(&c.Bytes()[0]))%ChunkAlign)
	}
}

func TestChunkAllocatorReuse(t *testing.T) {
	a := NewChunkAllocator()
	c1 := a.Allocate()
	c2 := a.Allocate()
	assert.NotSame(t, c1, c2)
	assert.Equal(t, ChunkStats{Allocated: 2, InUse: 2}, a.Stats())

	c1.Bytes()[0] = 0xAB
	a.Free(c1)
	assert.Equal(t, 1, a.Stats().Free)

	c3 := a.Allocate()
	assert.Same(t, c1, c3)
	assert.Equal(t, byte(0xAB), c3.Bytes()[0], "pooled chunks are not zeroed")
	assert.Equal(t, ChunkStats{Allocated: 2, InUse: 2, Reused: 1}, a.Stats())
}

func TestChunkAllocatorReserve(t *testing.T) {
	a := NewChunkAllocator()
	a.Reserve(4)
	assert.Equal(t, ChunkStats{Allocated: 4, Free: 4}, a.Stats())
	a.Reserve(2)
	assert.Equal(t, 4, a.Stats().Free)

	for range 4 {
		a.Allocate()
	}
	assert.Equal(t, ChunkStats{Allocated: 4, InUse: 4, Reused: 4}, a.Stats())
}
