package kura

import (
	"unsafe"

	"github.com/rs/zerolog"
)

const (
	// ChunkSize is the size in bytes of every chunk.
	ChunkSize = 16 * 1024
	// ChunkAlign is the byte alignment of every chunk's first byte.
	ChunkAlign = 64
)

// Chunk is a fixed-size block of component memory. Its contents are opaque
// and may hold stale data from a previous owner.
type Chunk struct {
	buf  []byte // backing allocation, kept for its alignment slack
	data []byte // ChunkAlign-aligned window of ChunkSize bytes
}

func newChunk() *Chunk {
	buf := make([]byte, ChunkSize+ChunkAlign)
	base := uintptr(unsafe.Pointer(&buf[0]))
	off := alignUp(base, ChunkAlign) - base
	return &Chunk{buf: buf, data: buf[off : off+ChunkSize : off+ChunkSize]}
}

// Bytes returns the chunk's memory.
func (c *Chunk) Bytes() []byte {
	return c.data
}

// at returns a pointer to byte off of the chunk.
func (c *Chunk) at(off uintptr) unsafe.Pointer {
	return unsafe.Add(unsafe.Pointer(unsafe.SliceData(c.data)), off)
}

// ChunkStats is a snapshot of allocator counters.
type ChunkStats struct {
	Allocated int    // chunks ever created
	Free      int    // chunks sitting in the pool
	InUse     int    // chunks owned by archetypes
	Reused    uint64 // allocations served from the pool
}

// ChunkAllocator hands out chunks and takes them back into a free list
// instead of releasing them. It does not track owners; an archetype holds a
// chunk exclusively from Allocate until Free.
type ChunkAllocator struct {
	free      []*Chunk
	logger    zerolog.Logger
	metrics   *metrics
	reused    uint64
	allocated int
}

// NewChunkAllocator returns an empty allocator.
func NewChunkAllocator() *ChunkAllocator {
	return &ChunkAllocator{
		free:   make([]*Chunk, 0, 16),
		logger: zerolog.Nop(),
	}
}

// Allocate returns a pooled chunk, or a new one if the pool is empty.
func (a *ChunkAllocator) Allocate() *Chunk {
	if n := len(a.free); n > 0 {
		c := a.free[n-1]
		a.free[n-1] = nil
		a.free = a.free[:n-1]
		a.reused++
		return c
	}
	a.allocated++
	a.metrics.count("chunks.allocated", 1)
	a.logger.Debug().Int("allocated", a.allocated).Msg("chunk pool grew")
	return newChunk()
}

// Free returns c to the pool. The memory is neither zeroed nor released.
func (a *ChunkAllocator) Free(c *Chunk) {
	a.free = append(a.free, c)
}

// Reserve makes sure at least n chunks are pooled.
func (a *ChunkAllocator) Reserve(n int) {
	for len(a.free) < n {
		a.allocated++
		a.free = append(a.free, newChunk())
	}
}

// Stats returns the allocator's counters.
func (a *ChunkAllocator) Stats() ChunkStats {
	return ChunkStats{
		Allocated: a.allocated,
		Free:      len(a.free),
		InUse:     a.allocated - len(a.free),
		Reused:    a.reused,
	}
}
