package kura

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// go test -run ^TestViewScenario$ . -count 1
func TestViewScenario(t *testing.T) {
	w, ids := setupWorld(t)
	e1 := w.Create()
	require.NoError(t, SetComponent(w, e1, Position{1, 2, 3}))
	require.NoError(t, SetComponent(w, e1, Rotation{Angle: 0}))

	both := NewView2[Position, Rotation](w)
	type row struct {
		p Position
		r Rotation
	}
	var rows []row
	both.Each(func(e Entity, p *Position, r *Rotation) {
		assert.Equal(t, e1, e)
		rows = append(rows, row{*p, *r})
	})
	assert.Equal(t, []row{{Position{1, 2, 3}, Rotation{0}}}, rows)

	require.NoError(t, w.Remove(e1, ids.rot))

	n := 0
	both.Each(func(Entity, *Position, *Rotation) { n++ })
	assert.Zero(t, n)

	var positions []Position
	NewView[Position](w).Each(func(_ Entity, p *Position) {
		positions = append(positions, *p)
	})
	assert.Equal(t, []Position{{1, 2, 3}}, positions)
}

// go test -run ^TestViewCompleteness$ . -count 1
func TestViewCompleteness(t *testing.T) {
	w, ids := setupWorld(t)
	view := NewView[Position](w)
	want := make(map[Entity]bool)

	for i := range 3000 {
		e := w.Create()
		switch i % 5 {
		case 0:
			require.NoError(t, w.Add(e, ids.pos))
		case 1:
			require.NoError(t, w.Add(e, ids.pos, ids.rot))
		case 2:
			require.NoError(t, w.Add(e, ids.rot))
		case 3:
			require.NoError(t, w.Add(e, ids.pos, ids.vel, ids.tag))
		}
	}
	for i, e := range NewQuery(w, Mask{}, Mask{}).Entities() {
		if i%7 == 0 {
			require.NoError(t, w.Release(e))
		}
	}
	for _, e := range NewQuery(w, MaskOf(ids.pos), Mask{}).Entities() {
		want[e] = true
	}

	got := make(map[Entity]int)
	view.Each(func(e Entity, _ *Position) { got[e]++ })
	assert.Len(t, got, len(want))
	for e, n := range got {
		assert.Equal(t, 1, n)
		assert.True(t, want[e])
		assert.True(t, HasComponent[Position](w, e))
	}
	assert.Equal(t, len(want), view.Count())

	cursor := 0
	view.Reset()
	for view.Next() {
		assert.True(t, want[view.Entity()])
		cursor++
	}
	assert.Equal(t, len(want), cursor)
}

func TestViewExclude(t *testing.T) {
	w, ids := setupWorld(t)
	a := spawnWith(t, w, Position{X: 1})
	b := spawnWith(t, w, Position{X: 2})
	require.NoError(t, w.Add(b, ids.tag))

	var seen []Entity
	NewView[Position](w, ids.tag).Each(func(e Entity, _ *Position) {
		seen = append(seen, e)
	})
	assert.Equal(t, []Entity{a}, seen)

	q := NewQuery(w, MaskOf(ids.pos), MaskOf(ids.tag))
	assert.Equal(t, MaskOf(ids.tag), q.Exclude())
	assert.Equal(t, []Entity{a}, q.Entities())
}

func TestViewRefreshesLazily(t *testing.T) {
	w, ids := setupWorld(t)
	view := NewView[Position](w)
	assert.Equal(t, 0, view.Archetypes())
	assert.False(t, view.IsStale())

	e := spawnWith(t, w, Position{})
	assert.True(t, view.IsStale())
	assert.Equal(t, 1, view.Archetypes())

	require.NoError(t, w.Add(e, ids.rot))
	assert.Equal(t, 2, view.Archetypes())

	e2 := w.Create()
	require.NoError(t, w.Add(e2, ids.pos))
	assert.False(t, view.IsStale(), "no new archetype")
}

func TestViewWritesThroughPointers(t *testing.T) {
	w, ids := setupWorld(t)
	b, err := NewBuilder(w, ids.pos, ids.vel)
	require.NoError(t, err)
	ents := b.NewBatch(1500)
	for i, e := range ents {
		require.NoError(t, SetComponent(w, e, Velocity{X: float64(i)}))
	}

	NewView2[Position, Velocity](w).Each(func(_ Entity, p *Position, v *Velocity) {
		p.X += float32(v.X)
	})
	for i, e := range ents {
		p, err := GetComponent[Position](w, e)
		require.NoError(t, err)
		assert.Equal(t, float32(i), p.X)
	}
}

func TestViewEachChunk(t *testing.T) {
	w, ids := setupWorld(t)
	b, err := NewBuilder(w, ids.pos, ids.rot, ids.vel, ids.health)
	require.NoError(t, err)
	ents := b.NewBatch(1000)

	chunks, rows := 0, 0
	NewView4[Position, Rotation, Velocity, Health](w).EachChunk(func(c ChunkView4[Position, Rotation, Velocity, Health]) {
		chunks++
		require.Len(t, c.C1, len(c.Entities))
		require.Len(t, c.C2, len(c.Entities))
		require.Len(t, c.C3, len(c.Entities))
		require.Len(t, c.C4, len(c.Entities))
		for i := range c.Entities {
			c.C4[i].Current = int32(rows + i)
		}
		rows += len(c.Entities)
	})
	assert.Equal(t, 1000, rows)
	assert.Equal(t, w.archetypes[1].chunkCount(), chunks)
	assert.Greater(t, chunks, 1)

	for i, e := range ents {
		h, err := GetComponent[Health](w, e)
		require.NoError(t, err)
		assert.Equal(t, int32(i), h.Current)
	}
}

func TestViewCursor(t *testing.T) {
	w, ids := setupWorld(t)
	b, err := NewBuilder(w, ids.pos, ids.rot, ids.vel)
	require.NoError(t, err)
	b.NewBatch(700)

	view := NewView3[Position, Rotation, Velocity](w)
	n := 0
	for view.Next() {
		p, r, v := view.Get()
		p.X = 1
		r.Angle = 2
		v.Y = 3
		n++
	}
	assert.Equal(t, 700, n)
	assert.False(t, view.Next())

	view.Reset()
	for view.Next() {
		p, r, v := view.Get()
		require.Equal(t, Position{X: 1}, *p)
		require.Equal(t, Rotation{Angle: 2}, *r)
		require.Equal(t, Velocity{Y: 3}, *v)
	}

	q := NewQuery(w, MaskOf(ids.rot), Mask{})
	n = 0
	for q.Next() {
		n++
	}
	assert.Equal(t, 700, n)
}

func TestViewDuplicateTypesPanics(t *testing.T) {
	w := NewWorld()
	assert.Panics(t, func() { NewView2[Position, Position](w) })
}

// go test -run ^TestViewEachChanged$ . -count 1
func TestViewEachChanged(t *testing.T) {
	w, ids := setupWorld(t)
	b, err := NewBuilder(w, ids.pos, ids.vel)
	require.NoError(t, err)
	ents := b.NewBatch(3000)
	perChunk := w.archetypes[1].perChunk
	require.Greater(t, len(ents), 2*perChunk)

	since := w.ChangeVersion()
	w.Advance()

	visited := 0
	NewView[Position](w).EachChanged(since, func(Entity, *Position) { visited++ })
	assert.Zero(t, visited, "nothing written since the snapshot")

	require.NoError(t, SetComponent(w, ents[perChunk+1], Position{X: 1}))
	NewView[Position](w).EachChanged(since, func(Entity, *Position) { visited++ })
	assert.Equal(t, perChunk, visited, "only the touched chunk")

	visited = 0
	NewView[Velocity](w).EachChanged(since, func(Entity, *Velocity) { visited++ })
	assert.Zero(t, visited, "other columns are tracked separately")

	visited = 0
	NewView2[Position, Velocity](w).EachChanged(since, func(Entity, *Position, *Velocity) { visited++ })
	assert.Equal(t, perChunk, visited)
}

func TestViewReadOnlyDoesNotStamp(t *testing.T) {
	w, ids := setupWorld(t)
	b, err := NewBuilder(w, ids.pos)
	require.NoError(t, err)
	b.NewBatch(10)

	since := w.ChangeVersion()
	w.Advance()

	NewView[Position](w).ReadOnly().Each(func(Entity, *Position) {})
	changed := 0
	NewView[Position](w).ReadOnly().EachChanged(since, func(Entity, *Position) { changed++ })
	assert.Zero(t, changed)

	NewView[Position](w).Each(func(Entity, *Position) {})
	NewView[Position](w).ReadOnly().EachChanged(since, func(Entity, *Position) { changed++ })
	assert.Equal(t, 10, changed)
}

func TestQueryEach(t *testing.T) {
	w, ids := setupWorld(t)
	for range 5 {
		w.Create()
	}
	spawnWith(t, w, Position{})

	all := NewQuery(w, Mask{}, Mask{})
	n := 0
	all.Each(func(Entity) { n++ })
	assert.Equal(t, 6, n)
	assert.Equal(t, 6, all.Count())
	assert.Equal(t, MaskOf(ids.pos), NewQuery(w, MaskOf(ids.pos), Mask{}).Include())
}

func TestViewRefreshDuringEach(t *testing.T) {
	w, ids := setupWorld(t)
	only, err := NewBuilder(w, ids.pos)
	require.NoError(t, err)
	only.NewBatch(3)
	tagged, err := NewBuilder(w, ids.pos, ids.tag)
	require.NoError(t, err)
	tagged.NewBatch(2)

	view := NewView[Position](w)
	visited := 0
	created := false
	view.Each(func(Entity, *Position) {
		visited++
		if !created {
			created = true
			b, err := NewBuilder(w, ids.pos, ids.rot)
			require.NoError(t, err)
			b.New()
			assert.Equal(t, 6, view.Count())
		}
	})
	assert.Equal(t, 5, visited, "the running pass keeps its archetype list")
	assert.Equal(t, 3, view.Archetypes())
}
