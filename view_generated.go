package kura

// View2 iterates over all entities that have the 2 components: T1, T2.
type View2[T1 any, T2 any] struct {
	viewCache
	viewCursor
	col1 []T1
	col2 []T2
	ids  [2]ComponentID
}

// ChunkView2 is one chunk's live rows as typed columns.
type ChunkView2[T1 any, T2 any] struct {
	Entities []Entity
	C1       []T1
	C2       []T2
}

// NewView2 creates a view over entities with T1, T2 and none of exclude.
// It panics if the same component type is requested twice.
func NewView2[T1 any, T2 any](w *World, exclude ...ComponentID) *View2[T1, T2] {
	ids := [2]ComponentID{
		RegisterComponent[T1](w),
		RegisterComponent[T2](w),
	}
	include := MaskOf(ids[:]...)
	if include.Len() != 2 {
		panic("kura: duplicate component types in View2")
	}
	v := &View2[T1, T2]{
		viewCache: newViewCache(w, include, w.maskFor(exclude)),
		ids:       ids,
	}
	v.Reset()
	return v
}

// ReadOnly stops the view from stamping visited chunks as changed.
func (v *View2[T1, T2]) ReadOnly() *View2[T1, T2] {
	v.readOnly = true
	return v
}

// Reset rewinds the cursor, refreshing the archetype list if it is stale.
func (v *View2[T1, T2]) Reset() {
	v.refresh()
	v.viewCursor.reset()
}

// Next advances the cursor to the next entity.
func (v *View2[T1, T2]) Next() bool {
	v.idx++
	if v.idx < v.rows {
		return true
	}
	if !v.step(v.matching) {
		return false
	}
	a, ci := v.arch, v.chunk
	s1 := a.slot(v.ids[0])
	v.col1 = columnSlice[T1](a, ci, s1)
	v.stamp(a, ci, s1)
	s2 := a.slot(v.ids[1])
	v.col2 = columnSlice[T2](a, ci, s2)
	v.stamp(a, ci, s2)
	return true
}

// Entity returns the current entity.
func (v *View2[T1, T2]) Entity() Entity {
	return v.ents[v.idx]
}

// Get returns the current entity's components.
func (v *View2[T1, T2]) Get() (*T1, *T2) {
	i := v.idx
	return &v.col1[i], &v.col2[i]
}

// Each calls fn once per matching entity.
func (v *View2[T1, T2]) Each(fn func(Entity, *T1, *T2)) {
	v.each(0, false, fn)
}

// EachChanged is Each restricted to chunks where any of the view's columns
// was written after since.
func (v *View2[T1, T2]) EachChanged(since uint32, fn func(Entity, *T1, *T2)) {
	v.each(since, true, fn)
}

func (v *View2[T1, T2]) each(since uint32, changed bool, fn func(Entity, *T1, *T2)) {
	v.refresh()
	v.world.lock()
	defer v.world.unlock()
	for _, a := range v.matching {
		s1 := a.slot(v.ids[0])
		s2 := a.slot(v.ids[1])
		for ci, n := 0, a.chunkCount(); ci < n; ci++ {
			if changed && !a.changedSince(ci, s1, since) && !a.changedSince(ci, s2, since) {
				continue
			}
			v.stamp(a, ci, s1)
			v.stamp(a, ci, s2)
			ents := a.entitySlice(ci)
			c1 := columnSlice[T1](a, ci, s1)
			c2 := columnSlice[T2](a, ci, s2)
			for i, e := range ents {
				fn(e, &c1[i], &c2[i])
			}
		}
	}
}

// EachChunk calls fn once per non-empty chunk with its typed columns.
func (v *View2[T1, T2]) EachChunk(fn func(ChunkView2[T1, T2])) {
	v.refresh()
	v.world.lock()
	defer v.world.unlock()
	for _, a := range v.matching {
		s1 := a.slot(v.ids[0])
		s2 := a.slot(v.ids[1])
		for ci, n := 0, a.chunkCount(); ci < n; ci++ {
			v.stamp(a, ci, s1)
			v.stamp(a, ci, s2)
			fn(ChunkView2[T1, T2]{
				Entities: a.entitySlice(ci),
				C1:       columnSlice[T1](a, ci, s1),
				C2:       columnSlice[T2](a, ci, s2),
			})
		}
	}
}

// View3 iterates over all entities that have the 3 components: T1, T2, T3.
type View3[T1 any, T2 any, T3 any] struct {
	viewCache
	viewCursor
	col1 []T1
	col2 []T2
	col3 []T3
	ids  [3]ComponentID
}

// ChunkView3 is one chunk's live rows as typed columns.
type ChunkView3[T1 any, T2 any, T3 any] struct {
	Entities []Entity
	C1       []T1
	C2       []T2
	C3       []T3
}

// NewView3 creates a view over entities with T1, T2, T3 and none of exclude.
// It panics if the same component type is requested twice.
func NewView3[T1 any, T2 any, T3 any](w *World, exclude ...ComponentID) *View3[T1, T2, T3] {
	ids := [3]ComponentID{
		RegisterComponent[T1](w),
		RegisterComponent[T2](w),
		RegisterComponent[T3](w),
	}
	include := MaskOf(ids[:]...)
	if include.Len() != 3 {
		panic("kura: duplicate component types in View3")
	}
	v := &View3[T1, T2, T3]{
		viewCache: newViewCache(w, include, w.maskFor(exclude)),
		ids:       ids,
	}
	v.Reset()
	return v
}

// ReadOnly stops the view from stamping visited chunks as changed.
func (v *View3[T1, T2, T3]) ReadOnly() *View3[T1, T2, T3] {
	v.readOnly = true
	return v
}

// Reset rewinds the cursor, refreshing the archetype list if it is stale.
func (v *View3[T1, T2, T3]) Reset() {
	v.refresh()
	v.viewCursor.reset()
}

// Next advances the cursor to the next entity.
func (v *View3[T1, T2, T3]) Next() bool {
	v.idx++
	if v.idx < v.rows {
		return true
	}
	if !v.step(v.matching) {
		return false
	}
	a, ci := v.arch, v.chunk
	s1 := a.slot(v.ids[0])
	v.col1 = columnSlice[T1](a, ci, s1)
	v.stamp(a, ci, s1)
	s2 := a.slot(v.ids[1])
	v.col2 = columnSlice[T2](a, ci, s2)
	v.stamp(a, ci, s2)
	s3 := a.slot(v.ids[2])
	v.col3 = columnSlice[T3](a, ci, s3)
	v.stamp(a, ci, s3)
	return true
}

// Entity returns the current entity.
func (v *View3[T1, T2, T3]) Entity() Entity {
	return v.ents[v.idx]
}

// Get returns the current entity's components.
func (v *View3[T1, T2, T3]) Get() (*T1, *T2, *T3) {
	i := v.idx
	return &v.col1[i], &v.col2[i], &v.col3[i]
}

// Each calls fn once per matching entity.
func (v *View3[T1, T2, T3]) Each(fn func(Entity, *T1, *T2, *T3)) {
	v.each(0, false, fn)
}

// EachChanged is Each restricted to chunks where any of the view's columns
// was written after since.
func (v *View3[T1, T2, T3]) EachChanged(since uint32, fn func(Entity, *T1, *T2, *T3)) {
	v.each(since, true, fn)
}

func (v *View3[T1, T2, T3]) each(since uint32, changed bool, fn func(Entity, *T1, *T2, *T3)) {
	v.refresh()
	v.world.lock()
	defer v.world.unlock()
	for _, a := range v.matching {
		s1 := a.slot(v.ids[0])
		s2 := a.slot(v.ids[1])
		s3 := a.slot(v.ids[2])
		for ci, n := 0, a.chunkCount(); ci < n; ci++ {
			if changed && !a.changedSince(ci, s1, since) && !a.changedSince(ci, s2, since) && !a.changedSince(ci, s3, since) {
				continue
			}
			v.stamp(a, ci, s1)
			v.stamp(a, ci, s2)
			v.stamp(a, ci, s3)
			ents := a.entitySlice(ci)
			c1 := columnSlice[T1](a, ci, s1)
			c2 := columnSlice[T2](a, ci, s2)
			c3 := columnSlice[T3](a, ci, s3)
			for i, e := range ents {
				fn(e, &c1[i], &c2[i], &c3[i])
			}
		}
	}
}

// EachChunk calls fn once per non-empty chunk with its typed columns.
func (v *View3[T1, T2, T3]) EachChunk(fn func(ChunkView3[T1, T2, T3])) {
	v.refresh()
	v.world.lock()
	defer v.world.unlock()
	for _, a := range v.matching {
		s1 := a.slot(v.ids[0])
		s2 := a.slot(v.ids[1])
		s3 := a.slot(v.ids[2])
		for ci, n := 0, a.chunkCount(); ci < n; ci++ {
			v.stamp(a, ci, s1)
			v.stamp(a, ci, s2)
			v.stamp(a, ci, s3)
			fn(ChunkView3[T1, T2, T3]{
				Entities: a.entitySlice(ci),
				C1:       columnSlice[T1](a, ci, s1),
				C2:       columnSlice[T2](a, ci, s2),
				C3:       columnSlice[T3](a, ci, s3),
			})
		}
	}
}

// View4 iterates over all entities that have the 4 components: T1, T2, T3, T4.
type View4[T1 any, T2 any, T3 any, T4 any] struct {
	viewCache
	viewCursor
	col1 []T1
	col2 []T2
	col3 []T3
	col4 []T4
	ids  [4]ComponentID
}

// ChunkView4 is one chunk's live rows as typed columns.
type ChunkView4[T1 any, T2 any, T3 any, T4 any] struct {
	Entities []Entity
	C1       []T1
	C2       []T2
	C3       []T3
	C4       []T4
}

// NewView4 creates a view over entities with T1, T2, T3, T4 and none of exclude.
// It panics if the same component type is requested twice.
func NewView4[T1 any, T2 any, T3 any, T4 any](w *World, exclude ...ComponentID) *View4[T1, T2, T3, T4] {
	ids := [4]ComponentID{
		RegisterComponent[T1](w),
		RegisterComponent[T2](w),
		RegisterComponent[T3](w),
		RegisterComponent[T4](w),
	}
	include := MaskOf(ids[:]...)
	if include.Len() != 4 {
		panic("kura: duplicate component types in View4")
	}
	v := &View4[T1, T2, T3, T4]{
		viewCache: newViewCache(w, include, w.maskFor(exclude)),
		ids:       ids,
	}
	v.Reset()
	return v
}

// ReadOnly stops the view from stamping visited chunks as changed.
func (v *View4[T1, T2, T3, T4]) ReadOnly() *View4[T1, T2, T3, T4] {
	v.readOnly = true
	return v
}

// Reset rewinds the cursor, refreshing the archetype list if it is stale.
func (v *View4[T1, T2, T3, T4]) Reset() {
	v.refresh()
	v.viewCursor.reset()
}

// Next advances the cursor to the next entity.
func (v *View4[T1, T2, T3, T4]) Next() bool {
	v.idx++
	if v.idx < v.rows {
		return true
	}
	if !v.step(v.matching) {
		return false
	}
	a, ci := v.arch, v.chunk
	s1 := a.slot(v.ids[0])
	v.col1 = columnSlice[T1](a, ci, s1)
	v.stamp(a, ci, s1)
	s2 := a.slot(v.ids[1])
	v.col2 = columnSlice[T2](a, ci, s2)
	v.stamp(a, ci, s2)
	s3 := a.slot(v.ids[2])
	v.col3 = columnSlice[T3](a, ci, s3)
	v.stamp(a, ci, s3)
	s4 := a.slot(v.ids[3])
	v.col4 = columnSlice[T4](a, ci, s4)
	v.stamp(a, ci, s4)
	return true
}

// Entity returns the current entity.
func (v *View4[T1, T2, T3, T4]) Entity() Entity {
	return v.ents[v.idx]
}

// Get returns the current entity's components.
func (v *View4[T1, T2, T3, T4]) Get() (*T1, *T2, *T3, *T4) {
	i := v.idx
	return &v.col1[i], &v.col2[i], &v.col3[i], &v.col4[i]
}

// Each calls fn once per matching entity.
func (v *View4[T1, T2, T3, T4]) Each(fn func(Entity, *T1, *T2, *T3, *T4)) {
	v.each(0, false, fn)
}

// EachChanged is Each restricted to chunks where any of the view's columns
// was written after since.
func (v *View4[T1, T2, T3, T4]) EachChanged(since uint32, fn func(Entity, *T1, *T2, *T3, *T4)) {
	v.each(since, true, fn)
}

func (v *View4[T1, T2, T3, T4]) each(since uint32, changed bool, fn func(Entity, *T1, *T2, *T3, *T4)) {
	v.refresh()
	v.world.lock()
	defer v.world.unlock()
	for _, a := range v.matching {
		s1 := a.slot(v.ids[0])
		s2 := a.slot(v.ids[1])
		s3 := a.slot(v.ids[2])
		s4 := a.slot(v.ids[3])
		for ci, n := 0, a.chunkCount(); ci < n; ci++ {
			if changed && !a.changedSince(ci, s1, since) && !a.changedSince(ci, s2, since) && !a.changedSince(ci, s3, since) && !a.changedSince(ci, s4, since) {
				continue
			}
			v.stamp(a, ci, s1)
			v.stamp(a, ci, s2)
			v.stamp(a, ci, s3)
			v.stamp(a, ci, s4)
			ents := a.entitySlice(ci)
			c1 := columnSlice[T1](a, ci, s1)
			c2 := columnSlice[T2](a, ci, s2)
			c3 := columnSlice[T3](a, ci, s3)
			c4 := columnSlice[T4](a, ci, s4)
			for i, e := range ents {
				fn(e, &c1[i], &c2[i], &c3[i], &c4[i])
			}
		}
	}
}

// EachChunk calls fn once per non-empty chunk with its typed columns.
func (v *View4[T1, T2, T3, T4]) EachChunk(fn func(ChunkView4[T1, T2, T3, T4])) {
	v.refresh()
	v.world.lock()
	defer v.world.unlock()
	for _, a := range v.matching {
		s1 := a.slot(v.ids[0])
		s2 := a.slot(v.ids[1])
		s3 := a.slot(v.ids[2])
		s4 := a.slot(v.ids[3])
		for ci, n := 0, a.chunkCount(); ci < n; ci++ {
			v.stamp(a, ci, s1)
			v.stamp(a, ci, s2)
			v.stamp(a, ci, s3)
			v.stamp(a, ci, s4)
			fn(ChunkView4[T1, T2, T3, T4]{
				Entities: a.entitySlice(ci),
				C1:       columnSlice[T1](a, ci, s1),
				C2:       columnSlice[T2](a, ci, s2),
				C3:       columnSlice[T3](a, ci, s3),
				C4:       columnSlice[T4](a, ci, s4),
			})
		}
	}
}
