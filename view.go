package kura

// viewCache holds the archetypes matching an include/exclude mask. It is
// rebuilt lazily, in one pass over the world's archetypes, whenever the
// world's view version shows that new archetypes were created.
type viewCache struct {
	world    *World
	matching []*archetype
	include  Mask
	exclude  Mask
	version  uint32
	readOnly bool
}

func newViewCache(w *World, include, exclude Mask) viewCache {
	return viewCache{
		world:    w,
		include:  include,
		exclude:  exclude,
		matching: make([]*archetype, 0, 8),
	}
}

// IsStale reports whether archetypes were created since the last refresh.
func (c *viewCache) IsStale() bool {
	return c.version != c.world.viewVersion
}

func (c *viewCache) refresh() {
	if !c.IsStale() {
		return
	}
	// A fresh slice keeps an Each already ranging over the old list intact.
	matching := make([]*archetype, 0, max(len(c.matching), 8))
	for _, a := range c.world.archetypes {
		if a.mask.Contains(c.include) && !a.mask.Intersects(c.exclude) {
			matching = append(matching, a)
		}
	}
	c.matching = matching
	c.version = c.world.viewVersion
}

// Include returns the components every visited entity has.
func (c *viewCache) Include() Mask {
	return c.include
}

// Exclude returns the components no visited entity has.
func (c *viewCache) Exclude() Mask {
	return c.exclude
}

// Archetypes returns the number of archetypes the view matches.
func (c *viewCache) Archetypes() int {
	c.refresh()
	return len(c.matching)
}

// Count returns the number of entities the view would visit.
func (c *viewCache) Count() int {
	c.refresh()
	n := 0
	for _, a := range c.matching {
		n += a.size
	}
	return n
}

// Entities returns a copy of every entity the view would visit.
func (c *viewCache) Entities() []Entity {
	c.refresh()
	ents := make([]Entity, 0, c.Count())
	for _, a := range c.matching {
		ents = append(ents, a.entities...)
	}
	return ents
}

// stamp marks slot of chunk ci as written now, unless the view is read-only.
func (c *viewCache) stamp(a *archetype, ci, slot int) {
	if !c.readOnly {
		a.versions[ci][slot] = c.world.version
	}
}

// viewCursor walks the non-empty chunks of a view's archetypes one row at a
// time.
type viewCursor struct {
	arch  *archetype
	ents  []Entity
	match int
	chunk int
	idx   int
	rows  int
}

func (c *viewCursor) reset() {
	*c = viewCursor{match: -1, idx: -1}
}

// step moves to the next chunk holding live rows.
func (c *viewCursor) step(matching []*archetype) bool {
	for {
		if c.arch != nil && c.chunk+1 < c.arch.chunkCount() {
			c.chunk++
		} else {
			c.match++
			if c.match >= len(matching) {
				c.arch = nil
				c.rows = 0
				return false
			}
			c.arch = matching[c.match]
			c.chunk = 0
			if c.arch.size == 0 {
				continue
			}
		}
		c.ents = c.arch.entitySlice(c.chunk)
		c.rows = len(c.ents)
		c.idx = 0
		return true
	}
}

// Query visits entities by mask alone, without component access.
type Query struct {
	viewCache
	viewCursor
}

// NewQuery creates a query over entities whose component set contains
// include and shares nothing with exclude.
func NewQuery(w *World, include, exclude Mask) *Query {
	q := &Query{viewCache: newViewCache(w, include, exclude)}
	q.Reset()
	return q
}

// Reset rewinds the cursor, refreshing the archetype list if it is stale.
func (q *Query) Reset() {
	q.refresh()
	q.viewCursor.reset()
}

// Next advances to the next entity.
func (q *Query) Next() bool {
	q.idx++
	if q.idx < q.rows {
		return true
	}
	return q.step(q.matching)
}

// Entity returns the current entity.
func (q *Query) Entity() Entity {
	return q.ents[q.idx]
}

// Each calls fn for every matching entity. Structural changes are refused
// while it runs.
func (q *Query) Each(fn func(Entity)) {
	q.refresh()
	q.world.lock()
	defer q.world.unlock()
	for _, a := range q.matching {
		for _, e := range a.entities {
			fn(e)
		}
	}
}

// View iterates over all entities that have component T. It is the filter
// for one component; View2 to View4 follow the same pattern.
//
// Pointers handed out by the view are valid until the next structural
// change. Unless the view is read-only, every chunk it visits is stamped
// with the world's change version.
type View[T any] struct {
	viewCache
	viewCursor
	col []T
	id  ComponentID
}

// ChunkView is one chunk's live rows as typed columns.
type ChunkView[T any] struct {
	Entities []Entity
	C1       []T
}

// NewView creates a view over entities with T and none of exclude.
func NewView[T any](w *World, exclude ...ComponentID) *View[T] {
	id := RegisterComponent[T](w)
	v := &View[T]{
		viewCache: newViewCache(w, MaskOf(id), w.maskFor(exclude)),
		id:        id,
	}
	v.Reset()
	return v
}

// ReadOnly stops the view from stamping visited chunks as changed.
func (v *View[T]) ReadOnly() *View[T] {
	v.readOnly = true
	return v
}

// Reset rewinds the cursor, refreshing the archetype list if it is stale.
func (v *View[T]) Reset() {
	v.refresh()
	v.viewCursor.reset()
}

// Next advances the cursor to the next entity.
//
//	view := kura.NewView[Position](w)
//	for view.Next() {
//	    p := view.Get()
//	}
func (v *View[T]) Next() bool {
	v.idx++
	if v.idx < v.rows {
		return true
	}
	if !v.step(v.matching) {
		return false
	}
	s := v.arch.slot(v.id)
	v.col = columnSlice[T](v.arch, v.chunk, s)
	v.stamp(v.arch, v.chunk, s)
	return true
}

// Entity returns the current entity.
func (v *View[T]) Entity() Entity {
	return v.ents[v.idx]
}

// Get returns the current entity's component.
func (v *View[T]) Get() *T {
	return &v.col[v.idx]
}

// Each calls fn once per matching entity.
func (v *View[T]) Each(fn func(Entity, *T)) {
	v.each(0, false, fn)
}

// EachChanged is Each restricted to chunks whose T column was written
// after since.
func (v *View[T]) EachChanged(since uint32, fn func(Entity, *T)) {
	v.each(since, true, fn)
}

func (v *View[T]) each(since uint32, changed bool, fn func(Entity, *T)) {
	v.refresh()
	v.world.lock()
	defer v.world.unlock()
	for _, a := range v.matching {
		s := a.slot(v.id)
		for ci, n := 0, a.chunkCount(); ci < n; ci++ {
			if changed && !a.changedSince(ci, s, since) {
				continue
			}
			v.stamp(a, ci, s)
			ents := a.entitySlice(ci)
			col := columnSlice[T](a, ci, s)
			for i, e := range ents {
				fn(e, &col[i])
			}
		}
	}
}

// EachChunk calls fn once per non-empty chunk with its typed columns.
func (v *View[T]) EachChunk(fn func(ChunkView[T])) {
	v.refresh()
	v.world.lock()
	defer v.world.unlock()
	for _, a := range v.matching {
		s := a.slot(v.id)
		for ci, n := 0, a.chunkCount(); ci < n; ci++ {
			v.stamp(a, ci, s)
			fn(ChunkView[T]{
				Entities: a.entitySlice(ci),
				C1:       columnSlice[T](a, ci, s),
			})
		}
	}
}
