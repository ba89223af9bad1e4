package kura

// Builder creates entities directly in the archetype of a fixed component
// set, without passing through the intermediate archetypes that adding the
// components one by one would visit.
type Builder struct {
	world *World
	arch  *archetype
}

// NewBuilder returns a builder for entities holding exactly ids.
func NewBuilder(w *World, ids ...ComponentID) (*Builder, error) {
	a, err := w.archetypeFor(w.maskFor(ids))
	if err != nil {
		return nil, err
	}
	return &Builder{world: w, arch: a}, nil
}

// Mask returns the component set of the entities the builder creates.
func (b *Builder) Mask() Mask {
	return b.arch.mask
}

// New creates one entity with every component at its default value.
func (b *Builder) New() Entity {
	return b.world.spawn(b.arch)
}

// NewBatch creates count entities and returns them.
func (b *Builder) NewBatch(count int) []Entity {
	if count <= 0 {
		return nil
	}
	ents := make([]Entity, count)
	for i := range ents {
		ents[i] = b.New()
	}
	return ents
}
