package kura

// ArchetypeCreated is published when a component set is seen for the first time.
type ArchetypeCreated struct {
	Index int
	Mask  Mask
}

// EntityReleased is published after an entity was destroyed.
type EntityReleased struct {
	Entity Entity
}
