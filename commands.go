package kura

import (
	"slices"

	"github.com/rotisserie/eris"
)

type commandKind uint8

const (
	cmdCreate commandKind = iota
	cmdAdd
	cmdRemove
)

type command struct {
	kind   commandKind
	entity Entity
	ids    []ComponentID
	count  int
}

// Commands records structural changes so they can be made while a view is
// iterating and replayed once it is done. Apply runs creations first, then
// component changes, then releases. Changes to an entity queued for release
// are dropped.
type Commands struct {
	world          *World
	creates        []command
	changes        []command
	releases       []Entity
	pendingRelease map[Entity]struct{}
}

// NewCommands returns an empty command buffer for w.
func NewCommands(w *World) *Commands {
	return &Commands{
		world:          w,
		pendingRelease: make(map[Entity]struct{}),
	}
}

// Len returns the number of queued commands.
func (c *Commands) Len() int {
	return len(c.creates) + len(c.changes) + len(c.releases)
}

// Create queues the creation of one entity holding ids.
func (c *Commands) Create(ids ...ComponentID) {
	c.CreateBatch(1, ids...)
}

// CreateBatch queues the creation of count entities holding ids.
func (c *Commands) CreateBatch(count int, ids ...ComponentID) {
	if count <= 0 {
		return
	}
	c.world.maskFor(ids)
	c.creates = append(c.creates, command{kind: cmdCreate, ids: slices.Clone(ids), count: count})
}

// Add queues attaching ids to e.
func (c *Commands) Add(e Entity, ids ...ComponentID) {
	c.queueChange(cmdAdd, e, ids)
}

// Remove queues detaching ids from e.
func (c *Commands) Remove(e Entity, ids ...ComponentID) {
	c.queueChange(cmdRemove, e, ids)
}

func (c *Commands) queueChange(kind commandKind, e Entity, ids []ComponentID) {
	if _, ok := c.pendingRelease[e]; ok {
		return
	}
	c.world.maskFor(ids)
	c.changes = append(c.changes, command{kind: kind, entity: e, ids: slices.Clone(ids)})
}

// Release queues destroying e. Queuing the same entity twice is a no-op.
func (c *Commands) Release(e Entity) {
	if _, ok := c.pendingRelease[e]; ok {
		return
	}
	c.pendingRelease[e] = struct{}{}
	c.releases = append(c.releases, e)
}

// Apply replays the queue against the world and returns the entities it
// created. It stops at the first failing command; the queue is emptied
// either way. A queued change or release whose entity is no longer alive
// fails with ErrStaleHandle, unless the entity is queued for release here.
func (c *Commands) Apply() ([]Entity, error) {
	w := c.world
	if w.Locked() {
		return nil, eris.Wrap(ErrWorldLocked, "apply commands")
	}
	defer c.reset()

	var created []Entity
	for _, cmd := range c.creates {
		b, err := NewBuilder(w, cmd.ids...)
		if err != nil {
			return created, eris.Wrap(err, "apply queued create")
		}
		created = append(created, b.NewBatch(cmd.count)...)
	}

	for _, cmd := range c.changes {
		if _, ok := c.pendingRelease[cmd.entity]; ok {
			continue
		}
		var err error
		switch cmd.kind {
		case cmdAdd:
			err = w.Add(cmd.entity, cmd.ids...)
		case cmdRemove:
			err = w.Remove(cmd.entity, cmd.ids...)
		}
		if err != nil {
			return created, eris.Wrapf(err, "apply queued change to %v", cmd.entity)
		}
	}

	for _, e := range c.releases {
		if err := w.Release(e); err != nil {
			return created, eris.Wrapf(err, "apply queued release of %v", e)
		}
	}
	w.logger.Debug().
		Int("created", len(created)).
		Int("changed", len(c.changes)).
		Int("released", len(c.releases)).
		Msg("commands applied")
	return created, nil
}

func (c *Commands) reset() {
	c.creates = c.creates[:0]
	c.changes = c.changes[:0]
	c.releases = c.releases[:0]
	clear(c.pendingRelease)
}
