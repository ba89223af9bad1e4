package kura

import "github.com/rs/zerolog"

func (w *World) componentIntoArray(id ComponentID, arr *zerolog.Array) *zerolog.Array {
	dict := zerolog.Dict()
	dict = dict.Int("component_id", int(id))
	dict = dict.Str("component_name", w.registry.Type(id).String())
	return arr.Dict(dict)
}

// componentsArray renders ids as a zerolog array of id/name pairs.
func (w *World) componentsArray(ids []ComponentID) *zerolog.Array {
	arr := zerolog.Arr()
	for _, id := range ids {
		arr = w.componentIntoArray(id, arr)
	}
	return arr
}

// Logger returns the world's logger, already tagged with the world id.
func (w *World) Logger() *zerolog.Logger {
	return &w.logger
}

// LogArchetypes writes one event per archetype at level.
func (w *World) LogArchetypes(level zerolog.Level) {
	for _, a := range w.archetypes {
		w.logger.WithLevel(level).
			Int("archetype", a.index).
			Int("entities", a.size).
			Int("chunks", len(a.chunks)).
			Int("entities_per_chunk", a.perChunk).
			Uint64("row_size", uint64(a.rowSize)).
			Array("components", w.componentsArray(a.mask.IDs())).
			Send()
	}
}

// LogEntity writes e's location and components at level.
func (w *World) LogEntity(level zerolog.Level, e Entity) {
	r, ok := w.entities.lookup(e)
	if !ok {
		w.logger.WithLevel(level).Stringer("entity", e).Bool("alive", false).Send()
		return
	}
	w.logger.WithLevel(level).
		Stringer("entity", e).
		Int("archetype", r.arch.index).
		Int("row", r.row).
		Uint32("version", r.version).
		Array("components", w.componentsArray(r.arch.mask.IDs())).
		Send()
}
