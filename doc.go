// Package kura is a chunked archetype storage engine for entity/component
// data.
//
// Entities with the same set of component types share an archetype. Each
// archetype stores its rows in 16 KiB chunks with one contiguous column per
// component, so views iterate plain typed slices:
//
//	w := kura.NewWorld()
//	pos := kura.RegisterComponent[Position](w)
//	vel := kura.RegisterComponent[Velocity](w)
//	b, _ := kura.NewBuilder(w, pos, vel)
//	b.NewBatch(1000)
//
//	kura.NewView2[Position, Velocity](w).Each(func(e kura.Entity, p *Position, v *Velocity) {
//	    p.X += v.X
//	})
//
// Component types must not contain Go pointers, strings, slices, maps or
// interfaces; chunk memory is not scanned by the garbage collector.
package kura
