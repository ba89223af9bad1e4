package kura

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// --- Test Components ---
type Position struct{ X, Y, Z float32 }
type Rotation struct{ Angle float32 }
type Velocity struct{ X, Y float64 }
type Health struct{ Current, Max int32 }
type Tag struct{}

type Huge struct {
	Data [ChunkSize - 8]byte
}

type testIDs struct {
	pos, rot, vel, health, tag ComponentID
}

// --- Test Suite Setup ---
func setupWorld(t *testing.T, opts ...Option) (*World, testIDs) {
	t.Helper()
	w := NewWorld(opts...)
	ids := testIDs{
		pos:    RegisterComponent[Position](w),
		rot:    RegisterComponent[Rotation](w),
		vel:    RegisterComponent[Velocity](w),
		health: RegisterComponent[Health](w),
		tag:    RegisterComponent[Tag](w),
	}
	return w, ids
}

// spawnWith creates an entity holding Position p.
func spawnWith(t *testing.T, w *World, p Position) Entity {
	t.Helper()
	e := w.Create()
	require.NoError(t, SetComponent(w, e, p))
	return e
}
