package kura

import "math/bits"

// Mask is a set of up to 256 component IDs. It uniquely identifies an
// archetype: each bit corresponds to a component ID.
type Mask [4]uint64

// MaskOf builds a mask from component IDs.
func MaskOf(ids ...ComponentID) Mask {
	var m Mask
	for _, id := range ids {
		m.Set(id)
	}
	return m
}

// Set enables the bit for id.
func (m *Mask) Set(id ComponentID) {
	m[id>>6] |= uint64(1) << (id & 63)
}

// Unset disables the bit for id.
func (m *Mask) Unset(id ComponentID) {
	m[id>>6] &^= uint64(1) << (id & 63)
}

// Has reports whether id is in the mask.
func (m Mask) Has(id ComponentID) bool {
	return m[id>>6]&(uint64(1)<<(id&63)) != 0
}

// Contains checks if all the bits set in sub are also set in m. This is used
// to determine if an archetype's component set is a superset of a view's
// required components.
func (m Mask) Contains(sub Mask) bool {
	return (m[0]&sub[0]) == sub[0] &&
		(m[1]&sub[1]) == sub[1] &&
		(m[2]&sub[2]) == sub[2] &&
		(m[3]&sub[3]) == sub[3]
}

// Intersects checks if m has any bits in common with other.
func (m Mask) Intersects(other Mask) bool {
	return (m[0]&other[0] != 0) ||
		(m[1]&other[1] != 0) ||
		(m[2]&other[2] != 0) ||
		(m[3]&other[3] != 0)
}

// Or returns the union of m and other.
func (m Mask) Or(other Mask) Mask {
	return Mask{m[0] | other[0], m[1] | other[1], m[2] | other[2], m[3] | other[3]}
}

// AndNot returns m with every bit of other cleared.
func (m Mask) AndNot(other Mask) Mask {
	return Mask{m[0] &^ other[0], m[1] &^ other[1], m[2] &^ other[2], m[3] &^ other[3]}
}

// IsZero reports whether the mask is empty.
func (m Mask) IsZero() bool {
	return m[0]|m[1]|m[2]|m[3] == 0
}

// Len returns the number of component IDs in the mask.
func (m Mask) Len() int {
	return bits.OnesCount64(m[0]) + bits.OnesCount64(m[1]) +
		bits.OnesCount64(m[2]) + bits.OnesCount64(m[3])
}

// IDs returns the component IDs in ascending order.
func (m Mask) IDs() []ComponentID {
	ids := make([]ComponentID, 0, m.Len())
	for w, word := range m {
		for word != 0 {
			b := bits.TrailingZeros64(word)
			ids = append(ids, ComponentID(w*64+b))
			word &= word - 1
		}
	}
	return ids
}
