package ranged

import (
	"math/bits"
)

// KindSet is a 256-bit set of projectile kinds.
// The zero value is the empty set.
type KindSet [4]uint64

// Kinds returns a set holding the given kinds.
func Kinds(ks ...ProjectileKind) KindSet {
	var s KindSet
	for _, k := range ks {
		s.Add(k)
	}
	return s
}

// Add adds k to the set.
func (s *KindSet) Add(k ProjectileKind) {
	s[k/64] |= 1 << (k % 64)
}

// Remove removes k from the set.
func (s *KindSet) Remove(k ProjectileKind) {
	s[k/64] &^= 1 << (k % 64)
}

// Has returns true if k is in the set.
func (s KindSet) Has(k ProjectileKind) bool {
	return s[k/64]&(1<<(k%64)) != 0
}

// ContainsAll returns true if every kind in other is also in s.
func (s KindSet) ContainsAll(other KindSet) bool {
	return (s[0]&other[0] == other[0]) &&
		(s[1]&other[1] == other[1]) &&
		(s[2]&other[2] == other[2]) &&
		(s[3]&other[3] == other[3])
}

// ContainsAny returns true if any kind in other is also in s.
func (s KindSet) ContainsAny(other KindSet) bool {
	return (s[0]&other[0] != 0) ||
		(s[1]&other[1] != 0) ||
		(s[2]&other[2] != 0) ||
		(s[3]&other[3] != 0)
}

// IsZero returns true if the set is empty.
func (s KindSet) IsZero() bool {
	return s[0] == 0 && s[1] == 0 && s[2] == 0 && s[3] == 0
}

// Union returns a new set with the kinds of both s and other.
func (s KindSet) Union(other KindSet) KindSet {
	return KindSet{
		s[0] | other[0],
		s[1] | other[1],
		s[2] | other[2],
		s[3] | other[3],
	}
}

// Count returns the number of kinds in the set.
func (s KindSet) Count() int {
	return bits.OnesCount64(s[0]) +
		bits.OnesCount64(s[1]) +
		bits.OnesCount64(s[2]) +
		bits.OnesCount64(s[3])
}

// Slice returns the kinds in the set in ascending order.
func (s KindSet) Slice() []ProjectileKind {
	out := make([]ProjectileKind, 0, s.Count())
	for i, word := range s {
		for word != 0 {
			b := bits.TrailingZeros64(word)
			out = append(out, ProjectileKind(i*64+b))
			word &^= 1 << b
		}
	}
	return out
}
