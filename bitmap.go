package rtkernel

import "math/bits"

// Bitmap32 is the priority-ready bitmap: bit p is set iff the ready list for
// priority p is non-empty (spec.md invariant I1). First-set lookup is O(1)
// via a hardware count-trailing-zeros instruction, the same bitmap-driven
// O(1)-lookup idiom _examples/Maemo32-SupraX_Legacy/SupraX.go uses
// (math/bits) for its reservation-station scheduling.
type Bitmap32 uint32

// Set marks priority i ready.
func (b *Bitmap32) Set(i int) { *b |= 1 << uint(i) }

// Clear marks priority i empty.
func (b *Bitmap32) Clear(i int) { *b &^= 1 << uint(i) }

// IsSet reports whether priority i currently has at least one ready task.
func (b Bitmap32) IsSet(i int) bool { return b&(1<<uint(i)) != 0 }

// Empty reports whether no priority has a ready task.
func (b Bitmap32) Empty() bool { return b == 0 }

// FirstSet returns the lowest set bit index (priority 0 is highest, so this
// is also "highest-priority ready task's priority"). It is undefined
// (returns -1) when the bitmap is empty; the kernel must never call it in
// that state, since the idle task is always ready (spec.md §4.1).
func (b Bitmap32) FirstSet() int {
	if b == 0 {
		return -1
	}
	return bits.TrailingZeros32(uint32(b))
}

// PopCount returns the number of set bits, used by the zero-empty invariant
// test (spec.md §8): sum of ready-list lengths must equal PopCount.
func (b Bitmap32) PopCount() int { return bits.OnesCount32(uint32(b)) }
