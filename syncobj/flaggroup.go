package syncobj

import "github.com/rtkernel-go/rtkernel"

// FlagMode selects how Wait interprets its mask against the group's bits.
type FlagMode int

const (
	// FlagAny is satisfied when any bit in mask is set.
	FlagAny FlagMode = iota
	// FlagAll is satisfied only when every bit in mask is set.
	FlagAll
)

// FlagGroup is a 32-bit event-flag group with AND/OR wait, built on
// rtkernel.Event's broadcast primitive (EventWakeAll) rather than the
// single-waiter EventWake semaphore/mailbox/mutex use.
//
// Event has no notion of a per-waiter predicate, so Set wakes every current
// waiter unconditionally with a snapshot of the bits; Wait re-checks its own
// mask/mode against the group's current bits and, if still unsatisfied,
// re-blocks. This
// means a waiter's timeout effectively restarts on each spurious wake rather
// than counting down across the whole call — acceptable for the bit
// patterns this kernel expects (few, infrequent spurious wakes), but worth
// knowing before reusing this for a workload with many unrelated flag
// producers sharing one group.
type FlagGroup struct {
	k    *rtkernel.Kernel
	ev   *rtkernel.Event
	bits uint32
}

// NewFlagGroup constructs a FlagGroup with all bits initially clear.
func NewFlagGroup(k *rtkernel.Kernel) *FlagGroup {
	return &FlagGroup{k: k, ev: rtkernel.NewEvent(rtkernel.EventFlagGroup)}
}

func satisfied(bits, mask uint32, mode FlagMode) bool {
	if mode == FlagAll {
		return bits&mask == mask
	}
	return bits&mask != 0
}

// Wait blocks until the group's bits satisfy mask under mode, or timeout
// elapses, returning the bits observed at the moment of success.
func (f *FlagGroup) Wait(mask uint32, mode FlagMode, timeout int) (uint32, rtkernel.Result) {
	for {
		cmask := f.k.EnterCritical()
		if satisfied(f.bits, mask, mode) {
			cur := f.bits
			f.k.ExitCritical(cmask)
			return cur, rtkernel.ResultOK
		}
		t := f.k.CurTask()
		var slot any
		f.k.EventWait(f.ev, t, &slot, 0, timeout)
		f.k.ExitCritical(cmask)
		f.k.Schedule()

		if t.WaitResult() != rtkernel.ResultOK {
			return f.bits, t.WaitResult()
		}
		if satisfied(f.bits, mask, mode) {
			return f.bits, rtkernel.ResultOK
		}
		// Woken by a Set that didn't satisfy this waiter's mask/mode; loop
		// and wait again.
	}
}

// Set ORs bits into the group and broadcasts the new value to every
// currently blocked waiter.
func (f *FlagGroup) Set(bits uint32) {
	cmask := f.k.EnterCritical()
	f.bits |= bits
	snapshot := f.bits
	f.k.EventWakeAll(f.ev, snapshot, rtkernel.ResultOK)
	f.k.ExitCritical(cmask)
	f.k.Schedule()
}

// Clear clears bits in the group. It does not wake anyone — clearing can
// only make a wait condition less satisfied.
func (f *FlagGroup) Clear(bits uint32) {
	cmask := f.k.EnterCritical()
	f.bits &^= bits
	f.k.ExitCritical(cmask)
}

// Bits returns the group's current value. Like rtkernel.Semaphore's count,
// this is stale the instant it is read outside the critical section — for
// diagnostics only.
func (f *FlagGroup) Bits() uint32 { return f.bits }

// WaitCount reports the number of tasks blocked in Wait.
func (f *FlagGroup) WaitCount() int { return f.ev.WaitCount() }
