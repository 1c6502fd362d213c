// Package port defines the boundary between the scheduling core and the
// platform-specific trampoline that actually saves/restores CPU register
// frames, masks interrupts, and programs the system tick source.
//
// Nothing in this package depends on a real ARMv7-M (or any other) target.
// The core calls through the Port interface; a production build supplies an
// implementation backed by assembly and MMIO, while tests and examples use
// Mock.
package port

// Mask is an opaque, platform-defined representation of the interrupt-enable
// state saved by EnterCritical and restored by ExitCritical. The core never
// inspects its value.
type Mask uint32

// TaskHandle is an opaque reference to a task, as seen by the port layer.
// The core passes back whatever value it received from Port.NewStack.
type TaskHandle any

// Port is the set of primitives the scheduling core requires from the
// platform. Every method may be called from either task or tick-ISR
// context unless stated otherwise.
type Port interface {
	// EnterCritical masks task-level interrupts and returns the previous
	// mask, so nested callers can restore exactly the state they found.
	EnterCritical() Mask

	// ExitCritical restores the interrupt state captured by a matching
	// EnterCritical call. It must be safe to call from either task or ISR
	// context and must not itself require the critical section it is
	// releasing.
	ExitCritical(prev Mask)

	// RequestSwitch marks a deferred context switch between curr and next.
	// The switch takes effect the next time interrupts unmask. Must be
	// called with the critical section held; the implementation is
	// responsible for completing the switch on the matching ExitCritical.
	RequestSwitch(curr, next TaskHandle)

	// NewStack builds a synthetic exception-return frame at the top of the
	// given stack region, matching the port's register layout, so that the
	// first resume enters entry(arg) in the correct processor mode. It
	// returns an opaque cursor the core stores and never otherwise
	// inspects.
	NewStack(stack []byte, entry func(arg any), arg any) (cursor uintptr)

	// RunFirst transfers control to task as if resuming from a context
	// save built by NewStack. It never returns.
	RunFirst(task TaskHandle)

	// SetTickPeriod programs the tick source to fire every periodMS
	// milliseconds.
	SetTickPeriod(periodMS int)
}
