package port

import "sync"

// Switch records a single RequestSwitch call, for assertions like
// "sched_lock_counter > 0 implies no context switch has occurred across the
// guarded region" (spec.md §8).
type Switch struct {
	Curr, Next TaskHandle
}

// Mock is a Port implementation with no real CPU behind it: EnterCritical
// and ExitCritical just track nesting depth with a mutex (there is no
// interrupt controller to mask), and every other call is recorded for
// inspection. It is intended for unit tests and examples, never for a real
// target.
type Mock struct {
	mu sync.Mutex

	depth   int
	masks   []Mask
	nextMsk Mask

	Switches  []Switch
	TickMS    int
	FirstTask TaskHandle
	Started   bool

	// Stacks records every NewStack call, keyed by the returned cursor.
	Stacks map[uintptr]MockStack
	cursor uintptr
}

// MockStack is what Mock.NewStack records instead of building a real frame.
type MockStack struct {
	Entry func(arg any)
	Arg   any
	Stack []byte
}

// NewMock returns a ready-to-use Mock port.
func NewMock() *Mock {
	return &Mock{Stacks: make(map[uintptr]MockStack)}
}

func (m *Mock) EnterCritical() Mask {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.depth++
	m.nextMsk++
	prev := m.nextMsk
	m.masks = append(m.masks, prev)
	return prev
}

func (m *Mock) ExitCritical(prev Mask) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.depth > 0 {
		m.depth--
	}
}

// Depth reports the current critical-section nesting depth. Used by tests
// that assert a kernel API leaves the critical section balanced.
func (m *Mock) Depth() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.depth
}

func (m *Mock) RequestSwitch(curr, next TaskHandle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Switches = append(m.Switches, Switch{Curr: curr, Next: next})
}

func (m *Mock) NewStack(stack []byte, entry func(arg any), arg any) uintptr {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cursor++
	m.Stacks[m.cursor] = MockStack{Entry: entry, Arg: arg, Stack: stack}
	return m.cursor
}

func (m *Mock) RunFirst(task TaskHandle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Started = true
	m.FirstTask = task
}

func (m *Mock) SetTickPeriod(periodMS int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TickMS = periodMS
}

// SwitchCount returns the number of RequestSwitch calls observed so far.
func (m *Mock) SwitchCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Switches)
}

// LastSwitch returns the most recent RequestSwitch call, if any.
func (m *Mock) LastSwitch() (Switch, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Switches) == 0 {
		return Switch{}, false
	}
	return m.Switches[len(m.Switches)-1], true
}

var _ Port = (*Mock)(nil)
