package rtkernel

// Semaphore is a counting (or, with max == 1, binary) semaphore built
// directly on the Event primitive. It lives in the root package rather than
// rtkernel/syncobj because the Timer Subsystem itself depends on two
// instances of it — timer_protect (binary) and timer_tick (counting) —
// making it part of the core, not a layered convenience (SPEC_FULL.md §5).
type Semaphore struct {
	ev    *Event
	count int
	max   int // 0 means unbounded
}

// NewSemaphore constructs a semaphore with the given initial count and
// maximum (0 for unbounded, matching timer_tick's "counting, unbounded").
func (k *Kernel) NewSemaphore(count, max int) *Semaphore {
	return &Semaphore{ev: NewEvent(EventSemaphore), count: count, max: max}
}

// newBinarySemaphore and newCountingSemaphore are the two timer-subsystem
// constructions named explicitly in spec.md §4.7.
func (k *Kernel) newBinarySemaphore(initial int) *Semaphore {
	return k.NewSemaphore(initial, 1)
}

func (k *Kernel) newCountingSemaphore(initial, max int) *Semaphore {
	return k.NewSemaphore(initial, max)
}

// SemaphoreWait decrements the semaphore, blocking the current task if its
// count is already zero. timeout follows EventWait's convention: Forever
// (0) waits indefinitely, any positive value is a tick count. The return
// value is the wait's Result (OK if a give was received, Timeout if not).
func (k *Kernel) SemaphoreWait(s *Semaphore, timeout int) Result {
	mask := k.port.EnterCritical()
	if s.count > 0 {
		s.count--
		k.port.ExitCritical(mask)
		return ResultOK
	}
	t := k.curTask
	var slot any
	k.EventWait(s.ev, t, &slot, 0, timeout)
	k.port.ExitCritical(mask)
	k.Schedule()
	return t.waitResult
}

// SemaphoreGive releases the semaphore: it wakes the longest-waiting task
// if one exists, otherwise increments the count (saturating at max, if
// max > 0).
func (k *Kernel) SemaphoreGive(s *Semaphore) {
	k.semaphoreGive(s, true)
}

// giveTimerTick is notifyTimerModule's use of SemaphoreGive(timer_tick):
// called from the tick ISR's epilogue, so it must not trace (the trace
// batcher's Submit is a task-context-only operation).
func (k *Kernel) giveTimerTick() {
	k.semaphoreGive(k.timerTick, false)
}

func (k *Kernel) semaphoreGive(s *Semaphore, trace bool) {
	mask := k.port.EnterCritical()
	woken := k.EventWake(s.ev, nil, ResultOK)
	if woken == nil && (s.max <= 0 || s.count < s.max) {
		s.count++
	}
	k.port.ExitCritical(mask)
	k.schedule(trace)
}

// SemaphoreCount returns the current count (for diagnostics/tests only;
// application code should not branch on it, as it is immediately stale
// outside the critical section).
func (k *Kernel) SemaphoreCount(s *Semaphore) int { return s.count }

// SemaphoreWaitCount returns the number of tasks currently blocked on s.
func (k *Kernel) SemaphoreWaitCount(s *Semaphore) int { return s.ev.WaitCount() }
