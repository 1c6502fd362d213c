package rtkernel

import "github.com/joeycumines/logiface"

// Logger is the type-erased logiface logger the kernel logs through. Use
// (*logiface.Logger[E]).Logger() to obtain one from a concrete backend, the
// same conversion _examples/joeycumines-go-utilpkg/eventloop's own
// logiface-based tests perform before handing a logger to Loop. A nil
// Logger (the default — see WithLogger) is safe to call: every logiface
// method tolerates a nil receiver and no-ops.
type Logger = logiface.Logger[logiface.Event]

// logBootstrap, logTaskEvent, logForceDelete, logLockContract and
// logTimerHardListOverrun are the only places the kernel touches the
// logger, matching the short, named list in SPEC_FULL.md §3: bootstrap,
// task creation/deletion, forced deletes, timer overload, and
// scheduler-lock-held-across-a-tick.

func (k *Kernel) logBootstrap(msg string) {
	k.logger.Info().
		Int("prio_count", k.cfg.PrioCount).
		Int("ticks_per_sec", k.cfg.TicksPerSec).
		Log(msg)
}

func (k *Kernel) logTaskEvent(msg string, t *Task) {
	k.logger.Debug().
		Str("task", t.Name).
		Int("prio", t.prio).
		Log(msg)
}

func (k *Kernel) logForceDelete(t *Task) {
	k.logger.Info().
		Str("task", t.Name).
		Int("prio", t.prio).
		Log("task force-deleted")
}

// overloadAllowed reports whether category may log right now, consulting
// overloadLimiter (when configured, see WithOverloadRateLimit) so a
// sustained fault condition cannot flood the log sink. Checking this before
// building a message means a rate-limited category costs nothing beyond
// the Allow call itself on the ticks it is suppressed.
func (k *Kernel) overloadAllowed(category string) bool {
	if k.overloadLimiter == nil {
		return true
	}
	_, ok := k.overloadLimiter.Allow(category)
	return ok
}

// logLockContract flags the contract violation called out in spec.md §8:
// sched_lock_counter > 0 implies no context switch occurs across the
// guarded region. Tick calls this (outside its own critical section) every
// time it observed the scheduling lock still held at tick entry, passing
// the number of consecutive ticks it has now seen this condition persist.
func (k *Kernel) logLockContract(ticksHeld int) {
	const category = "sched_lock_held_across_tick"
	if !k.overloadAllowed(category) {
		return
	}
	k.logger.Warning().
		Str("category", category).
		Int("ticks_held", ticksHeld).
		Log("scheduling lock held across a tick boundary")
}

// logTimerHardListOverrun flags the hard-timer list growing past the
// configured WithHardTimerListMax bound, observed by scanHardTimers
// (outside its own critical section) on a tick-ISR pass.
func (k *Kernel) logTimerHardListOverrun(n int) {
	const category = "timer_hard_list_overrun"
	if !k.overloadAllowed(category) {
		return
	}
	k.logger.Warning().
		Str("category", category).
		Int("entries", n).
		Log("timer hard list exceeded configured bound")
}
