// Package syncobj implements the synchronization objects layered on top of
// rtkernel's Event primitive: a mailbox, a priority-inheritance-capable
// mutex, and an event flag group. None of these hold kernel internals
// directly — each owns an *rtkernel.Event and drives it through the
// exported EventWait/EventWake/EventWakeAll API plus the kernel's critical
// section, the same way rtkernel.Semaphore does internally.
package syncobj
