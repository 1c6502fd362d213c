// Package rtkernel implements the scheduling and synchronization core of a
// preemptive, fixed-priority, round-robin real-time kernel targeting a
// single-core 32-bit microcontroller with an ARMv7-M-equivalent exception
// model (supervisor/thread separation, a pendable service exception, and a
// system tick).
//
// The package owns five things: the priority-bitmap ready set and
// scheduler, the tick-driven delay/timing subsystem, the task lifecycle and
// state machine, the generic event wait/wake primitive every blocking
// object builds on, and the two-tier (hard/soft) timer subsystem. Everything
// CPU-specific — the context-switch trampoline, register-frame layout,
// stack allocation policy, and startup shell — is an external collaborator
// reached through the [rtkernel/port.Port] interface, never implemented
// here.
//
// # Usage
//
//	p := myport.New() // a real port.Port, or port.NewMock() for tests
//	k, err := rtkernel.New(rtkernel.WithPort(p))
//	if err != nil {
//		log.Fatal(err)
//	}
//	task, err := k.CreateTask("worker", entry, nil, 5, make([]byte, 1024))
//	if err != nil {
//		log.Fatal(err)
//	}
//	k.Run() // never returns with a real port
//
// # Concurrency model
//
// Exactly one task executes at a time. Every kernel API that mutates shared
// state (the ready table, the priority bitmap, the delay list, event wait
// lists, the hard timer list, and CPU-usage counters) does so inside the
// port's critical section; the soft timer list is instead protected by the
// timer_protect binary semaphore, which may only be taken from task
// context. See the [rtkernel/port] package for the boundary contract, and
// [rtkernel/syncobj] for the semaphore/mailbox/mutex/flag-group objects
// layered on top of the Event primitive exposed here.
package rtkernel
