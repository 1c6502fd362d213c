package rtkernel

import (
	"math/big"

	catrate "github.com/joeycumines/go-catrate"
	"github.com/rtkernel-go/rtkernel/port"
)

// Kernel is the scheduling and synchronization core (spec.md's "Kernel
// globals" collected into one record instead of package-level globals, so a
// process can host more than one independent kernel instance — useful for
// tests that want distinct PrioCount/TimerTaskPrio configurations side by
// side).
type Kernel struct {
	cfg  Config
	port port.Port

	logger *Logger

	readyTable  []List[Task]
	bitmap      Bitmap32
	delayedList List[Task]

	curTask  *Task
	idleTask *Task

	schedLock       uint8 // saturating 0..255
	schedLockStreak int   // consecutive ticks observed with schedLock > 0

	tickCount    uint64
	idleCount    uint64
	idleMaxCount uint64
	cpuUsage     *big.Rat
	cpuUsageInit cpuUsagePhase

	timerTask     *Task
	hardTimers    List[Timer]
	softTimers    List[Timer]
	timerProtect  *Semaphore
	timerTick     *Semaphore

	overloadLimiter *catrate.Limiter
	trace           *traceRecorder

	running bool
}

// cpuUsagePhase tracks the three-step calibration state machine of
// spec.md §4.9.
type cpuUsagePhase int

const (
	cpuUsageUncalibrated cpuUsagePhase = iota
	cpuUsageSyncing
	cpuUsageCalibrated
)

// New builds a Kernel from the given Options. WithPort is mandatory; every
// other Option falls back to the package defaults (DefaultPrioCount, ...).
func New(opts ...Option) (*Kernel, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	k := &Kernel{
		cfg:             cfg,
		port:            cfg.port,
		logger:          cfg.logger,
		readyTable:      make([]List[Task], cfg.PrioCount),
		overloadLimiter: cfg.overloadLimiter,
		cpuUsage:        new(big.Rat),
	}
	for i := range k.readyTable {
		k.readyTable[i].Init()
	}
	k.delayedList.Init()
	k.hardTimers.Init()
	k.softTimers.Init()

	k.timerProtect = k.newBinarySemaphore(1)
	k.timerTick = k.newCountingSemaphore(0, 0)

	if cfg.traceSink != nil {
		k.trace = newTraceRecorder(cfg.traceSink, cfg.traceBatch)
	}

	k.bootstrap()

	k.logBootstrap("kernel initialized")

	return k, nil
}

// bootstrap wires the idle task and soft-timer task (spec.md §4's Kernel
// Bootstrap component): sched_init/delay_init/timer_module_init/tick_init/
// cpu_usage_init all collapse into this constructor since Go has no
// separate linker-time globals to initialize in sequence.
func (k *Kernel) bootstrap() {
	idleStack := make([]byte, k.cfg.IdleTaskStackSize)
	k.idleTask = k.newSystemTask("idle", k.idleEntry, nil, k.cfg.PrioCount-1, idleStack)

	timerStack := make([]byte, k.cfg.TimerTaskStackSize)
	k.timerTask = k.newSystemTask("timer-soft", k.timerTaskEntry, nil, k.cfg.TimerTaskPrio, timerStack)
}

// newSystemTask mirrors CreateTask but is used only for the two
// kernel-owned tasks (idle, soft-timer), whose priorities are reserved and
// so must bypass CreateTask's ErrPriorityTaken guard.
func (k *Kernel) newSystemTask(name string, entry func(arg any), arg any, prio int, stack []byte) *Task {
	t := newTask(name, entry, arg, prio, k.cfg.SliceMax, stack)
	t.handle = k.port.NewStack(stack, entry, arg)
	k.schedReady(t)
	return t
}

// CreateTask implements task_init (spec.md §4.2) for application tasks: it
// is an error to collide with the reserved idle or timer-task priority.
func (k *Kernel) CreateTask(name string, entry func(arg any), arg any, prio int, stack []byte) (*Task, error) {
	if prio == k.idleTask.prio || prio == k.timerTask.prio {
		return nil, ErrPriorityTaken
	}
	mask := k.port.EnterCritical()
	defer k.port.ExitCritical(mask)
	t := newTask(name, entry, arg, prio, k.cfg.SliceMax, stack)
	t.handle = k.port.NewStack(stack, entry, arg)
	k.schedReady(t)
	k.logTaskEvent("task created", t)
	return t, nil
}

// Run hands control to the port layer (run_first). With a real port,
// RunFirst never returns and so neither does Run; port.Mock only records
// the call, and Run then returns nil. The first task to run is whatever
// Schedule would currently pick: the highest-priority ready task, which is
// the soft-timer task unless the caller already created higher-priority
// application tasks before calling Run.
func (k *Kernel) Run() error {
	if k.running {
		return ErrAlreadyRunning
	}
	k.running = true
	k.port.SetTickPeriod(k.cfg.SystickMS)
	next := k.highestReady()
	k.curTask = next
	k.port.RunFirst(next.handle)
	return nil
}

// CurTask returns the currently scheduled task. It is never nil once Run
// has been called (spec.md §8's invariant).
func (k *Kernel) CurTask() *Task { return k.curTask }

// EnterCritical and ExitCritical expose the port's critical section to
// synchronization objects layered above the core (rtkernel/syncobj), which
// need to pair EventWait/EventWake calls with the same protection the core's
// own Semaphore does, without being handed the port itself.
func (k *Kernel) EnterCritical() port.Mask { return k.port.EnterCritical() }
func (k *Kernel) ExitCritical(prev port.Mask) { k.port.ExitCritical(prev) }

// TickCount returns the kernel's tick counter. The first tick handler
// invocation resets it to zero when it arms CPU-usage calibration, so it
// reads one less than the number of Tick calls so far.
func (k *Kernel) TickCount() uint64 { return k.tickCount }

// CPUUsagePercent returns the most recently computed rolling CPU
// utilization percentage, or a zero Rat before calibration completes
// (spec.md §4.9, §9's open question about the pre-calibration read).
func (k *Kernel) CPUUsagePercent() *big.Rat { return new(big.Rat).Set(k.cpuUsage) }
