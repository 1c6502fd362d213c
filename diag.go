package rtkernel

import (
	"context"

	microbatch "github.com/joeycumines/go-microbatch"
)

// TraceEvent is one entry in the optional diagnostic trace (SPEC_FULL.md
// §4): a context switch the scheduler performed, timestamped by tick
// count rather than wall-clock time, since the kernel has no notion of
// wall-clock time of its own.
type TraceEvent struct {
	Tick uint64
	From string
	To   string
}

// traceRecorder batches TraceEvent values with go-microbatch and hands them
// to the user-supplied sink, adapting microbatch.Batcher's BatchProcessor
// callback model so the real-time scheduling path never blocks on an
// external sink (a slow sink only stalls the next Submit, never the tick
// ISR — traceSwitch is never called from Tick's own reschedule, only from
// task-context calls to Schedule).
type traceRecorder struct {
	batcher *microbatch.Batcher[TraceEvent]
}

func newTraceRecorder(sink func([]TraceEvent), cfg *microbatch.BatcherConfig) *traceRecorder {
	processor := func(ctx context.Context, jobs []TraceEvent) error {
		sink(jobs)
		return nil
	}
	return &traceRecorder{batcher: microbatch.NewBatcher(cfg, processor)}
}

func (r *traceRecorder) record(ev TraceEvent) {
	// Best-effort: a canceled/stopped batcher silently drops the event
	// rather than propagating an error through the scheduler.
	_, _ = r.batcher.Submit(context.Background(), ev)
}

func (r *traceRecorder) close() {
	_ = r.batcher.Close()
}

// traceSwitch records a context switch if a trace sink is configured. It is
// only ever called from Schedule (task/soft context); Tick's own internal
// reschedule uses scheduleNoTrace, never touching the batcher from ISR
// context.
func (k *Kernel) traceSwitch(prev, next *Task) {
	if k.trace == nil {
		return
	}
	name := func(t *Task) string {
		if t == nil {
			return ""
		}
		return t.Name
	}
	k.trace.record(TraceEvent{Tick: k.tickCount, From: name(prev), To: name(next)})
}

// Close releases resources held by optional ambient-stack collaborators
// (currently just the trace batcher, if configured). It does not stop the
// port's tick source; that remains the caller's responsibility.
func (k *Kernel) Close() error {
	if k.trace != nil {
		k.trace.close()
	}
	return nil
}
