package rtkernel

import (
	"github.com/rtkernel-go/rtkernel/port"
)

// newTestKernel builds a Kernel over a fresh port.Mock with a small
// PrioCount, so application priorities 0..n-3 are free of the reserved idle
// (PrioCount-1) and timer (PrioCount-2) slots.
func newTestKernel(opts ...Option) (*Kernel, *port.Mock) {
	mock := port.NewMock()
	full := append([]Option{WithPort(mock), WithPrioCount(8), WithTimerTaskPrio(6)}, opts...)
	k, err := New(full...)
	if err != nil {
		panic(err)
	}
	return k, mock
}

func noopEntry(arg any) {}
