package exgate

import (
	"sync/atomic"
)

// TicketLock is a FIFO spin-lock.
//
// Goroutines enter in the exact order they called Lock(): each takes a
// ticket and waits until `serving` reaches it. Gate uses it to guard its
// waiter queue, whose critical sections are a handful of field updates and
// never run user code.
type TicketLock struct {
	_       noCopy
	next    atomic.Uint32
	serving atomic.Uint32
}

// Lock acquires the lock. Blocks until the lock is available.
func (m *TicketLock) Lock() {
	my := m.next.Add(1) - 1
	var spins int
	for m.serving.Load() != my {
		delay(&spins)
	}
}

// Unlock releases the lock to the next ticket holder.
func (m *TicketLock) Unlock() {
	m.serving.Add(1)
}
