// Package exgate provides Gate, a FIFO exclusive section for goroutines, and
// Group, a set of gates addressed by key.
package exgate

import (
	"sync/atomic"

	"github.com/llxisdsh/exgate/internal/opt"
)

// Gate runs units of work one at a time, admitting them in arrival order.
//
// State:
//   - Free: the next request is granted without waiting.
//   - Held: new requests are appended to a FIFO queue and park until the
//     current holder hands the gate over.
//
// Release never clears the held state while requests are queued; the gate
// passes straight to the head waiter. Because of this the free-gate fast path
// can never overtake a queued request, and admission order is exactly the
// order in which requests reached the gate.
//
// Gate is not re-entrant. Calling Do or Run on the same gate from inside a
// held section queues behind the caller and deadlocks.
//
// It is zero-value usable (starts Free).
type Gate struct {
	_  noCopy
	mu TicketLock
	// held reports whether a unit was granted the gate and has not left it.
	held bool
	// pending counts requests that are running or waiting.
	pending int
	head    *gateWaiter
	tail    *gateWaiter
}

type gateWaiter struct {
	next *gateWaiter
	// granted is stored by the releasing holder before the wakeup so the
	// woken goroutine observes everything the previous holder wrote.
	granted atomic.Bool
	sema    opt.Sema
}

// Result holds the outcome of a unit submitted with Go.
type Result[T any] struct {
	Val T
	Err error
}

// Do runs fn while holding the gate and returns its error unchanged.
//
// The gate is released on every exit path of fn. A panic in fn unwinds
// through Do with its original value after the gate has been released.
func (g *Gate) Do(fn func() error) error {
	g.acquire()
	defer g.release()
	return fn()
}

// Run runs fn while holding g and returns exactly what fn returned.
func Run[T any](g *Gate, fn func() (T, error)) (T, error) {
	g.acquire()
	defer g.release()
	return fn()
}

// Go submits fn to g and returns a channel that receives its Result.
//
// The request takes its place in the queue before Go returns, so successive
// Go calls are admitted in call order. fn runs in its own goroutine. A panic
// in fn is delivered as a *PanicError and runtime.Goexit as ErrGoexit.
//
// The returned channel receives exactly one value and is not closed.
func Go[T any](g *Gate, fn func() (T, error)) <-chan Result[T] {
	ch := make(chan Result[T], 1)
	w := g.enter()
	go func() {
		if w != nil {
			w.wait()
		}
		var r Result[T]
		normalReturn := false
		defer func() {
			if !normalReturn {
				if p := recover(); p != nil {
					r.Err = newPanicError(p)
				} else {
					r.Err = ErrGoexit
				}
			}
			g.release()
			ch <- r
		}()
		r.Val, r.Err = fn()
		normalReturn = true
	}()
	return ch
}

// Pending returns the number of requests that are running or waiting.
func (g *Gate) Pending() int {
	g.mu.Lock()
	n := g.pending
	g.mu.Unlock()
	return n
}

// Held reports whether some unit currently holds the gate.
func (g *Gate) Held() bool {
	g.mu.Lock()
	held := g.held
	g.mu.Unlock()
	return held
}

func (g *Gate) acquire() {
	if w := g.enter(); w != nil {
		w.wait()
	}
}

// enter registers a request. It returns nil when the gate was free and is
// now held by the caller, otherwise the queued waiter to park on.
func (g *Gate) enter() *gateWaiter {
	g.mu.Lock()
	g.pending++
	if !g.held {
		g.held = true
		g.mu.Unlock()
		return nil
	}
	w := &gateWaiter{}
	if g.tail == nil {
		g.head = w
	} else {
		g.tail.next = w
	}
	g.tail = w
	g.mu.Unlock()
	return w
}

// release leaves the gate, handing it to the head waiter if there is one.
func (g *Gate) release() {
	g.mu.Lock()
	if !g.held {
		g.mu.Unlock()
		panic("exgate: release of free gate")
	}
	g.pending--
	w := g.head
	if w == nil {
		g.held = false
		g.mu.Unlock()
		return
	}
	g.head = w.next
	if g.head == nil {
		g.tail = nil
	}
	g.mu.Unlock()

	w.granted.Store(true)
	w.sema.Release()
}

func (w *gateWaiter) wait() {
	w.sema.Acquire()
	if !w.granted.Load() {
		panic("exgate: waiter woken without grant")
	}
}
