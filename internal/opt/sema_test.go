package opt

import (
	"sync"
	"testing"
	"time"
)

func TestSemaParkAndRelease(t *testing.T) {
	var s Sema

	done := make(chan struct{})
	go func() {
		s.Acquire()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("Acquire returned before Release")
	case <-time.After(50 * time.Millisecond):
	}

	s.Release()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Acquire did not return after Release")
	}
}

func TestSemaReleaseBeforeAcquire(t *testing.T) {
	var s Sema
	s.Release()

	done := make(chan struct{})
	go func() {
		s.Acquire()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("permit released early was lost")
	}
}

func TestSemaOnePerWaiter(t *testing.T) {
	const n = 10
	sems := make([]Sema, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := range n {
		go func() {
			defer wg.Done()
			sems[i].Acquire()
		}()
	}

	time.Sleep(20 * time.Millisecond)
	for i := range n {
		sems[i].Release()
	}

	ch := make(chan struct{})
	go func() {
		wg.Wait()
		close(ch)
	}()
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("not all waiters woke up")
	}
}
