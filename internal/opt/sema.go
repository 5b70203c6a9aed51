package opt

import (
	_ "unsafe" // for linkname
)

// Sema is a zero-allocation binary parking spot for a single goroutine.
// Release may happen before Acquire; the permit is then kept until taken.
type Sema uint32

// Acquire parks the calling goroutine until a permit is available.
func (s *Sema) Acquire() {
	runtime_semacquire((*uint32)(s))
}

// Release hands a permit to the parked goroutine, yielding the processor
// to it when it is already waiting.
func (s *Sema) Release() {
	runtime_semrelease((*uint32)(s), true, 0)
}

//go:linkname runtime_semacquire sync.runtime_Semacquire
func runtime_semacquire(s *uint32)

//go:linkname runtime_semrelease sync.runtime_Semrelease
func runtime_semrelease(s *uint32, handoff bool, skipframes int)
