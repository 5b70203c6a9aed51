package exgate

import (
	"sync/atomic"
)

// Group runs units of work exclusively per key (string, int, struct, etc.).
// Each key behaves as its own Gate; different keys never exclude each other.
//
// Features:
//   - Infinite Keys: No need to pre-allocate gates.
//   - Auto-Cleanup: A key's gate is removed once no request for it is
//     running or waiting.
//
// Usage:
//
//	var group Group[string]
//	err := group.Do("user-123", func() error {
//		// Critical section for user-123
//		return nil
//	})
//
// The key table is a pb.MapOf in normal builds and a lock-guarded map under
// the race detector.
type Group[K comparable] struct {
	_    noCopy
	m    groupMap[K]
	keys atomic.Int64
}

type groupEntry struct {
	gate Gate
	// ref is only touched while the key's slot in the table is locked.
	ref int32
}

// Do runs fn while holding the gate for key.
func (g *Group[K]) Do(key K, fn func() error) error {
	e := g.retain(key)
	defer g.drop(key, e)
	return e.gate.Do(fn)
}

// RunKey runs fn while holding the gate for key in g.
func RunKey[K comparable, T any](g *Group[K], key K, fn func() (T, error)) (T, error) {
	e := g.retain(key)
	defer g.drop(key, e)
	return Run(&e.gate, fn)
}

// Len returns the number of keys with running or waiting requests.
func (g *Group[K]) Len() int {
	return int(g.keys.Load())
}

// Pending returns the number of requests for key that are running or waiting.
func (g *Group[K]) Pending(key K) int {
	if e := g.lookup(key); e != nil {
		return e.gate.Pending()
	}
	return 0
}
