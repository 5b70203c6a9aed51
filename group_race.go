//go:build race

package exgate

// Under the race detector pb.MapOf reports false positives on its
// intentionally plain loads, so the key table falls back to a map guarded
// by a TicketLock.
type groupMap[K comparable] struct {
	mu TicketLock
	m  map[K]*groupEntry
}

func (g *Group[K]) retain(key K) *groupEntry {
	g.m.mu.Lock()
	defer g.m.mu.Unlock()
	if e, ok := g.m.m[key]; ok {
		e.ref++
		return e
	}
	if g.m.m == nil {
		g.m.m = make(map[K]*groupEntry)
	}
	e := &groupEntry{ref: 1}
	g.m.m[key] = e
	g.keys.Add(1)
	return e
}

func (g *Group[K]) drop(key K, e *groupEntry) {
	g.m.mu.Lock()
	defer g.m.mu.Unlock()
	if g.m.m[key] != e {
		return
	}
	e.ref--
	if e.ref <= 0 {
		delete(g.m.m, key)
		g.keys.Add(-1)
	}
}

func (g *Group[K]) lookup(key K) *groupEntry {
	g.m.mu.Lock()
	e := g.m.m[key]
	g.m.mu.Unlock()
	return e
}
