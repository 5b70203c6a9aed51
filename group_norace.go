//go:build !race

package exgate

import (
	"github.com/llxisdsh/pb"
)

type groupMap[K comparable] struct {
	m pb.MapOf[K, *groupEntry]
}

func (g *Group[K]) retain(key K) *groupEntry {
	e, _ := g.m.m.ProcessEntry(
		key,
		func(l *pb.EntryOf[K, *groupEntry]) (*pb.EntryOf[K, *groupEntry], *groupEntry, bool) {
			if l != nil {
				l.Value.ref++
				return l, l.Value, true
			}
			e := &groupEntry{ref: 1}
			g.keys.Add(1)
			return &pb.EntryOf[K, *groupEntry]{Value: e}, e, false
		},
	)
	return e
}

func (g *Group[K]) drop(key K, e *groupEntry) {
	_, _ = g.m.m.ProcessEntry(
		key,
		func(l *pb.EntryOf[K, *groupEntry]) (*pb.EntryOf[K, *groupEntry], *groupEntry, bool) {
			if l == nil || l.Value != e {
				return l, nil, false
			}
			e.ref--
			if e.ref <= 0 {
				g.keys.Add(-1)
				return nil, nil, false
			}
			return l, e, true
		},
	)
}

func (g *Group[K]) lookup(key K) *groupEntry {
	e, _ := g.m.m.ProcessEntry(
		key,
		func(l *pb.EntryOf[K, *groupEntry]) (*pb.EntryOf[K, *groupEntry], *groupEntry, bool) {
			if l == nil {
				return nil, nil, false
			}
			return l, l.Value, true
		},
	)
	return e
}
