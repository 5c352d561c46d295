package app

import (
	"github.com/avetrov/Tandem/internal/core"
	"github.com/avetrov/Tandem/internal/domain"
)

type connEntry struct {
	meta  *domain.Connection
	sink  core.SignalConnection
	rooms map[domain.RoomID]struct{}
}

// registry tracks every live connection, its declared role and its room
// memberships. It carries no lock of its own: all access is funneled
// through the Coordinator, which is the single mutual-exclusion boundary
// for registry and room directory together.
type registry struct {
	conns map[domain.ConnID]*connEntry
}

func newRegistry() *registry {
	return &registry{conns: make(map[domain.ConnID]*connEntry)}
}

func (r *registry) register(id domain.ConnID, identity string, sink core.SignalConnection) *connEntry {
	e := &connEntry{
		meta:  domain.NewConnection(id, identity),
		sink:  sink,
		rooms: make(map[domain.RoomID]struct{}),
	}
	r.conns[id] = e
	return e
}

// setRole overwrites the role tag. Silent no-op for unknown connections:
// the client may have disconnected a moment ago.
func (r *registry) setRole(id domain.ConnID, role domain.Role) {
	if e, ok := r.conns[id]; ok {
		e.meta.Role = role
	}
}

func (r *registry) get(id domain.ConnID) (*connEntry, bool) {
	e, ok := r.conns[id]
	return e, ok
}

// unregister removes the connection and returns its prior membership set
// so the caller can evict it from those rooms. Idempotent.
func (r *registry) unregister(id domain.ConnID) ([]domain.RoomID, bool) {
	e, ok := r.conns[id]
	if !ok {
		return nil, false
	}
	delete(r.conns, id)
	out := make([]domain.RoomID, 0, len(e.rooms))
	for room := range e.rooms {
		out = append(out, room)
	}
	return out, true
}

func (r *registry) size() int {
	return len(r.conns)
}
