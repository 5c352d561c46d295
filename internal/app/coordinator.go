package app

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/avetrov/Tandem/internal/core"
	"github.com/avetrov/Tandem/internal/domain"
)

// Coordinator is the session lifecycle manager: it owns the connection
// registry and the room directory behind one mutex, so every inbound
// event mutates shared state as a single atomic step. Two concurrent
// leaves of a room's last members cannot both skip (or both perform)
// the room deletion, and disconnect cleanup is one critical section:
// look up memberships, evict from each room, drop empty rooms,
// broadcast — nothing interleaves.
type Coordinator struct {
	mu       sync.RWMutex
	registry *registry
	rooms    *roomDirectory
}

func NewCoordinator() *Coordinator {
	return &Coordinator{
		registry: newRegistry(),
		rooms:    newRoomDirectory(),
	}
}

// Connect registers a fresh connection and greets it with its assigned
// id and the current lobby snapshot.
func (c *Coordinator) Connect(id domain.ConnID, identity string, sink core.SignalConnection) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.registry.register(id, identity, sink)
	connectionsGauge.Inc()
	log.Info().Str("module", "app.coordinator").Str("conn", string(id)).Msg("connected")

	c.push(e.sink, core.EventConnected, core.ConnectedGreeting{
		ConnectionID: id,
		Rooms:        c.rooms.activeRoomIDs(),
	})
}

// Disconnect evicts the connection from every room it belonged to and,
// if any membership changed, broadcasts the new room snapshot exactly
// once. Idempotent: a second call for the same id does nothing.
func (c *Coordinator) Disconnect(id domain.ConnID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	memberships, ok := c.registry.unregister(id)
	if !ok {
		return
	}
	connectionsGauge.Dec()

	evicted := false
	for _, room := range memberships {
		if c.rooms.leave(room, id) {
			evicted = true
		}
	}
	log.Info().Str("module", "app.coordinator").Str("conn", string(id)).
		Int("rooms", len(memberships)).Msg("disconnected")

	if evicted {
		roomsGauge.Set(float64(c.rooms.size()))
		c.broadcastRoomsLocked()
	}
}

// SetRole tags the connection with a caller-declared role. The value is
// stored verbatim; unknown connections are a silent no-op.
func (c *Coordinator) SetRole(id domain.ConnID, role domain.Role) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.registry.setRole(id, role)
}

// Join adds the connection to the room, creating it on first join, and
// broadcasts the room snapshot when membership actually changed.
// Re-joining a room is a no-op.
func (c *Coordinator) Join(id domain.ConnID, roomID domain.RoomID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.registry.get(id)
	if !ok {
		return
	}
	if !c.rooms.join(roomID, id) {
		return
	}
	e.rooms[roomID] = struct{}{}
	roomsGauge.Set(float64(c.rooms.size()))
	log.Info().Str("module", "app.coordinator").Str("conn", string(id)).
		Str("room", string(roomID)).Msg("joined room")
	c.broadcastRoomsLocked()
}

// Leave removes the connection from the room; the room disappears with
// its last member. No-op when the membership does not exist.
func (c *Coordinator) Leave(id domain.ConnID, roomID domain.RoomID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.rooms.leave(roomID, id) {
		return
	}
	if e, ok := c.registry.get(id); ok {
		delete(e.rooms, roomID)
	}
	roomsGauge.Set(float64(c.rooms.size()))
	log.Info().Str("module", "app.coordinator").Str("conn", string(id)).
		Str("room", string(roomID)).Msg("left room")
	c.broadcastRoomsLocked()
}

// Rooms returns the non-empty room ids, for the one-shot HTTP query.
// Never nil, so the JSON encoding is always an array.
func (c *Coordinator) Rooms() []domain.RoomID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.rooms.activeRoomIDs()
}

// push marshals one envelope and hands it to the sink. Send failures are
// not retried and not surfaced to the sender: a peer that cannot be
// written to will show up as a disconnect soon enough.
func (c *Coordinator) push(sink core.SignalConnection, event string, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		log.Error().Err(err).Str("module", "app.coordinator").Str("event", event).Msg("marshal payload")
		return
	}
	frame, err := json.Marshal(core.Envelope{Event: event, Data: raw})
	if err != nil {
		log.Error().Err(err).Str("module", "app.coordinator").Str("event", event).Msg("marshal envelope")
		return
	}
	if err := sink.TrySend(core.Frame(frame)); err != nil {
		sendsDropped.Inc()
		log.Warn().Err(err).Str("module", "app.coordinator").Str("event", event).Msg("send dropped")
	}
}
