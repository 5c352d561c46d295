package app

import (
	"github.com/avetrov/Tandem/internal/core"
	"github.com/avetrov/Tandem/internal/domain"
)

// broadcastRoomsLocked pushes the full active-room snapshot to every
// connection. Full snapshot, not a delta, to every client regardless of
// interest: O(total rooms) per membership change, a known scaling limit
// accepted while room counts stay small. Caller holds the mutex.
func (c *Coordinator) broadcastRoomsLocked() {
	ids := c.rooms.activeRoomIDs()
	for _, e := range c.registry.conns {
		c.push(e.sink, core.EventRoomsUpdate, ids)
	}
}

// SendRooms answers a get_rooms query: the snapshot goes to the
// requester only, nobody else hears anything.
func (c *Coordinator) SendRooms(id domain.ConnID) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.registry.get(id)
	if !ok {
		return
	}
	c.push(e.sink, core.EventRoomsUpdate, c.rooms.activeRoomIDs())
}

// Typing forwards a typing-state change to every member of the room
// except the originator. Nothing is retained; with no listeners the
// event just evaporates.
func (c *Coordinator) Typing(roomID domain.RoomID, from domain.ConnID, isTyping bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	evt := core.TypingEvent{UserID: from, IsTyping: isTyping}
	for id := range c.rooms.members(roomID) {
		if id == from {
			continue
		}
		if e, ok := c.registry.get(id); ok {
			c.push(e.sink, core.EventUserTyping, evt)
			typingForwarded.Inc()
		}
	}
}
