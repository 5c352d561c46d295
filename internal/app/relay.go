package app

import (
	"github.com/rs/zerolog/log"

	"github.com/avetrov/Tandem/internal/core"
	"github.com/avetrov/Tandem/internal/domain"
)

// Relay fans a chat message out to every current member of the room,
// the sender included: the client renders its own message off the echo.
// An empty room swallows the message; nothing is queued. Each member
// sees the payload at most once, and content is echoed verbatim — the
// only touch is defaulting the sender tag from the session identity.
func (c *Coordinator) Relay(from domain.ConnID, p core.MessagePayload) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if p.Sender == "" {
		if e, ok := c.registry.get(from); ok {
			p.Sender = e.meta.Identity
		}
	}

	members := c.rooms.members(p.RoomID)
	if len(members) == 0 {
		return
	}
	for id := range members {
		if e, ok := c.registry.get(id); ok {
			c.push(e.sink, core.EventReceiveMessage, p)
		}
	}
	messagesRelayed.Inc()
}

// ForwardSignal delivers a negotiation payload point-to-point, tagged
// with the sender id. No room scoping and no buffering: an unregistered
// target means the blob is dropped on the floor, never an error to the
// sender — presence is inherently racy.
func (c *Coordinator) ForwardSignal(event string, from, target domain.ConnID, fwd core.SignalForward) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.registry.get(target)
	if !ok {
		log.Debug().Str("module", "app.coordinator").Str("event", event).
			Str("target", string(target)).Msg("signal target gone")
		return
	}
	fwd.From = from
	c.push(e.sink, event, fwd)
	signalsForwarded.WithLabelValues(event).Inc()
}
