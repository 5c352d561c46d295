package core

import (
	"encoding/json"

	"github.com/pion/webrtc/v4"

	"github.com/avetrov/Tandem/internal/domain"
)

// Envelope is the frame shape in both directions: a named event plus a
// structured payload. Unknown or malformed events are dropped at the
// boundary, never answered.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Inbound event names.
const (
	EventJoinRoom    = "join_room"
	EventJoinRoomAlt = "join-room" // signaling-namespace spelling, same handler
	EventLeaveRoom   = "leave_room"
	EventSetRole     = "set_role"
	EventSendMessage = "send_message"
	EventTyping      = "typing"
	EventGetRooms    = "get_rooms"
)

// Signaling event names, used in both directions.
const (
	EventOffer     = "offer"
	EventAnswer    = "answer"
	EventCandidate = "ice-candidate"
)

// Outbound event names.
const (
	EventConnected      = "connected"
	EventRoomsUpdate    = "rooms_update"
	EventReceiveMessage = "receive_message"
	EventUserTyping     = "user_typing"
)

// Inbound payloads. Validate tags are enforced at the transport
// boundary; an event missing a required field is dropped.

type JoinPayload struct {
	RoomID domain.RoomID `json:"roomId" validate:"required"`
}

type LeavePayload struct {
	RoomID domain.RoomID `json:"roomId" validate:"required"`
}

type RolePayload struct {
	Role domain.Role `json:"role" validate:"required"`
}

type MessagePayload struct {
	RoomID  domain.RoomID `json:"roomId" validate:"required"`
	Message string        `json:"message" validate:"required"`
	Sender  string        `json:"sender,omitempty"`
}

// TypingPayload carries IsTyping as a pointer so that an explicit false
// survives the required check.
type TypingPayload struct {
	RoomID   domain.RoomID `json:"roomId" validate:"required"`
	IsTyping *bool         `json:"isTyping" validate:"required"`
}

type OfferPayload struct {
	Target domain.ConnID             `json:"target" validate:"required"`
	Offer  webrtc.SessionDescription `json:"offer" validate:"required"`
}

type AnswerPayload struct {
	Target domain.ConnID             `json:"target" validate:"required"`
	Answer webrtc.SessionDescription `json:"answer" validate:"required"`
}

type CandidatePayload struct {
	Target    domain.ConnID           `json:"target" validate:"required"`
	Candidate webrtc.ICECandidateInit `json:"candidate" validate:"required"`
}

// Outbound payloads.

// ConnectedGreeting tells a fresh client its assigned connection id and
// the current lobby so it can render without a get_rooms round trip.
type ConnectedGreeting struct {
	ConnectionID domain.ConnID   `json:"connectionId"`
	Rooms        []domain.RoomID `json:"rooms"`
}

type TypingEvent struct {
	UserID   domain.ConnID `json:"userId"`
	IsTyping bool          `json:"isTyping"`
}

// SignalForward is a negotiation blob in flight to a single target,
// re-tagged with the sender id. Exactly one of the three bodies is set,
// matching the event name it travels under.
type SignalForward struct {
	From      domain.ConnID              `json:"from"`
	Offer     *webrtc.SessionDescription `json:"offer,omitempty"`
	Answer    *webrtc.SessionDescription `json:"answer,omitempty"`
	Candidate *webrtc.ICECandidateInit   `json:"candidate,omitempty"`
}
