package signal

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/avetrov/Tandem/internal/core"
	"github.com/avetrov/Tandem/internal/domain"
)

var validate = validator.New()

// decodePayload unmarshals an event payload into its typed struct and
// enforces the validate tags. Anything that fails here is dropped
// without a reply; the peer may be stale or broken, never fatal to us.
func decodePayload(data json.RawMessage, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return err
	}
	return validate.Struct(v)
}

func (ctl *Controller) dispatch(id domain.ConnID, data []byte) {
	var env core.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(id)).Msg("bad envelope")
		return
	}

	switch env.Event {
	case core.EventJoinRoom, core.EventJoinRoomAlt:
		ctl.handleJoin(id, env.Data)
	case core.EventLeaveRoom:
		ctl.handleLeave(id, env.Data)
	case core.EventSetRole:
		ctl.handleSetRole(id, env.Data)
	case core.EventSendMessage:
		ctl.handleMessage(id, env.Data)
	case core.EventTyping:
		ctl.handleTyping(id, env.Data)
	case core.EventGetRooms:
		ctl.Hub.SendRooms(id)
	case core.EventOffer:
		ctl.handleOffer(id, env.Data)
	case core.EventAnswer:
		ctl.handleAnswer(id, env.Data)
	case core.EventCandidate:
		ctl.handleCandidate(id, env.Data)
	default:
		log.Warn().Str("module", "signal").Str("event", env.Event).Msg("unknown event")
	}
}

func (ctl *Controller) handleJoin(id domain.ConnID, data json.RawMessage) {
	var p core.JoinPayload
	if err := decodePayload(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad join payload")
		return
	}
	ctl.Hub.Join(id, p.RoomID)
}

func (ctl *Controller) handleLeave(id domain.ConnID, data json.RawMessage) {
	var p core.LeavePayload
	if err := decodePayload(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad leave payload")
		return
	}
	ctl.Hub.Leave(id, p.RoomID)
}

func (ctl *Controller) handleSetRole(id domain.ConnID, data json.RawMessage) {
	var p core.RolePayload
	if err := decodePayload(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad role payload")
		return
	}
	ctl.Hub.SetRole(id, p.Role)
}

func (ctl *Controller) handleMessage(id domain.ConnID, data json.RawMessage) {
	if !ctl.limiter.Allow(id) {
		log.Warn().Str("module", "signal").Str("conn", string(id)).Msg("message rate limited")
		return
	}
	var p core.MessagePayload
	if err := decodePayload(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad message payload")
		return
	}
	ctl.Hub.Relay(id, p)
}

func (ctl *Controller) handleTyping(id domain.ConnID, data json.RawMessage) {
	if !ctl.limiter.Allow(id) {
		return
	}
	var p core.TypingPayload
	if err := decodePayload(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad typing payload")
		return
	}
	ctl.Hub.Typing(p.RoomID, id, *p.IsTyping)
}

func (ctl *Controller) handleOffer(id domain.ConnID, data json.RawMessage) {
	var p core.OfferPayload
	if err := decodePayload(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad offer payload")
		return
	}
	ctl.Hub.ForwardSignal(core.EventOffer, id, p.Target, core.SignalForward{Offer: &p.Offer})
}

func (ctl *Controller) handleAnswer(id domain.ConnID, data json.RawMessage) {
	var p core.AnswerPayload
	if err := decodePayload(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad answer payload")
		return
	}
	ctl.Hub.ForwardSignal(core.EventAnswer, id, p.Target, core.SignalForward{Answer: &p.Answer})
}

func (ctl *Controller) handleCandidate(id domain.ConnID, data json.RawMessage) {
	var p core.CandidatePayload
	if err := decodePayload(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad candidate payload")
		return
	}
	ctl.Hub.ForwardSignal(core.EventCandidate, id, p.Target, core.SignalForward{Candidate: &p.Candidate})
}
