package signal

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/avetrov/Tandem/internal/app"
	"github.com/avetrov/Tandem/internal/config"
	"github.com/avetrov/Tandem/internal/core"
	"github.com/avetrov/Tandem/internal/domain"
)

type recordingSink struct {
	mu     sync.Mutex
	frames []core.Frame
}

func (s *recordingSink) TrySend(f core.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = append(s.frames, f)
	return nil
}

func (s *recordingSink) Close() {}

func (s *recordingSink) events(t *testing.T) []core.Envelope {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Envelope, 0, len(s.frames))
	for _, f := range s.frames {
		var env core.Envelope
		require.NoError(t, json.Unmarshal(f, &env))
		out = append(out, env)
	}
	return out
}

func testController() *Controller {
	cfg := &config.Config{
		AllowedOrigin: "*",
		SendBuffer:    8,
		MsgRate:       100,
		MsgInterval:   time.Second,
	}
	return NewController(cfg, app.NewCoordinator())
}

func TestDispatch_JoinRoom(t *testing.T) {
	req := require.New(t)
	ctl := testController()
	id := domain.ConnID("conn-1")
	ctl.Hub.Connect(id, "", &recordingSink{})

	ctl.dispatch(id, []byte(`{"event":"join_room","data":{"roomId":"r1"}}`))

	req.Equal([]domain.RoomID{"r1"}, ctl.Hub.Rooms())
}

func TestDispatch_SignalingNamespaceJoinAlias(t *testing.T) {
	req := require.New(t)
	ctl := testController()
	id := domain.ConnID("conn-1")
	ctl.Hub.Connect(id, "", &recordingSink{})

	ctl.dispatch(id, []byte(`{"event":"join-room","data":{"roomId":"call-7"}}`))

	req.Equal([]domain.RoomID{"call-7"}, ctl.Hub.Rooms())
}

func TestDispatch_SendMessage_RoundTrip(t *testing.T) {
	req := require.New(t)
	ctl := testController()
	a, b := domain.ConnID("a"), domain.ConnID("b")
	sinkB := &recordingSink{}
	ctl.Hub.Connect(a, "", &recordingSink{})
	ctl.Hub.Connect(b, "", sinkB)
	ctl.dispatch(a, []byte(`{"event":"join_room","data":{"roomId":"r1"}}`))
	ctl.dispatch(b, []byte(`{"event":"join_room","data":{"roomId":"r1"}}`))

	ctl.dispatch(a, []byte(`{"event":"send_message","data":{"roomId":"r1","message":"hi","sender":"A"}}`))

	var got *core.MessagePayload
	for _, env := range sinkB.events(t) {
		if env.Event == core.EventReceiveMessage {
			var p core.MessagePayload
			req.NoError(json.Unmarshal(env.Data, &p))
			got = &p
		}
	}
	req.NotNil(got)
	req.Equal(core.MessagePayload{RoomID: "r1", Message: "hi", Sender: "A"}, *got)
}

func TestDispatch_OfferForwardCarriesSender(t *testing.T) {
	req := require.New(t)
	ctl := testController()
	a, b := domain.ConnID("a"), domain.ConnID("b")
	sinkB := &recordingSink{}
	ctl.Hub.Connect(a, "", &recordingSink{})
	ctl.Hub.Connect(b, "", sinkB)

	ctl.dispatch(a, []byte(`{"event":"offer","data":{"target":"b","offer":{"type":"offer","sdp":"v=0"}}}`))

	var fwd *core.SignalForward
	for _, env := range sinkB.events(t) {
		if env.Event == core.EventOffer {
			var f core.SignalForward
			req.NoError(json.Unmarshal(env.Data, &f))
			fwd = &f
		}
	}
	req.NotNil(fwd)
	req.Equal(a, fwd.From)
	req.NotNil(fwd.Offer)
	req.Equal("v=0", fwd.Offer.SDP)
}

func TestDispatch_MalformedPayloadIsDropped(t *testing.T) {
	req := require.New(t)
	ctl := testController()
	id := domain.ConnID("conn-1")
	sink := &recordingSink{}
	ctl.Hub.Connect(id, "", sink)
	before := len(sink.events(t))

	// Missing roomId, broken JSON, unknown event: all swallowed silently
	ctl.dispatch(id, []byte(`{"event":"join_room","data":{}}`))
	ctl.dispatch(id, []byte(`{"event":"join_room","data":{"roomId":""}}`))
	ctl.dispatch(id, []byte(`not json at all`))
	ctl.dispatch(id, []byte(`{"event":"mystery","data":{}}`))

	req.Empty(ctl.Hub.Rooms())
	req.Len(sink.events(t), before)
}

func TestDispatch_TypingFalseSurvivesValidation(t *testing.T) {
	req := require.New(t)
	ctl := testController()
	a, b := domain.ConnID("a"), domain.ConnID("b")
	sinkB := &recordingSink{}
	ctl.Hub.Connect(a, "", &recordingSink{})
	ctl.Hub.Connect(b, "", sinkB)
	ctl.dispatch(a, []byte(`{"event":"join_room","data":{"roomId":"r1"}}`))
	ctl.dispatch(b, []byte(`{"event":"join_room","data":{"roomId":"r1"}}`))

	// An explicit stopped-typing signal must not be mistaken for a
	// missing field
	ctl.dispatch(a, []byte(`{"event":"typing","data":{"roomId":"r1","isTyping":false}}`))

	var evt *core.TypingEvent
	for _, env := range sinkB.events(t) {
		if env.Event == core.EventUserTyping {
			var e core.TypingEvent
			req.NoError(json.Unmarshal(env.Data, &e))
			evt = &e
		}
	}
	req.NotNil(evt)
	req.Equal(core.TypingEvent{UserID: a, IsTyping: false}, *evt)
}

func TestDispatch_GetRoomsAnswersRequester(t *testing.T) {
	req := require.New(t)
	ctl := testController()
	id := domain.ConnID("conn-1")
	sink := &recordingSink{}
	ctl.Hub.Connect(id, "", sink)

	ctl.dispatch(id, []byte(`{"event":"get_rooms"}`))

	var found bool
	for _, env := range sink.events(t) {
		if env.Event == core.EventRoomsUpdate {
			found = true
			var ids []domain.RoomID
			req.NoError(json.Unmarshal(env.Data, &ids))
			req.Empty(ids)
		}
	}
	req.True(found)
}

func TestDecodePayload_RequiredFields(t *testing.T) {
	req := require.New(t)

	var msg core.MessagePayload
	req.Error(decodePayload([]byte(`{"roomId":"r1"}`), &msg))

	var offer core.OfferPayload
	req.Error(decodePayload([]byte(`{"offer":{"type":"offer","sdp":"v=0"}}`), &offer))

	var cand core.CandidatePayload
	req.NoError(decodePayload([]byte(`{"target":"b","candidate":{"candidate":"candidate:1"}}`), &cand))
	req.Equal(domain.ConnID("b"), cand.Target)
}
