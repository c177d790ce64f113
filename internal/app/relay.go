package app

import (
	"encoding/json"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/chatline/chatline/internal/core"
	"github.com/chatline/chatline/internal/domain"
)

// Relay forwards call-signaling events between connected users. It is
// fire-and-forget end to end: a target that is offline, slow, or gone
// mid-send produces no error, no ack and no retry. The sender cannot
// tell those cases apart, and every client already has to tolerate an
// expected event never arriving.
//
// Presence holds the user-to-connection directory; the relay itself holds
// the live endpoints. The split matters for presence broadcasts, which go
// to every open connection, including one a reconnect just overwrote in
// the directory.
type Relay struct {
	Presence *Presence

	validate *validator.Validate

	mu    sync.RWMutex
	conns map[core.ConnID]core.SignalConnection
}

func NewRelay(p *Presence) *Relay {
	return &Relay{
		Presence: p,
		validate: validator.New(),
		conns:    make(map[core.ConnID]core.SignalConnection),
	}
}

// Attach brings a freshly authenticated connection into the active state:
// endpoint stored, directory updated, new online set announced to everyone.
func (r *Relay) Attach(user *domain.User, connID core.ConnID, conn core.SignalConnection) {
	r.mu.Lock()
	r.conns[connID] = conn
	r.mu.Unlock()
	r.Presence.Register(user.ID, connID)
	r.BroadcastPresence()
}

// Detach runs on transport disconnect, whatever the reason. The endpoint is
// always dropped; the directory entry only while it still belongs to connID.
// A stale disconnect from a connection the user already replaced must not
// knock the live one offline.
func (r *Relay) Detach(uid domain.UserID, connID core.ConnID) {
	r.mu.Lock()
	delete(r.conns, connID)
	r.mu.Unlock()

	cur, ok := r.Presence.Lookup(uid)
	if !ok || cur != connID {
		return
	}
	r.Presence.Remove(uid)
	r.BroadcastPresence()
}

// BroadcastPresence sends the full online set to every open connection.
// Full replace, not a delta: each client swaps its entire local set.
func (r *Relay) BroadcastPresence() {
	event := onlineUsersEvent{Type: "getOnlineUsers", Users: r.Presence.Online()}
	frame, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("module", "app.relay").Msg("marshal presence")
		return
	}

	r.mu.RLock()
	conns := make([]core.SignalConnection, 0, len(r.conns))
	for _, c := range r.conns {
		conns = append(conns, c)
	}
	r.mu.RUnlock()

	for _, conn := range conns {
		if err := conn.TrySend(core.Frame(frame)); err != nil {
			log.Warn().Err(err).Str("module", "app.relay").Msg("presence send dropped")
		}
	}
}

// PlaceCall forwards a call offer to the callee as incoming-call.
func (r *Relay) PlaceCall(from domain.UserID, p CallOffer) {
	if !r.checkPayload("call-user", p) {
		return
	}
	r.forward(from, p.To, incomingCallEvent{
		Type:     "incoming-call",
		From:     from,
		Offer:    p.Offer,
		CallType: p.CallType,
		Caller:   p.Caller,
	})
}

// AnswerCall forwards the callee's answer back to the caller.
func (r *Relay) AnswerCall(from domain.UserID, p CallAnswer) {
	if !r.checkPayload("answer-call", p) {
		return
	}
	r.forward(from, p.To, callAnsweredEvent{
		Type:   "call-answered",
		From:   from,
		Answer: p.Answer,
	})
}

// ForwardCandidate relays an ICE candidate; both sides send these while
// negotiating.
func (r *Relay) ForwardCandidate(from domain.UserID, p CallCandidate) {
	if !r.checkPayload("ice-candidate", p) {
		return
	}
	r.forward(from, p.To, candidateEvent{
		Type:      "ice-candidate",
		From:      from,
		Candidate: p.Candidate,
	})
}

func (r *Relay) EndCall(from domain.UserID, p CallControl) {
	if !r.checkPayload("end-call", p) {
		return
	}
	r.forward(from, p.To, callControlEvent{Type: "call-ended", From: from})
}

func (r *Relay) RejectCall(from domain.UserID, p CallControl) {
	if !r.checkPayload("reject-call", p) {
		return
	}
	r.forward(from, p.To, callControlEvent{Type: "call-rejected", From: from})
}

// forward resolves the target and unicasts the event. The server keeps no
// call-session record: whatever a connected party sends, addressed to
// whoever it names, goes through if the target is online and is silently
// dropped otherwise.
func (r *Relay) forward(from, to domain.UserID, event any) {
	connID, ok := r.Presence.Lookup(to)
	if !ok {
		log.Debug().Str("module", "app.relay").Str("from", string(from)).Str("to", string(to)).Msg("target offline, dropping")
		return
	}
	r.mu.RLock()
	conn, ok := r.conns[connID]
	r.mu.RUnlock()
	if !ok {
		// Directory entry outlived its endpoint by a hair; same outcome as
		// offline.
		return
	}

	frame, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("module", "app.relay").Msg("marshal event")
		return
	}
	if err := conn.TrySend(core.Frame(frame)); err != nil {
		log.Warn().Err(err).Str("module", "app.relay").Str("to", string(to)).Msg("send dropped")
	}
}

// checkPayload drops events that cannot be routed (no target) or do not
// match the declared shape. There is no ack channel, so a drop plus a log
// line is all the sender ever gets.
func (r *Relay) checkPayload(kind string, p any) bool {
	if err := r.validate.Struct(p); err != nil {
		log.Warn().Err(err).Str("module", "app.relay").Str("event", kind).Msg("malformed payload, dropping")
		return false
	}
	return true
}
