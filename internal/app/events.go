package app

import (
	"github.com/pion/webrtc/v4"

	"github.com/chatline/chatline/internal/domain"
)

// Inbound signaling payloads. The sender is never part of the payload; it is
// taken from the connection's authenticated identity. Only the target is
// required: offers, answers and candidates are forwarded opaquely, the
// relay does not look inside them.

type CallOffer struct {
	To       domain.UserID             `json:"to" validate:"required"`
	Offer    webrtc.SessionDescription `json:"offer"`
	CallType string                    `json:"callType"`
	Caller   domain.User               `json:"caller"`
}

type CallAnswer struct {
	To     domain.UserID             `json:"to" validate:"required"`
	Answer webrtc.SessionDescription `json:"answer"`
}

type CallCandidate struct {
	To        domain.UserID           `json:"to" validate:"required"`
	Candidate webrtc.ICECandidateInit `json:"candidate"`
}

// CallControl covers end-call and reject-call, which carry only the target.
type CallControl struct {
	To domain.UserID `json:"to" validate:"required"`
}

// Outbound events, tagged with the sender's identity.

type incomingCallEvent struct {
	Type     string                    `json:"type"`
	From     domain.UserID             `json:"from"`
	Offer    webrtc.SessionDescription `json:"offer"`
	CallType string                    `json:"callType"`
	Caller   domain.User               `json:"caller"`
}

type callAnsweredEvent struct {
	Type   string                    `json:"type"`
	From   domain.UserID             `json:"from"`
	Answer webrtc.SessionDescription `json:"answer"`
}

type candidateEvent struct {
	Type      string                  `json:"type"`
	From      domain.UserID           `json:"from"`
	Candidate webrtc.ICECandidateInit `json:"candidate"`
}

type callControlEvent struct {
	Type string        `json:"type"`
	From domain.UserID `json:"from"`
}

type onlineUsersEvent struct {
	Type  string          `json:"type"`
	Users []domain.UserID `json:"users"`
}
