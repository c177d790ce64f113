package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/chatline/chatline/internal/app"
	"github.com/chatline/chatline/internal/domain"
)

// The five call events all follow the same shape: decode, hand to the relay.
// The sender is always the connection's authenticated identity; nothing a
// client puts in the payload can change who an event is "from".

func (ctl *Controller) handleCallUser(uid domain.UserID, data []byte) {
	var p app.CallOffer
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad call-user payload")
		return
	}
	ctl.Relay.PlaceCall(uid, p)
}

func (ctl *Controller) handleAnswerCall(uid domain.UserID, data []byte) {
	var p app.CallAnswer
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad answer-call payload")
		return
	}
	ctl.Relay.AnswerCall(uid, p)
}

func (ctl *Controller) handleCandidate(uid domain.UserID, data []byte) {
	var p app.CallCandidate
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad ice-candidate payload")
		return
	}
	ctl.Relay.ForwardCandidate(uid, p)
}

func (ctl *Controller) handleEndCall(uid domain.UserID, data []byte) {
	var p app.CallControl
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad end-call payload")
		return
	}
	ctl.Relay.EndCall(uid, p)
}

func (ctl *Controller) handleRejectCall(uid domain.UserID, data []byte) {
	var p app.CallControl
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad reject-call payload")
		return
	}
	ctl.Relay.RejectCall(uid, p)
}
