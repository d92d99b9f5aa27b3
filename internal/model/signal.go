package model

import (
	"encoding/json"

	"github.com/google/uuid"
)

type SignalType string

const (
	SignalLogin     SignalType = "Login"
	SignalOffer     SignalType = "Offer"
	SignalAnswer    SignalType = "Answer"
	SignalCandidate SignalType = "Candidate"
	SignalLeave     SignalType = "Leave"
)

// SignalEnvelope is an ephemeral call-setup message. It is relayed verbatim
// and never persisted; Data carries an opaque SDP or ICE payload.
type SignalEnvelope struct {
	Type        SignalType      `json:"type" binding:"required,oneof=Login Offer Answer Candidate Leave"`
	SenderID    uuid.UUID       `json:"sender_id"`
	RecipientID uuid.UUID       `json:"recipient_id" binding:"required"`
	Data        json.RawMessage `json:"data"`
}
