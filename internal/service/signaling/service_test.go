package signaling

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rkapoor/telecare-api/internal/model"
	"github.com/rkapoor/telecare-api/pkg/messaging/membus"
)

func newTestRelay(t *testing.T) (*Relay, *membus.Bus) {
	t.Helper()
	bus := membus.NewBus(nil)
	t.Cleanup(func() { bus.Close() })
	return NewRelay(bus, nil, nil), bus
}

func TestRelayDeliversEnvelopeVerbatim(t *testing.T) {
	relay, bus := newTestRelay(t)
	sender, recipient := uuid.New(), uuid.New()

	sub, err := bus.Subscribe(context.Background(), model.VideoTopic(recipient))
	require.NoError(t, err)
	defer sub.Cancel()

	signal := &model.SignalEnvelope{
		Type:        model.SignalOffer,
		SenderID:    sender,
		RecipientID: recipient,
		Data:        json.RawMessage(`{"sdp":"v=0 o=- 46117 2"}`),
	}
	require.NoError(t, relay.Relay(context.Background(), signal))

	select {
	case payload := <-sub.C:
		var got model.SignalEnvelope
		require.NoError(t, json.Unmarshal(payload, &got))
		assert.Equal(t, model.SignalOffer, got.Type)
		assert.Equal(t, sender, got.SenderID)
		assert.Equal(t, recipient, got.RecipientID)
		assert.JSONEq(t, `{"sdp":"v=0 o=- 46117 2"}`, string(got.Data), "the payload is opaque and untouched")
	case <-time.After(2 * time.Second):
		t.Fatal("recipient never received the signal")
	}
}

func TestRelayWithNoSubscriberIsSilentlyDropped(t *testing.T) {
	relay, _ := newTestRelay(t)

	err := relay.Relay(context.Background(), &model.SignalEnvelope{
		Type:        model.SignalCandidate,
		SenderID:    uuid.New(),
		RecipientID: uuid.New(),
		Data:        json.RawMessage(`{"candidate":"..."}`),
	})
	assert.NoError(t, err, "no acknowledgment, no error: signaling is fire-and-forget")
}

func TestRelayReachesOnlyTheAddressedPeer(t *testing.T) {
	relay, bus := newTestRelay(t)
	recipient, bystander := uuid.New(), uuid.New()

	wanted, err := bus.Subscribe(context.Background(), model.VideoTopic(recipient))
	require.NoError(t, err)
	defer wanted.Cancel()
	other, err := bus.Subscribe(context.Background(), model.VideoTopic(bystander))
	require.NoError(t, err)
	defer other.Cancel()

	require.NoError(t, relay.Relay(context.Background(), &model.SignalEnvelope{
		Type:        model.SignalAnswer,
		SenderID:    uuid.New(),
		RecipientID: recipient,
		Data:        json.RawMessage(`{}`),
	}))

	select {
	case <-wanted.C:
	case <-time.After(2 * time.Second):
		t.Fatal("addressed peer never received the signal")
	}

	select {
	case payload := <-other.C:
		t.Fatalf("bystander received %s", payload)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestRelayOrderIsPreservedPerRecipient(t *testing.T) {
	relay, bus := newTestRelay(t)
	sender, recipient := uuid.New(), uuid.New()

	sub, err := bus.Subscribe(context.Background(), model.VideoTopic(recipient))
	require.NoError(t, err)
	defer sub.Cancel()

	// A typical call setup: offer, then trickled candidates, then leave.
	sequence := []model.SignalType{
		model.SignalOffer,
		model.SignalCandidate,
		model.SignalCandidate,
		model.SignalLeave,
	}
	for _, typ := range sequence {
		require.NoError(t, relay.Relay(context.Background(), &model.SignalEnvelope{
			Type: typ, SenderID: sender, RecipientID: recipient, Data: json.RawMessage(`{}`),
		}))
	}

	for _, want := range sequence {
		select {
		case payload := <-sub.C:
			var got model.SignalEnvelope
			require.NoError(t, json.Unmarshal(payload, &got))
			assert.Equal(t, want, got.Type)
		case <-time.After(2 * time.Second):
			t.Fatal("signal sequence was cut short")
		}
	}
}
