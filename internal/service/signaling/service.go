package signaling

import (
	"context"
	"fmt"

	"github.com/rkapoor/telecare-api/internal/model"
	"github.com/rkapoor/telecare-api/pkg/logger"
	"github.com/rkapoor/telecare-api/pkg/messaging"
	"github.com/rkapoor/telecare-api/pkg/metrics"
)

// Relay forwards call-setup envelopes between peers over the bus. No
// persistence, no acknowledgment: an envelope for an unsubscribed
// recipient is silently dropped.
type Relay struct {
	broker  messaging.Broker
	metrics *metrics.Metrics
	logger  *logger.Logger
}

func NewRelay(broker messaging.Broker, m *metrics.Metrics, l *logger.Logger) *Relay {
	return &Relay{
		broker:  broker,
		metrics: m,
		logger:  l,
	}
}

// Relay forwards the envelope verbatim to the recipient's video topic.
func (r *Relay) Relay(ctx context.Context, signal *model.SignalEnvelope) error {
	if err := r.broker.Publish(ctx, model.VideoTopic(signal.RecipientID), signal); err != nil {
		return fmt.Errorf("failed to relay signal: %w", err)
	}
	if r.metrics != nil {
		r.metrics.SignalsRelayed.Inc()
	}
	if r.logger != nil {
		r.logger.Debug("relayed signal",
			"type", string(signal.Type),
			"sender_id", signal.SenderID.String(),
			"recipient_id", signal.RecipientID.String())
	}
	return nil
}
