package metrics

import (
	"context"

	"github.com/osse101/CozyCasino_Go/internal/domain"
	"github.com/osse101/CozyCasino_Go/internal/event"
	"github.com/osse101/CozyCasino_Go/internal/logger"
)

// EventMetricsCollector subscribes to client events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all events
func (e *EventMetricsCollector) Register(bus event.Bus) error {
	event.SubscribeAll(bus, event.AllTypes, e.HandleEvent)
	return nil
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	switch evt.Type {
	case event.PlayStateChanged:
		p, ok := decode[event.PlayStateChangedPayloadV1](ctx, evt)
		if !ok {
			return nil
		}
		kind := string(p.Kind)
		if p.To == domain.PlayStateSubmitting {
			PlaysInFlight.WithLabelValues(kind).Inc()
		} else if p.From == domain.PlayStateSubmitting {
			PlaysInFlight.WithLabelValues(kind).Dec()
		}

	case event.PlaySucceeded:
		p, ok := decode[event.PlaySucceededPayloadV1](ctx, evt)
		if !ok {
			return nil
		}
		PlaysTotal.WithLabelValues(string(p.Kind), OutcomeSucceeded).Inc()
		if p.Slot.IsWin() {
			CoinsWon.Add(float64(p.Slot.WinAmount))
		}

	case event.PlayFailed:
		if p, ok := decode[event.PlayFailedPayloadV1](ctx, evt); ok {
			PlaysTotal.WithLabelValues(string(p.Kind), OutcomeFailed).Inc()
		}

	case event.PlayRejected:
		if p, ok := decode[event.PlayRejectedPayloadV1](ctx, evt); ok {
			PlaysRejected.WithLabelValues(string(p.Kind), p.Reason).Inc()
		}

	case event.ProfileRefreshed:
		ProfileRefreshes.WithLabelValues(ResultOK).Inc()

	case event.ProfileRefreshFailed:
		ProfileRefreshes.WithLabelValues(ResultError).Inc()

	case event.StaleResponseDiscarded:
		if p, ok := decode[event.StaleResponseDiscardedPayloadV1](ctx, evt); ok {
			StaleDiscarded.WithLabelValues(p.Resource).Inc()
		}

	case event.MetaSynced:
		MetaSyncs.WithLabelValues(ResultOK).Inc()

	case event.MetaSyncFailed:
		MetaSyncs.WithLabelValues(ResultError).Inc()

	case event.OnboardingCompleted:
		OnboardingsTotal.WithLabelValues(ResultOK).Inc()

	case event.OnboardingFailed:
		OnboardingsTotal.WithLabelValues(ResultError).Inc()
	}

	return nil
}

func decode[T any](ctx context.Context, evt event.Event) (T, bool) {
	p, err := event.DecodePayload[T](evt.Payload)
	if err != nil {
		logger.FromContext(ctx).Debug(LogMsgEventPayloadDecodeFailed, "type", evt.Type, "error", err)
		return p, false
	}
	return p, true
}
