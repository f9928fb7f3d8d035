package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/couchcryptid/frost-guard/internal/domain"
	"github.com/couchcryptid/frost-guard/internal/observability"
)

const (
	alertMessage   = "ALERT: frost risk detected, activating anti-frost drones"
	routineMessage = "no frost risk detected, no action needed"
)

// Publisher delivers dispatch events to the drone-control subsystem.
type Publisher interface {
	Publish(ctx context.Context, event domain.DispatchEvent) error
}

// Dispatcher maps a verdict to a drone action, records it, and publishes the
// resulting event.
type Dispatcher struct {
	publisher Publisher // nil disables publishing
	recorder  domain.Recorder
	metrics   *observability.Metrics
	location  domain.Geo
	last      atomic.Pointer[domain.DispatchEvent]
}

// NewDispatcher creates a Dispatcher. publisher may be nil.
func NewDispatcher(publisher Publisher, recorder domain.Recorder, metrics *observability.Metrics, location domain.Geo) *Dispatcher {
	return &Dispatcher{
		publisher: publisher,
		recorder:  recorder,
		metrics:   metrics,
		location:  location,
	}
}

// Dispatch records and publishes the decision for one assessment. The action
// is returned even when publishing fails.
func (d *Dispatcher) Dispatch(ctx context.Context, a domain.Assessment) (domain.Action, error) {
	event := domain.NewDispatchEvent(a, d.location)

	if event.Action.Triggered() {
		d.recorder.Record(slog.LevelWarn, alertMessage)
		d.metrics.DroneTrigger.Inc()
	} else {
		d.recorder.Record(slog.LevelInfo, routineMessage)
	}
	d.last.Store(&event)

	if d.publisher == nil {
		return event.Action, nil
	}
	if err := d.publisher.Publish(ctx, event); err != nil {
		d.metrics.PublishErrors.Inc()
		return event.Action, fmt.Errorf("dispatch %s: %w", event.Action, err)
	}
	d.metrics.EventsPublished.Inc()
	return event.Action, nil
}

// LastEvent returns the most recently dispatched event.
func (d *Dispatcher) LastEvent() (domain.DispatchEvent, bool) {
	e := d.last.Load()
	if e == nil {
		return domain.DispatchEvent{}, false
	}
	return *e, true
}
