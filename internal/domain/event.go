package domain

import (
	"time"

	"github.com/google/uuid"
)

// Action is the mitigation decided for one cycle.
type Action string

const (
	ActionTrigger Action = "trigger"
	ActionNone    Action = "none"
)

// Triggered reports whether drones should be launched.
func (a Action) Triggered() bool {
	return a == ActionTrigger
}

// Severity labels for dispatch events.
const (
	SeverityHigh    = "high"
	SeverityRoutine = "routine"
)

// Geo represents a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// DispatchEvent is the structured record handed to the drone-control
// subsystem. One event is produced per evaluated cycle.
type DispatchEvent struct {
	ID             string      `json:"id"`
	Action         Action      `json:"action"`
	Severity       string      `json:"severity"`
	Timestamp      time.Time   `json:"timestamp"`
	AtRisk         bool        `json:"at_risk"`
	Location       Geo         `json:"location"`
	Signals        Signals     `json:"signals"`
	SignalCount    int         `json:"signal_count"`
	CameraOverride bool        `json:"camera_override"`
	Observation    Observation `json:"observation"`
}

// NewDispatchEvent maps an assessment to its outbound event.
func NewDispatchEvent(a Assessment, loc Geo) DispatchEvent {
	action, severity := ActionNone, SeverityRoutine
	if a.AtRisk {
		action, severity = ActionTrigger, SeverityHigh
	}
	return DispatchEvent{
		ID:             uuid.NewString(),
		Action:         action,
		Severity:       severity,
		Timestamp:      clock.Now().UTC(),
		AtRisk:         a.AtRisk,
		Location:       loc,
		Signals:        a.Signals,
		SignalCount:    a.SignalCount,
		CameraOverride: a.CameraOverride,
		Observation:    a.Observation,
	}
}
