// Package alerting delivers success/failure events for every volume-level
// outcome of a run to the monitoring backend. Delivery is best-effort: the
// alert channel observes the backup job and must never abort it.
package alerting

import (
	"context"
	"log/slog"
	"time"
)

// AlertType is the outcome carried by an alert event.
type AlertType int

const (
	AlertSuccess AlertType = iota
	AlertFail
)

func (t AlertType) String() string {
	if t == AlertFail {
		return "FAIL"
	}
	return "SUCCESS"
}

// Event is one alert to be dispatched. Message is set on failures,
// VolumeName on per-volume successes.
type Event struct {
	Type       AlertType
	StartTime  time.Time
	Message    string
	VolumeName string
}

// RunInfo holds the run-scoped identifiers bound to every alert of one run.
type RunInfo struct {
	AccountID      string
	CustomerID     string
	Hostname       string
	ScriptVersion  string
	CorrelationID  string
	SID            string
	StorageAccount string
}

// Payload is the wire format delivered to the alerting backend.
type Payload struct {
	AccountID      string    `json:"account_id"`
	CustomerID     string    `json:"cid"`
	Hostname       string    `json:"hostname"`
	ScriptVersion  string    `json:"script_version"`
	CorrelationID  string    `json:"correlation_id"`
	SID            string    `json:"sid"`
	StorageAccount string    `json:"object_storage"`
	Type           string    `json:"type"`
	StartTime      time.Time `json:"start_time"`
	Message        string    `json:"message,omitempty"`
	VolumeName     string    `json:"db_name,omitempty"`
}

// Transport delivers a fully assembled payload to the backend.
type Transport interface {
	Deliver(ctx context.Context, payload Payload) error
}

// Dispatcher assembles alert payloads from events and the run identifiers
// bound at construction, and hands them to the transport.
type Dispatcher struct {
	transport Transport
	logger    *slog.Logger
	run       RunInfo
}

func NewDispatcher(transport Transport, logger *slog.Logger, run RunInfo) *Dispatcher {
	return &Dispatcher{transport: transport, logger: logger, run: run}
}

// Send dispatches one event. A delivery failure is logged and swallowed; it
// never propagates to the caller. The send survives a cancelled run context
// so a timed-out run can still report its final failure.
func (d *Dispatcher) Send(ctx context.Context, event Event) {
	payload := Payload{
		AccountID:      d.run.AccountID,
		CustomerID:     d.run.CustomerID,
		Hostname:       d.run.Hostname,
		ScriptVersion:  d.run.ScriptVersion,
		CorrelationID:  d.run.CorrelationID,
		SID:            d.run.SID,
		StorageAccount: d.run.StorageAccount,
		Type:           event.Type.String(),
		StartTime:      event.StartTime,
		Message:        event.Message,
		VolumeName:     event.VolumeName,
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()

	if err := d.transport.Deliver(ctx, payload); err != nil {
		d.logger.Warn("Alert delivery failed",
			"alert_type", payload.Type,
			"volume", payload.VolumeName,
			"error", err)
		return
	}

	d.logger.Debug("Alert delivered", "alert_type", payload.Type, "volume", payload.VolumeName)
}
