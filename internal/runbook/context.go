package runbook

import (
	"time"

	"github.com/google/uuid"
)

// ScriptVersion is stamped into every log line header and alert payload.
const ScriptVersion = "1.0.0"

// defaultSID is used when the caller does not supply a system identifier.
const defaultSID = "SID"

// Options carries the inputs of one runbook execution: automation variables
// plus the optional positional arguments of an ad-hoc invocation.
type Options struct {
	SubscriptionID string
	ResourceGroup  string
	StorageAccount string
	ExcludeShares  []string

	// RetentionDays is the raw retention value; it is validated at the start
	// of the creation runbook. For ad-hoc runs it comes from the command
	// line, otherwise from the automation variables.
	RetentionDays string
	Adhoc         bool

	CorrelationID   string
	TriggeredFromVM string
	SID             string

	LogLevel       string
	TimeoutSeconds int
}

// RunContext is the run-scoped state of one execution: the correlation
// identity threaded through every log line and alert, and the counters
// reported in the final summary. It is created at run start, passed
// explicitly, and returned to the caller; there is no global state.
type RunContext struct {
	CorrelationID   string
	TriggeredFromVM string
	SID             string
	StartTime       time.Time

	// Counters, incremented only on confirmed success of the corresponding
	// mutating call.
	SnapshotsCreated int
	SnapshotsDeleted int
}

// NewRunContext builds the run identity. A fresh UUID is generated when no
// correlation id was handed in, so every run has exactly one.
func NewRunContext(correlationID, triggeredFromVM, sid string) *RunContext {
	if correlationID == "" {
		correlationID = uuid.New().String()
	}
	if sid == "" {
		sid = defaultSID
	}

	return &RunContext{
		CorrelationID:   correlationID,
		TriggeredFromVM: triggeredFromVM,
		SID:             sid,
		StartTime:       time.Now().UTC(),
	}
}
