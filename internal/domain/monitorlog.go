package domain

// MonitorEvent identifies one audit-trail entry type.
type MonitorEvent string

const (
	MonitorEventSyncStart   MonitorEvent = "sync_start"
	MonitorEventSyncSuccess MonitorEvent = "sync_success"
	MonitorEventSyncFailure MonitorEvent = "sync_failure"
)

// MonitorLogEntry is one row of the append-only audit trail recording a
// cycle's start, success, or failure per account. Corresponds to the
// monitoring_log table.
type MonitorLogEntry struct {
	ID          string // PRIMARY KEY, uuid
	AccountID   string
	ChallengeID string
	Event       MonitorEvent
	DurationMs  int64  // 0 for sync_start
	Summary     string // synced-data summary or error text
	RecordedAt  int64  // Unix timestamp in milliseconds
}
