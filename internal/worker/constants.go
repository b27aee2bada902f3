package worker

// ============================================================================
// Log Messages - Worker Pool
// ============================================================================

// Log messages for pool operations
const (
	LogMsgWorkerJobFailed = "Worker job failed"
	LogMsgWorkerQueueFull = "Worker queue full, job dropped"
)

// ============================================================================
// Log Messages - Meta Sync Worker
// ============================================================================

// Log messages for meta sync worker operations
const (
	LogMsgMetaSyncDisabled  = "Meta sync worker disabled"
	LogMsgMetaSyncScheduled = "Meta sync scheduled"
	LogMsgMetaSyncStarting  = "Meta sync round starting"
	LogMsgMetaSyncFailed    = "Meta sync failed"
)

// WorkerNameMetaSync names the meta sync worker in shutdown logs
const WorkerNameMetaSync = "meta sync worker"

// ============================================================================
// Defaults
// ============================================================================

// Meta sync pool sizing
const (
	DefaultMetaSyncWorkers   = 4
	DefaultMetaSyncQueueSize = 256
)
