// Package timeout defines centralized timeout constants for booking and agent operations.
package timeout

import "time"

// Operation timeout constants.
const (
	// SchedulingRequestTimeout bounds one call to the scheduling service.
	SchedulingRequestTimeout = 30 * time.Second

	// MaxSchedulingCallsPerTool is the longest chain of scheduling calls one
	// tool makes: cancelling by date lists, looks up, then cancels.
	MaxSchedulingCallsPerTool = 3

	// ToolExecutionTimeout is the timeout for individual tool execution.
	// Every scheduling call in the chain gets its full request timeout.
	ToolExecutionTimeout = MaxSchedulingCallsPerTool*SchedulingRequestTimeout + 5*time.Second

	// MemoryRequestTimeout bounds one call to a long-term memory backend.
	MemoryRequestTimeout = 15 * time.Second

	// MutationLockTTL is how long a distributed mutation lock lives if its
	// holder dies without releasing it.
	MutationLockTTL = ToolExecutionTimeout

	// MutationLockPollInterval is the retry interval while waiting on a held lock.
	MutationLockPollInterval = 100 * time.Millisecond

	// SessionIdleTimeout is how long an untouched session is kept.
	SessionIdleTimeout = time.Hour

	// SessionCleanupInterval is how often idle sessions are swept.
	SessionCleanupInterval = 10 * time.Minute

	// ShutdownTimeout bounds graceful HTTP shutdown.
	ShutdownTimeout = 10 * time.Second

	// MaxTruncateLength is the maximum length for truncating strings in logs.
	MaxTruncateLength = 200
)
