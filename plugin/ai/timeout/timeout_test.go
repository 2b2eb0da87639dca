package timeout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBudgets(t *testing.T) {
	assert.GreaterOrEqual(t, ToolExecutionTimeout, MaxSchedulingCallsPerTool*SchedulingRequestTimeout,
		"a tool must outlive its longest chain of scheduling calls")
	assert.GreaterOrEqual(t, MutationLockTTL, ToolExecutionTimeout,
		"a mutation lock must outlive the tool holding it")
	assert.Greater(t, SessionIdleTimeout, SessionCleanupInterval)
}
