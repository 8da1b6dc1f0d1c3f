package player

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPipelineState(t *testing.T) {
	assert.Equal(t, "idle", pipelineIdle.String())
	assert.Equal(t, "running", pipelineRunning.String())
	assert.Equal(t, "paused", pipelinePaused.String())
	assert.Equal(t, "unknown", pipelineState(9).String())

	assert.True(t, pipelineRunning.running())
	assert.False(t, pipelinePaused.running())
	assert.False(t, pipelineIdle.running())
}
