package player

// pipelineState is where a stream decoder's fetch and decode pipeline is.
// Pausing a live stream tears the pipeline down; playing again builds a
// new one at the live edge, so paused and idle differ only in intent.
type pipelineState uint8

const (
	pipelineIdle pipelineState = iota
	pipelineRunning
	pipelinePaused
)

var pipelineStateNames = [...]string{"idle", "running", "paused"}

func (s pipelineState) String() string {
	if int(s) < len(pipelineStateNames) {
		return pipelineStateNames[s]
	}
	return "unknown"
}

func (s pipelineState) running() bool { return s == pipelineRunning }
