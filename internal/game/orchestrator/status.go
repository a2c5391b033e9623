package orchestrator

// Status is the phase the turn state machine is in.
type Status string

const (
	StatusIdle               Status = "idle"
	StatusProcessingAction   Status = "processingAction"
	StatusStreamingNarrative Status = "streamingNarrative"
	StatusProcessingUpdates  Status = "processingUpdates"
	StatusGeneratingImage    Status = "generatingImage"
	StatusError              Status = "error"
)

// Busy reports whether a turn is in flight. Only idle and error accept a new
// action.
func (s Status) Busy() bool {
	return s != StatusIdle && s != StatusError
}

func (s Status) Label() string {
	switch s {
	case StatusProcessingAction:
		return "Weaving your action into the world..."
	case StatusStreamingNarrative:
		return "The story unfolds..."
	case StatusProcessingUpdates:
		return "Recording consequences..."
	case StatusGeneratingImage:
		return "Painting the scene..."
	case StatusError:
		return "Something went wrong"
	}
	return ""
}
