package coursegen

// OutlineInput describes the course the model should draft.
type OutlineInput struct {
	Topic                 string
	Audience              string // optional, e.g. "working engineers new to Go"
	Modules               int    // requested module count; 0 lets the model choose
	TargetDurationMinutes int    // optional total duration target
}
