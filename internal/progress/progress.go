package progress

import "time"

// Stage identifies which pipeline stage is active.
type Stage string

const (
	StageScript    Stage = "script"
	StageTranslate Stage = "translate"
	StageTTS       Stage = "tts"
	StageAssembly  Stage = "assembly"
	StageSave      Stage = "save"
	StageComplete  Stage = "complete"
)

// Event carries progress information from the pipeline to the renderer.
type Event struct {
	Stage     Stage
	Message   string
	Percent   float64 // 0.0–1.0
	TurnNum   int
	TurnTotal int
	Elapsed   time.Duration
	Error     error
	// ProjectDir is set on StageComplete with the saved project path.
	ProjectDir string
	// Duration is the merged-track length (e.g. "2:34"), set on StageComplete.
	Duration string
}

// Callback is the function signature for progress event handlers.
type Callback func(Event)

// NopCallback is a no-op progress callback for tests and silent mode.
func NopCallback(Event) {}

// NewEvent creates an Event with common fields populated.
func NewEvent(stage Stage, msg string, pct float64, start time.Time) Event {
	return Event{
		Stage:   stage,
		Message: msg,
		Percent: pct,
		Elapsed: time.Since(start),
	}
}
