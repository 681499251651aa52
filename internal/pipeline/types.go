package pipeline

// Stage names one of spec §5's four fixed passes, run in this order on
// every compile.
type Stage string

const (
	// StageMonomorphize is spec §5 step 1: draining the work queue from
	// main to empty.
	StageMonomorphize Stage = "monomorphize"
	// StageLegalize is spec §5 step 2: direct-recursion then SCC/pivot
	// boxing of data typedefs.
	StageLegalize Stage = "legalize"
	// StageBoxProp is the pattern-retype/deref-insert half of spec §5
	// step 3, run once over every body before the static-call/clone/
	// closure passes.
	StageBoxProp Stage = "boxprop"
	// StageMirPass covers the rest of spec §5 step 3 (static-call
	// normalize, clone insert) and step 4 (closure conversion), which
	// internal/mirpass already sequences internally.
	StageMirPass Stage = "mirpass"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusWorking indicates the stage has started.
	StatusWorking Status = "working"
	// StatusDone indicates the stage finished without error.
	StatusDone Status = "done"
	// StatusError indicates the stage aborted the compile.
	StatusError Status = "error"
)

// Event reports progress for the pipeline as a whole, or — during
// StageMonomorphize — for one drained work-queue item.
type Event struct {
	Stage  Stage
	Status Status
	Item   string
	Err    error
}

// ProgressSink consumes progress events. Run calls it synchronously and
// inline at each stage boundary; a caller that wants to render a TUI
// concurrently with the compile (internal/progresstui) supplies a
// ChannelSink and drains it from another goroutine.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

// OnEvent forwards the event to the channel.
func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

func emit(sink ProgressSink, stage Stage, status Status, item string, err error) {
	if sink == nil {
		return
	}
	sink.OnEvent(Event{Stage: stage, Status: status, Item: item, Err: err})
}
