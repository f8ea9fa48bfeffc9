package driver

// Stage identifies a pipeline step for progress reporting.
type Stage uint8

const (
	StageDecode Stage = iota
	StageMerge
	StageWrite
)

func (s Stage) String() string {
	switch s {
	case StageDecode:
		return "decode"
	case StageMerge:
		return "merge"
	case StageWrite:
		return "write"
	default:
		return "unknown"
	}
}

// Status reports how far along a file is within a stage.
type Status uint8

const (
	StatusQueued Status = iota
	StatusWorking
	StatusDone
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusQueued:
		return "queued"
	case StatusWorking:
		return "working"
	case StatusDone:
		return "done"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Event describes one file crossing a stage boundary.
type Event struct {
	Path   string
	Stage  Stage
	Status Status
	Err    error
}

// Sink receives progress events. Decode events arrive from worker
// goroutines, so implementations must be safe for concurrent use.
type Sink func(Event)

func (s Sink) emit(e Event) {
	if s != nil {
		s(e)
	}
}
