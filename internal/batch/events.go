package batch

import "time"

// Stage is the step a root is in.
type Stage string

const (
	StageCache   Stage = "cache"
	StageCompile Stage = "compile"
	StageWrite   Stage = "write"
)

// Status is the state of a root within its stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusCached  Status = "cached"
	StatusError   Status = "error"
)

// Event reports progress for one root, named by its output file stem.
type Event struct {
	Name    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// Terminal reports whether no further events follow for this root.
func (e Event) Terminal() bool {
	return e.Status == StatusDone || e.Status == StatusCached || e.Status == StatusError
}

// ProgressSink consumes events. Implementations must be goroutine-safe.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

type nopSink struct{}

func (nopSink) OnEvent(Event) {}
