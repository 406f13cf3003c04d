package trace

import "time"

// Kind is the type of an event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
	KindHeartbeat
)

func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	case KindHeartbeat:
		return "heartbeat"
	default:
		return "unknown"
	}
}

// Scope is an event's granularity. Lower values are coarser.
type Scope uint8

const (
	ScopeCommand Scope = iota + 1 // one CLI command
	ScopeBatch                    // one batch run
	ScopeType                     // one root type compiled
)

func (s Scope) String() string {
	switch s {
	case ScopeCommand:
		return "command"
	case ScopeBatch:
		return "batch"
	case ScopeType:
		return "type"
	default:
		return "unknown"
	}
}

// Event is a single trace record.
type Event struct {
	Time     time.Time
	Seq      uint64
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 for roots
	GID      uint64
	Name     string // "pattern", "batch", "type:Player"
	Detail   string
	Extra    map[string]string
}
