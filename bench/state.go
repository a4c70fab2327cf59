package bench

import "fmt"

// State is the position of one record in its benchmark lifecycle:
//
//	NotStarted -> Running(0) -> Persisted(0) -> Running(1) -> ... -> Done
type State int

const (
	NotStarted State = iota
	Running
	Persisted
	Done
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not-started"
	case Running:
		return "running"
	case Persisted:
		return "persisted"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}
