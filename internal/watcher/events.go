package watcher

import (
	"time"
)

type EventType int

const (
	EventCreate EventType = iota
	EventModify
	EventDelete
	EventRename
)

func (e EventType) String() string {
	switch e {
	case EventCreate:
		return "create"
	case EventModify:
		return "modify"
	case EventDelete:
		return "delete"
	case EventRename:
		return "rename"
	default:
		return "unknown"
	}
}

// FileEvent is one debounced filesystem change delivered to the batch
// callback. Events for the same path coalesce within the debounce window,
// keeping the latest type.
type FileEvent struct {
	Path      string
	Type      EventType
	Timestamp time.Time
}
