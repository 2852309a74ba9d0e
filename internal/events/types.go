package events

import "time"

// Type 标识事件类型。
type Type string

const (
	TypeActionStarted   Type = "action.started"
	TypeActionCompleted Type = "action.completed"
	TypeTrackerReset    Type = "tracker.reset"
)

// Event describes one step of an agent turn.
type Event struct {
	Type      Type
	Action    string
	RequestID string
	SenderID  string
	Time      time.Time
}
