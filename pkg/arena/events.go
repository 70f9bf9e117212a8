package arena

import "github.com/picogrid/robot-arena/pkg/geometry"

// EventType identifies what happened on a board
type EventType string

const (
	EventInitFailed       EventType = "init_failed"
	EventRobotFaulted     EventType = "robot_faulted"
	EventRobotDestroyed   EventType = "robot_destroyed"
	EventMissileLaunched  EventType = "missile_launched"
	EventMissileDetonated EventType = "missile_detonated"
)

// Event is emitted by a board for reporting. Fields that do not apply to the
// event type are zero.
type Event struct {
	Round     int
	Type      EventType
	RobotID   string
	BoardID   int
	MissileID int
	Position  geometry.Vec2
	Err       error
}

// EventHandler receives board events synchronously from inside a tick
type EventHandler func(Event)
