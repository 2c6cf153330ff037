package ranged

import (
	"github.com/df-mc/dragonfly/server/item"
	"github.com/df-mc/dragonfly/server/player"
	"github.com/go-gl/mathgl/mgl64"
)

// Events are dispatched to the listeners registered through bundles. A listener
// receives an event by implementing a method with the event pointer as its only
// argument:
//
//	func (l *ArrowSpawner) HandleShot(e *ranged.EventShot)

// EventShot is emitted for every projectile a weapon launches. The host has not
// spawned anything yet: listeners spawn the projectile entity from Position and
// Velocity, and may adjust both before doing so.
type EventShot struct {
	Session  *Session
	Player   *player.Player
	Weapon   *Weapon
	Item     item.Stack
	Shot     Shot
	Position mgl64.Vec3
	Velocity mgl64.Vec3
}

// EventCharged is emitted when a weapon instance becomes charged during a use.
type EventCharged struct {
	Session  *Session
	Player   *player.Player
	Weapon   *Weapon
	Instance *Instance
	Loaded   int
}

// StopReason is the reason a use ended.
type StopReason uint8

const (
	// StopReleased means the player released the trigger.
	StopReleased StopReason = iota
	// StopExpired means the use window ran out or the weapon finished firing.
	StopExpired
	// StopSlotChange means the player switched to another item.
	StopSlotChange
	// StopDeath means the player died.
	StopDeath
	// StopQuit means the player left the server.
	StopQuit
)

// String returns the string representation of the reason.
func (r StopReason) String() string {
	switch r {
	case StopReleased:
		return "released"
	case StopExpired:
		return "expired"
	case StopSlotChange:
		return "slot_change"
	case StopDeath:
		return "death"
	case StopQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// EventUseStopped is emitted when a use ends, whatever the reason. Consumed is
// the result of the release: false means the charge was discarded.
type EventUseStopped struct {
	Session  *Session
	Player   *player.Player
	Weapon   *Weapon
	Reason   StopReason
	Consumed bool
}
