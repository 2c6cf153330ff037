package ranged

// State is the state of a weapon instance's state machine.
type State uint8

const (
	// Idle means the weapon is not in use.
	Idle State = iota
	// Charging means the weapon is drawing, charging or reloading.
	Charging
	// Charged means the weapon is loaded and waits for a trigger.
	Charged
	// Firing means the weapon is emitting projectiles.
	Firing
	// PostShot means the weapon has fired and the use cycle is over.
	PostShot
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Charging:
		return "Charging"
	case Charged:
		return "Charged"
	case Firing:
		return "Firing"
	case PostShot:
		return "PostShot"
	default:
		return "Unknown"
	}
}

// cue thresholds, in charge progress.
var cueThresholds = [...]Progress{0.2, 0.3, 0.9}

var cueSounds = [...]SoundKind{SoundLoadStart, SoundLoadMiddle, SoundLoadEnd}

const cueCount = len(cueThresholds)

// Instance is the mutable state of one weapon instance. It is owned by the caller
// and passed into every transition of the weapon's state machine.
//
// Container, Cadence and Charged are durable and survive between uses; see
// Snapshot. The remaining fields only live for the duration of one use.
//
// Concurrency:
// An Instance must only be used by one goroutine at a time. The host drives it
// from the tick of the actor holding the weapon.
type Instance struct {
	// Container holds the loaded projectiles.
	Container *Container
	// Cadence holds the shot interval bookkeeping.
	Cadence Cadence
	// Charged is set while the loaded projectiles are ready to be fired.
	Charged bool
	// QuickCharge is the quick-charge level applied to charge and reload times.
	QuickCharge int

	state      State
	useTicks   int
	cycleStart int
	pending    int
	loaded     int
	shots      int
	cues       [cueCount]bool
}

// State returns the current state. An idle instance holding a ready charge
// reports Charged.
func (i *Instance) State() State {
	if i.state == Idle && i.Charged && !i.Container.Empty() {
		return Charged
	}
	return i.state
}

// InUse reports whether a use is in progress.
func (i *Instance) InUse() bool {
	return i.state != Idle
}

// UseTicks returns the length of the current use window. The host counts remaining
// use ticks down from this value. It is 0 when no use is in progress.
func (i *Instance) UseTicks() int {
	return i.useTicks
}

// elapsed converts remaining use ticks into ticks elapsed since the use began.
func (i *Instance) elapsed(remaining int) int {
	return max(i.useTicks-remaining, 0)
}

// Snapshot is the durable part of an Instance.
type Snapshot struct {
	Projectiles []Projectile
	Charged     bool
	Fired       bool
}

// Snapshot returns the durable state of the instance.
func (i *Instance) Snapshot() Snapshot {
	return Snapshot{
		Projectiles: i.Container.Projectiles(),
		Charged:     i.Charged,
		Fired:       i.Cadence.Fired,
	}
}

// Restore replaces the durable state of the instance with s and ends any use in
// progress. Projectiles beyond the container capacity are discarded.
func (i *Instance) Restore(s Snapshot) {
	i.Container.Clear()
	i.Container.insert(s.Projectiles)
	i.Charged = s.Charged && !i.Container.Empty()
	i.Cadence.Fired = s.Fired
	i.reset()
}

// reset returns the transient fields to their idle values.
func (i *Instance) reset() {
	i.state = Idle
	i.useTicks = 0
	i.cycleStart = 0
	i.pending = 0
	i.loaded = 0
	i.shots = 0
	i.cues = [cueCount]bool{}
}
