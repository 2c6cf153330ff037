package ranged

// CadencePolicy decides when a firing action counts as done for the current use cycle.
type CadencePolicy uint8

const (
	// EveryShot marks the cycle fired after every shot.
	EveryShot CadencePolicy = iota
	// OnlyWhenEmpty marks the cycle fired only once the container is empty.
	OnlyWhenEmpty
)

// String returns the string representation of the policy.
func (p CadencePolicy) String() string {
	switch p {
	case EveryShot:
		return "EveryShot"
	case OnlyWhenEmpty:
		return "OnlyWhenEmpty"
	default:
		return "Unknown"
	}
}

// Cadence governs the firing interval of a weapon instance and whether it has
// already fired during the current use cycle.
type Cadence struct {
	// Interval is the number of ticks between two shots of one firing action.
	Interval int
	// Policy decides when the cycle is marked fired.
	Policy CadencePolicy
	// Fired is set once the current use cycle has fired.
	Fired bool
}

// FiringTick reports whether elapsed falls on the firing interval.
// It is always false for a non-positive interval.
func (c *Cadence) FiringTick(elapsed int) bool {
	return c.Interval > 0 && elapsed%c.Interval == 0
}

// MarkFired records a shot. count is the number of projectiles left in the
// container after the shot.
func (c *Cadence) MarkFired(count int) {
	switch c.Policy {
	case EveryShot:
		c.Fired = true
	case OnlyWhenEmpty:
		if count == 0 {
			c.Fired = true
		}
	}
}

// ResetCycle clears the fired flag at the start of a new use cycle.
func (c *Cadence) ResetCycle() {
	c.Fired = false
}
