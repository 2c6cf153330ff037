package ranged

import (
	"errors"
	"fmt"
	"strings"
)

// Variant selects the transition table a weapon follows.
type Variant uint8

const (
	// Bow loads one projectile from the actor at release and fires it with a
	// strength eased over the draw time.
	Bow Variant = iota
	// Crossbow loads 1..N projectiles by charging, then fires all of them at once
	// on the next use.
	Crossbow
	// BoltAction loads by charging for MaxUseTicks per projectile and fires one
	// projectile per use.
	BoltAction
	// BoltActionRepeating fills its container one projectile per reload cycle, then
	// fires one projectile per cadence interval until empty.
	BoltActionRepeating
	// SemiAutomatic reloads its container in bulk and fires one projectile per use.
	SemiAutomatic
	// FullAutomatic reloads its container in bulk and fires one projectile per
	// cadence interval for the whole use window.
	FullAutomatic

	variantCount
)

var variantNames = [variantCount]string{
	Bow:                 "bow",
	Crossbow:            "crossbow",
	BoltAction:          "bolt_action",
	BoltActionRepeating: "bolt_action_repeating",
	SemiAutomatic:       "semi_automatic",
	FullAutomatic:       "full_automatic",
}

// String returns the string representation of the variant.
func (v Variant) String() string {
	if v < variantCount {
		return variantNames[v]
	}
	return "unknown"
}

// ParseVariant parses the string representation of a variant.
func ParseVariant(s string) (Variant, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for v, name := range variantNames {
		if name == s {
			return Variant(v), nil
		}
	}
	return 0, fmt.Errorf("unknown weapon variant %q", s)
}

// Policy returns the cadence policy of the variant.
func (v Variant) Policy() CadencePolicy {
	switch v {
	case BoltActionRepeating, FullAutomatic:
		return OnlyWhenEmpty
	default:
		return EveryShot
	}
}

// cadenced reports whether the variant fires on a cadence interval.
func (v Variant) cadenced() bool {
	return v == BoltActionRepeating || v == FullAutomatic
}

// Tuning constants shared by all weapons.
const (
	// BowMinimumProgress is the least draw a bow must reach to fire on release.
	BowMinimumProgress Progress = 0.1
	// IndefiniteUseTicks is the use window of weapons that stay in use until released.
	IndefiniteUseTicks = 72000
	// VolleySpread is the yaw, in degrees, of the outermost projectiles of a
	// multi-projectile crossbow volley.
	VolleySpread = 10.0
)

// Weapon is a weapon archetype: a variant together with its parameters.
// A Weapon is immutable and shared by all instances of that weapon; the mutable
// per-instance state lives in Instance.
type Weapon struct {
	name     string
	variant  Variant
	params   Parameters
	capacity int
	interval int
	cooldown int
	item     string
}

// WeaponOption configures a Weapon.
type WeaponOption func(*Weapon)

// WithCapacity sets the container capacity. The default is 1.
func WithCapacity(n int) WeaponOption {
	return func(w *Weapon) {
		w.capacity = n
	}
}

// WithInterval sets the cadence interval, in ticks, of repeating and automatic weapons.
func WithInterval(ticks int) WeaponOption {
	return func(w *Weapon) {
		w.interval = ticks
	}
}

// WithCooldown sets the fire-rate cooldown, in ticks, applied after a use that fired.
func WithCooldown(ticks int) WeaponOption {
	return func(w *Weapon) {
		w.cooldown = ticks
	}
}

// WithItemName sets the identifier of the host item the weapon is given as,
// e.g. "minecraft:crossbow".
func WithItemName(id string) WeaponOption {
	return func(w *Weapon) {
		w.item = id
	}
}

// NewWeapon creates a weapon archetype.
// Returns an error if the parameters or options violate an invariant.
func NewWeapon(name string, v Variant, params Parameters, opts ...WeaponOption) (*Weapon, error) {
	w := &Weapon{
		name:     name,
		variant:  v,
		params:   params,
		capacity: 1,
	}
	for _, opt := range opts {
		opt(w)
	}
	if err := w.validate(); err != nil {
		return nil, fmt.Errorf("weapon %q: %w", name, err)
	}
	return w, nil
}

// MustWeapon is like NewWeapon but panics on an invalid configuration.
// It is meant for archetypes declared as package-level variables.
func MustWeapon(name string, v Variant, params Parameters, opts ...WeaponOption) *Weapon {
	w, err := NewWeapon(name, v, params, opts...)
	if err != nil {
		panic("ranged: " + err.Error())
	}
	return w
}

// validate checks the weapon invariants.
func (w *Weapon) validate() error {
	var errs []error
	if w.name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if w.variant >= variantCount {
		errs = append(errs, fmt.Errorf("unknown variant %d", w.variant))
	}
	if err := w.params.Validate(); err != nil {
		errs = append(errs, err)
	}
	switch {
	case w.capacity < 0:
		errs = append(errs, fmt.Errorf("capacity must be >= 0, got %d", w.capacity))
	case w.capacity == 0:
		errs = append(errs, fmt.Errorf("%s requires a container capacity > 0", w.variant))
	case w.variant == Bow && w.capacity != 1:
		errs = append(errs, fmt.Errorf("bow capacity must be 1, got %d", w.capacity))
	}
	if w.variant.cadenced() && w.interval <= 0 {
		errs = append(errs, fmt.Errorf("%s requires a cadence interval > 0, got %d", w.variant, w.interval))
	}
	if w.interval < 0 {
		errs = append(errs, fmt.Errorf("interval must be >= 0, got %d", w.interval))
	}
	if w.cooldown < 0 {
		errs = append(errs, fmt.Errorf("cooldown must be >= 0, got %d", w.cooldown))
	}
	return errors.Join(errs...)
}

// Name returns the archetype name.
func (w *Weapon) Name() string {
	return w.name
}

// Variant returns the weapon variant.
func (w *Weapon) Variant() Variant {
	return w.variant
}

// Parameters returns the weapon parameters.
func (w *Weapon) Parameters() Parameters {
	return w.params
}

// Capacity returns the container capacity of instances of the weapon.
func (w *Weapon) Capacity() int {
	return w.capacity
}

// Interval returns the cadence interval in ticks.
func (w *Weapon) Interval() int {
	return w.interval
}

// Cooldown returns the fire-rate cooldown in ticks.
func (w *Weapon) Cooldown() int {
	return w.cooldown
}

// ItemName returns the identifier of the host item the weapon is given as.
// It is empty if none was configured.
func (w *Weapon) ItemName() string {
	return w.item
}

// NewInstance returns the state of a new, empty instance of the weapon.
func (w *Weapon) NewInstance() *Instance {
	return &Instance{
		Container: NewContainer(w.capacity, w.params.Launchable),
		Cadence: Cadence{
			Interval: w.interval,
			Policy:   w.variant.Policy(),
		},
	}
}
