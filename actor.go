package ranged

// Actor is the entity using a weapon: a player, a fake player or a mob.
// The weapon model only talks to the host through this interface.
//
// Concurrency:
// Actors are used synchronously from the tick that drives the weapon. An Actor
// implementation is not expected to be safe for concurrent use.
type Actor interface {
	// Ammunition returns how many projectiles of the given kinds the actor carries.
	Ammunition(kinds KindSet) int
	// TakeAmmunition removes up to n projectiles of the given kinds from the actor
	// and returns them.
	TakeAmmunition(kinds KindSet, n int) []Projectile
	// Exempt reports whether the actor is exempt from ammunition consumption,
	// such as a player in creative mode.
	Exempt() bool
	// PlaySound plays a weapon sound to the actor and its viewers.
	PlaySound(s Sound)
	// Launch emits a projectile.
	Launch(s Shot)
	// SetCooldown puts the weapon on a fire-rate cooldown of the given ticks.
	SetCooldown(ticks int)
}

// SoundKind enumerates the sounds a weapon plays.
type SoundKind uint8

const (
	// SoundLoadStart plays once a charge passes 20%.
	SoundLoadStart SoundKind = iota
	// SoundLoadMiddle plays once a charge passes 30%.
	SoundLoadMiddle
	// SoundLoadEnd plays once a charge passes 90%.
	SoundLoadEnd
	// SoundShoot plays when a projectile is launched.
	SoundShoot
)

// String returns the string representation of the sound kind.
func (k SoundKind) String() string {
	switch k {
	case SoundLoadStart:
		return "LoadStart"
	case SoundLoadMiddle:
		return "LoadMiddle"
	case SoundLoadEnd:
		return "LoadEnd"
	case SoundShoot:
		return "Shoot"
	default:
		return "Unknown"
	}
}

// Sound is a sound cue emitted by a weapon.
type Sound struct {
	Kind    SoundKind
	Variant Variant
	// QuickCharge is the quick-charge level of the weapon instance.
	QuickCharge int
}

// Shot describes one projectile launch.
type Shot struct {
	Projectile Projectile
	Variant    Variant
	// Speed is the launch speed in blocks per tick.
	Speed float64
	// BaseDamage is the damage per unit of speed. See Parameters.AdjustedProjectileDamage.
	BaseDamage float64
	// Critical is set for fully charged bow shots.
	Critical bool
	// Divergence is the firing error to apply to the launch direction.
	Divergence float64
	// YawOffset rotates the launch direction, in degrees. Used to fan out volleys.
	YawOffset float64
}

// Damage returns the damage the projectile deals on a hit at its launch speed.
// Spawners whose entities scale damage by speed themselves take BaseDamage.
func (s Shot) Damage() float64 {
	return s.BaseDamage * s.Speed
}
