package ranged

import (
	"errors"
	"fmt"
)

// Parameters is the immutable configuration of a weapon archetype.
// A Parameters value is usually declared once per weapon kind and shared by
// every instance of it.
type Parameters struct {
	// MaxProjectileSpeed is the launch speed of a fully charged shot, in blocks per tick.
	MaxProjectileSpeed float64
	// MaxNonCriticalDamage is the damage a fully charged, non-critical shot deals.
	MaxNonCriticalDamage float64
	// MaxUseTicks is the nominal use window of the weapon. Variants that reload by
	// charging use it as the per-projectile reload time.
	MaxUseTicks int
	// MaxChargeTicks is the number of ticks needed to reach full charge.
	MaxChargeTicks int
	// FiringError is the divergence applied to launched projectiles.
	FiringError float64
	// DefaultProjectile is launched by exempt actors that carry no ammunition.
	DefaultProjectile ProjectileKind
	// Launchable is the set of projectile kinds the weapon accepts as ammunition.
	Launchable KindSet
}

// Validate checks the parameter invariants:
// MaxUseTicks >= MaxChargeTicks >= 0, a positive speed, and a non-empty launchable set
// that includes the default projectile.
func (p Parameters) Validate() error {
	var errs []error
	if p.MaxChargeTicks < 0 {
		errs = append(errs, fmt.Errorf("max charge ticks must be >= 0, got %d", p.MaxChargeTicks))
	}
	if p.MaxUseTicks < p.MaxChargeTicks {
		errs = append(errs, fmt.Errorf("max use ticks (%d) must be >= max charge ticks (%d)", p.MaxUseTicks, p.MaxChargeTicks))
	}
	if p.MaxProjectileSpeed <= 0 {
		errs = append(errs, fmt.Errorf("max projectile speed must be > 0, got %v", p.MaxProjectileSpeed))
	}
	if p.MaxNonCriticalDamage < 0 {
		errs = append(errs, fmt.Errorf("max non-critical damage must be >= 0, got %v", p.MaxNonCriticalDamage))
	}
	if p.FiringError < 0 {
		errs = append(errs, fmt.Errorf("firing error must be >= 0, got %v", p.FiringError))
	}
	if p.Launchable.IsZero() {
		errs = append(errs, errors.New("launchable kinds must not be empty"))
	} else if !p.Launchable.Has(p.DefaultProjectile) {
		errs = append(errs, fmt.Errorf("default projectile %s is not launchable", p.DefaultProjectile))
	}
	return errors.Join(errs...)
}

// MustParameters returns p, panicking if it is invalid.
// It is meant for archetypes declared as package-level variables.
func MustParameters(p Parameters) Parameters {
	if err := p.Validate(); err != nil {
		panic("ranged: invalid weapon parameters: " + err.Error())
	}
	return p
}

// AdjustedProjectileDamage returns the base damage a launched projectile carries per
// unit of speed, so that a projectile launched at MaxProjectileSpeed deals exactly
// MaxNonCriticalDamage.
func (p Parameters) AdjustedProjectileDamage() float64 {
	return p.MaxNonCriticalDamage / p.MaxProjectileSpeed
}

// CanLaunch reports whether k is accepted as ammunition.
func (p Parameters) CanLaunch(k ProjectileKind) bool {
	return p.Launchable.Has(k)
}

// EffectiveUseTicks returns MaxUseTicks compressed by the quick-charge level.
func (p Parameters) EffectiveUseTicks(quickCharge int) int {
	return EffectiveTicks(p.MaxUseTicks, quickCharge)
}

// EffectiveChargeTicks returns MaxChargeTicks compressed by the quick-charge level.
func (p Parameters) EffectiveChargeTicks(quickCharge int) int {
	return EffectiveTicks(p.MaxChargeTicks, quickCharge)
}
