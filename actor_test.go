package ranged_test

import (
	"slices"

	"github.com/oriumgames/ranged"
)

var (
	testArrow    = ranged.RegisterKind("test_arrow", ranged.WithItem("test:arrow"))
	testFirework = ranged.RegisterKind("test_firework", ranged.WithItem("test:firework"), ranged.MultiEffect())
	testBolt     = ranged.RegisterKind("test_bolt")
)

// fakeActor records everything a weapon asks of its actor.
type fakeActor struct {
	ammo     map[ranged.ProjectileKind]int
	exempt   bool
	sounds   []ranged.Sound
	shots    []ranged.Shot
	cooldown int
}

func newActor(arrows int) *fakeActor {
	return &fakeActor{ammo: map[ranged.ProjectileKind]int{testArrow: arrows}}
}

func (a *fakeActor) Ammunition(kinds ranged.KindSet) int {
	n := 0
	for k, c := range a.ammo {
		if kinds.Has(k) {
			n += c
		}
	}
	return n
}

func (a *fakeActor) TakeAmmunition(kinds ranged.KindSet, n int) []ranged.Projectile {
	var keys []ranged.ProjectileKind
	for k := range a.ammo {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var out []ranged.Projectile
	for _, k := range keys {
		if !kinds.Has(k) {
			continue
		}
		for a.ammo[k] > 0 && len(out) < n {
			a.ammo[k]--
			out = append(out, ranged.Projectile{Kind: k})
		}
	}
	return out
}

func (a *fakeActor) Exempt() bool { return a.exempt }

func (a *fakeActor) PlaySound(s ranged.Sound) { a.sounds = append(a.sounds, s) }

func (a *fakeActor) Launch(s ranged.Shot) { a.shots = append(a.shots, s) }

func (a *fakeActor) SetCooldown(ticks int) { a.cooldown = ticks }

func (a *fakeActor) soundKinds() []ranged.SoundKind {
	var kinds []ranged.SoundKind
	for _, s := range a.sounds {
		kinds = append(kinds, s.Kind)
	}
	return kinds
}

// testParams returns valid parameters accepting arrows and fireworks.
func testParams(useTicks, chargeTicks int) ranged.Parameters {
	return ranged.Parameters{
		MaxProjectileSpeed:   3,
		MaxNonCriticalDamage: 6,
		MaxUseTicks:          useTicks,
		MaxChargeTicks:       chargeTicks,
		FiringError:          1,
		DefaultProjectile:    testArrow,
		Launchable:           ranged.Kinds(testArrow, testFirework),
	}
}

// tickUntil calls OnUsageTick with remaining counting down from from-1 until it
// reaches stop, and returns stop.
func tickUntil(w *ranged.Weapon, inst *ranged.Instance, a ranged.Actor, from, stop int) int {
	for remaining := from - 1; remaining >= stop; remaining-- {
		w.OnUsageTick(inst, a, remaining)
	}
	return stop
}
