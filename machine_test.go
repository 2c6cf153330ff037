package ranged_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/oriumgames/ranged"
)

func yaws(shots []ranged.Shot) []float64 {
	out := make([]float64, len(shots))
	for i, s := range shots {
		out[i] = s.YawOffset
	}
	return out
}

func TestBow_FullDrawIsCritical(t *testing.T) {
	w := ranged.MustWeapon("bow", ranged.Bow, testParams(ranged.IndefiniteUseTicks, 20))
	inst := w.NewInstance()
	a := newActor(1)

	require.True(t, w.BeginUse(inst, a))
	assert.Equal(t, ranged.Charging, inst.State())
	assert.Equal(t, ranged.IndefiniteUseTicks, inst.UseTicks())

	remaining := tickUntil(w, inst, a, inst.UseTicks(), ranged.IndefiniteUseTicks-20)
	assert.Equal(t, ranged.Charged, inst.State())

	assert.True(t, w.OnReleaseOrStop(inst, a, remaining))
	require.Len(t, a.shots, 1)
	shot := a.shots[0]
	assert.True(t, shot.Critical)
	assert.InDelta(t, 3.0, shot.Speed, 1e-9)
	assert.InDelta(t, 6.0, shot.Damage(), 1e-9)
	assert.Equal(t, testArrow, shot.Projectile.Kind)
	assert.Equal(t, []ranged.SoundKind{ranged.SoundShoot}, a.soundKinds(), "bows play no load cues")
	assert.Equal(t, 0, a.ammo[testArrow])
	assert.Equal(t, ranged.Idle, inst.State())
}

func TestBow_PartialDrawScalesSpeed(t *testing.T) {
	w := ranged.MustWeapon("bow", ranged.Bow, testParams(ranged.IndefiniteUseTicks, 20))
	inst := w.NewInstance()
	a := newActor(1)

	require.True(t, w.BeginUse(inst, a))
	remaining := tickUntil(w, inst, a, inst.UseTicks(), ranged.IndefiniteUseTicks-10)
	assert.True(t, w.OnReleaseOrStop(inst, a, remaining))

	require.Len(t, a.shots, 1)
	p := float64(ranged.EasedProgress(10, 20))
	assert.False(t, a.shots[0].Critical)
	assert.InDelta(t, 3*p, a.shots[0].Speed, 1e-9)
}

func TestBow_ShortDrawIsDiscarded(t *testing.T) {
	w := ranged.MustWeapon("bow", ranged.Bow, testParams(ranged.IndefiniteUseTicks, 20))
	inst := w.NewInstance()
	a := newActor(1)

	require.True(t, w.BeginUse(inst, a))
	remaining := tickUntil(w, inst, a, inst.UseTicks(), ranged.IndefiniteUseTicks-1)
	assert.False(t, w.OnReleaseOrStop(inst, a, remaining))
	assert.Empty(t, a.shots)
	assert.Equal(t, 1, a.ammo[testArrow])
	assert.Equal(t, ranged.Idle, inst.State())

	assert.True(t, w.BeginUse(inst, a), "a discarded draw can be restarted")
}

func TestBow_Ammunition(t *testing.T) {
	w := ranged.MustWeapon("bow", ranged.Bow, testParams(ranged.IndefiniteUseTicks, 20))

	t.Run("none", func(t *testing.T) {
		inst := w.NewInstance()
		a := newActor(0)
		assert.False(t, w.BeginUse(inst, a))
		assert.Equal(t, ranged.Idle, inst.State())
		assert.Empty(t, a.sounds)
	})

	t.Run("exempt", func(t *testing.T) {
		inst := w.NewInstance()
		a := newActor(0)
		a.exempt = true
		require.True(t, w.BeginUse(inst, a))
		assert.True(t, w.OnReleaseOrStop(inst, a, ranged.IndefiniteUseTicks-30))
		require.Len(t, a.shots, 1)
		assert.Equal(t, testArrow, a.shots[0].Projectile.Kind, "exempt actors fire the default projectile")
	})
}

func TestWeapon_BeginWhileInUse(t *testing.T) {
	w := ranged.MustWeapon("bow", ranged.Bow, testParams(ranged.IndefiniteUseTicks, 20))
	inst := w.NewInstance()
	a := newActor(3)

	require.True(t, w.BeginUse(inst, a))
	assert.False(t, w.BeginUse(inst, a))
	assert.Equal(t, ranged.Charging, inst.State())
}

func TestWeapon_TickAndReleaseWhenIdle(t *testing.T) {
	w := ranged.MustWeapon("crossbow", ranged.Crossbow, testParams(25, 25))
	inst := w.NewInstance()
	a := newActor(3)

	w.OnUsageTick(inst, a, 10)
	assert.False(t, w.OnReleaseOrStop(inst, a, 0))
	assert.Equal(t, ranged.Idle, inst.State())
	assert.Empty(t, a.sounds)
}

func TestCrossbow_ChargeThenVolley(t *testing.T) {
	w := ranged.MustWeapon("crossbow", ranged.Crossbow, testParams(25, 25),
		ranged.WithCapacity(3), ranged.WithCooldown(10))
	inst := w.NewInstance()
	a := newActor(5)

	require.True(t, w.BeginUse(inst, a))
	assert.Equal(t, 25, inst.UseTicks())

	remaining := tickUntil(w, inst, a, inst.UseTicks(), 0)
	assert.Equal(t, []ranged.SoundKind{
		ranged.SoundLoadStart, ranged.SoundLoadMiddle, ranged.SoundLoadEnd,
	}, a.soundKinds())

	assert.True(t, w.OnReleaseOrStop(inst, a, remaining))
	assert.Equal(t, ranged.Charged, inst.State())
	assert.True(t, inst.Charged)
	assert.Equal(t, 3, inst.Container.Count())
	assert.Equal(t, 2, a.ammo[testArrow])
	assert.Equal(t, ranged.Progress(1), w.ChargeProgress(inst, 0))
	assert.Zero(t, a.cooldown, "loading does not start the cooldown")

	a.sounds = nil
	require.True(t, w.BeginUse(inst, a))
	require.Len(t, a.shots, 3)
	assert.Equal(t, []float64{-10, 0, 10}, yaws(a.shots))
	for _, s := range a.shots {
		assert.InDelta(t, 3.0, s.Speed, 1e-9)
		assert.False(t, s.Critical)
	}
	assert.Equal(t, 10, a.cooldown)
	assert.False(t, inst.Charged)
	assert.True(t, inst.Container.Empty())
	assert.Equal(t, ranged.Idle, inst.State())
}

func TestCrossbow_EarlyReleaseDiscardsCharge(t *testing.T) {
	w := ranged.MustWeapon("crossbow", ranged.Crossbow, testParams(25, 25), ranged.WithCapacity(3))
	inst := w.NewInstance()
	a := newActor(5)

	require.True(t, w.BeginUse(inst, a))
	remaining := tickUntil(w, inst, a, inst.UseTicks(), 10)
	assert.InDelta(t, 0.6, float64(w.ChargeProgress(inst, inst.UseTicks()-remaining)), 1e-9)

	assert.False(t, w.OnReleaseOrStop(inst, a, remaining))
	assert.True(t, inst.Container.Empty())
	assert.False(t, inst.Charged)
	assert.Equal(t, 5, a.ammo[testArrow])
	assert.Equal(t, ranged.Idle, inst.State())
}

func TestCrossbow_LoadsOnlyWhatIsCarried(t *testing.T) {
	w := ranged.MustWeapon("crossbow", ranged.Crossbow, testParams(25, 25), ranged.WithCapacity(3))
	inst := w.NewInstance()
	a := newActor(2)

	require.True(t, w.BeginUse(inst, a))
	assert.True(t, w.OnReleaseOrStop(inst, a, 0))
	assert.Equal(t, 2, inst.Container.Count())

	require.True(t, w.BeginUse(inst, a))
	assert.Equal(t, []float64{-10, 10}, yaws(a.shots))
}

func TestCrossbow_MultiEffectAtHalfSpeed(t *testing.T) {
	w := ranged.MustWeapon("crossbow", ranged.Crossbow, testParams(25, 25))
	inst := w.NewInstance()
	a := &fakeActor{ammo: map[ranged.ProjectileKind]int{testFirework: 1}}

	require.True(t, w.BeginUse(inst, a))
	require.True(t, w.OnReleaseOrStop(inst, a, 0))
	require.True(t, w.BeginUse(inst, a))

	require.Len(t, a.shots, 1)
	assert.Equal(t, testFirework, a.shots[0].Projectile.Kind)
	assert.InDelta(t, 1.5, a.shots[0].Speed, 1e-9)
	assert.Equal(t, []float64{0}, yaws(a.shots))
}

func TestCrossbow_MaxQuickChargeIsInstant(t *testing.T) {
	w := ranged.MustWeapon("crossbow", ranged.Crossbow, testParams(25, 25), ranged.WithCapacity(3))
	inst := w.NewInstance()
	inst.QuickCharge = ranged.MaxQuickCharge
	a := newActor(5)

	require.True(t, w.BeginUse(inst, a))
	assert.Equal(t, ranged.Charged, inst.State())
	assert.Zero(t, inst.UseTicks())
	assert.Equal(t, 3, inst.Container.Count())
}

func TestCrossbow_QuickChargeShortensCharge(t *testing.T) {
	w := ranged.MustWeapon("crossbow", ranged.Crossbow, testParams(25, 25))
	inst := w.NewInstance()
	inst.QuickCharge = 2
	a := newActor(1)

	require.True(t, w.BeginUse(inst, a))
	assert.Equal(t, 25, inst.UseTicks(), "the use window never drops below MaxUseTicks")
	assert.True(t, w.ChargeProgress(inst, 15).Ready())
	assert.False(t, w.ChargeProgress(inst, 14).Ready())

	assert.True(t, w.OnReleaseOrStop(inst, a, inst.UseTicks()-15))
	assert.True(t, inst.Charged)
}

func TestBoltAction_ChargesPerProjectileFiresOne(t *testing.T) {
	w := ranged.MustWeapon("rifle", ranged.BoltAction, testParams(10, 10), ranged.WithCapacity(2))
	inst := w.NewInstance()
	a := newActor(5)

	require.True(t, w.BeginUse(inst, a))
	assert.Equal(t, 20, inst.UseTicks())

	remaining := tickUntil(w, inst, a, inst.UseTicks(), 0)
	require.True(t, w.OnReleaseOrStop(inst, a, remaining))
	assert.Equal(t, 2, inst.Container.Count())

	require.True(t, w.BeginUse(inst, a))
	assert.Len(t, a.shots, 1)
	assert.Equal(t, 1, inst.Container.Count())
	assert.Equal(t, ranged.Charged, inst.State())

	require.True(t, w.BeginUse(inst, a))
	assert.Len(t, a.shots, 2)
	assert.False(t, inst.Charged)
	assert.Equal(t, ranged.Idle, inst.State())
}

func TestRepeating_ReloadCyclesThenCadence(t *testing.T) {
	w := ranged.MustWeapon("repeater", ranged.BoltActionRepeating, testParams(10, 10),
		ranged.WithCapacity(3), ranged.WithInterval(4), ranged.WithCooldown(6))
	inst := w.NewInstance()
	a := newActor(5)

	assert.True(t, w.ChargeProgress(inst, 0).Blocked())

	require.True(t, w.BeginUse(inst, a))
	assert.Equal(t, ranged.IndefiniteUseTicks, inst.UseTicks())

	remaining := tickUntil(w, inst, a, inst.UseTicks(), ranged.IndefiniteUseTicks-20)
	assert.Equal(t, 2, inst.Container.Count())
	assert.Equal(t, ranged.Charging, inst.State())

	remaining = tickUntil(w, inst, a, remaining, ranged.IndefiniteUseTicks-30)
	assert.Equal(t, 3, inst.Container.Count())
	assert.Equal(t, ranged.Charged, inst.State())
	assert.Equal(t, 2, a.ammo[testArrow])

	assert.True(t, w.OnReleaseOrStop(inst, a, remaining))
	assert.True(t, inst.Charged)
	assert.Zero(t, a.cooldown)

	require.True(t, w.BeginUse(inst, a))
	assert.Equal(t, ranged.Firing, inst.State())

	remaining = tickUntil(w, inst, a, inst.UseTicks(), ranged.IndefiniteUseTicks-11)
	assert.Len(t, a.shots, 2)
	remaining = tickUntil(w, inst, a, remaining, ranged.IndefiniteUseTicks-12)
	assert.Len(t, a.shots, 3)
	assert.Equal(t, ranged.PostShot, inst.State())
	assert.True(t, inst.Cadence.Fired)

	assert.True(t, w.OnReleaseOrStop(inst, a, remaining))
	assert.Equal(t, 6, a.cooldown)
	assert.False(t, inst.Charged)
}

func TestRepeating_PartialReleaseKeepsCompletedLoads(t *testing.T) {
	w := ranged.MustWeapon("repeater", ranged.BoltActionRepeating, testParams(10, 10),
		ranged.WithCapacity(3), ranged.WithInterval(4))
	inst := w.NewInstance()
	a := newActor(5)

	require.True(t, w.BeginUse(inst, a))
	remaining := tickUntil(w, inst, a, inst.UseTicks(), ranged.IndefiniteUseTicks-15)
	assert.InDelta(t, 0.5, float64(w.ChargeProgress(inst, inst.UseTicks()-remaining)), 1e-9)

	assert.True(t, w.OnReleaseOrStop(inst, a, remaining))
	assert.Equal(t, 1, inst.Container.Count())
	assert.True(t, inst.Charged)
	assert.Equal(t, 4, a.ammo[testArrow])
}

func TestRepeating_RunsOutOfAmmunition(t *testing.T) {
	w := ranged.MustWeapon("repeater", ranged.BoltActionRepeating, testParams(10, 10),
		ranged.WithCapacity(3), ranged.WithInterval(4))
	inst := w.NewInstance()
	a := newActor(1)

	require.True(t, w.BeginUse(inst, a))
	tickUntil(w, inst, a, inst.UseTicks(), ranged.IndefiniteUseTicks-20)
	assert.Equal(t, 1, inst.Container.Count())
	assert.Equal(t, ranged.Charged, inst.State())
}

func TestRepeating_FullContainerFires(t *testing.T) {
	w := ranged.MustWeapon("repeater", ranged.BoltActionRepeating, testParams(10, 10),
		ranged.WithCapacity(2), ranged.WithInterval(4))
	inst := w.NewInstance()
	inst.Restore(ranged.Snapshot{Projectiles: arrows(2)})
	a := newActor(5)

	require.True(t, w.BeginUse(inst, a), "a full container has nothing to reload")
	assert.Equal(t, ranged.Firing, inst.State())
	assert.Equal(t, 5, a.ammo[testArrow])
}

func TestFullAutomatic_FiresOnCadence(t *testing.T) {
	w := ranged.MustWeapon("smg", ranged.FullAutomatic, testParams(25, 0),
		ranged.WithCapacity(5), ranged.WithInterval(5))
	inst := w.NewInstance()
	inst.Restore(ranged.Snapshot{Projectiles: arrows(5)})
	a := newActor(0)

	require.True(t, w.BeginUse(inst, a))
	assert.Equal(t, ranged.Firing, inst.State())
	assert.Equal(t, 25, inst.UseTicks())

	remaining := tickUntil(w, inst, a, inst.UseTicks(), 16)
	assert.Len(t, a.shots, 1)

	remaining = tickUntil(w, inst, a, remaining, 0)
	assert.Len(t, a.shots, 5)
	assert.True(t, inst.Container.Empty())
	assert.Equal(t, ranged.PostShot, inst.State())

	assert.True(t, w.OnReleaseOrStop(inst, a, remaining))
	assert.Equal(t, ranged.Idle, inst.State())
}

func TestFullAutomatic_ReleaseStopsBurst(t *testing.T) {
	w := ranged.MustWeapon("smg", ranged.FullAutomatic, testParams(25, 0),
		ranged.WithCapacity(5), ranged.WithInterval(5))
	inst := w.NewInstance()
	inst.Restore(ranged.Snapshot{Projectiles: arrows(5)})
	a := newActor(0)

	require.True(t, w.BeginUse(inst, a))
	remaining := tickUntil(w, inst, a, inst.UseTicks(), 14)
	assert.True(t, w.OnReleaseOrStop(inst, a, remaining))
	assert.Len(t, a.shots, 2)
	assert.Equal(t, 3, inst.Container.Count())
	assert.False(t, inst.Cadence.Fired, "the cycle is only fired once the container is empty")
}

func TestFullAutomatic_BulkReload(t *testing.T) {
	w := ranged.MustWeapon("smg", ranged.FullAutomatic, testParams(25, 0),
		ranged.WithCapacity(5), ranged.WithInterval(5))
	inst := w.NewInstance()
	a := newActor(3)

	require.True(t, w.BeginUse(inst, a))
	assert.Equal(t, ranged.Charging, inst.State())
	assert.Equal(t, 25, inst.UseTicks())

	assert.False(t, w.OnReleaseOrStop(inst, a, 5), "an unfinished reload loads nothing")
	assert.True(t, inst.Container.Empty())

	require.True(t, w.BeginUse(inst, a))
	assert.True(t, w.OnReleaseOrStop(inst, a, 0))
	assert.Equal(t, 3, inst.Container.Count())
	assert.Equal(t, 0, a.ammo[testArrow])
}

func TestSemiAutomatic_OneShotPerTrigger(t *testing.T) {
	w := ranged.MustWeapon("pistol", ranged.SemiAutomatic, testParams(20, 0),
		ranged.WithCapacity(2), ranged.WithCooldown(4))
	inst := w.NewInstance()
	inst.Restore(ranged.Snapshot{Projectiles: arrows(2)})
	a := newActor(0)

	require.True(t, w.BeginUse(inst, a))
	assert.Len(t, a.shots, 1)
	assert.Equal(t, 1, inst.Container.Count())
	assert.Equal(t, ranged.Idle, inst.State())
	assert.Equal(t, 4, a.cooldown)

	require.True(t, w.BeginUse(inst, a))
	assert.Len(t, a.shots, 2)
	assert.True(t, inst.Container.Empty())
}

func TestSemiAutomatic_EmptyWithoutAmmunition(t *testing.T) {
	w := ranged.MustWeapon("pistol", ranged.SemiAutomatic, testParams(20, 0), ranged.WithCapacity(2))
	inst := w.NewInstance()
	a := newActor(0)

	assert.False(t, w.BeginUse(inst, a))
	assert.Equal(t, ranged.Idle, inst.State())
	assert.Empty(t, a.sounds)
	assert.Empty(t, a.shots)
}

func TestInstance_RestoreTruncatesToCapacity(t *testing.T) {
	w := ranged.MustWeapon("crossbow", ranged.Crossbow, testParams(25, 25), ranged.WithCapacity(2))
	inst := w.NewInstance()

	inst.Restore(ranged.Snapshot{Projectiles: arrows(5), Charged: true})
	assert.Equal(t, 2, inst.Container.Count())
	assert.True(t, inst.Charged)

	inst.Restore(ranged.Snapshot{Charged: true})
	assert.False(t, inst.Charged, "an empty container is never charged")

	snap := inst.Snapshot()
	assert.Empty(t, snap.Projectiles)
	assert.False(t, snap.Charged)
}

// weaponGen draws a valid weapon of any variant.
func weaponGen(t *rapid.T) *ranged.Weapon {
	v := ranged.Variant(rapid.IntRange(int(ranged.Bow), int(ranged.FullAutomatic)).Draw(t, "variant"))
	use := rapid.IntRange(1, 30).Draw(t, "use")
	charge := rapid.IntRange(0, use).Draw(t, "charge")

	opts := []ranged.WeaponOption{ranged.WithInterval(rapid.IntRange(1, 6).Draw(t, "interval"))}
	if v != ranged.Bow {
		opts = append(opts, ranged.WithCapacity(rapid.IntRange(1, 5).Draw(t, "capacity")))
	}
	return ranged.MustWeapon("w", v, testParams(use, charge), opts...)
}

func TestProperty_MachineInvariants(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		w := weaponGen(t)
		inst := w.NewInstance()
		inst.QuickCharge = rapid.IntRange(0, ranged.MaxQuickCharge).Draw(t, "quick_charge")
		start := rapid.IntRange(0, 12).Draw(t, "ammo")
		a := newActor(start)

		remaining := 0
		steps := rapid.IntRange(1, 30).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			switch rapid.IntRange(0, 2).Draw(t, "op") {
			case 0:
				if w.BeginUse(inst, a) {
					remaining = inst.UseTicks()
				}
			case 1:
				n := rapid.IntRange(1, 40).Draw(t, "ticks")
				for j := 0; j < n && inst.InUse(); j++ {
					if remaining == 0 {
						w.OnReleaseOrStop(inst, a, 0)
						break
					}
					remaining--
					w.OnUsageTick(inst, a, remaining)
				}
			case 2:
				w.OnReleaseOrStop(inst, a, remaining)
				if inst.InUse() {
					t.Fatalf("instance still in use after release")
				}
			}

			c := inst.Container
			if c.Count() < 0 || c.Count() > c.Capacity() {
				t.Fatalf("count %d out of [0, %d]", c.Count(), c.Capacity())
			}
			if inst.Charged && c.Empty() && !inst.InUse() {
				t.Fatalf("idle instance charged with an empty container")
			}
			if got := a.ammo[testArrow] + c.Count() + len(a.shots); got != start {
				t.Fatalf("ammunition not conserved: %d carried + %d loaded + %d shot != %d",
					a.ammo[testArrow], c.Count(), len(a.shots), start)
			}
			if inst.InUse() {
				p := w.ChargeProgress(inst, inst.UseTicks()-remaining)
				blocked := w.Variant() == ranged.BoltActionRepeating && p.Blocked()
				if !blocked && (p < 0 || p > 1) {
					t.Fatalf("progress %v out of range", p)
				}
			}
		}
	})
}
