package ranged_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oriumgames/ranged"
)

// runUse ticks u until it asks to be stopped or limit ticks have passed and returns
// the number of ticks run.
func runUse(u *ranged.Use, a *fakeActor, limit int) int {
	for n := 1; n <= limit; n++ {
		if u.Tick(a) {
			return n
		}
	}
	return limit
}

func TestUse_RejectedWithoutAmmunition(t *testing.T) {
	w := ranged.MustWeapon("bow", ranged.Bow, testParams(ranged.IndefiniteUseTicks, 20))

	u, ok := ranged.StartUse(w, w.NewInstance(), newActor(0))
	assert.False(t, ok)
	assert.Nil(t, u)
}

func TestUse_SemiAutomaticDoneOnTrigger(t *testing.T) {
	w := ranged.MustWeapon("pistol", ranged.SemiAutomatic, testParams(20, 0), ranged.WithCapacity(2))
	inst := w.NewInstance()
	inst.Restore(ranged.Snapshot{Projectiles: arrows(2)})
	a := newActor(0)

	u, ok := ranged.StartUse(w, inst, a)
	require.True(t, ok)
	assert.True(t, u.Done())
	assert.Len(t, a.shots, 1)
	assert.True(t, u.Tick(a), "a finished use asks to be stopped")
}

func TestUse_FullAutomaticRunsOutWindow(t *testing.T) {
	w := ranged.MustWeapon("smg", ranged.FullAutomatic, testParams(25, 0),
		ranged.WithCapacity(5), ranged.WithInterval(5), ranged.WithCooldown(7))
	inst := w.NewInstance()
	inst.Restore(ranged.Snapshot{Projectiles: arrows(5)})
	a := newActor(0)

	u, ok := ranged.StartUse(w, inst, a)
	require.True(t, ok)
	require.False(t, u.Done())
	assert.Equal(t, 25, u.Remaining())

	assert.Equal(t, 25, runUse(u, a, 100))
	assert.Zero(t, u.Remaining())
	assert.Len(t, a.shots, 5)

	assert.True(t, u.Stop(a, ranged.StopExpired))
	assert.True(t, u.Done())
	assert.Equal(t, 7, a.cooldown)
	assert.Equal(t, ranged.Idle, inst.State())
}

func TestUse_CrossbowLoadsOnExpiry(t *testing.T) {
	w := ranged.MustWeapon("crossbow", ranged.Crossbow, testParams(25, 25), ranged.WithCapacity(1))
	inst := w.NewInstance()
	a := newActor(3)

	u, ok := ranged.StartUse(w, inst, a)
	require.True(t, ok)
	assert.Equal(t, 25, runUse(u, a, 100))
	assert.False(t, u.ChargedEdge(), "charging is not charged")

	assert.True(t, u.Stop(a, ranged.StopExpired))
	assert.Equal(t, ranged.Charged, inst.State())
	assert.Equal(t, 2, a.ammo[testArrow])
	assert.True(t, u.ChargedEdge())
	assert.False(t, u.ChargedEdge(), "the edge is reported once")
}

func TestUse_RepeatingChargedEdgeOnFullContainer(t *testing.T) {
	w := ranged.MustWeapon("repeater", ranged.BoltActionRepeating, testParams(10, 10),
		ranged.WithCapacity(2), ranged.WithInterval(4))
	inst := w.NewInstance()
	a := newActor(5)

	u, ok := ranged.StartUse(w, inst, a)
	require.True(t, ok)

	var edges []int
	for n := 1; n <= 30; n++ {
		assert.False(t, u.Tick(a))
		if u.ChargedEdge() {
			edges = append(edges, n)
		}
	}
	assert.Equal(t, []int{20}, edges)
	assert.Equal(t, 2, inst.Container.Count())
}

func TestUse_CancelledDrawFiresNothing(t *testing.T) {
	w := ranged.MustWeapon("bow", ranged.Bow, testParams(ranged.IndefiniteUseTicks, 20))
	inst := w.NewInstance()
	a := newActor(1)

	u, ok := ranged.StartUse(w, inst, a)
	require.True(t, ok)
	runUse(u, a, 20)
	require.Equal(t, ranged.Charged, inst.State())

	assert.False(t, u.Stop(a, ranged.StopSlotChange))
	assert.Empty(t, a.shots)
	assert.Equal(t, 1, a.ammo[testArrow])
	assert.Equal(t, ranged.Idle, inst.State())
	assert.True(t, u.Done())
}

func TestUse_CancelledChargeLoadsNothing(t *testing.T) {
	w := ranged.MustWeapon("crossbow", ranged.Crossbow, testParams(25, 25), ranged.WithCapacity(3))
	inst := w.NewInstance()
	a := newActor(5)

	u, ok := ranged.StartUse(w, inst, a)
	require.True(t, ok)
	runUse(u, a, 100)

	assert.False(t, u.Stop(a, ranged.StopDeath))
	assert.True(t, inst.Container.Empty())
	assert.False(t, inst.Charged)
	assert.Equal(t, 5, a.ammo[testArrow])
	assert.False(t, u.ChargedEdge())
}

func TestUse_CancelledBurstKeepsCooldown(t *testing.T) {
	w := ranged.MustWeapon("smg", ranged.FullAutomatic, testParams(25, 0),
		ranged.WithCapacity(5), ranged.WithInterval(5), ranged.WithCooldown(7))
	inst := w.NewInstance()
	inst.Restore(ranged.Snapshot{Projectiles: arrows(5)})
	a := newActor(0)

	u, ok := ranged.StartUse(w, inst, a)
	require.True(t, ok)
	runUse(u, a, 12)
	require.Len(t, a.shots, 2)

	assert.False(t, u.Stop(a, ranged.StopQuit))
	assert.Len(t, a.shots, 2)
	assert.Equal(t, 3, inst.Container.Count())
	assert.Equal(t, 7, a.cooldown)
	assert.Equal(t, ranged.Idle, inst.State())
}

func TestUse_CancelledReloadKeepsCompletedCycles(t *testing.T) {
	w := ranged.MustWeapon("repeater", ranged.BoltActionRepeating, testParams(10, 10),
		ranged.WithCapacity(3), ranged.WithInterval(4))
	inst := w.NewInstance()
	a := newActor(5)

	u, ok := ranged.StartUse(w, inst, a)
	require.True(t, ok)
	runUse(u, a, 15)

	assert.False(t, u.Stop(a, ranged.StopSlotChange))
	assert.Equal(t, 1, inst.Container.Count())
	assert.True(t, inst.Charged)
	assert.Equal(t, ranged.Charged, inst.State())
	assert.Equal(t, 4, a.ammo[testArrow])
}

func TestUse_RepeatingFiresStoredWithoutAmmunition(t *testing.T) {
	w := ranged.MustWeapon("repeater", ranged.BoltActionRepeating, testParams(10, 10),
		ranged.WithCapacity(3), ranged.WithInterval(4), ranged.WithCooldown(6))
	inst := w.NewInstance()
	inst.Restore(ranged.Snapshot{Projectiles: arrows(1)})
	a := newActor(0)

	u, ok := ranged.StartUse(w, inst, a)
	require.True(t, ok, "stored projectiles can be fired with no ammunition left")
	assert.Equal(t, ranged.Firing, inst.State())

	runUse(u, a, 100)
	require.Len(t, a.shots, 1)
	assert.True(t, u.Stop(a, ranged.StopReleased))
	assert.True(t, inst.Container.Empty())
	assert.Equal(t, 6, a.cooldown)
}
