package ranged

// BeginUse starts a use of the weapon by a.
// It returns false, leaving the instance untouched, when the weapon is already in
// use or has neither loaded projectiles nor loadable ammunition. Variants that fire
// on the trigger itself (a charged crossbow, a semi-automatic) fire before returning.
//
// When BeginUse returns true and Instance.UseTicks is positive, the host keeps the
// weapon in use and calls OnUsageTick every tick with the remaining use ticks, then
// OnReleaseOrStop once the actor releases or the window runs out.
func (w *Weapon) BeginUse(st *Instance, a Actor) bool {
	if st.state != Idle {
		return false
	}
	var ok bool
	switch w.variant {
	case Bow:
		ok = w.beginBow(st, a)
	case Crossbow, BoltAction:
		ok = w.beginLoaded(st, a)
	case BoltActionRepeating:
		ok = w.beginRepeating(st, a)
	case SemiAutomatic, FullAutomatic:
		ok = w.beginAutomatic(st, a)
	}
	if ok && st.useTicks == 0 {
		// Nothing left to tick: the use completed within the trigger.
		w.finish(st, a)
	}
	return ok
}

// OnUsageTick advances a use in progress by one tick.
// remaining is the number of use ticks left, counting down from Instance.UseTicks.
// It is a no-op for an instance that is not in use.
func (w *Weapon) OnUsageTick(st *Instance, a Actor, remaining int) {
	if st.state == Idle {
		return
	}
	elapsed := st.elapsed(remaining)
	switch w.variant {
	case Bow:
		w.tickBow(st, elapsed)
	case Crossbow, BoltAction:
		w.tickLoaded(st, a, elapsed)
	case BoltActionRepeating:
		w.tickRepeating(st, a, elapsed)
	case SemiAutomatic, FullAutomatic:
		w.tickAutomatic(st, a, elapsed)
	}
}

// OnReleaseOrStop ends a use in progress, because the actor released the trigger,
// switched items or the use window ran out. Depending on the variant and the charge
// reached, it fires, completes a load, or discards the charge.
// It returns whether the use had an effect; a discarded charge returns false.
// The instance is always idle afterwards.
func (w *Weapon) OnReleaseOrStop(st *Instance, a Actor, remaining int) bool {
	if st.state == Idle {
		return false
	}
	elapsed := st.elapsed(remaining)
	var consumed bool
	switch w.variant {
	case Bow:
		consumed = w.releaseBow(st, a, elapsed)
	case Crossbow, BoltAction:
		consumed = w.releaseLoaded(st, a, elapsed)
	case BoltActionRepeating:
		consumed = w.releaseRepeating(st, a)
	case SemiAutomatic, FullAutomatic:
		consumed = w.releaseAutomatic(st, a, elapsed)
	}
	w.finish(st, a)
	return consumed
}

// Cancel ends a use in progress without releasing it. A partial draw, charge or
// reload is discarded and nothing is fired or loaded. Shots already fired count for
// the cooldown, and projectiles loaded by completed reload cycles stay loaded.
// The instance is always idle afterwards.
func (w *Weapon) Cancel(st *Instance, a Actor) {
	if st.state == Idle {
		return
	}
	if w.variant == BoltActionRepeating && st.loaded > 0 && !st.Container.Empty() {
		st.Charged = true
	}
	w.finish(st, a)
}

// ChargeProgress returns the charge progress of st after elapsed use ticks.
// The result is in [0, 1], except for BoltActionRepeating which reports
// ProgressBlocked while it is neither charged nor running a reload cycle.
func (w *Weapon) ChargeProgress(st *Instance, elapsed int) Progress {
	switch w.variant {
	case Bow:
		return EasedProgress(elapsed, w.params.EffectiveChargeTicks(st.QuickCharge))
	case BoltActionRepeating:
		return w.repeatingProgress(st, elapsed)
	default:
		if st.Charged && !st.Container.Empty() {
			return 1
		}
		return LinearProgress(elapsed, w.chargeTicks(st))
	}
}

// LoadableAmount returns how many projectiles a could load into st.
func (w *Weapon) LoadableAmount(st *Instance, a Actor) int {
	return st.Container.LoadableAmount(a)
}

// chargeTicks returns the length of a charge or reload of st.
func (w *Weapon) chargeTicks(st *Instance) int {
	switch w.variant {
	case Bow, Crossbow:
		return w.params.EffectiveChargeTicks(st.QuickCharge)
	case BoltAction:
		return w.params.EffectiveUseTicks(st.QuickCharge) * max(st.pending, 1)
	default:
		return w.params.EffectiveUseTicks(st.QuickCharge)
	}
}

// start enters state s for a new use cycle with the given use window.
func (w *Weapon) start(st *Instance, s State, useTicks int) {
	st.reset()
	st.Cadence.ResetCycle()
	st.state = s
	st.useTicks = useTicks
}

// finish ends the use, applying the fire-rate cooldown if anything was fired.
func (w *Weapon) finish(st *Instance, a Actor) {
	if st.shots > 0 && w.cooldown > 0 {
		a.SetCooldown(w.cooldown)
	}
	st.reset()
}

// playCues plays each charge cue once per cycle as progress passes its threshold.
func (w *Weapon) playCues(st *Instance, a Actor, p Progress) {
	if w.variant == Bow {
		return
	}
	for i, threshold := range cueThresholds {
		if st.cues[i] || p < threshold {
			continue
		}
		st.cues[i] = true
		a.PlaySound(Sound{Kind: cueSounds[i], Variant: w.variant, QuickCharge: st.QuickCharge})
	}
}

// load moves up to n projectiles from a into the container and returns how many
// were stored. Exempt actors load the default projectile without consuming anything.
func (w *Weapon) load(st *Instance, a Actor, n int) int {
	n = min(n, st.Container.Free())
	if n <= 0 {
		return 0
	}
	var projectiles []Projectile
	if a.Exempt() {
		projectiles = make([]Projectile, n)
		for i := range projectiles {
			projectiles[i] = Projectile{Kind: w.params.DefaultProjectile}
		}
	} else {
		projectiles = a.TakeAmmunition(w.params.Launchable, n)
	}
	stored := st.Container.insert(projectiles)
	st.loaded += stored
	return stored
}

// shoot launches p.
func (w *Weapon) shoot(st *Instance, a Actor, p Projectile, speed float64, critical bool, yaw float64) {
	a.Launch(Shot{
		Projectile: p,
		Variant:    w.variant,
		Speed:      speed,
		BaseDamage: w.params.AdjustedProjectileDamage(),
		Critical:   critical,
		Divergence: w.params.FiringError,
		YawOffset:  yaw,
	})
	a.PlaySound(Sound{Kind: SoundShoot, Variant: w.variant, QuickCharge: st.QuickCharge})
	st.shots++
}

// shootOne pops one projectile and launches it at the loaded speed.
// Returns false if the container is empty.
func (w *Weapon) shootOne(st *Instance, a Actor) bool {
	p, ok := st.Container.Pop()
	if !ok {
		return false
	}
	w.shoot(st, a, p, w.loadedSpeed(p), false, 0)
	return true
}

// loadedSpeed returns the launch speed of a projectile fired from the container.
func (w *Weapon) loadedSpeed(p Projectile) float64 {
	speed := w.params.MaxProjectileSpeed
	if p.Kind.MultiEffect() {
		speed /= 2
	}
	return speed
}

// afterShot updates the cadence and charge bookkeeping after a shot.
// The instance moves to PostShot once the cadence marks the cycle fired.
func (w *Weapon) afterShot(st *Instance) {
	count := st.Container.Count()
	st.Cadence.MarkFired(count)
	if count == 0 {
		st.Charged = false
	}
	if st.Cadence.Fired {
		st.state = PostShot
	}
}

// tickCadence fires one projectile when elapsed falls on the cadence interval.
func (w *Weapon) tickCadence(st *Instance, a Actor, elapsed int) {
	if st.state != Firing || st.Cadence.Fired {
		return
	}
	if !st.Cadence.FiringTick(elapsed) {
		return
	}
	if !w.shootOne(st, a) {
		st.Charged = false
		st.Cadence.Fired = true
		st.state = PostShot
		return
	}
	w.afterShot(st)
}
