package ranged

// beginLoaded starts a use of a Crossbow or BoltAction. A charged weapon fires on
// the trigger; otherwise a charge loading up to the loadable amount begins.
func (w *Weapon) beginLoaded(st *Instance, a Actor) bool {
	if st.Charged && !st.Container.Empty() {
		w.start(st, Firing, 0)
		if w.variant == Crossbow {
			w.volley(st, a)
		} else {
			w.shootOne(st, a)
		}
		w.afterShot(st)
		return true
	}
	loadable := min(st.Container.LoadableAmount(a), st.Container.Free())
	if loadable <= 0 {
		return false
	}
	st.Charged = false
	w.start(st, Charging, 0)
	st.pending = loadable
	ticks := w.chargeTicks(st)
	if ticks == 0 {
		w.completeCharge(st, a)
		return true
	}
	if w.variant == Crossbow {
		st.useTicks = max(w.params.MaxUseTicks, ticks)
	} else {
		st.useTicks = ticks
	}
	return true
}

func (w *Weapon) tickLoaded(st *Instance, a Actor, elapsed int) {
	if st.state != Charging {
		return
	}
	w.playCues(st, a, LinearProgress(elapsed, w.chargeTicks(st)))
}

// releaseLoaded completes the charge if it reached full progress and discards it
// otherwise. It reports whether the weapon is charged afterwards.
func (w *Weapon) releaseLoaded(st *Instance, a Actor, elapsed int) bool {
	if st.state != Charging {
		return st.shots > 0
	}
	if !LinearProgress(elapsed, w.chargeTicks(st)).Ready() {
		return false
	}
	w.completeCharge(st, a)
	return st.Charged
}

// completeCharge loads the pending projectiles and marks the weapon charged.
func (w *Weapon) completeCharge(st *Instance, a Actor) {
	n := min(st.pending, st.Container.LoadableAmount(a))
	w.load(st, a, n)
	st.pending = 0
	if st.Container.Empty() {
		st.state = Idle
		return
	}
	st.Charged = true
	st.Cadence.ResetCycle()
	st.state = Charged
}

// volley fires every stored projectile at once, spread evenly across
// [-VolleySpread, VolleySpread] degrees of yaw.
func (w *Weapon) volley(st *Instance, a Actor) {
	n := st.Container.Count()
	for i := 0; i < n; i++ {
		p, ok := st.Container.Pop()
		if !ok {
			return
		}
		w.shoot(st, a, p, w.loadedSpeed(p), false, volleyOffset(i, n))
	}
}

// volleyOffset returns the yaw offset of shot i out of n.
func volleyOffset(i, n int) float64 {
	if n <= 1 {
		return 0
	}
	return -VolleySpread + 2*VolleySpread*float64(i)/float64(n-1)
}
