package ranged

// beginAutomatic starts a use of a SemiAutomatic or FullAutomatic weapon. A loaded
// semi-automatic fires one shot per trigger and a loaded full-automatic fires on
// the cadence for the whole use window. An empty weapon starts a bulk reload.
func (w *Weapon) beginAutomatic(st *Instance, a Actor) bool {
	if !st.Container.Empty() {
		if w.variant == SemiAutomatic {
			w.start(st, Firing, 0)
			w.shootOne(st, a)
			w.afterShot(st)
			return true
		}
		w.start(st, Firing, w.params.MaxUseTicks)
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
	st.useTicks = ticks
	return true
}

func (w *Weapon) tickAutomatic(st *Instance, a Actor, elapsed int) {
	switch st.state {
	case Charging:
		w.playCues(st, a, LinearProgress(elapsed, w.chargeTicks(st)))
	case Firing:
		w.tickCadence(st, a, elapsed)
	}
}

// releaseAutomatic completes a reload that reached full progress and discards it
// otherwise. Releasing while firing stops the burst.
func (w *Weapon) releaseAutomatic(st *Instance, a Actor, elapsed int) bool {
	if st.state == Charging {
		return w.releaseLoaded(st, a, elapsed)
	}
	return st.shots > 0
}
