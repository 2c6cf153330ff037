package ranged

func (w *Weapon) beginBow(st *Instance, a Actor) bool {
	if st.Container.Empty() && st.Container.LoadableAmount(a) <= 0 {
		return false
	}
	w.start(st, Charging, w.params.MaxUseTicks)
	return true
}

func (w *Weapon) tickBow(st *Instance, elapsed int) {
	if st.state != Charging {
		return
	}
	if EasedProgress(elapsed, w.chargeTicks(st)).Ready() {
		st.state = Charged
	}
}

// releaseBow fires one projectile at a speed scaled by the draw progress, loading
// it from the actor if none is stored. A draw below BowMinimumProgress is discarded.
func (w *Weapon) releaseBow(st *Instance, a Actor, elapsed int) bool {
	p := EasedProgress(elapsed, w.chargeTicks(st))
	if p < BowMinimumProgress {
		return false
	}
	if st.Container.Empty() {
		w.load(st, a, 1)
	}
	proj, ok := st.Container.Pop()
	if !ok {
		return false
	}
	w.shoot(st, a, proj, float64(p)*w.loadedSpeed(proj), p.Ready(), 0)
	w.afterShot(st)
	return true
}
