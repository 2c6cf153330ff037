package ranged

// beginRepeating starts a use of a BoltActionRepeating weapon. A charged weapon
// starts firing on the cadence; otherwise reload cycles begin, each loading one
// projectile, until the container is full or the actor runs out of ammunition.
func (w *Weapon) beginRepeating(st *Instance, a Actor) bool {
	if st.Container.Empty() {
		st.Charged = false
	} else if st.Container.Full() || st.Container.LoadableAmount(a) <= 0 {
		// Nothing more to load: whatever is stored is ready to fire.
		st.Charged = true
	}
	if st.Charged {
		w.start(st, Firing, IndefiniteUseTicks)
		return true
	}
	if st.Container.LoadableAmount(a) <= 0 {
		return false
	}
	w.start(st, Charging, IndefiniteUseTicks)
	return true
}

func (w *Weapon) tickRepeating(st *Instance, a Actor, elapsed int) {
	switch st.state {
	case Charging:
		p := LinearProgress(elapsed-st.cycleStart, w.chargeTicks(st))
		w.playCues(st, a, p)
		if !p.Ready() {
			return
		}
		loaded := 0
		if st.Container.LoadableAmount(a) > 0 {
			loaded = w.load(st, a, 1)
		}
		switch {
		case st.Container.Full(), loaded == 0 && !st.Container.Empty():
			st.Charged = true
			st.Cadence.ResetCycle()
			st.state = Charged
		case loaded == 0:
			st.state = PostShot
		default:
			st.cycleStart = elapsed
			st.cues = [cueCount]bool{}
		}
	case Firing:
		w.tickCadence(st, a, elapsed)
	}
}

// releaseRepeating keeps the projectiles loaded by completed cycles and discards
// a partial cycle. A weapon holding projectiles after a reload counts as charged.
func (w *Weapon) releaseRepeating(st *Instance, a Actor) bool {
	if st.state == Charging || (st.state == Charged && st.shots == 0) {
		if !st.Container.Empty() && st.loaded > 0 {
			st.Charged = true
		}
		return st.loaded > 0
	}
	return st.shots > 0
}

func (w *Weapon) repeatingProgress(st *Instance, elapsed int) Progress {
	switch {
	case st.Charged && !st.Container.Empty():
		return 1
	case st.state == Charging:
		return LinearProgress(elapsed-st.cycleStart, w.chargeTicks(st))
	default:
		return ProgressBlocked
	}
}
