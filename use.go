package ranged

// Use is a use of a weapon instance in progress. It counts the remaining use ticks
// down from Instance.UseTicks and decides how the use ends, so that a host only
// has to call Tick once per tick and Stop when the actor lets go.
//
// Usage:
//
//	u, ok := ranged.StartUse(w, inst, actor)
//	if !ok || u.Done() {
//	    return
//	}
//	// every tick:
//	if u.Tick(actor) {
//	    u.Stop(actor, ranged.StopExpired)
//	}
type Use struct {
	weapon    *Weapon
	inst      *Instance
	remaining int
	charged   bool
}

// StartUse begins a use of w on inst by a. It returns false if the weapon rejected
// the use. A use that completed on the trigger, such as a semi-automatic shot, is
// returned Done.
func StartUse(w *Weapon, inst *Instance, a Actor) (*Use, bool) {
	u := &Use{weapon: w, inst: inst, charged: inst.State() == Charged}
	if !w.BeginUse(inst, a) {
		return nil, false
	}
	u.remaining = inst.UseTicks()
	return u, true
}

// Weapon returns the weapon in use.
func (u *Use) Weapon() *Weapon {
	return u.weapon
}

// Instance returns the instance in use.
func (u *Use) Instance() *Instance {
	return u.inst
}

// Remaining returns the number of use ticks left.
func (u *Use) Remaining() int {
	return u.remaining
}

// Done reports whether the weapon has left the use.
func (u *Use) Done() bool {
	return !u.inst.InUse()
}

// Tick advances the use by one tick. It returns true once the use window has run
// out or the weapon has nothing left to do, after which the host stops the use
// with StopExpired.
func (u *Use) Tick(a Actor) bool {
	if u.Done() {
		return true
	}
	u.remaining = max(u.remaining-1, 0)
	u.weapon.OnUsageTick(u.inst, a, u.remaining)
	return u.remaining == 0 || u.inst.State() == PostShot
}

// Stop ends the use. A released or expired use is released: the weapon fires,
// completes its load or discards an insufficient charge. Any other reason cancels
// the use without firing or loading. It returns whether the release had an effect;
// a cancelled use always returns false.
func (u *Use) Stop(a Actor, reason StopReason) bool {
	switch reason {
	case StopReleased, StopExpired:
		return u.weapon.OnReleaseOrStop(u.inst, a, u.remaining)
	default:
		u.weapon.Cancel(u.inst, a)
		return false
	}
}

// ChargedEdge reports whether the instance became charged since the use started or
// since the previous call.
func (u *Use) ChargedEdge() bool {
	now := u.inst.State() == Charged
	edge := now && !u.charged
	u.charged = now
	return edge
}
