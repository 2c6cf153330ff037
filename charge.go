package ranged

// MaxQuickCharge is the quick-charge level at which charging becomes instant.
const MaxQuickCharge = 5

// Progress is a normalised charge progress in [0, 1], or ProgressBlocked.
type Progress float64

// ProgressBlocked is reported by variants whose charge depends on container
// fullness when no valid charge cycle can run.
const ProgressBlocked Progress = -1

// Ready reports whether the charge is complete.
func (p Progress) Ready() bool {
	return p >= 1
}

// Blocked reports whether p is ProgressBlocked.
func (p Progress) Blocked() bool {
	return p < 0
}

// EffectiveTicks returns the number of ticks a charge of nominal length ticks takes
// at the given quick-charge level. Each level removes a fifth of the nominal time:
//
//	ticks - ticks*quickCharge/5
//
// Levels at or above MaxQuickCharge yield 0; negative levels are treated as 0.
func EffectiveTicks(ticks, quickCharge int) int {
	if quickCharge <= 0 {
		return ticks
	}
	if quickCharge >= MaxQuickCharge {
		return 0
	}
	return ticks - ticks*quickCharge/MaxQuickCharge
}

// LinearProgress returns elapsed/ticks clamped to [0, 1].
// A zero-length charge is complete immediately.
func LinearProgress(elapsed, ticks int) Progress {
	if ticks <= 0 {
		return 1
	}
	if elapsed <= 0 {
		return 0
	}
	if elapsed >= ticks {
		return 1
	}
	return Progress(float64(elapsed) / float64(ticks))
}

// EasedProgress returns the bow draw curve p*(p+2)/3 of the linear progress,
// capped at 1.
func EasedProgress(elapsed, ticks int) Progress {
	p := LinearProgress(elapsed, ticks)
	eased := p * (p + 2) / 3
	if eased > 1 {
		return 1
	}
	return eased
}
