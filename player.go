package ranged

import (
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/entity"
	"github.com/df-mc/dragonfly/server/item"
	"github.com/df-mc/dragonfly/server/item/enchantment"
	"github.com/df-mc/dragonfly/server/player"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/df-mc/dragonfly/server/world/sound"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// Item stack value keys binding a stack to a weapon archetype and instance.
const (
	weaponKey   = "ranged:weapon"
	instanceKey = "ranged:instance"
)

// divergenceScale converts firing error into the standard deviation of the launch
// direction jitter.
const divergenceScale = 0.0075

// tickDuration is the length of one host tick.
const tickDuration = time.Second / 20

// NewStack returns a single item of it bound to the weapon w, with a new instance.
func NewStack(it world.Item, w *Weapon) item.Stack {
	return BindStack(item.NewStack(it, 1), w)
}

// BindStack binds s to the weapon w, with a new instance.
func BindStack(s item.Stack, w *Weapon) item.Stack {
	return withInstance(s.WithValue(weaponKey, w.Name()), uuid.New())
}

// InstanceID returns the weapon instance id stored on s.
func InstanceID(s item.Stack) (uuid.UUID, bool) {
	v, ok := s.Value(instanceKey)
	if !ok {
		return uuid.Nil, false
	}
	str, ok := v.(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(str)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// withInstance stores the instance id on s.
func withInstance(s item.Stack, id uuid.UUID) item.Stack {
	return s.WithValue(instanceKey, id.String())
}

// weaponFor returns the weapon archetype s is bound to and its instance id.
// The id is uuid.Nil if the stack has not been assigned an instance yet.
func (m *Manager) weaponFor(s item.Stack) (*Weapon, uuid.UUID, bool) {
	if s.Empty() {
		return nil, uuid.Nil, false
	}
	v, ok := s.Value(weaponKey)
	if !ok {
		return nil, uuid.Nil, false
	}
	name, ok := v.(string)
	if !ok {
		return nil, uuid.Nil, false
	}
	w, ok := m.Weapon(name)
	if !ok {
		return nil, uuid.Nil, false
	}
	id, _ := InstanceID(s)
	return w, id, true
}

// quickCharge returns the quick-charge level of s.
func quickCharge(s item.Stack) int {
	if e, ok := s.Enchantment(enchantment.QuickCharge); ok {
		return e.Level()
	}
	return 0
}

// kindOf returns the projectile kind s is ammunition for.
func kindOf(s item.Stack) (Projectile, bool) {
	if s.Empty() {
		return Projectile{}, false
	}
	name, meta := s.Item().EncodeItem()
	k, ok := KindByItem(name)
	if !ok {
		return Projectile{}, false
	}
	p := Projectile{Kind: k}
	if meta != 0 {
		p.Tag = strconv.Itoa(int(meta))
	}
	return p, true
}

// damageSourceName names src for hurt expressions.
func damageSourceName(src world.DamageSource) string {
	switch src.(type) {
	case entity.ProjectileDamageSource:
		return "projectile"
	case entity.AttackDamageSource:
		return "attack"
	case entity.FallDamageSource:
		return "fall"
	default:
		return "other"
	}
}

// playerActor is the Actor of a player using a weapon.
type playerActor struct {
	s     *Session
	p     *player.Player
	w     *Weapon
	stack item.Stack
}

// newPlayerActor returns the actor of p using the weapon in stack.
func newPlayerActor(s *Session, p *player.Player, w *Weapon, stack item.Stack) *playerActor {
	return &playerActor{s: s, p: p, w: w, stack: stack}
}

// ammoSlots is the part of an inventory ammunition is counted in and taken from.
type ammoSlots interface {
	Size() int
	Item(slot int) (item.Stack, error)
	SetItem(slot int, st item.Stack) error
}

// ammoIn returns the projectile st holds ammunition for and how many of them
// count, at most limit.
func ammoIn(st item.Stack, kinds KindSet, limit int) (Projectile, int) {
	p, ok := kindOf(st)
	if !ok || !kinds.Has(p.Kind) {
		return Projectile{}, 0
	}
	return p, min(st.Count(), limit)
}

// countAmmo counts ammunition of the given kinds in inv.
func countAmmo(inv ammoSlots, kinds KindSet) int {
	n := 0
	for slot := 0; slot < inv.Size(); slot++ {
		st, err := inv.Item(slot)
		if err != nil {
			continue
		}
		_, c := ammoIn(st, kinds, st.Count())
		n += c
	}
	return n
}

// takeAmmo removes ammunition from inv until out holds n projectiles. A slot only
// counts once its reduced stack has been written back.
func takeAmmo(inv ammoSlots, kinds KindSet, n int, out []Projectile) []Projectile {
	for slot := 0; slot < inv.Size() && len(out) < n; slot++ {
		st, err := inv.Item(slot)
		if err != nil || st.Empty() {
			continue
		}
		p, c := ammoIn(st, kinds, n-len(out))
		if c == 0 {
			continue
		}
		if err := inv.SetItem(slot, st.Grow(-c)); err != nil {
			continue
		}
		for range c {
			out = append(out, p)
		}
	}
	return out
}

// Ammunition counts matching ammunition in the offhand and the inventory.
func (a *playerActor) Ammunition(kinds KindSet) int {
	_, off := a.p.HeldItems()
	_, n := ammoIn(off, kinds, off.Count())
	return n + countAmmo(a.p.Inventory(), kinds)
}

// TakeAmmunition removes ammunition, offhand first.
func (a *playerActor) TakeAmmunition(kinds KindSet, n int) []Projectile {
	var out []Projectile
	main, off := a.p.HeldItems()
	if p, c := ammoIn(off, kinds, n); c > 0 {
		a.p.SetHeldItems(main, off.Grow(-c))
		for range c {
			out = append(out, p)
		}
	}
	return takeAmmo(a.p.Inventory(), kinds, n, out)
}

// Exempt reports whether the player has a creative inventory.
func (a *playerActor) Exempt() bool {
	return a.p.GameMode().CreativeInventory()
}

// PlaySound plays the weapon sound at the player's position.
func (a *playerActor) PlaySound(s Sound) {
	var snd world.Sound
	switch s.Kind {
	case SoundLoadStart:
		snd = sound.CrossbowLoad{Stage: sound.CrossbowLoadingStart, QuickCharge: s.QuickCharge > 0}
	case SoundLoadMiddle:
		snd = sound.CrossbowLoad{Stage: sound.CrossbowLoadingMiddle, QuickCharge: s.QuickCharge > 0}
	case SoundLoadEnd:
		snd = sound.CrossbowLoad{Stage: sound.CrossbowLoadingEnd, QuickCharge: s.QuickCharge > 0}
	case SoundShoot:
		if s.Variant == Bow {
			snd = sound.BowShoot{}
		} else {
			snd = sound.CrossbowShoot{}
		}
	default:
		return
	}
	a.p.Tx().PlaySound(a.p.Position(), snd)
}

// Launch computes the launch position and velocity of the shot and dispatches
// EventShot.
func (a *playerActor) Launch(s Shot) {
	rot := a.p.Rotation()
	dir := cube.Rotation{rot.Yaw() + s.YawOffset, rot.Pitch()}.Vec3()
	if s.Divergence > 0 {
		jitter := mgl64.Vec3{rand.NormFloat64(), rand.NormFloat64(), rand.NormFloat64()}
		dir = dir.Add(jitter.Mul(divergenceScale * s.Divergence))
	}

	a.s.Dispatch(&EventShot{
		Session:  a.s,
		Player:   a.p,
		Weapon:   a.w,
		Item:     a.stack,
		Shot:     s,
		Position: a.p.Position().Add(mgl64.Vec3{0, a.p.EyeHeight(), 0}),
		Velocity: dir.Normalize().Mul(s.Speed),
	})
}

// SetCooldown puts the weapon item on cooldown.
func (a *playerActor) SetCooldown(ticks int) {
	a.p.SetCooldown(a.stack.Item(), time.Duration(ticks)*tickDuration)
}
