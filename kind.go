package ranged

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// ProjectileKind is a unique identifier for a kind of projectile a weapon can launch,
// such as an arrow or a firework rocket.
// Valid kinds range from 0 to 254.
type ProjectileKind uint8

// MaxKinds is the maximum number of projectile kinds supported.
const MaxKinds = 255

// KindInfo describes a registered projectile kind.
type KindInfo struct {
	// Name is the unique registry name of the kind, e.g. "arrow".
	Name string
	// Item is the host item identifier that counts as ammunition of this kind,
	// e.g. "minecraft:arrow". Empty if the kind has no item form.
	Item string
	// MultiEffect marks kinds that carry several effects at once (firework rockets).
	// Crossbow-family weapons launch them at half speed.
	MultiEffect bool
}

// KindOption configures a projectile kind at registration.
type KindOption func(*KindInfo)

// WithItem sets the host item identifier counted as ammunition of the kind.
func WithItem(id string) KindOption {
	return func(k *KindInfo) {
		k.Item = id
	}
}

// MultiEffect marks the kind as a multi-effect projectile.
func MultiEffect() KindOption {
	return func(k *KindInfo) {
		k.MultiEffect = true
	}
}

// kindRegistry manages projectile kind registration with lock-free reads.
// Kinds are assigned sequentially and looked up by name or by item identifier.
type kindRegistry struct {
	byName sync.Map // map[string]ProjectileKind
	byItem sync.Map // map[string]ProjectileKind

	// infos is written once per kind during registration and read-only afterward
	infos [MaxKinds]KindInfo

	nextID atomic.Uint32

	// infoMu protects writes to infos
	infoMu sync.RWMutex
}

// kinds is the singleton projectile kind registry.
var kinds = &kindRegistry{}

// RegisterKind registers a projectile kind and returns its identifier.
// Registering an already known name returns the existing kind and ignores opts.
// Registration is usually done once at init time, next to the weapon archetypes.
//
// Panics if more than MaxKinds kinds are registered.
func RegisterKind(name string, opts ...KindOption) ProjectileKind {
	if k, ok := kinds.byName.Load(name); ok {
		return k.(ProjectileKind)
	}

	id := kinds.nextID.Add(1) - 1
	if id >= MaxKinds {
		panic(fmt.Sprintf("ranged: projectile kind limit exceeded (max %d kinds)", MaxKinds))
	}
	k := ProjectileKind(id)

	actual, loaded := kinds.byName.LoadOrStore(name, k)
	if loaded {
		// Lost the race; the allocated id is wasted.
		return actual.(ProjectileKind)
	}

	info := KindInfo{Name: name}
	for _, opt := range opts {
		opt(&info)
	}

	kinds.infoMu.Lock()
	kinds.infos[k] = info
	kinds.infoMu.Unlock()

	if info.Item != "" {
		kinds.byItem.LoadOrStore(info.Item, k)
	}
	return k
}

// KindByName returns the kind registered under name.
func KindByName(name string) (ProjectileKind, bool) {
	if k, ok := kinds.byName.Load(name); ok {
		return k.(ProjectileKind), true
	}
	return 0, false
}

// KindByItem returns the kind whose ammunition item has the given identifier.
func KindByItem(id string) (ProjectileKind, bool) {
	if k, ok := kinds.byItem.Load(id); ok {
		return k.(ProjectileKind), true
	}
	return 0, false
}

// Info returns the registration info of the kind.
func (k ProjectileKind) Info() KindInfo {
	kinds.infoMu.RLock()
	defer kinds.infoMu.RUnlock()
	return kinds.infos[k]
}

// Name returns the registry name of the kind.
func (k ProjectileKind) Name() string {
	return k.Info().Name
}

// MultiEffect reports whether the kind is a multi-effect projectile.
func (k ProjectileKind) MultiEffect() bool {
	return k.Info().MultiEffect
}

// String returns the name of the kind.
func (k ProjectileKind) String() string {
	if name := k.Name(); name != "" {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// RegisteredKindCount returns the number of registered projectile kinds.
func RegisteredKindCount() int {
	return int(kinds.nextID.Load())
}

// Projectile is a reference to one loaded projectile.
type Projectile struct {
	// Kind is the projectile kind.
	Kind ProjectileKind
	// Tag is optional host payload carried with the projectile, such as a potion
	// tip. It is opaque to the charge/fire model.
	Tag string
}
