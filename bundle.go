package ranged

import (
	"github.com/df-mc/dragonfly/server/cmd"
)

// Bundle groups related weapon archetypes, listeners and commands together.
// Bundles are registered with the builder and keep separate gameplay features
// apart.
type Bundle struct {
	name string

	weapons   []*Weapon
	listeners []any
	commands  []cmd.Command

	postInitHooks []func(*Manager)
}

// NewBundle creates a new bundle with the given name.
func NewBundle(name string) *Bundle {
	return &Bundle{name: name}
}

// Name returns the bundle name.
func (b *Bundle) Name() string {
	return b.name
}

// Weapon registers a weapon archetype. Weapon names must be unique across all
// bundles of a manager.
func (b *Bundle) Weapon(w *Weapon) *Bundle {
	b.weapons = append(b.weapons, w)
	return b
}

// Listener registers a listener for this bundle.
// Listeners are structs with methods taking a single event, like
// HandleShot(*EventShot).
func (b *Bundle) Listener(l any) *Bundle {
	b.listeners = append(b.listeners, l)
	return b
}

// Command registers a Dragonfly command for this bundle.
// Commands are registered with Dragonfly's command system when the bundle is
// built.
func (b *Bundle) Command(command cmd.Command) *Bundle {
	b.commands = append(b.commands, command)
	return b
}

// PostInit registers a hook run once the manager is started.
func (b *Bundle) PostInit(hook func(*Manager)) *Bundle {
	b.postInitHooks = append(b.postInitHooks, hook)
	return b
}

// Build returns a callback function that returns this bundle.
// This allows for cleaner inline bundle initialization:
//
//	bund := ranged.NewBundle("weapons").
//	    Weapon(longbow).
//	    Listener(&ArrowSpawner{}).
//	    Build()
//
//	mngr := ranged.NewBuilder().
//	    Bundle(bund).
//	    Init()
func (b *Bundle) Build() func(*Manager) *Bundle {
	return func(*Manager) *Bundle {
		return b
	}
}

// build registers the bundle's contents with m.
func (b *Bundle) build(m *Manager) error {
	for _, w := range b.weapons {
		if err := m.registerWeapon(w); err != nil {
			return err
		}
	}
	for _, l := range b.listeners {
		if err := m.registerListener(l); err != nil {
			return err
		}
	}
	for _, c := range b.commands {
		cmd.Register(c)
	}
	return nil
}
