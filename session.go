package ranged

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/df-mc/dragonfly/server/item"
	"github.com/df-mc/dragonfly/server/player"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/google/uuid"
)

// Session represents a player's session in the weapon runtime.
// It wraps the player's EntityHandle (which is persistent across transactions)
// and owns the weapon instances the player has used, along with the use in
// progress, if any.
//
// Sessions are created when players join and closed when they leave.
//
// Concurrency:
// Weapon transitions only run inside the player's world transaction, either from
// the SessionHandler or from the Scheduler, so they never race each other. The
// session lock only guards the bookkeeping read from other goroutines.
type Session struct {
	// handle is the persistent entity handle for the player
	handle *world.EntityHandle

	// uuid is cached for fast lookup
	uuid uuid.UUID

	// name is cached for fast lookup
	name string

	// worldCache is the atomic pointer to the player's world
	worldCache unsafe.Pointer

	// manager is the manager that owns this session
	manager *Manager

	// closed indicates if the session has been closed
	closed atomic.Bool

	// mu protects instances and active
	mu        sync.Mutex
	instances map[uuid.UUID]*Instance
	active    *activeUse

	attachments   map[reflect.Type]any
	attachmentsMu sync.RWMutex
}

// activeUse is a use in progress.
type activeUse struct {
	use   *Use
	id    uuid.UUID
	stack item.Stack
}

// newSession creates a session. It is not registered with the manager.
func newSession(m *Manager, h *world.EntityHandle, id uuid.UUID, name string) *Session {
	return &Session{
		handle:      h,
		uuid:        id,
		name:        name,
		manager:     m,
		instances:   make(map[uuid.UUID]*Instance),
		attachments: make(map[reflect.Type]any),
	}
}

// UUID returns the player's UUID.
func (s *Session) UUID() uuid.UUID {
	return s.uuid
}

// Name returns the player's name.
func (s *Session) Name() string {
	return s.name
}

// Manager returns the manager of this session.
func (s *Session) Manager() *Manager {
	return s.manager
}

// World returns the world the player is currently in.
// Returns the cached world (may be slightly stale).
func (s *Session) World() *world.World {
	return s.cachedWorld()
}

// Closed returns true if the session has been closed.
func (s *Session) Closed() bool {
	return s.closed.Load()
}

// Player retrieves the *player.Player instance associated with this session within the given transaction.
// It returns (nil, false) if the player entity is not present in the transaction (e.g. offline or in another world).
func (s *Session) Player(tx *world.Tx) (*player.Player, bool) {
	e, ok := s.handle.Entity(tx)
	if !ok {
		return nil, false
	}
	p, ok := e.(*player.Player)
	return p, ok
}

// Dispatch dispatches an event to the listeners of the session's manager.
func (s *Session) Dispatch(event any) {
	if s.manager == nil || s.closed.Load() {
		return
	}
	s.manager.Dispatch(event)
}

// Instance returns the state of the weapon instance with the given id, creating it
// for w on first use. A new instance is restored from the manager's store if a
// snapshot exists.
func (s *Session) Instance(w *Weapon, id uuid.UUID) *Instance {
	s.mu.Lock()
	defer s.mu.Unlock()

	if inst, ok := s.instances[id]; ok {
		return inst
	}
	inst := w.NewInstance()
	if snap, ok := s.manager.loadSnapshot(id); ok {
		inst.Restore(snap)
	}
	s.instances[id] = inst
	return inst
}

// Active reports whether a use is in progress.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active != nil
}

// ActiveWeapon returns the weapon and instance of the use in progress.
func (s *Session) ActiveWeapon() (*Weapon, *Instance, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return nil, nil, false
	}
	return s.active.use.Weapon(), s.active.use.Instance(), true
}

// begin starts a use of the weapon held in stack. It returns whether the weapon
// accepted the use.
func (s *Session) begin(p *player.Player, w *Weapon, id uuid.UUID, stack item.Stack) bool {
	if s.Active() {
		return false
	}
	inst := s.Instance(w, id)
	inst.QuickCharge = quickCharge(stack)

	u, ok := StartUse(w, inst, newPlayerActor(s, p, w, stack))
	if !ok {
		return false
	}
	if u.Done() {
		s.chargedChange(p, u)
		s.manager.saveSnapshot(id, inst.Snapshot())
		return true
	}

	s.mu.Lock()
	s.active = &activeUse{use: u, id: id, stack: stack}
	s.mu.Unlock()
	return true
}

// tick advances the use in progress by one tick. It ends the use once the window
// runs out or the weapon has nothing left to do.
func (s *Session) tick(p *player.Player) {
	s.mu.Lock()
	u := s.active
	s.mu.Unlock()
	if u == nil {
		return
	}

	done := u.use.Tick(newPlayerActor(s, p, u.use.Weapon(), u.stack))
	s.chargedChange(p, u.use)
	if done {
		s.stop(p, StopExpired)
	}
}

// stop ends the use in progress. Released and expired uses are released, any
// other reason cancels the use. It returns whether the release had an effect.
func (s *Session) stop(p *player.Player, reason StopReason) bool {
	s.mu.Lock()
	u := s.active
	s.active = nil
	s.mu.Unlock()
	if u == nil {
		return false
	}

	w := u.use.Weapon()
	consumed := u.use.Stop(newPlayerActor(s, p, w, u.stack), reason)
	s.chargedChange(p, u.use)
	s.manager.saveSnapshot(u.id, u.use.Instance().Snapshot())

	s.Dispatch(&EventUseStopped{Session: s, Player: p, Weapon: w, Reason: reason, Consumed: consumed})
	return consumed
}

// chargedChange dispatches EventCharged if the instance of u became charged.
func (s *Session) chargedChange(p *player.Player, u *Use) {
	if !u.ChargedEdge() {
		return
	}
	inst := u.Instance()
	s.Dispatch(&EventCharged{Session: s, Player: p, Weapon: u.Weapon(), Instance: inst, Loaded: inst.Container.Count()})
}

// updateWorldCache updates the cached world pointer atomically.
func (s *Session) updateWorldCache(w *world.World) {
	atomic.StorePointer(&s.worldCache, unsafe.Pointer(w))
}

// cachedWorld returns the cached world pointer.
func (s *Session) cachedWorld() *world.World {
	return (*world.World)(atomic.LoadPointer(&s.worldCache))
}

// String returns a string representation of the session for debugging.
func (s *Session) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("Session{Name: %s, UUID: %s, Instances: %d, Active: %t}", s.name, s.uuid, len(s.instances), s.active != nil)
}

// close closes the session, persisting all weapon instances.
// This is called automatically when the player disconnects.
func (s *Session) close() {
	if s.closed.Swap(true) {
		return // Already closed
	}

	s.abandon()

	s.mu.Lock()
	instances := s.instances
	s.instances = make(map[uuid.UUID]*Instance)
	s.mu.Unlock()

	for id, inst := range instances {
		s.manager.saveSnapshot(id, inst.Snapshot())
	}

	s.detachAll()

	if s.manager != nil {
		s.manager.removeSession(s)
	}
}

// abandon drops the use in progress without releasing it. The durable state is kept.
func (s *Session) abandon() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return
	}
	inst := s.active.use.Instance()
	inst.Restore(inst.Snapshot())
	s.active = nil
}
