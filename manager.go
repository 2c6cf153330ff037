package ranged

import (
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"github.com/df-mc/dragonfly/server/player"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/google/uuid"
)

// Store persists the durable state of weapon instances between sessions.
// Instances are keyed by the id stored on their item stack.
type Store interface {
	// Load returns the snapshot stored for id. ok is false if there is none.
	Load(id uuid.UUID) (s Snapshot, ok bool, err error)
	// Save stores the snapshot for id, replacing any previous one.
	Save(id uuid.UUID, s Snapshot) error
	// Delete removes the snapshot for id.
	Delete(id uuid.UUID) error
	// Close releases the store.
	Close() error
}

// Manager is the central coordinator of the weapon runtime.
// It holds weapon archetypes, listeners and sessions, and drives the scheduler.
// Multiple Manager instances can coexist in the same process for running
// multiple isolated servers.
type Manager struct {
	log   *slog.Logger
	store Store

	// bundles holds all registered bundles
	bundles []*Bundle

	// weapons holds weapon archetypes by name
	weapons   map[string]*Weapon
	weaponsMu sync.RWMutex

	// listeners holds all registered listeners
	listeners []*listenerMeta

	// sessions holds all active sessions
	sessions   map[*world.EntityHandle]*Session
	sessionsMu sync.RWMutex

	// sessionsByUUID provides UUID-based session lookup
	sessionsByUUID   map[uuid.UUID]*Session
	sessionsByUUIDMu sync.RWMutex

	// sessionsByWorld groups sessions by world for optimized scheduling
	sessionsByWorld   map[*world.World]map[*Session]struct{}
	sessionsByWorldMu sync.RWMutex

	scheduler *Scheduler
}

// listenerMeta holds a registered listener and the events it handles.
type listenerMeta struct {
	listener reflect.Value
	events   map[reflect.Type]int
}

// newManager creates a new manager.
func newManager(log *slog.Logger, store Store, tickRate time.Duration) *Manager {
	m := &Manager{
		log:             log,
		store:           store,
		weapons:         make(map[string]*Weapon),
		sessions:        make(map[*world.EntityHandle]*Session),
		sessionsByUUID:  make(map[uuid.UUID]*Session),
		sessionsByWorld: make(map[*world.World]map[*Session]struct{}),
	}
	m.scheduler = newScheduler(m, tickRate)
	return m
}

// Logger returns the logger of the manager.
func (m *Manager) Logger() *slog.Logger {
	return m.log
}

// registerWeapon adds a weapon archetype.
func (m *Manager) registerWeapon(w *Weapon) error {
	if w == nil {
		return fmt.Errorf("nil weapon")
	}
	m.weaponsMu.Lock()
	defer m.weaponsMu.Unlock()

	if _, ok := m.weapons[w.Name()]; ok {
		return fmt.Errorf("duplicate weapon %q", w.Name())
	}
	m.weapons[w.Name()] = w
	return nil
}

// Weapon returns the weapon archetype registered under name.
func (m *Manager) Weapon(name string) (*Weapon, bool) {
	m.weaponsMu.RLock()
	defer m.weaponsMu.RUnlock()
	w, ok := m.weapons[name]
	return w, ok
}

// Weapons returns all registered weapon archetypes.
func (m *Manager) Weapons() []*Weapon {
	m.weaponsMu.RLock()
	defer m.weaponsMu.RUnlock()

	weapons := make([]*Weapon, 0, len(m.weapons))
	for _, w := range m.weapons {
		weapons = append(weapons, w)
	}
	return weapons
}

// registerListener scans l for event methods and registers it.
func (m *Manager) registerListener(l any) error {
	if l == nil {
		return fmt.Errorf("nil listener")
	}
	v := reflect.ValueOf(l)
	t := v.Type()

	// Scan for event methods
	events := make(map[reflect.Type]int)
	for i := 0; i < t.NumMethod(); i++ {
		method := t.Method(i)
		// Check for 1 argument (plus receiver)
		if method.Type.NumIn() != 2 {
			continue
		}
		events[method.Type.In(1)] = i
	}
	if len(events) == 0 {
		return fmt.Errorf("listener %s has no event methods", t)
	}

	m.listeners = append(m.listeners, &listenerMeta{listener: v, events: events})
	return nil
}

// Dispatch dispatches an event to all registered listeners that listen for it.
// Listeners listen for events by implementing a method with the signature:
//
//	func (l *MyListener) HandleMyEvent(event *MyEventType)
//
// The method name does not matter, only the signature (one argument).
func (m *Manager) Dispatch(event any) {
	eventType := reflect.TypeOf(event)
	for _, lm := range m.listeners {
		methodIdx, ok := lm.events[eventType]
		if !ok {
			continue
		}
		lm.listener.Method(methodIdx).Call([]reflect.Value{reflect.ValueOf(event)})
	}
}

// NewSession creates a session for p and registers it with the manager.
// Install the returned session's handler on the player:
//
//	sess, err := mngr.NewSession(p)
//	if err != nil {
//	    p.Disconnect("failed to initialize session")
//	    continue
//	}
//	p.Handle(ranged.NewHandler(sess, nil))
func (m *Manager) NewSession(p *player.Player) (*Session, error) {
	if p == nil {
		return nil, fmt.Errorf("nil player")
	}
	if s := m.GetSession(p); s != nil {
		return nil, fmt.Errorf("session for %s already exists", p.Name())
	}
	if s := m.GetSessionByUUID(p.UUID()); s != nil {
		return nil, fmt.Errorf("session for uuid %s already exists", p.UUID())
	}

	s := newSession(m, p.H(), p.UUID(), p.Name())
	if tx := p.Tx(); tx != nil {
		s.updateWorldCache(tx.World())
	}
	m.addSession(s)
	return s, nil
}

// addSession registers a session with the manager.
func (m *Manager) addSession(s *Session) {
	m.sessionsMu.Lock()
	m.sessions[s.handle] = s
	m.sessionsMu.Unlock()

	m.sessionsByUUIDMu.Lock()
	m.sessionsByUUID[s.uuid] = s
	m.sessionsByUUIDMu.Unlock()

	if w := s.cachedWorld(); w != nil {
		m.MoveSession(s, nil, w)
	}
}

// MoveSession updates the session's world in the index.
func (m *Manager) MoveSession(s *Session, from, to *world.World) {
	m.sessionsByWorldMu.Lock()
	if from != nil && m.sessionsByWorld[from] != nil {
		delete(m.sessionsByWorld[from], s)
		if len(m.sessionsByWorld[from]) == 0 {
			delete(m.sessionsByWorld, from)
		}
	}
	if to != nil {
		if m.sessionsByWorld[to] == nil {
			m.sessionsByWorld[to] = make(map[*Session]struct{})
		}
		m.sessionsByWorld[to][s] = struct{}{}
	}
	m.sessionsByWorldMu.Unlock()
}

// removeSession unregisters a session from the manager.
func (m *Manager) removeSession(s *Session) {
	m.sessionsMu.Lock()
	delete(m.sessions, s.handle)
	m.sessionsMu.Unlock()

	m.sessionsByUUIDMu.Lock()
	delete(m.sessionsByUUID, s.uuid)
	m.sessionsByUUIDMu.Unlock()

	m.MoveSession(s, s.cachedWorld(), nil)
}

// GetSession retrieves the session for a player.
func (m *Manager) GetSession(p *player.Player) *Session {
	return m.GetSessionByHandle(p.H())
}

// GetSessionByHandle retrieves a session by entity handle.
func (m *Manager) GetSessionByHandle(h *world.EntityHandle) *Session {
	m.sessionsMu.RLock()
	defer m.sessionsMu.RUnlock()
	return m.sessions[h]
}

// GetSessionByUUID retrieves a session by UUID.
func (m *Manager) GetSessionByUUID(id uuid.UUID) *Session {
	m.sessionsByUUIDMu.RLock()
	defer m.sessionsByUUIDMu.RUnlock()
	return m.sessionsByUUID[id]
}

// AllSessions returns a slice of all active sessions.
func (m *Manager) AllSessions() []*Session {
	m.sessionsMu.RLock()
	defer m.sessionsMu.RUnlock()

	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		if !s.closed.Load() {
			sessions = append(sessions, s)
		}
	}
	return sessions
}

// SessionCount returns the number of active sessions.
func (m *Manager) SessionCount() int {
	m.sessionsMu.RLock()
	defer m.sessionsMu.RUnlock()
	return len(m.sessions)
}

// groupedSessions returns the sessions with a use in progress, grouped by world.
func (m *Manager) groupedSessions() map[*world.World][]*Session {
	m.sessionsByWorldMu.RLock()
	defer m.sessionsByWorldMu.RUnlock()

	result := make(map[*world.World][]*Session, len(m.sessionsByWorld))
	for w, set := range m.sessionsByWorld {
		var list []*Session
		for s := range set {
			if s.Active() {
				list = append(list, s)
			}
		}
		if len(list) > 0 {
			result[w] = list
		}
	}
	return result
}

// loadSnapshot reads the stored snapshot of an instance.
func (m *Manager) loadSnapshot(id uuid.UUID) (Snapshot, bool) {
	if m.store == nil {
		return Snapshot{}, false
	}
	s, ok, err := m.store.Load(id)
	if err != nil {
		m.log.Error("ranged: failed to load weapon instance", "instance", id, "err", err)
		return Snapshot{}, false
	}
	return s, ok
}

// saveSnapshot persists the snapshot of an instance.
func (m *Manager) saveSnapshot(id uuid.UUID, s Snapshot) {
	if m.store == nil {
		return
	}
	if err := m.store.Save(id, s); err != nil {
		m.log.Error("ranged: failed to save weapon instance", "instance", id, "err", err)
	}
}

// build registers the contents of all bundles.
func (m *Manager) build() error {
	for _, b := range m.bundles {
		if err := b.build(m); err != nil {
			return fmt.Errorf("bundle %s: %w", b.Name(), err)
		}
	}
	return nil
}

// Start starts the manager and scheduler.
func (m *Manager) Start() {
	m.scheduler.Start()
}

// TickNumber returns the number of scheduler ticks run so far.
func (m *Manager) TickNumber() uint64 {
	return m.scheduler.TickNumber()
}

// Shutdown gracefully shuts down the manager. Sessions are closed, persisting their
// weapon instances, and the store is closed.
func (m *Manager) Shutdown() {
	m.scheduler.Stop()

	m.log.Info("ranged: shutting down", "sessions", m.SessionCount())
	for _, s := range m.AllSessions() {
		s.close()
	}

	if m.store != nil {
		if err := m.store.Close(); err != nil {
			m.log.Error("ranged: failed to close store", "err", err)
		}
	}
}
