package ranged

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/df-mc/dragonfly/server/world"
)

// DefaultTickRate is the scheduler tick interval matching the host's 20 TPS.
const DefaultTickRate = 50 * time.Millisecond

// Scheduler advances the weapon uses in progress once per tick.
// Worlds are processed in parallel; sessions within one world are ticked inside a
// single world transaction.
type Scheduler struct {
	manager *Manager

	// Worker pool
	workers    int
	workerPool chan func()
	workerWG   sync.WaitGroup

	// Execution state
	running atomic.Bool
	stopCh  chan struct{}
	doneCh  chan struct{}

	// Tick tracking
	tickRate   time.Duration
	tickNumber atomic.Uint64
}

// newScheduler creates a new scheduler. A non-positive tick rate uses DefaultTickRate.
func newScheduler(manager *Manager, tickRate time.Duration) *Scheduler {
	workers := runtime.GOMAXPROCS(0)
	if workers < 1 {
		workers = 1
	}
	if tickRate <= 0 {
		tickRate = DefaultTickRate
	}

	return &Scheduler{
		manager:    manager,
		workers:    workers,
		workerPool: make(chan func(), workers*4),
		tickRate:   tickRate,
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
}

// Start begins the scheduler's tick loop.
func (s *Scheduler) Start() {
	if s.running.Swap(true) {
		return // Already running
	}

	for i := 0; i < s.workers; i++ {
		s.workerWG.Add(1)
		go s.worker()
	}
	go s.tickLoop()
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	if !s.running.Swap(false) {
		return // Not running
	}

	close(s.stopCh)
	<-s.doneCh

	close(s.workerPool)
	s.workerWG.Wait()
}

// TickNumber returns the number of ticks run so far.
func (s *Scheduler) TickNumber() uint64 {
	return s.tickNumber.Load()
}

// worker is a pool worker that executes jobs.
func (s *Scheduler) worker() {
	defer s.workerWG.Done()
	for fn := range s.workerPool {
		fn()
	}
}

// tickLoop is the main scheduler loop.
func (s *Scheduler) tickLoop() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.tickRate)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

// tick executes one scheduler tick.
func (s *Scheduler) tick() {
	s.tickNumber.Add(1)

	var wg sync.WaitGroup
	for w, sessions := range s.manager.groupedSessions() {
		if w == nil {
			continue
		}
		wg.Add(1)

		job := func() {
			defer wg.Done()
			s.tickWorld(w, sessions)
		}

		select {
		case s.workerPool <- job:
		default:
			// Worker pool full, run inline
			job()
		}
	}
	wg.Wait()
}

// tickWorld ticks the sessions of one world in its transaction.
func (s *Scheduler) tickWorld(w *world.World, sessions []*Session) {
	w.Exec(func(tx *world.Tx) {
		for _, sess := range sessions {
			if sess.closed.Load() {
				continue
			}
			p, ok := sess.Player(tx)
			if !ok {
				continue
			}
			s.tickSession(sess, func() { sess.tick(p) })
		}
	})
}

// tickSession runs fn, recovering a panic so that one broken weapon does not stop
// the other sessions. The use in progress is dropped.
func (s *Scheduler) tickSession(sess *Session, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic: %v", r)
			s.manager.log.Error("ranged: weapon tick failed", "player", sess.Name(), "err", err, "stack", string(debug.Stack()))
			sess.abandon()
		}
	}()
	fn()
}
