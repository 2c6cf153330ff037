package ranged

import (
	"time"

	"github.com/df-mc/dragonfly/server/item"
	"github.com/df-mc/dragonfly/server/player"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/google/uuid"

	"github.com/oriumgames/ranged/hurt"
)

// SessionHandler wraps a session to implement player.Handler.
// It drives the weapon state machines from the player's item events and delegates
// every event to the next handler.
//
// Concurrency:
// Handlers are executed synchronously by Dragonfly within the world's transaction.
// They are serialized with the Scheduler, which also ticks weapons inside the
// world transaction, so weapon state is never accessed concurrently.
type SessionHandler struct {
	player.Handler
	session *Session
}

// NewHandler creates a new player.Handler for the given session. next receives
// every event after the weapon runtime; nil means player.NopHandler.
func NewHandler(s *Session, next player.Handler) player.Handler {
	if next == nil {
		next = NopHandler{}
	}
	return &SessionHandler{Handler: next, session: s}
}

// Compile-time check that SessionHandler implements player.Handler.
var _ player.Handler = (*SessionHandler)(nil)

// Session returns the session associated with this handler.
func (h *SessionHandler) Session() *Session {
	return h.session
}

// HandleItemUse begins a use of the held weapon.
// Uses the weapon rejects, and uses completed on the trigger, are cancelled so the
// host does not start its own item use. Uses that span ticks are left to the host so
// that the release reaches HandleItemRelease.
func (h *SessionHandler) HandleItemUse(ctx *player.Context) {
	p := ctx.Val()
	main, off := p.HeldItems()
	w, id, ok := h.session.manager.weaponFor(main)
	if !ok {
		h.Handler.HandleItemUse(ctx)
		return
	}
	if id == uuid.Nil {
		id = uuid.New()
		main = withInstance(main, id)
		p.SetHeldItems(main, off)
	}

	h.Handler.HandleItemUse(ctx)
	if ctx.Cancelled() {
		return
	}
	if !h.session.begin(p, w, id, main) || !h.session.Active() {
		ctx.Cancel()
	}
}

// HandleItemRelease releases the weapon in use. The host's own release behaviour,
// such as a vanilla bow shot, is cancelled for weapon items.
func (h *SessionHandler) HandleItemRelease(ctx *player.Context, it item.Stack, dur time.Duration) {
	if _, _, ok := h.session.manager.weaponFor(it); !ok {
		h.Handler.HandleItemRelease(ctx, it, dur)
		return
	}
	ctx.Cancel()
	h.session.stop(ctx.Val(), StopReleased)
}

// HandleHeldSlotChange stops the use in progress when the player switches items.
func (h *SessionHandler) HandleHeldSlotChange(ctx *player.Context, from, to int) {
	h.Handler.HandleHeldSlotChange(ctx, from, to)
	if ctx.Cancelled() {
		return
	}
	h.session.stop(ctx.Val(), StopSlotChange)
}

// HandleHurt applies the hurt.Component attached to the session, if any.
func (h *SessionHandler) HandleHurt(ctx *player.Context, damage *float64, immune bool, attackImmunity *time.Duration, src world.DamageSource) {
	if c := Attachment[hurt.Component](h.session); c != nil {
		p := ctx.Val()
		*damage = c.Apply(*damage, hurt.Env{
			Health:    p.Health(),
			MaxHealth: p.MaxHealth(),
			Source:    damageSourceName(src),
		})
	}
	h.Handler.HandleHurt(ctx, damage, immune, attackImmunity, src)
}

// HandleDeath stops the use in progress.
func (h *SessionHandler) HandleDeath(p *player.Player, src world.DamageSource, keepInv *bool) {
	h.session.stop(p, StopDeath)
	h.Handler.HandleDeath(p, src, keepInv)
}

// HandleChangeWorld moves the session to the new world.
func (h *SessionHandler) HandleChangeWorld(p *player.Player, before, after *world.World) {
	h.session.updateWorldCache(after)
	if h.session.manager != nil {
		h.session.manager.MoveSession(h.session, before, after)
	}
	h.Handler.HandleChangeWorld(p, before, after)
}

// HandleQuit stops the use in progress and closes the session.
func (h *SessionHandler) HandleQuit(p *player.Player) {
	h.session.stop(p, StopQuit)
	h.Handler.HandleQuit(p)
	defer h.session.close()
}

// NopHandler is embedded in handler structs to provide default implementations.
// This is re-exported from dragonfly for convenience.
type NopHandler = player.NopHandler
