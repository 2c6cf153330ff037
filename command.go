package ranged

import (
	"fmt"
	"slices"

	"github.com/df-mc/dragonfly/server/cmd"
	"github.com/df-mc/dragonfly/server/player"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/google/uuid"
)

// NewCommand returns the /weapon command, which gives weapon items and shows the
// state of the held weapon. Register it on a bundle:
//
//	bundle.Command(ranged.NewCommand())
func NewCommand() cmd.Command {
	return cmd.New("weapon", "Gives and inspects ranged weapons.", nil, giveCommand{}, infoCommand{})
}

// SessionOf returns the session of p, or nil if p is not handled by a
// SessionHandler.
func SessionOf(p *player.Player) *Session {
	if h, ok := p.Handler().(*SessionHandler); ok {
		return h.session
	}
	return nil
}

// Command returns the player running a command and its session. Both are nil for
// non-player sources; the session is nil for players without one.
//
//	func (c MyCommand) Run(src cmd.Source, o *cmd.Output, tx *world.Tx) {
//	    p, sess := ranged.Command(src)
//	    if sess == nil {
//	        o.Error("Player-only command")
//	        return
//	    }
//	    ...
//	}
func Command(src cmd.Source) (*player.Player, *Session) {
	p, ok := src.(*player.Player)
	if !ok {
		return nil, nil
	}
	return p, SessionOf(p)
}

// weaponName is a command parameter naming a registered weapon.
type weaponName string

// Type ...
func (weaponName) Type() string {
	return "WeaponName"
}

// Options ...
func (weaponName) Options(src cmd.Source) []string {
	_, sess := Command(src)
	if sess == nil {
		return nil
	}
	var names []string
	for _, w := range sess.Manager().Weapons() {
		names = append(names, w.Name())
	}
	slices.Sort(names)
	return names
}

type giveCommand struct {
	Give   cmd.SubCommand `cmd:"give"`
	Weapon weaponName     `cmd:"weapon"`
}

// Run ...
func (c giveCommand) Run(src cmd.Source, o *cmd.Output, tx *world.Tx) {
	p, sess := Command(src)
	if p == nil || sess == nil {
		o.Error("Player-only command")
		return
	}
	w, ok := sess.Manager().Weapon(string(c.Weapon))
	if !ok {
		o.Errorf("Unknown weapon %q", string(c.Weapon))
		return
	}
	it, ok := world.ItemByName(w.ItemName(), 0)
	if !ok {
		o.Errorf("Weapon %s has no item", w.Name())
		return
	}
	if _, err := p.Inventory().AddItem(NewStack(it, w)); err != nil {
		o.Errorf("Could not give %s: %v", w.Name(), err)
		return
	}
	o.Printf("Gave %s", w.Name())
}

type infoCommand struct {
	Info cmd.SubCommand `cmd:"info"`
}

// Run ...
func (infoCommand) Run(src cmd.Source, o *cmd.Output, tx *world.Tx) {
	p, sess := Command(src)
	if p == nil || sess == nil {
		o.Error("Player-only command")
		return
	}
	main, _ := p.HeldItems()
	w, id, ok := sess.Manager().weaponFor(main)
	if !ok {
		o.Error("Not holding a weapon")
		return
	}
	if id == uuid.Nil {
		o.Printf("%s (%s): unused", w.Name(), w.Variant())
		return
	}
	o.Print(describe(w, sess.Instance(w, id)))
}

// describe formats the state of an instance for display.
func describe(w *Weapon, inst *Instance) string {
	return fmt.Sprintf("%s (%s): %s, %d/%d loaded, charged=%t",
		w.Name(), w.Variant(), inst.State(), inst.Container.Count(), inst.Container.Capacity(), inst.Charged)
}
