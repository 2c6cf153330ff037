// Package main runs a Dragonfly server with the weapons of a YAML catalog enabled.
package main

import (
	"flag"
	"log"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	"github.com/df-mc/dragonfly/server"
	"github.com/df-mc/dragonfly/server/entity"
	"github.com/df-mc/dragonfly/server/item"
	"github.com/df-mc/dragonfly/server/world"

	"github.com/oriumgames/ranged"
	"github.com/oriumgames/ranged/config"
	"github.com/oriumgames/ranged/hurt"
	"github.com/oriumgames/ranged/store"
)

// fireworkDuration is the flight time of launched firework rockets.
const fireworkDuration = 1500 * time.Millisecond

// arrowSpawner spawns a projectile entity for every shot: a firework rocket for
// multi-effect kinds and an arrow otherwise.
type arrowSpawner struct{}

func (arrowSpawner) HandleShot(e *ranged.EventShot) {
	opts := world.EntitySpawnOpts{Position: e.Position, Velocity: e.Velocity}
	if e.Shot.Projectile.Kind.MultiEffect() {
		e.Player.Tx().AddEntity(entity.NewFireworkAttached(opts, item.Firework{Duration: fireworkDuration}, e.Player, false))
		return
	}
	e.Player.Tx().AddEntity(entity.NewArrowWithDamage(opts, arrowDamage(e.Shot, rand.Float64()), e.Player))
}

// arrowDamage returns the per-speed damage handed to the arrow entity, which
// multiplies it by its speed on hit. Critical shots add up to half the hit
// damage plus two, scaled by roll in [0, 1).
func arrowDamage(s ranged.Shot, roll float64) float64 {
	if !s.Critical || s.Speed <= 0 {
		return s.BaseDamage
	}
	return s.BaseDamage + roll*(s.Damage()/2+2)/s.Speed
}

func main() {
	configPath := flag.String("config", "configs/ranged.yaml", "path to configuration file")
	hurtExpr := flag.String("hurt", "", "damage expression applied to players when they are hurt; empty = disabled")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	logger := cfg.Logging.Logger(os.Stderr)
	slog.SetDefault(logger)

	catalog, err := config.LoadWeapons(cfg.Weapons.Path)
	if err != nil {
		log.Fatalf("loading weapons: %v", err)
	}
	bundle, err := catalog.Bundle("weapons")
	if err != nil {
		log.Fatalf("registering weapons: %v", err)
	}
	bundle.Listener(arrowSpawner{}).Command(ranged.NewCommand())

	builder := ranged.NewBuilder().
		Logger(logger).
		TickRate(cfg.Runtime.TickRate).
		Bundle(bundle.Build())
	if cfg.Storage.Enabled {
		db, err := store.OpenLevelDB(cfg.Storage.Path)
		if err != nil {
			log.Fatalf("opening store: %v", err)
		}
		builder.Store(db)
	}
	mngr := builder.Init()
	defer mngr.Shutdown()

	var damage *hurt.Component
	if *hurtExpr != "" {
		damage = hurt.New(*hurtExpr, hurt.WithLogger(logger))
		if err := damage.Err(); err != nil {
			log.Fatalf("compiling hurt expression: %v", err)
		}
	}

	logger.Info("ranged: starting server",
		"weapons", len(mngr.Weapons()),
		"storage", cfg.Storage.Enabled,
	)

	conf, err := server.DefaultConfig().Config(logger)
	if err != nil {
		log.Fatalf("server config: %v", err)
	}
	srv := conf.New()
	srv.CloseOnProgramEnd()
	srv.Listen()

	for p := range srv.Accept() {
		sess, err := mngr.NewSession(p)
		if err != nil {
			logger.Error("ranged: failed to create session", "player", p.Name(), "error", err)
			continue
		}
		if damage != nil {
			ranged.Attach(sess, damage)
		}
		p.Handle(ranged.NewHandler(sess, nil))
	}
}
