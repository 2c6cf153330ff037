// Package ranged provides charge and fire behaviour for ranged weapons on
// Dragonfly servers.
//
// The package has two layers:
//   - A host-independent weapon model: Parameters, Container, Cadence, charge
//     Progress and the Weapon state machine driving an Instance through an Actor.
//   - A Dragonfly runtime: Sessions that own weapon instances, a SessionHandler
//     that turns item use and release into state machine transitions, and a
//     Scheduler that ticks uses in progress at 20 TPS.
//
// # Quick Start
//
// Register projectile kinds and weapon archetypes, then initialize a manager:
//
//	arrow := ranged.RegisterKind("arrow", ranged.WithItem("minecraft:arrow"))
//
//	longbow := ranged.MustWeapon("longbow", ranged.Bow, ranged.MustParameters(ranged.Parameters{
//	    MaxProjectileSpeed:   3,
//	    MaxNonCriticalDamage: 9,
//	    MaxUseTicks:          ranged.IndefiniteUseTicks,
//	    MaxChargeTicks:       20,
//	    FiringError:          1,
//	    DefaultProjectile:    arrow,
//	    Launchable:           ranged.Kinds(arrow),
//	}), ranged.WithItemName("minecraft:bow"))
//
//	bundle := ranged.NewBundle("weapons").
//	    Weapon(longbow).
//	    Listener(&ArrowSpawner{}).
//	    Command(ranged.NewCommand())
//
//	mngr := ranged.NewBuilder().
//	    Bundle(bundle.Build()).
//	    Init()
//
//	for p := range srv.Accept() {
//	    sess, err := mngr.NewSession(p)
//	    if err != nil {
//	        p.Disconnect("failed to initialize session")
//	        continue
//	    }
//	    p.Handle(ranged.NewHandler(sess, nil))
//	}
//
// # Listeners
//
// The runtime computes shots but does not spawn entities. A listener receives
// EventShot and spawns the projectile:
//
//	type ArrowSpawner struct{}
//
//	func (ArrowSpawner) HandleShot(e *ranged.EventShot) {
//	    // spawn an arrow at e.Position with e.Velocity
//	}
//
// # Using the model directly
//
// Mobs and tests drive a Weapon without the runtime by implementing Actor:
//
//	inst := longbow.NewInstance()
//	if longbow.BeginUse(inst, actor) {
//	    for remaining := inst.UseTicks() - 1; remaining > inst.UseTicks()-20; remaining-- {
//	        longbow.OnUsageTick(inst, actor, remaining)
//	    }
//	    longbow.OnReleaseOrStop(inst, actor, inst.UseTicks()-20)
//	}
package ranged

// Version is the ranged version.
const Version = "1.0.0"
