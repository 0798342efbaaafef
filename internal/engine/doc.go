// Package engine provides the particle transport core.
//
// The package defines the fundamental types and interfaces for stepping
// particle tracks through a geometry under a set of physics processes:
//
//   - [Track]: a particle in flight (energy, position, direction)
//   - [Process]: interaction behavior limiting and acting on steps
//   - [PhysicsList]: the ordered process set attached to a run
//   - [RunManager]: orchestrates events, tracking and actor hooks
//
// # Example
//
//	world := geometry.NewWorld(1*engine.M, "Air")
//	plist := engine.NewPhysicsList()
//	plist.Attach(physics.NewTransportation(world))
//	rm := engine.NewRunManager(world, plist, engine.DefaultConfig())
//	result, _ := rm.Run(ctx)
//
// # Thread Safety
//
// RunManager instances are NOT thread-safe. Run one run per manager;
// actors are invoked from the tracking goroutine only.
package engine
