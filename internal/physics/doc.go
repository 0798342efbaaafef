// Package physics provides the concrete transport processes.
//
// Each process implements the [engine.Process] interface, proposing a
// step limit and acting on the track when its limit wins:
//
//   - [Transportation]: geometry boundary crossing
//   - [StepLimiter]: user-defined maximum step length
//   - [IonisationLoss]: continuous energy loss of charged particles
//   - [MultipleScattering]: small-angle direction smearing
//   - [Decay]: sampled in-flight decay of unstable particles
//   - [Absorption]: attenuation of neutral particles
//
// Several processes also implement [engine.Configurable] for runtime
// parameter adjustment through the binding layer.
package physics
