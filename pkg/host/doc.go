// Package host drives components through the device lifecycle.
//
// A host calls, in order:
//
//   - PreSetup on components that implement PreSetuper (once)
//   - Setup on every component, highest SetupPriority first (once)
//   - Loop on every component, in the same order, once per tick (forever)
//
// DumpConfig writes advisory diagnostics and may be called at any time.
//
// Everything runs on one goroutine. Runner.Run stops ticking when its
// context is cancelled but never interrupts a component mid-call: a Loop
// that blocks, blocks the host.
package host
