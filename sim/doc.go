// Package sim provides the core cache-policy simulation engine.
//
// # Reading Guide
//
// Start with these three files to understand the engine:
//   - policy.go: the CachePolicy interface, policy names, and the factory
//   - keylist.go: the recency list shared by every policy implementation
//   - driver.go: lockstep execution of all active policies over one workload
//
// # Architecture
//
// The sim package holds the policies and the driver; everything around
// them lives in sub-packages:
//   - sim/workload/: access-pattern generation (realistic, scan, random,
//     zipf, custom, lua scripts)
//   - sim/trace/: step recording and run summaries for offline analysis
//   - sim/bench/: hit-rate comparison against production cache libraries
//
// Policies implement CachePolicy (Access + Snapshot) and are constructed
// through NewPolicy by name. The driver feeds every active policy the same
// key sequence and emits one StepEvent per step; Driver.Run exposes the
// run as a lazy iter.Seq so consumers control pacing by pulling.
package sim
