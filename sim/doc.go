// Package sim provides the core multi-resource throughput and fee simulation
// engine for blockspace-sim.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - bottleneck.go: proportional-fair admission of demand against resource capacities
//   - fee.go: the bounded feedback controller steering the base fee
//   - simulator.go: the fixed-step loop threading SimulationState through both
//
// # Architecture
//
// Each simulated step runs the same pipeline: the scenario driver supplies a
// demand multiplier, the demand model turns it into desired rates per
// transaction category (priced against the previous step's fee), the
// bottleneck resolver scales those rates down to what the resource budget can
// carry, and the fee controller nudges the base fee toward the target
// utilization. Every stage is a pure function over plain data; the only state
// is the SimulationState value the loop replaces each step.
//
// Catalogs (catalog.go) are validated once at construction and injected into
// SimulationConfig; there are no package-level singletons, so independent
// runs stay isolated as long as callers do not share config instances.
package sim
