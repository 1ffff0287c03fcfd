// Package sim provides the core A/B experiment engine for replenishment
// policies.
//
// # Reading Guide
//
// Start with these three files to understand the experiment kernel:
//   - assignment.go: stratified control/treatment split of the SKU catalog
//   - simulator.go: the day-stepped inventory loop for one SKU under one policy
//   - experiment.go: orchestration (validate, assign, simulate both arms, analyze)
//
// # Architecture
//
// The sim package owns the experiment lifecycle; the supporting concerns live
// in sub-packages:
//   - sim/policy/: reorder-point policies (fixed and dynamic) and EOQ sizing
//   - sim/stats/: Welch comparator, ROI projection, recommendation, summary
//   - sim/dataset/: CSV tables, ABC classification, synthetic order history
//
// Randomness is partitioned by subsystem (rng.go): assignment, demand
// sampling, and order synthesis draw from independent streams derived from
// one master seed, so changing the simulation horizon never perturbs the
// arm assignment.
package sim
