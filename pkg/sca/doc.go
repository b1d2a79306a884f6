// Package sca grows branching skeletons with the space colonization
// algorithm.
//
// A skeleton is a forest of nodes grown from one or more start points toward
// a cloud of attractors. Every round each growable node with associated
// attractors takes one step of BranchLength toward the mean direction of its
// attractors, optionally bent by tropism, thinned by apical suppression and
// filtered by an exclusion predicate. Attractors die once a node comes within
// the kill distance; attractors beyond the influence range do not pull.
//
// Key types:
//
//   - Engine: owns the Skeleton and AttractorSet and drives the rounds.
//   - Skeleton: index-stable node arena; Branches and Children derive the
//     topology views consumed by mesh builders.
//   - AttractorSet: attractor arena with cached nearest-node associations
//     that are updated incrementally as nodes are committed.
//   - Prune: generation filter with index remapping.
//
// Rounds commit all of their candidates as one batch against a single
// snapshot, and every random decision is drawn from one stream seeded by
// Config.Seed, so a fixed configuration and sampler sequence reproduce the
// same tree. Association scans can use several goroutines (Config.Workers)
// without affecting the result.
//
// Errors:
//
//   - ErrConfig   invalid configuration, returned by New and Config.Validate
//   - ErrForest   returned by Skeleton.Validate
//
// Degenerate directions and stagnation are not errors: the former skip a
// node for one round, the latter ends Iterate with Reason Stagnation.
package sca
