// Package recipe implements the multi-step preprocessor: an ordered list
// of column transformations with a train (Prep) and apply (Bake) phase.
//
// A recipe is declared against a formula that assigns outcome and
// predictor roles, then extended with steps. Prep estimates each step's
// parameters on the training data, transforming the data as it goes so
// every step trains on the output of the steps before it. Bake replays
// the trained steps on any compatible table.
//
// Prep also tracks which columns each step derives in a dependency graph,
// so unavailable inputs and cyclic derivations surface as typed errors and
// column provenance can be inspected afterwards via Origins.
package recipe
