// Package workflow binds a data preprocessor to a model specification and
// fits them in sequence.
//
// A Workflow is built from two actions: a preprocessor (a formula or a
// recipe, with a blueprint describing how raw columns become a design
// matrix) and a model specification. The two can be attached in either
// order. Fitting is a two-phase protocol: FitPreprocessor encodes the
// data and stores the resulting mold, then FitModel trains the model
// specification against the mold. Fit composes the two. Every entry point
// validates the workflow's shape first, so a missing or duplicated action
// surfaces as a typed error before any work happens.
//
// Before a formula preprocessor runs, its blueprint is reconciled with
// the model's declared encoding preference: an engine that consumes
// factor columns directly turns indicator expansion off. Only the system
// default blueprint is adjusted this way - a blueprint the caller built
// explicitly is used exactly as supplied, and recipes always define their
// own encoding.
//
// Workflows are values. Mutators and fit phases return a new Workflow and
// leave the receiver untouched, so a template workflow can be fit many
// times, or many workflows fit concurrently with FitAll, without any
// shared mutable state.
package workflow
