// Package model provides the model specification contract consumed by
// workflows, the encoding-preference capability engines can advertise,
// and two reference engines: least-squares linear regression and a
// regression tree.
package model
