// Package table provides the named-column dataset consumed by
// preprocessors and model engines. Tables are immutable values:
// every operation returns a new table.
package table
