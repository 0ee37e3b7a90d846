// Package source provides the leaf adapters backed by the item store: one
// Items adapter per source and a one-row Header naming it.
package source
