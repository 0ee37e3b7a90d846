// Package adapter defines the contract between a host list and the item
// sources it displays, and the wrapper protocol that lets one adapter present
// a view over others.
//
// Every adapter can answer UnwrapPosition and WrapPosition. A leaf returns an
// invalid UnwrapResult and NoPosition; a wrapper maps its flat positions to a
// (child, tag, child position) triple and back. UnwrapPosition and
// WrapPosition in this package chain those hops across any nesting depth and
// record the route as a Path.
package adapter
