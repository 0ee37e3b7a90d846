// Package draggable lets the user reorder list items by dragging them.
//
// A Wrapper sits between the host and the adapter that owns the items. While
// a drag is in progress it shows the items through a virtual permutation and
// never touches the backing data; only when the drag ends successfully does it
// ask the adapter to move the item once. An Engine turns pointer events into
// drag sessions on a Wrapper, decides when the dragged item swaps places with
// its neighbour and scrolls the host near its edges.
package draggable
