// Package composed presents several child adapters as one flat list.
//
// Flat positions are split into (segment, offset) pairs by a Translator, where
// the segment is the child's index in the composition. Item view types are
// re-tagged by a ViewTypeAllocator so that every (child, raw view type
// segment) pair gets its own dense segment, and item ids carry that segment
// so ids of different children never collide.
package composed
