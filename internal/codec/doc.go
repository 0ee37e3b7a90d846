// Package codec packs a segment tag and a wrapped payload into the flat
// identifier and view-type namespaces shown to the host list.
//
// Item ids are 64 bits wide:
//
//	bit 63     reserved sign flag (copied from the wrapped id)
//	bits 56-62 segment
//	bits 28-55 group id (signed)
//	bits 0-27  child id (signed)
//
// View types are 32 bits wide:
//
//	bit 31     expandable flag
//	bits 24-30 segment
//	bits 0-23  wrapped view type (signed)
package codec
