// Package conv provides checked integer conversions for snapshot headers.
//
// Lengths read from a snapshot are untrusted; lengths written to one must
// fit their on-disk field. Both directions go through these helpers so an
// overflow surfaces as an error instead of a silently truncated header.
package conv
