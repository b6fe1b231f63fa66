// Package protocol owns the DXP wire contract.
//
// Ownership boundary:
// - request header layout and credential packing
// - command catalog (family/descriptor/payload tables)
// - response decode primitives
package protocol
