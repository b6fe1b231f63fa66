// Package session owns one DXP connection lifetime.
//
// Ownership boundary:
// - TCP dial with bounded timeouts
// - greeting handshake and sequence number negotiation
// - single in-flight command round-trips
package session
