// Package ibootctl controls networked power-distribution relay units
// speaking the DXP binary protocol over TCP.
//
// A Device is a long-lived handle holding address, credentials, and relay
// count. Every operation opens its own connection, performs the greeting
// handshake, runs one or more command round-trips, and closes the
// connection, so concurrent operations on one Device never share state.
//
//	dev := ibootctl.NewDevice("192.168.0.105", "admin", "admin")
//	if !dev.Switch(2, true) {
//		// device unreachable or command rejected
//	}
package ibootctl
