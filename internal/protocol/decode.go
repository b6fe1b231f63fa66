package protocol

// DecodeBoolAck reports whether the device accepted a command. The device
// signals failure as a nonzero byte, so a zero byte means success; the
// inverted polarity is part of the wire contract.
func DecodeBoolAck(b byte) bool {
	return b == 0
}

// DecodeRelayStates maps one response byte per relay to its energized
// state, in ascending relay order. A byte of 1 means on; any other value
// means off.
func DecodeRelayStates(buf []byte) []bool {
	states := make([]bool, len(buf))
	for i, b := range buf {
		states[i] = b == StateOn
	}
	return states
}
