package protocol

import "errors"

var (
	ErrRelayOutOfRange      = errors.New("protocol: relay index out of range")
	ErrPulseWidthOutOfRange = errors.New("protocol: pulse width out of range")
)
