package ibootctl

import (
	"errors"

	"github.com/danmuck/ibootctl/internal/protocol"
	"github.com/danmuck/ibootctl/internal/protocol/session"
)

// ErrRejected is the internal marker for a round-trip the device completed
// but answered with a failure ack.
var ErrRejected = errors.New("ibootctl: command rejected by device")

// Switch sets one relay on or off. It reports true only when the device
// acknowledged the change; every transport or protocol fault collapses to
// false.
func (d *Device) Switch(relay int, on bool) bool {
	return d.report("switch", d.switchRelay(relay, on))
}

// SwitchMultiple applies the given relay states, issuing one change-relay
// round-trip per entry over a single connection and stopping at the first
// failure. It reports true only when every entry was acknowledged.
//
// The catalog's bulk change-relays command could carry all states in one
// round-trip; the per-entry loop is kept for compatibility with deployed
// device firmware expectations.
func (d *Device) SwitchMultiple(states map[int]bool) bool {
	return d.report("switch_multiple", d.switchMultiple(states))
}

// GetRelays queries the energized state of every configured relay, in
// ascending relay order. It returns nil on any failure.
func (d *Device) GetRelays() []bool {
	states, err := d.getRelays()
	if err != nil {
		d.log.Debug().Err(err).Msg("device: get_relays failed")
		return nil
	}
	return states
}

// PulseRelay momentarily sets one relay to a state for widthMS
// milliseconds; the device reverts it afterwards.
func (d *Device) PulseRelay(relay int, on bool, widthMS int) bool {
	return d.report("pulse_relay", d.pulseRelay(relay, on, widthMS))
}

func (d *Device) report(op string, err error) bool {
	if err != nil {
		d.log.Debug().Err(err).Str("op", op).Msg("device: operation failed")
		return false
	}
	return true
}

func (d *Device) switchRelay(relay int, on bool) error {
	cmd, err := protocol.NewChangeRelay(relay, on)
	if err != nil {
		return err
	}
	sess, err := d.dial()
	if err != nil {
		return err
	}
	defer sess.Close()
	return execAck(sess, cmd)
}

func (d *Device) switchMultiple(states map[int]bool) error {
	sess, err := d.dial()
	if err != nil {
		return err
	}
	defer sess.Close()

	d.log.Debug().Interface("states", states).Msg("device: switch_multiple")
	for relay, on := range states {
		cmd, err := protocol.NewChangeRelay(relay, on)
		if err != nil {
			return err
		}
		if err := execAck(sess, cmd); err != nil {
			return err
		}
	}
	return nil
}

func (d *Device) getRelays() ([]bool, error) {
	sess, err := d.dial()
	if err != nil {
		return nil, err
	}
	defer sess.Close()

	res, err := sess.Execute(protocol.NewGetRelays())
	if err != nil {
		return nil, err
	}
	return res.States, nil
}

func (d *Device) pulseRelay(relay int, on bool, widthMS int) error {
	cmd, err := protocol.NewPulseRelay(relay, on, widthMS)
	if err != nil {
		return err
	}
	sess, err := d.dial()
	if err != nil {
		return err
	}
	defer sess.Close()
	return execAck(sess, cmd)
}

func execAck(sess *session.Session, cmd protocol.Command) error {
	res, err := sess.Execute(cmd)
	if err != nil {
		return err
	}
	if !res.Acked {
		return ErrRejected
	}
	return nil
}
