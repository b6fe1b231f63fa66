package protocol

import (
	"encoding/binary"
	"fmt"
)

// Kind enumerates the closed command catalog.
type Kind int

const (
	KindChangeRelay Kind = iota
	KindChangeRelays
	KindGetRelays
	KindPulseRelay
)

func (k Kind) String() string {
	switch k {
	case KindChangeRelay:
		return "change_relay"
	case KindChangeRelays:
		return "change_relays"
	case KindGetRelays:
		return "get_relays"
	case KindPulseRelay:
		return "pulse_relay"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ResponseKind describes the shape of a command's response.
type ResponseKind int

const (
	// RespBoolAck is a single byte; zero means the device accepted the
	// command.
	RespBoolAck ResponseKind = iota
	// RespRelayArray is one state byte per configured relay.
	RespRelayArray
)

// catalogEntry binds one Kind to its wire identity. Adding a command means
// adding a table row.
type catalogEntry struct {
	family     FamilyCode
	descriptor Descriptor
	payloadLen int
	response   ResponseKind
}

var catalog = map[Kind]catalogEntry{
	KindChangeRelay:  {FamilyIO, DescChangeRelay, 2, RespBoolAck},
	KindChangeRelays: {FamilyIO, DescChangeRelays, bulkRelaySlots, RespBoolAck},
	KindGetRelays:    {FamilyIO, DescGetRelays, 0, RespRelayArray},
	KindPulseRelay:   {FamilyIO, DescPulseRelay, 4, RespBoolAck},
}

// bulkRelaySlots is the fixed slot count of the change-relays payload,
// independent of how many relays the device actually has.
const bulkRelaySlots = 32

// maxPulseWidthMS is the largest pulse width representable in the wire
// field.
const maxPulseWidthMS = int(^uint16(0))

// Command is one fully-encoded catalog entry, built per invocation and not
// reused across requests.
type Command struct {
	kind    Kind
	payload []byte
}

// Kind returns the catalog kind.
func (c Command) Kind() Kind { return c.kind }

// Response returns the catalog response shape.
func (c Command) Response() ResponseKind { return catalog[c.kind].response }

// Payload returns the encoded payload bytes.
func (c Command) Payload() []byte { return c.payload }

// Encode packs the request header followed by the payload into one buffer
// so the caller can issue a single write.
func (c Command) Encode(creds Credentials, seq uint16) []byte {
	entry := catalog[c.kind]
	buf := make([]byte, 0, HeaderSize+len(c.payload))
	buf = append(buf, EncodeHeader(entry.family, creds, entry.descriptor, seq)...)
	return append(buf, c.payload...)
}

// NewChangeRelay builds a command switching one relay on or off.
func NewChangeRelay(relay int, on bool) (Command, error) {
	if err := checkRelay(relay, bulkRelaySlots); err != nil {
		return Command{}, err
	}
	return Command{
		kind:    KindChangeRelay,
		payload: []byte{byte(relay), stateCode(on)},
	}, nil
}

// NewChangeRelays builds the bulk command setting every relay in states and
// leaving unlisted slots untouched. The payload always carries all 32 slots.
func NewChangeRelays(states map[int]bool) (Command, error) {
	payload := make([]byte, bulkRelaySlots)
	for i := range payload {
		payload[i] = StateNoChange
	}
	for relay, on := range states {
		if err := checkRelay(relay, bulkRelaySlots); err != nil {
			return Command{}, err
		}
		payload[relay-1] = stateCode(on)
	}
	return Command{kind: KindChangeRelays, payload: payload}, nil
}

// NewGetRelays builds the payload-less relay state query.
func NewGetRelays() Command {
	return Command{kind: KindGetRelays}
}

// NewPulseRelay builds a command pulsing one relay to a state for widthMS
// milliseconds. The device reverts the relay itself after the pulse.
func NewPulseRelay(relay int, on bool, widthMS int) (Command, error) {
	if err := checkRelay(relay, bulkRelaySlots); err != nil {
		return Command{}, err
	}
	if widthMS < 0 || widthMS > maxPulseWidthMS {
		return Command{}, fmt.Errorf("%w: %dms", ErrPulseWidthOutOfRange, widthMS)
	}
	payload := make([]byte, 4)
	payload[0] = byte(relay)
	payload[1] = stateCode(on)
	binary.LittleEndian.PutUint16(payload[2:4], uint16(widthMS))
	return Command{kind: KindPulseRelay, payload: payload}, nil
}

func checkRelay(relay, max int) error {
	if relay < 1 || relay > max {
		return fmt.Errorf("%w: %d", ErrRelayOutOfRange, relay)
	}
	return nil
}
