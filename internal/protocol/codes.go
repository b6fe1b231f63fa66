package protocol

// FamilyCode selects the top-level DXP command family carried in the first
// header byte.
type FamilyCode uint8

// Command family codes from the DXP contract.
const (
	FamilyNull      FamilyCode = 0
	FamilySet       FamilyCode = 1
	FamilyGet       FamilyCode = 2
	FamilyIO        FamilyCode = 3
	FamilyKeepalive FamilyCode = 4
	FamilyRSS       FamilyCode = 5
	FamilyRCU       FamilyCode = 6
)

// Descriptor selects a sub-command within a family.
type Descriptor uint8

// IO family descriptors. Only ChangeRelay, ChangeRelays, GetRelays and
// PulseRelay are exercised by the command catalog; the rest are part of the
// device contract and kept for completeness.
const (
	DescNull         Descriptor = 0
	DescChangeRelay  Descriptor = 1
	DescChangeRelays Descriptor = 2
	DescGetRelay     Descriptor = 3
	DescGetRelays    Descriptor = 4
	DescGetInput     Descriptor = 5
	DescGetInputs    Descriptor = 6
	DescPulseRelay   Descriptor = 7
)

// Relay state codes carried in IO payloads. NoChange is valid only in the
// bulk change-relays payload.
const (
	StateOff      byte = 0
	StateOn       byte = 1
	StateNoChange byte = 2
)

func stateCode(on bool) byte {
	if on {
		return StateOn
	}
	return StateOff
}
