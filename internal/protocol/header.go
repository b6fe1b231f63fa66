package protocol

import "encoding/binary"

const (
	// HeaderSize is the fixed request header length.
	HeaderSize = 47

	// CredentialWidth is the fixed on-wire width of the username and
	// password fields.
	CredentialWidth = 21
)

// Credentials authenticate every request. Values longer than
// CredentialWidth bytes are truncated on the wire; shorter values are
// padded with zero bytes. This matches the device's fixed-field packing.
type Credentials struct {
	Username string
	Password string
}

// EncodeHeader packs the fixed little-endian request header:
//
//	[0]     family code
//	[1:22]  username, zero-padded
//	[22:43] password, zero-padded
//	[43]    descriptor code
//	[44]    reserved, always zero
//	[45:47] sequence number (LE)
func EncodeHeader(family FamilyCode, creds Credentials, desc Descriptor, seq uint16) []byte {
	buf := make([]byte, HeaderSize)
	buf[0] = byte(family)
	packCredential(buf[1:22], creds.Username)
	packCredential(buf[22:43], creds.Password)
	buf[43] = byte(desc)
	buf[44] = 0
	binary.LittleEndian.PutUint16(buf[45:47], seq)
	return buf
}

func packCredential(dst []byte, s string) {
	copy(dst, s)
}
