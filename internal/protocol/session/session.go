package session

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/danmuck/ibootctl/internal/protocol"
	"github.com/rs/zerolog"
)

// greeting is the fixed handshake literal; the device answers with its
// current sequence number as a little-endian uint16.
const greeting = "hello-000"

var (
	ErrConnect   = errors.New("session: connect failed")
	ErrHandshake = errors.New("session: handshake failed")
	ErrResponse  = errors.New("session: response failed")
	ErrClosed    = errors.New("session: closed")
)

// Result is the outcome of one command round-trip. Acked is meaningful for
// boolean-ack commands, States for relay-array commands.
type Result struct {
	Acked  bool
	States []bool
}

// Session drives commands over one TCP connection. It is not safe for
// concurrent use; exactly one command may be in flight at a time.
type Session struct {
	conn   net.Conn
	cfg    Config
	creds  protocol.Credentials
	relays int
	seq    uint16
	log    zerolog.Logger
}

// Dial connects to addr, performs the greeting handshake, and returns a
// session ready to execute commands. The sequence counter starts at the
// device-issued value plus one.
func Dial(addr string, creds protocol.Credentials, relays int, cfg Config, log zerolog.Logger) (*Session, error) {
	cfg = cfg.WithDefaults()

	conn, err := net.DialTimeout("tcp", addr, cfg.ConnectTimeout)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnect, err)
	}

	s := &Session{
		conn:   conn,
		cfg:    cfg,
		creds:  creds,
		relays: relays,
		log:    log,
	}
	if err := s.handshake(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Session) handshake() error {
	if err := s.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout)); err != nil {
		return fmt.Errorf("%w: %v", ErrHandshake, err)
	}
	if _, err := s.conn.Write([]byte(greeting)); err != nil {
		return fmt.Errorf("%w: write greeting: %v", ErrHandshake, err)
	}

	if err := s.conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout)); err != nil {
		return fmt.Errorf("%w: %v", ErrHandshake, err)
	}
	var buf [2]byte
	if _, err := io.ReadFull(s.conn, buf[:]); err != nil {
		return fmt.Errorf("%w: read initial sequence: %v", ErrHandshake, err)
	}

	s.seq = binary.LittleEndian.Uint16(buf[:]) + 1
	s.log.Debug().Uint16("seq", s.seq).Msg("session: handshake complete")
	return nil
}

// Sequence returns the sequence number the next command will carry.
func (s *Session) Sequence() uint16 { return s.seq }

// Execute sends cmd and decodes its response. The header carries the
// current sequence number; the counter advances only once a response
// arrives, so a dead round-trip does not consume a number.
func (s *Session) Execute(cmd protocol.Command) (Result, error) {
	if s.conn == nil {
		return Result{}, ErrClosed
	}

	req := cmd.Encode(s.creds, s.seq)
	s.log.Debug().
		Stringer("command", cmd.Kind()).
		Uint16("seq", s.seq).
		Hex("payload", cmd.Payload()).
		Msg("session: execute")

	if err := s.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout)); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrResponse, err)
	}
	if _, err := s.conn.Write(req); err != nil {
		return Result{}, fmt.Errorf("%w: write request: %v", ErrResponse, err)
	}

	if err := s.conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout)); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrResponse, err)
	}

	switch cmd.Response() {
	case protocol.RespBoolAck:
		var buf [1]byte
		if _, err := io.ReadFull(s.conn, buf[:]); err != nil {
			return Result{}, fmt.Errorf("%w: read ack: %v", ErrResponse, err)
		}
		s.seq++
		return Result{Acked: protocol.DecodeBoolAck(buf[0])}, nil

	case protocol.RespRelayArray:
		buf := make([]byte, s.relays)
		if _, err := io.ReadFull(s.conn, buf); err != nil {
			return Result{}, fmt.Errorf("%w: read relay states: %v", ErrResponse, err)
		}
		s.seq++
		return Result{States: protocol.DecodeRelayStates(buf)}, nil

	default:
		return Result{}, fmt.Errorf("%w: unknown response kind", ErrResponse)
	}
}

// Close tears the connection down. Close errors are swallowed; cleanup must
// never replace a round-trip's real outcome.
func (s *Session) Close() {
	if s.conn == nil {
		return
	}
	_ = s.conn.Close()
	s.conn = nil
}
