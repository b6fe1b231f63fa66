package ibootctl

import (
	"net"
	"strconv"
	"time"

	"github.com/danmuck/ibootctl/internal/protocol"
	"github.com/danmuck/ibootctl/internal/protocol/session"
	"github.com/rs/zerolog"
)

const (
	// DefaultPort is the device's DXP listen port.
	DefaultPort = 9100

	// DefaultRelayCount matches the smallest shipped unit.
	DefaultRelayCount = 3
)

// Device is a long-lived handle for one relay unit. It holds configuration
// only; connections are created per operation and never pooled.
type Device struct {
	host   string
	port   int
	creds  protocol.Credentials
	relays int
	cfg    session.Config
	log    zerolog.Logger
}

// DeviceOption adjusts a Device at construction time.
type DeviceOption func(*Device)

// WithPort overrides the default DXP port.
func WithPort(port int) DeviceOption {
	return func(d *Device) { d.port = port }
}

// WithRelayCount sets how many relay state bytes the device reports.
func WithRelayCount(n int) DeviceOption {
	return func(d *Device) { d.relays = n }
}

// WithTimeout bounds connect and each blocking read/write.
func WithTimeout(timeout time.Duration) DeviceOption {
	return func(d *Device) {
		d.cfg = session.Config{
			ConnectTimeout: timeout,
			ReadTimeout:    timeout,
			WriteTimeout:   timeout,
		}
	}
}

// WithLogger installs a debug trace sink. Without it the device is silent.
func WithLogger(log zerolog.Logger) DeviceOption {
	return func(d *Device) { d.log = log }
}

// NewDevice builds a handle for the unit at host using the given
// credentials. Credentials wider than the 21-byte wire fields are truncated
// on the wire.
func NewDevice(host, username, password string, opts ...DeviceOption) *Device {
	d := &Device{
		host:   host,
		port:   DefaultPort,
		creds:  protocol.Credentials{Username: username, Password: password},
		relays: DefaultRelayCount,
		cfg:    session.DefaultConfig(),
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Host returns the configured device host.
func (d *Device) Host() string { return d.host }

// Port returns the configured DXP port.
func (d *Device) Port() int { return d.port }

// RelayCount returns the configured relay count.
func (d *Device) RelayCount() int { return d.relays }

func (d *Device) dial() (*session.Session, error) {
	addr := net.JoinHostPort(d.host, strconv.Itoa(d.port))
	return session.Dial(addr, d.creds, d.relays, d.cfg, d.log)
}
