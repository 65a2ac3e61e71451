package guard

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
)

// Family is a socket address family. Its values are the platform's AF_*
// constants.
type Family int

// String returns the AF_* name of the family.
func (f Family) String() string {
	switch {
	case f == FamilyUnspec:
		return "AF_UNSPEC"
	case f == FamilyInet:
		return "AF_INET"
	case f == FamilyInet6:
		return "AF_INET6"
	case hasUnixFamily && f == FamilyUnix:
		return "AF_UNIX"
	default:
		return "AF(" + strconv.Itoa(int(f)) + ")"
	}
}

// SockType is a socket type such as SOCK_STREAM.
type SockType int

// String returns the SOCK_* name of the type.
func (t SockType) String() string {
	switch t {
	case SockStream:
		return "SOCK_STREAM"
	case SockDgram:
		return "SOCK_DGRAM"
	case SockSeqPacket:
		return "SOCK_SEQPACKET"
	default:
		return "SOCK(" + strconv.Itoa(int(t)) + ")"
	}
}

// IsUnixFamily reports whether f is the Unix-domain family. It is always
// false on platforms without AF_UNIX.
func IsUnixFamily(f Family) bool {
	return hasUnixFamily && f == FamilyUnix
}

// HostFromAddress extracts the destination host from a connect address. For
// Unix-domain sockets the host is the socket path. For Internet sockets the
// address must be "host:port"; ok is false when it is malformed.
func HostFromAddress(family Family, address string) (host string, ok bool) {
	if IsUnixFamily(family) {
		return address, address != ""
	}
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return "", false
	}
	return host, true
}

// errAlreadyConnected is returned by Connect on a socket that already has a
// connection.
var errAlreadyConnected = errors.New("guard: socket is already connected")

// Socket is a socket handle created by NewSocket. It records the family and
// type it was constructed with and holds the connection once Connect
// succeeds.
type Socket struct {
	family  Family
	sotype  SockType
	network string

	mu   sync.Mutex
	conn net.Conn
}

// NewSocket constructs an unconnected socket through the live constructor.
func NewSocket(family Family, sotype SockType) (*Socket, error) {
	return live().Socket(family, sotype)
}

// Family returns the socket's address family.
func (s *Socket) Family() Family { return s.family }

// Type returns the socket's type.
func (s *Socket) Type() SockType { return s.sotype }

// Network returns the Go network name used to connect the socket, such as
// "tcp4" or "unix".
func (s *Socket) Network() string { return s.network }

// Connect connects the socket to address through the live connect operation.
// For Internet sockets address is "host:port"; for Unix-domain sockets it is
// the socket path.
func (s *Socket) Connect(ctx context.Context, address string) error {
	return live().Connect(ctx, s, address)
}

// Conn returns the connection established by Connect, or nil.
func (s *Socket) Conn() net.Conn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn
}

// Close closes the underlying connection, if any.
func (s *Socket) Close() error {
	s.mu.Lock()
	c := s.conn
	s.conn = nil
	s.mu.Unlock()
	if c == nil {
		return nil
	}
	return c.Close()
}

// newSocket is the original constructor.
func newSocket(family Family, sotype SockType) (*Socket, error) {
	network, err := networkFor(family, sotype)
	if err != nil {
		return nil, err
	}
	return &Socket{family: family, sotype: sotype, network: network}, nil
}

// connectSocket is the original connect operation.
func connectSocket(ctx context.Context, s *Socket, address string) error {
	s.mu.Lock()
	connected := s.conn != nil
	s.mu.Unlock()
	if connected {
		return errAlreadyConnected
	}
	var d net.Dialer
	c, err := d.DialContext(ctx, s.network, address)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		_ = c.Close()
		return errAlreadyConnected
	}
	s.conn = c
	return nil
}

// networkFor maps a family and type to the Go network name.
func networkFor(family Family, sotype SockType) (string, error) {
	var prefix, suffix string
	switch {
	case family == FamilyInet:
		suffix = "4"
	case family == FamilyInet6:
		suffix = "6"
	case family == FamilyUnix:
		switch sotype {
		case SockStream:
			return "unix", nil
		case SockDgram:
			return "unixgram", nil
		case SockSeqPacket:
			return "unixpacket", nil
		}
		return "", fmt.Errorf("guard: unsupported socket type %v for %v", sotype, family)
	default:
		return "", fmt.Errorf("guard: unsupported address family %v", family)
	}
	switch sotype {
	case SockStream:
		prefix = "tcp"
	case SockDgram:
		prefix = "udp"
	default:
		return "", fmt.Errorf("guard: unsupported socket type %v for %v", sotype, family)
	}
	return prefix + suffix, nil
}

// familyFor maps a Go network name and address to the family and type a
// socket for it is constructed with. For "tcp" and "udp" the family follows
// the address: an IPv6 literal host selects FamilyInet6, anything else
// FamilyInet.
func familyFor(network, address string) (Family, SockType, error) {
	switch network {
	case "tcp4":
		return FamilyInet, SockStream, nil
	case "tcp6":
		return FamilyInet6, SockStream, nil
	case "udp4":
		return FamilyInet, SockDgram, nil
	case "udp6":
		return FamilyInet6, SockDgram, nil
	case "tcp", "udp":
		sotype := SockStream
		if network == "udp" {
			sotype = SockDgram
		}
		host, _, err := net.SplitHostPort(address)
		if err == nil && strings.Contains(host, ":") {
			return FamilyInet6, sotype, nil
		}
		return FamilyInet, sotype, nil
	case "unix":
		return FamilyUnix, SockStream, nil
	case "unixgram":
		return FamilyUnix, SockDgram, nil
	case "unixpacket":
		return FamilyUnix, SockSeqPacket, nil
	}
	return FamilyUnspec, 0, net.UnknownNetworkError(network)
}
