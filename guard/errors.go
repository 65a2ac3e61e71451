package guard

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors returned by guarded primitives.
var (
	// ErrSocketBlocked indicates socket construction was refused by a
	// blocking constructor.
	ErrSocketBlocked = errors.New("guard: socket creation blocked")

	// ErrConnectBlocked indicates a connect was refused because the
	// destination is not in the allow-set.
	ErrConnectBlocked = errors.New("guard: connection blocked")
)

// SocketBlockedError is returned when a socket is constructed while a
// blocking constructor is installed.
// It wraps ErrSocketBlocked so that errors.Is(err, ErrSocketBlocked) works.
type SocketBlockedError struct {
	// Family is the address family that was requested.
	Family Family
	// Type is the socket type that was requested.
	Type SockType
}

func (e *SocketBlockedError) Error() string {
	return "A test tried to use socket.socket."
}

func (e *SocketBlockedError) Unwrap() error {
	return ErrSocketBlocked
}

// ConnectBlockedError is returned when a connect targets a host outside the
// installed allow-set.
// It wraps ErrConnectBlocked so that errors.Is(err, ErrConnectBlocked) works.
type ConnectBlockedError struct {
	// Host is the destination host extracted from the connect address. It is
	// empty when no host could be extracted.
	Host string
	// Allowed is the sorted display list of the allow-set.
	Allowed []string
}

func (e *ConnectBlockedError) Error() string {
	return fmt.Sprintf(`A test tried to use socket.socket.connect() with host "%s" (allowed: "%s").`,
		e.Host, strings.Join(e.Allowed, ","))
}

func (e *ConnectBlockedError) Unwrap() error {
	return ErrConnectBlocked
}
