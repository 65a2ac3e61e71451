package sockguard

import (
	"errors"

	"github.com/zhangyunhao116/sockguard/guard"
)

// Sentinel errors returned by the sockguard package.
var (
	// ErrConfigInvalid indicates the provided configuration failed validation.
	ErrConfigInvalid = errors.New("sockguard: invalid configuration")

	// ErrGuardBusy indicates a test tried to install a policy while another
	// test still holds the process-wide guard.
	ErrGuardBusy = errors.New("sockguard: guard is held by another test")

	// ErrUnknownFixture indicates a fixture name that is not registered.
	ErrUnknownFixture = errors.New("sockguard: unknown fixture")

	// ErrSocketBlocked is returned when a socket is constructed under a
	// blocking policy. It is the same value as guard.ErrSocketBlocked.
	ErrSocketBlocked = guard.ErrSocketBlocked

	// ErrConnectBlocked is returned when a connect targets a host outside
	// the allow-set. It is the same value as guard.ErrConnectBlocked.
	ErrConnectBlocked = guard.ErrConnectBlocked
)

// SocketBlockedError is an alias for guard.SocketBlockedError.
type SocketBlockedError = guard.SocketBlockedError

// ConnectBlockedError is an alias for guard.ConnectBlockedError.
type ConnectBlockedError = guard.ConnectBlockedError
