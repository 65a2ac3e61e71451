package guard

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/zhangyunhao116/sockguard/allowlist"
)

// SocketFunc constructs an unconnected socket of the given family and type.
type SocketFunc func(family Family, sotype SockType) (*Socket, error)

// ConnectFunc connects s to address.
type ConnectFunc func(ctx context.Context, s *Socket, address string) error

// State describes which primitives are live.
type State uint8

const (
	// StateOriginal means both primitives are the originals.
	StateOriginal State = 0
	// StateBlocked means the constructor is guarded.
	StateBlocked State = 1 << 0
	// StateFiltered means connect is filtered by an allow-set.
	StateFiltered State = 1 << 1
)

// String returns the string representation of a State.
func (s State) String() string {
	switch s {
	case StateOriginal:
		return "original"
	case StateBlocked:
		return "blocked"
	case StateFiltered:
		return "filtered"
	case StateBlocked | StateFiltered:
		return "blocked+filtered"
	default:
		return "unknown"
	}
}

// Primitives is one configuration of the swap point.
type Primitives struct {
	Socket  SocketFunc
	Connect ConnectFunc
	State   State
}

var (
	// original is captured once and never mutated.
	original = Primitives{
		Socket:  newSocket,
		Connect: connectSocket,
		State:   StateOriginal,
	}

	// active holds the live primitives. Readers load it without locking;
	// writers serialize on swapMu so read-modify-write installs compose.
	active atomic.Pointer[Primitives]
	swapMu sync.Mutex
)

func init() {
	p := original
	active.Store(&p)
}

// Original returns the primitives captured at package initialization.
func Original() Primitives {
	return original
}

// Active returns the state of the live primitives.
func Active() State {
	return active.Load().State
}

// IsOriginal reports whether the original primitives are live.
func IsOriginal() bool {
	return Active() == StateOriginal
}

// InstallBlockingConstructor replaces the live constructor with one that
// fails with *SocketBlockedError, unless the requested family is Unix-domain
// and allowUnixSocket is true. The live connect is left as it is.
func InstallBlockingConstructor(allowUnixSocket bool) {
	swapMu.Lock()
	defer swapMu.Unlock()
	cur := active.Load()
	next := &Primitives{
		Socket:  blockingSocket(allowUnixSocket),
		Connect: cur.Connect,
		State:   cur.State | StateBlocked,
	}
	active.Store(next)
}

// InstallHostFilteredConnect replaces the live connect with one that only
// delegates to the original when the destination host is in set, or when the
// socket is Unix-domain and allowUnixSocket is true. Anything else fails with
// *ConnectBlockedError. A nil set allows nothing. The live constructor is
// left as it is.
func InstallHostFilteredConnect(set *allowlist.AllowedSet, allowUnixSocket bool) {
	swapMu.Lock()
	defer swapMu.Unlock()
	cur := active.Load()
	next := &Primitives{
		Socket:  cur.Socket,
		Connect: filteredConnect(set, allowUnixSocket),
		State:   cur.State | StateFiltered,
	}
	active.Store(next)
}

// RestoreOriginal makes the original primitives live. It is idempotent.
func RestoreOriginal() {
	swapMu.Lock()
	defer swapMu.Unlock()
	if active.Load().State == StateOriginal {
		return
	}
	p := original
	active.Store(&p)
}

// EnableUnrestricted makes the original constructor live and leaves connect
// unfiltered. Calling it repeatedly has the same effect as calling it once.
func EnableUnrestricted() {
	RestoreOriginal()
}

// Disable blocks socket construction, except Unix-domain sockets when
// allowUnixSocket is true.
func Disable(allowUnixSocket bool) {
	InstallBlockingConstructor(allowUnixSocket)
}

// Enable lifts every restriction installed by this package.
func Enable() {
	EnableUnrestricted()
}

// AllowHosts normalizes hosts and installs a host-filtered connect for the
// resulting allow-set. A nil hosts slice means no restriction: nothing is
// installed and AllowHosts returns nil.
func AllowHosts(ctx context.Context, hosts []string, allowUnixSocket bool, cache *allowlist.Cache, r allowlist.Resolver) *allowlist.AllowedSet {
	set := allowlist.New(ctx, hosts, cache, r)
	if set == nil {
		return nil
	}
	InstallHostFilteredConnect(set, allowUnixSocket)
	return set
}

// live returns the current primitives.
func live() *Primitives {
	return active.Load()
}

func blockingSocket(allowUnixSocket bool) SocketFunc {
	return func(family Family, sotype SockType) (*Socket, error) {
		if allowUnixSocket && IsUnixFamily(family) {
			return original.Socket(family, sotype)
		}
		return nil, &SocketBlockedError{Family: family, Type: sotype}
	}
}

func filteredConnect(set *allowlist.AllowedSet, allowUnixSocket bool) ConnectFunc {
	display := set.Display()
	return func(ctx context.Context, s *Socket, address string) error {
		if allowUnixSocket && IsUnixFamily(s.Family()) {
			return original.Connect(ctx, s, address)
		}
		host, ok := HostFromAddress(s.Family(), address)
		if ok && set.Contains(host) {
			return original.Connect(ctx, s, address)
		}
		return &ConnectBlockedError{Host: host, Allowed: append([]string(nil), display...)}
	}
}
