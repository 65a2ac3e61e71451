package sockguard

import (
	"github.com/zhangyunhao116/sockguard/allowlist"
)

// Mode is the policy chosen for one test.
type Mode int

const (
	// ModeDefault leaves the original primitives in place.
	ModeDefault Mode = iota

	// ModeForceEnabled opens the network because of --force-enable-socket.
	ModeForceEnabled

	// ModeEnabled opens the network because the test asked for it.
	ModeEnabled

	// ModeDisabled blocks sockets because the test asked for it, or
	// restricts connect when the disable_socket mark carries hosts.
	ModeDisabled

	// ModeAllowHosts restricts connect to an allow-list.
	ModeAllowHosts

	// ModeGlobalDisabled blocks sockets because of --disable-socket.
	ModeGlobalDisabled
)

// String returns the string representation of a Mode.
func (m Mode) String() string {
	switch m {
	case ModeDefault:
		return "default"
	case ModeForceEnabled:
		return "force-enabled"
	case ModeEnabled:
		return "enabled"
	case ModeDisabled:
		return "disabled"
	case ModeAllowHosts:
		return "allow-hosts"
	case ModeGlobalDisabled:
		return "global-disabled"
	default:
		return "unknown"
	}
}

// Decision is the outcome of policy resolution for one test.
type Decision struct {
	Mode Mode

	// AllowHosts is the raw allow-list to filter connect with. It is nil
	// when no host restriction applies.
	AllowHosts []string

	// Allowed is the allow-set built from AllowHosts when the decision was
	// applied. It is nil before that and when AllowHosts is nil.
	Allowed *allowlist.AllowedSet
}

// Blocks reports whether the decision blocks socket construction.
func (d Decision) Blocks() bool {
	return (d.Mode == ModeDisabled && d.AllowHosts == nil) || d.Mode == ModeGlobalDisabled
}

// Filters reports whether the decision filters connect by host.
func (d Decision) Filters() bool {
	return d.AllowHosts != nil && (d.Mode == ModeDisabled || d.Mode == ModeAllowHosts)
}

// Resolve decides which policy applies to item under cfg. Sources are
// consulted in a fixed order and the first match wins:
//
//  1. cfg.ForceEnableSocket
//  2. the socket_enabled fixture or an enable_socket mark
//  3. the socket_disabled fixture or a disable_socket mark
//  4. an allow_hosts mark, else cfg.AllowHosts
//  5. cfg.DisableSocket
//  6. default: no change
//
// Resolve has no side effects.
func Resolve(cfg *Config, item *Item) Decision {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.ForceEnableSocket {
		return Decision{Mode: ModeForceEnabled}
	}

	if item.HasFixture(FixtureSocketEnabled) {
		return Decision{Mode: ModeEnabled}
	}
	if _, ok := item.ClosestMark(MarkEnableSocket); ok {
		return Decision{Mode: ModeEnabled}
	}

	if item.HasFixture(FixtureSocketDisabled) {
		return Decision{Mode: ModeDisabled}
	}
	if m, ok := item.ClosestMark(MarkDisableSocket); ok {
		return Decision{Mode: ModeDisabled, AllowHosts: m.Hosts}
	}

	if m, ok := item.ClosestMark(MarkAllowHosts); ok {
		return Decision{Mode: ModeAllowHosts, AllowHosts: nonNil(m.Hosts)}
	}
	if cfg.AllowHosts != nil {
		return Decision{Mode: ModeAllowHosts, AllowHosts: cfg.AllowHosts}
	}

	if cfg.DisableSocket {
		return Decision{Mode: ModeGlobalDisabled}
	}
	return Decision{Mode: ModeDefault}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
