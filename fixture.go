package sockguard

import (
	"fmt"
	"sort"
)

// Fixture names understood by the policy resolver.
const (
	// FixtureSocketDisabled blocks sockets for the duration of a test.
	FixtureSocketDisabled = "socket_disabled"

	// FixtureSocketEnabled opens the network for the duration of a test.
	FixtureSocketEnabled = "socket_enabled"
)

// FixtureFunc is a reusable setup procedure. It installs a policy for the
// duration of t and restores the original primitives when t ends.
type FixtureFunc func(t TB, opts ...Option) Decision

// SocketDisabled blocks socket construction for the duration of t. It is
// equivalent to Run with UseFixture(FixtureSocketDisabled), so the run-wide
// force-enable flag and an enable request still take precedence.
func (c *Controller) SocketDisabled(t TB, opts ...Option) Decision {
	t.Helper()
	return c.Run(t, append(opts[:len(opts):len(opts)], UseFixture(FixtureSocketDisabled))...)
}

// SocketEnabled opens the network for the duration of t, even under
// --disable-socket.
func (c *Controller) SocketEnabled(t TB, opts ...Option) Decision {
	t.Helper()
	return c.Run(t, append(opts[:len(opts):len(opts)], UseFixture(FixtureSocketEnabled))...)
}

// Fixture returns the setup procedure registered under name.
func (c *Controller) Fixture(name string) (FixtureFunc, error) {
	switch name {
	case FixtureSocketDisabled:
		return c.SocketDisabled, nil
	case FixtureSocketEnabled:
		return c.SocketEnabled, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFixture, name)
}

// Fixtures returns the names of the registered setup procedures, sorted.
func Fixtures() []string {
	names := []string{FixtureSocketDisabled, FixtureSocketEnabled}
	sort.Strings(names)
	return names
}
