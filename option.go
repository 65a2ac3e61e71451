package sockguard

// Option declares part of a test's socket policy. Options are passed to
// Controller.Run and NewItem.
type Option func(*Item)

// EnableSocket marks the test with enable_socket: the network stays open
// even under --disable-socket.
func EnableSocket() Option {
	return WithMark(Mark{Name: MarkEnableSocket})
}

// DisableSocket marks the test with disable_socket. Without hosts socket
// construction is blocked for the test; with hosts, connect is restricted to
// them instead. Each host argument may itself be a comma-separated list.
func DisableSocket(hosts ...string) Option {
	m := Mark{Name: MarkDisableSocket}
	if len(hosts) > 0 {
		m.Hosts = normalizeHosts(hosts)
	}
	return WithMark(m)
}

// AllowHosts marks the test with allow_hosts: connect is restricted to hosts
// for this test, overriding --allow-hosts. Each host argument may itself be a
// comma-separated list. With no hosts every connect is refused.
func AllowHosts(hosts ...string) Option {
	return WithMark(Mark{Name: MarkAllowHosts, Hosts: normalizeHosts(hosts)})
}

// WithMark attaches an arbitrary mark to the test.
func WithMark(m Mark) Option {
	if m.Hosts != nil {
		m.Hosts = append([]string{}, m.Hosts...)
	}
	return func(it *Item) {
		it.Marks = append(it.Marks, m)
	}
}

// UseFixture records that the test requested the named fixture.
func UseFixture(name string) Option {
	return func(it *Item) {
		it.Fixtures = append(it.Fixtures, name)
	}
}
