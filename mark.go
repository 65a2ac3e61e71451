package sockguard

// Mark names understood by the policy resolver.
const (
	// MarkDisableSocket blocks sockets for one test. With hosts it restricts
	// connect to those hosts instead.
	MarkDisableSocket = "disable_socket"

	// MarkEnableSocket opens the network for one test.
	MarkEnableSocket = "enable_socket"

	// MarkAllowHosts restricts connect to a list of hosts for one test.
	MarkAllowHosts = "allow_hosts"
)

// Mark is a declarative per-test tag: a name plus optional host arguments.
// Marks with names sockguard does not know are carried but ignored.
type Mark struct {
	Name string

	// Hosts holds the mark's host arguments. It is nil when the mark was
	// given without arguments.
	Hosts []string
}

// Item is the per-test metadata bag read by the policy resolver.
type Item struct {
	// Name identifies the test in logs and busy errors.
	Name string

	// Marks are the test's declarative tags, outermost first. When a name
	// occurs more than once the last one is the closest and wins.
	Marks []Mark

	// Fixtures lists the setup procedures the test requested by name.
	Fixtures []string
}

// NewItem returns an Item for the named test with opts applied.
func NewItem(name string, opts ...Option) *Item {
	it := &Item{Name: name}
	for _, opt := range opts {
		opt(it)
	}
	return it
}

// ClosestMark returns the innermost mark with the given name.
func (it *Item) ClosestMark(name string) (Mark, bool) {
	if it == nil {
		return Mark{}, false
	}
	for i := len(it.Marks) - 1; i >= 0; i-- {
		if it.Marks[i].Name == name {
			return it.Marks[i], true
		}
	}
	return Mark{}, false
}

// HasFixture reports whether the test requested the named fixture.
func (it *Item) HasFixture(name string) bool {
	if it == nil {
		return false
	}
	for _, f := range it.Fixtures {
		if f == name {
			return true
		}
	}
	return false
}
