package sockguard

import (
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/zhangyunhao116/sockguard/allowlist"
)

// defaultResolveTimeout bounds hostname resolution for one allow-list.
const defaultResolveTimeout = 5 * time.Second

// Config is the run-wide configuration. It is read once when a Controller is
// created and never changes afterwards.
type Config struct {
	// DisableSocket blocks socket construction for every test that does not
	// declare its own policy.
	DisableSocket bool

	// ForceEnableSocket leaves the network open for every test, overriding
	// DisableSocket and all per-test declarations.
	ForceEnableSocket bool

	// AllowUnixSocket exempts Unix-domain sockets from blocking and from
	// host filtering.
	AllowUnixSocket bool

	// AllowHosts restricts connect to these hosts for every test that does
	// not carry its own allow_hosts mark. Entries are IP literals or
	// hostnames. A nil slice means no run-wide restriction.
	AllowHosts []string

	// ResolveTimeout bounds hostname resolution when building an allow-set.
	// 0 means no timeout.
	ResolveTimeout time.Duration

	// Resolver resolves allowed hostnames. If nil, net.DefaultResolver is used.
	Resolver allowlist.Resolver

	// Logger is the structured logger for policy decisions and leak
	// warnings. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// DefaultConfig returns a Config that leaves the network open.
func DefaultConfig() *Config {
	return &Config{
		ResolveTimeout: defaultResolveTimeout,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.ResolveTimeout < 0 {
		return fmt.Errorf("%w: ResolveTimeout must not be negative", ErrConfigInvalid)
	}
	if err := validateHosts(c.AllowHosts); err != nil {
		return fmt.Errorf("%w: AllowHosts: %w", ErrConfigInvalid, err)
	}
	return nil
}

// clone returns a deep copy of c.
func (c *Config) clone() *Config {
	cpy := *c
	if c.AllowHosts != nil {
		cpy.AllowHosts = append([]string{}, c.AllowHosts...)
	}
	return &cpy
}

// ParseHosts splits a comma-separated host list into trimmed, non-empty
// entries. A blank string yields nil, meaning no restriction.
func ParseHosts(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	return normalizeHosts(allowlist.SplitCSV(csv))
}

// normalizeHosts trims every entry, splits entries that contain commas and
// drops empty ones. The result is never nil.
func normalizeHosts(hosts []string) []string {
	out := []string{}
	for _, h := range hosts {
		for _, tok := range allowlist.SplitCSV(h) {
			if tok = strings.TrimSpace(tok); tok != "" {
				out = append(out, tok)
			}
		}
	}
	return out
}

// validateHosts rejects entries that are clearly not hosts: URLs and
// host:port pairs.
func validateHosts(hosts []string) error {
	for _, h := range hosts {
		h = strings.TrimSpace(h)
		if strings.Contains(h, "://") {
			return fmt.Errorf("host %q must not contain a scheme", h)
		}
		if _, _, err := net.SplitHostPort(h); err == nil {
			return fmt.Errorf("host %q must not contain a port", h)
		}
	}
	return nil
}
