package allowlist

import (
	"context"
	"net/netip"
)

// Resolver performs forward address lookups. *net.Resolver satisfies it.
type Resolver interface {
	LookupHost(ctx context.Context, host string) (addrs []string, err error)
}

// IsIP reports whether s is a valid IPv4 or IPv6 literal.
// Zoned IPv6 addresses such as "fe80::1%eth0" are accepted.
func IsIP(s string) bool {
	_, err := netip.ParseAddr(s)
	return err == nil
}

// ResolveHostname returns the set of IP literals name resolves to, in sorted
// order without duplicates. Lookup failures yield an empty result rather than
// an error: an unresolvable allowed host contributes no addresses, so nothing
// but the literal hostname can ever match it.
func ResolveHostname(ctx context.Context, r Resolver, name string) []string {
	if r == nil {
		return nil
	}
	addrs, err := r.LookupHost(ctx, name)
	if err != nil {
		return nil
	}
	return sortedUnique(addrs)
}
