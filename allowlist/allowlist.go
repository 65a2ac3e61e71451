package allowlist

import (
	"context"
	"sort"
	"strings"
)

// Entry pairs one allow-list token with the addresses it stands for.
// An IP literal stands for itself; a hostname stands for its resolved
// addresses, which may be empty.
type Entry struct {
	Host string
	IPs  []string
}

// SplitCSV splits a comma-separated host list into tokens. Tokens are
// returned as written; Normalize trims them.
func SplitCSV(s string) []string {
	return strings.Split(s, ",")
}

// Normalize maps every token in hosts to the addresses it allows. Tokens are
// trimmed and empty tokens are dropped. Hostnames are looked up through cache
// first and resolved with r on a miss; the result is stored in cache whether
// or not it is empty. The returned entries keep the order in which each token
// first appeared, and repeated tokens are merged.
//
// A nil cache disables caching across calls.
func Normalize(ctx context.Context, hosts []string, cache *Cache, r Resolver) []Entry {
	if cache == nil {
		cache = NewCache()
	}
	var entries []Entry
	index := make(map[string]int, len(hosts))
	for _, raw := range hosts {
		host := strings.TrimSpace(raw)
		if host == "" {
			continue
		}
		var ips []string
		if IsIP(host) {
			ips = []string{host}
		} else if cached, ok := cache.Get(host); ok {
			ips = cached
		} else {
			ips = cache.Put(host, ResolveHostname(ctx, r, host))
		}
		if i, ok := index[host]; ok {
			entries[i].IPs = sortedUnique(append(entries[i].IPs, ips...))
			continue
		}
		index[host] = len(entries)
		entries = append(entries, Entry{Host: host, IPs: append([]string(nil), ips...)})
	}
	return entries
}

// AllowedSet is the resolved collection of hosts and addresses a guarded
// connect may reach. The zero value allows nothing.
type AllowedSet struct {
	permitted map[string]struct{}
	display   []string
}

// Build derives an AllowedSet from normalized entries. The permitted set is
// the union of every token and every resolved address. The display list shows
// a token bare when its only address is itself, and as "token (ip1,ip2)"
// otherwise; it is sorted so error messages are deterministic.
func Build(entries []Entry) *AllowedSet {
	s := &AllowedSet{
		permitted: make(map[string]struct{}),
		display:   make([]string, 0, len(entries)),
	}
	for _, e := range entries {
		s.permitted[e.Host] = struct{}{}
		ips := sortedUnique(e.IPs)
		for _, ip := range ips {
			s.permitted[ip] = struct{}{}
		}
		if len(ips) == 1 && ips[0] == e.Host {
			s.display = append(s.display, e.Host)
		} else {
			s.display = append(s.display, e.Host+" ("+strings.Join(ips, ",")+")")
		}
	}
	sort.Strings(s.display)
	return s
}

// New normalizes hosts and builds the resulting AllowedSet in one step.
// A nil hosts slice means no restriction applies and New returns nil; an
// empty non-nil slice yields a set that allows nothing.
func New(ctx context.Context, hosts []string, cache *Cache, r Resolver) *AllowedSet {
	if hosts == nil {
		return nil
	}
	return Build(Normalize(ctx, hosts, cache, r))
}

// Contains reports whether host is an allowed token or one of the addresses
// an allowed token resolved to. Matching is exact: a caller dialing an IP is
// only allowed if that IP literal is in the set, not because some allowed
// hostname could be re-resolved to it.
func (s *AllowedSet) Contains(host string) bool {
	if s == nil {
		return false
	}
	_, ok := s.permitted[host]
	return ok
}

// Display returns a copy of the sorted display list.
func (s *AllowedSet) Display() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.display...)
}

// Len returns the number of distinct permitted hosts and addresses.
func (s *AllowedSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.permitted)
}

// String returns the display list joined with commas, the form used in
// blocked-connect error messages.
func (s *AllowedSet) String() string {
	if s == nil {
		return ""
	}
	return strings.Join(s.display, ",")
}

// sortedUnique returns a sorted copy of in with duplicates removed.
func sortedUnique(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := append([]string(nil), in...)
	sort.Strings(out)
	n := 1
	for i := 1; i < len(out); i++ {
		if out[i] != out[n-1] {
			out[n] = out[i]
			n++
		}
	}
	return out[:n]
}
