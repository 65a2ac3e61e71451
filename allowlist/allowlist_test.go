package allowlist

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
)

// fakeResolver is a Resolver backed by a static table. Hosts missing from the
// table fail to resolve. Every lookup is counted.
type fakeResolver struct {
	mu      sync.Mutex
	table   map[string][]string
	lookups map[string]int
}

func newFakeResolver(table map[string][]string) *fakeResolver {
	return &fakeResolver{table: table, lookups: make(map[string]int)}
}

func (r *fakeResolver) LookupHost(_ context.Context, host string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookups[host]++
	addrs, ok := r.table[host]
	if !ok {
		return nil, errors.New("no such host")
	}
	return addrs, nil
}

func (r *fakeResolver) count(host string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lookups[host]
}

// ---------------------------------------------------------------------------
// IsIP / ResolveHostname tests
// ---------------------------------------------------------------------------

func TestIsIP(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"127.0.0.1", true},
		{"93.184.216.34", true},
		{"::1", true},
		{"2001:db8::68", true},
		{"fe80::1%eth0", true},
		{"localhost", false},
		{"example.com", false},
		{"1.2.3", false},
		{"256.1.1.1", false},
		{"", false},
		{"127.0.0.1:80", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := IsIP(tt.in); got != tt.want {
				t.Errorf("IsIP(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestResolveHostname(t *testing.T) {
	r := newFakeResolver(map[string][]string{
		"localhost": {"::1", "127.0.0.1", "127.0.0.1"},
	})
	got := ResolveHostname(context.Background(), r, "localhost")
	want := []string{"127.0.0.1", "::1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ResolveHostname(localhost) = %v, want %v", got, want)
	}
}

func TestResolveHostname_FailureIsEmpty(t *testing.T) {
	r := newFakeResolver(nil)
	if got := ResolveHostname(context.Background(), r, "does-not-exist.invalid"); len(got) != 0 {
		t.Errorf("ResolveHostname on failure = %v, want empty", got)
	}
}

func TestResolveHostname_NilResolver(t *testing.T) {
	if got := ResolveHostname(context.Background(), nil, "localhost"); got != nil {
		t.Errorf("ResolveHostname with nil resolver = %v, want nil", got)
	}
}

// ---------------------------------------------------------------------------
// Normalize tests
// ---------------------------------------------------------------------------

func TestNormalize(t *testing.T) {
	r := newFakeResolver(map[string][]string{
		"localhost":   {"127.0.0.1", "::1"},
		"example.com": {"93.184.216.34"},
	})
	got := Normalize(context.Background(),
		SplitCSV(" localhost, 1.2.3.4 ,example.com,,unresolvable.invalid"), NewCache(), r)
	want := []Entry{
		{Host: "localhost", IPs: []string{"127.0.0.1", "::1"}},
		{Host: "1.2.3.4", IPs: []string{"1.2.3.4"}},
		{Host: "example.com", IPs: []string{"93.184.216.34"}},
		{Host: "unresolvable.invalid", IPs: nil},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Normalize() = %#v, want %#v", got, want)
	}
}

func TestNormalize_DuplicateTokensMerge(t *testing.T) {
	r := newFakeResolver(map[string][]string{"localhost": {"127.0.0.1"}})
	got := Normalize(context.Background(), []string{"localhost", "1.2.3.4", " localhost "}, nil, r)
	if len(got) != 2 {
		t.Fatalf("Normalize() returned %d entries, want 2: %v", len(got), got)
	}
	if got[0].Host != "localhost" || got[1].Host != "1.2.3.4" {
		t.Errorf("entry order = [%s %s], want [localhost 1.2.3.4]", got[0].Host, got[1].Host)
	}
}

func TestNormalize_LiteralIPIsNotResolved(t *testing.T) {
	r := newFakeResolver(nil)
	Normalize(context.Background(), []string{"10.0.0.1", "::1"}, NewCache(), r)
	if n := r.count("10.0.0.1") + r.count("::1"); n != 0 {
		t.Errorf("literal IPs triggered %d lookups, want 0", n)
	}
}

func TestNormalize_CacheResolvesOnce(t *testing.T) {
	r := newFakeResolver(map[string][]string{"example.com": {"93.184.216.34"}})
	cache := NewCache()
	for i := 0; i < 3; i++ {
		Normalize(context.Background(), []string{"example.com", "missing.invalid"}, cache, r)
	}
	if n := r.count("example.com"); n != 1 {
		t.Errorf("example.com resolved %d times, want 1", n)
	}
	// Failed lookups are cached as empty too.
	if n := r.count("missing.invalid"); n != 1 {
		t.Errorf("missing.invalid resolved %d times, want 1", n)
	}
	if cache.Len() != 2 {
		t.Errorf("cache.Len() = %d, want 2", cache.Len())
	}
}

func TestCache_PutKeepsFirst(t *testing.T) {
	c := NewCache()
	c.Put("a", []string{"1.1.1.1"})
	got := c.Put("a", []string{"2.2.2.2"})
	if !reflect.DeepEqual(got, []string{"1.1.1.1"}) {
		t.Errorf("second Put returned %v, want first value", got)
	}
	var zero Cache
	zero.Put("b", nil)
	if _, ok := zero.Get("b"); !ok {
		t.Error("zero Cache did not record entry")
	}
}

// ---------------------------------------------------------------------------
// AllowedSet tests
// ---------------------------------------------------------------------------

func TestBuild_Display(t *testing.T) {
	s := Build([]Entry{
		{Host: "localhost", IPs: []string{"::1", "127.0.0.1"}},
		{Host: "93.184.216.34", IPs: []string{"93.184.216.34"}},
		{Host: "broken.invalid"},
		{Host: "1.2.3.4", IPs: []string{"1.2.3.4"}},
	})
	want := []string{
		"1.2.3.4",
		"93.184.216.34",
		"broken.invalid ()",
		"localhost (127.0.0.1,::1)",
	}
	if got := s.Display(); !reflect.DeepEqual(got, want) {
		t.Errorf("Display() = %v, want %v", got, want)
	}
	if got, want := s.String(), "1.2.3.4,93.184.216.34,broken.invalid (),localhost (127.0.0.1,::1)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestBuild_HostnameResolvingToItselfIsBare(t *testing.T) {
	s := Build([]Entry{{Host: "weird", IPs: []string{"weird"}}})
	if got := s.String(); got != "weird" {
		t.Errorf("String() = %q, want %q", got, "weird")
	}
}

func TestAllowedSet_Contains(t *testing.T) {
	r := newFakeResolver(map[string][]string{"localhost": {"127.0.0.1", "::1"}})
	s := New(context.Background(), []string{"localhost", "93.184.216.34"}, NewCache(), r)

	tests := []struct {
		host string
		want bool
	}{
		{"localhost", true},
		{"127.0.0.1", true},
		{"::1", true},
		{"93.184.216.34", true},
		{"1.2.3.4", false},
		{"example.com", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			if got := s.Contains(tt.host); got != tt.want {
				t.Errorf("Contains(%q) = %v, want %v", tt.host, got, tt.want)
			}
		})
	}
	if s.Len() != 4 {
		t.Errorf("Len() = %d, want 4", s.Len())
	}
}

func TestAllowedSet_LiteralVersusResolved(t *testing.T) {
	// "localhost" resolving to a different loopback address than the one the
	// caller dials must not admit that address.
	r := newFakeResolver(map[string][]string{"localhost": {"::1"}})
	s := New(context.Background(), []string{"localhost"}, nil, r)
	if s.Contains("127.0.0.1") {
		t.Error("Contains(127.0.0.1) = true, want false")
	}
	if !s.Contains("localhost") {
		t.Error("Contains(localhost) = false, want true")
	}
}

func TestNew_NilMeansNoRestriction(t *testing.T) {
	if s := New(context.Background(), nil, nil, nil); s != nil {
		t.Errorf("New(nil) = %v, want nil", s)
	}
	s := New(context.Background(), []string{}, nil, nil)
	if s == nil {
		t.Fatal("New([]) = nil, want empty set")
	}
	if s.Contains("127.0.0.1") || s.Len() != 0 {
		t.Error("empty allow-list must allow nothing")
	}
}

func TestAllowedSet_NilReceiver(t *testing.T) {
	var s *AllowedSet
	if s.Contains("x") || s.Len() != 0 || s.String() != "" || s.Display() != nil {
		t.Error("nil AllowedSet must behave as empty")
	}
}

func TestSortedUnique(t *testing.T) {
	got := sortedUnique([]string{"b", "a", "b", "c", "a"})
	if !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("sortedUnique = %v", got)
	}
	if sortedUnique(nil) != nil {
		t.Error("sortedUnique(nil) != nil")
	}
}
