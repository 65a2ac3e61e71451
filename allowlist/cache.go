package allowlist

import "sync"

// Cache maps hostnames to their resolved IP addresses for the duration of a
// run. Entries are only ever added; a hostname that has been resolved once is
// never looked up again, even if the result was empty.
//
// It is safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	entries map[string][]string
}

// NewCache returns an empty Cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string][]string)}
}

// Get returns the cached addresses for host and whether host has been
// resolved before.
func (c *Cache) Get(host string) ([]string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ips, ok := c.entries[host]
	return ips, ok
}

// Put records the addresses for host unless host is already present.
// It returns the addresses that are cached after the call.
func (c *Cache) Put(host string, ips []string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries == nil {
		c.entries = make(map[string][]string)
	}
	if existing, ok := c.entries[host]; ok {
		return existing
	}
	cpy := append([]string(nil), ips...)
	c.entries[host] = cpy
	return cpy
}

// Len returns the number of resolved hostnames.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
