package sockguard

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"github.com/zhangyunhao116/sockguard/allowlist"
	"github.com/zhangyunhao116/sockguard/guard"
)

// anonymousTest names an Item without a name in logs and busy errors.
const anonymousTest = "<anonymous>"

// Controller installs the resolved policy before each test and restores the
// original primitives afterwards. It owns the run's resolution cache.
//
// Tests run through one Controller must not overlap: the guard is process
// wide, so a Setup while another test holds it fails with ErrGuardBusy.
// Tests that call t.Parallel cannot use a Controller.
type Controller struct {
	cfg      *Config
	logger   *slog.Logger
	resolver allowlist.Resolver
	cache    *allowlist.Cache

	mu    sync.Mutex
	owner string // test currently holding the guard; "" when idle
}

// New creates a Controller for the run-wide configuration cfg. A nil cfg
// means DefaultConfig(). cfg is copied; later changes to it have no effect.
func New(cfg *Config) (*Controller, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfgCopy := cfg.clone()

	logger := cfgCopy.Logger
	if logger == nil {
		logger = slog.Default()
	}
	var resolver allowlist.Resolver = net.DefaultResolver
	if cfgCopy.Resolver != nil {
		resolver = cfgCopy.Resolver
	}

	return &Controller{
		cfg:      cfgCopy,
		logger:   logger,
		resolver: resolver,
		cache:    allowlist.NewCache(),
	}, nil
}

// MustNew is like New but panics on error. It is intended for TestMain.
func MustNew(cfg *Config) *Controller {
	c, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return c
}

// Config returns a copy of the controller's configuration.
func (c *Controller) Config() *Config {
	return c.cfg.clone()
}

// Cache returns the run's hostname resolution cache.
func (c *Controller) Cache() *allowlist.Cache {
	return c.cache
}

// Setup resolves the policy for item and installs it. See SetupContext.
func (c *Controller) Setup(item *Item) (Decision, error) {
	return c.SetupContext(context.Background(), item)
}

// SetupContext resolves the policy for item and installs it, performing at
// most one guard installation. If the guard was left modified by an earlier
// test, it is restored first and a warning is logged. ctx bounds hostname
// resolution for the allow-list, together with Config.ResolveTimeout.
//
// Every successful SetupContext must be paired with a Teardown.
func (c *Controller) SetupContext(ctx context.Context, item *Item) (Decision, error) {
	if item == nil {
		item = &Item{}
	}
	name := item.Name
	if name == "" {
		name = anonymousTest
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.owner != "" {
		return Decision{}, fmt.Errorf("%w: %s is still running", ErrGuardBusy, c.owner)
	}

	if !guard.IsOriginal() {
		c.logger.Warn("socket guard left modified by a previous test, restoring",
			"test", name,
			"state", guard.Active().String(),
		)
		guard.RestoreOriginal()
	}

	d := Resolve(c.cfg, item)
	c.apply(ctx, &d)
	c.owner = name

	c.logger.Debug("socket policy installed",
		"test", name,
		"mode", d.Mode.String(),
		"allow_hosts", d.Allowed.String(),
	)
	return d, nil
}

// Teardown restores the original primitives and releases the guard. It never
// fails and is safe to call more than once.
func (c *Controller) Teardown() {
	guard.RestoreOriginal()
	c.mu.Lock()
	c.owner = ""
	c.mu.Unlock()
}

// Run installs the policy declared by opts for the duration of t and
// registers Teardown with t.Cleanup, so the original primitives come back
// however the test ends. It fails the test if the policy cannot be installed.
func (c *Controller) Run(t TB, opts ...Option) Decision {
	t.Helper()
	d, err := c.Setup(NewItem(t.Name(), opts...))
	if err != nil {
		t.Fatalf("sockguard: %v", err)
		return Decision{}
	}
	t.Cleanup(c.Teardown)
	return d
}

// apply drives the guard for d and records the allow-set it built.
func (c *Controller) apply(ctx context.Context, d *Decision) {
	switch d.Mode {
	case ModeForceEnabled, ModeEnabled:
		guard.EnableUnrestricted()
	case ModeDisabled, ModeAllowHosts:
		if d.AllowHosts == nil {
			guard.InstallBlockingConstructor(c.cfg.AllowUnixSocket)
			return
		}
		d.Allowed = c.allowedSet(ctx, d.AllowHosts)
		guard.InstallHostFilteredConnect(d.Allowed, c.cfg.AllowUnixSocket)
	case ModeGlobalDisabled:
		guard.InstallBlockingConstructor(c.cfg.AllowUnixSocket)
	}
}

// allowedSet builds the allow-set for hosts through the run's cache.
func (c *Controller) allowedSet(ctx context.Context, hosts []string) *allowlist.AllowedSet {
	if c.cfg.ResolveTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.ResolveTimeout)
		defer cancel()
	}
	return allowlist.New(ctx, hosts, c.cache, c.resolver)
}

// TB is the subset of testing.TB used by Controller.
type TB interface {
	Helper()
	Name() string
	Cleanup(func())
	Fatalf(format string, args ...any)
}
