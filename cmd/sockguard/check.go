package main

import (
	"fmt"
	"net"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zhangyunhao116/sockguard"
	"github.com/zhangyunhao116/sockguard/guard"
)

type checkOptions struct {
	marks    []string
	fixtures []string
	network  string
}

func newCheckCmd(o *options) *cobra.Command {
	co := &checkOptions{}
	cmd := &cobra.Command{
		Use:   "check [destination]",
		Short: "Evaluate the policy a test would get",
		Long: `Resolves the policy for a test carrying the given marks and fixtures and
prints the chosen mode. With a destination (host:port, or a socket path for
unix networks) it also reports whether a dial there would be allowed.

Marks are written as name or name=host1,host2:
  enable_socket
  disable_socket[=hosts]
  allow_hosts=hosts`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, o, co, args)
		},
	}
	cmd.Flags().StringArrayVarP(&co.marks, "mark", "m", nil, "Mark the test carries (repeatable)")
	cmd.Flags().StringArrayVarP(&co.fixtures, "fixture", "f", nil, "Fixture the test requests (repeatable)")
	cmd.Flags().StringVar(&co.network, "network", "tcp", "Network used for the destination")
	return cmd
}

func runCheck(cmd *cobra.Command, o *options, co *checkOptions, args []string) error {
	opts := make([]sockguard.Option, 0, len(co.marks)+len(co.fixtures))
	for _, m := range co.marks {
		opt, err := parseMark(m)
		if err != nil {
			return err
		}
		opts = append(opts, opt)
	}
	for _, f := range co.fixtures {
		if !isFixture(f) {
			return fmt.Errorf("%w: %q", sockguard.ErrUnknownFixture, f)
		}
		opts = append(opts, sockguard.UseFixture(f))
	}

	c, err := sockguard.New(o.cfg)
	if err != nil {
		return err
	}
	d, err := c.SetupContext(cmd.Context(), sockguard.NewItem("sockguard check", opts...))
	if err != nil {
		return err
	}
	c.Teardown()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "mode: %s\n", d.Mode)
	if d.Allowed != nil {
		fmt.Fprintf(out, "allowed: %s\n", d.Allowed)
	}
	if len(args) == 0 {
		return nil
	}
	if err := verdict(o.cfg, d, co.network, args[0]); err != nil {
		fmt.Fprintf(out, "blocked: %v\n", err)
	} else {
		fmt.Fprintln(out, "allowed")
	}
	return nil
}

// verdict reports the error a dial of address on network would fail with
// under d, without dialing.
func verdict(cfg *sockguard.Config, d sockguard.Decision, network, address string) error {
	family := familyOf(network, address)
	unix := cfg.AllowUnixSocket && guard.IsUnixFamily(family)
	switch {
	case unix:
		return nil
	case d.Blocks():
		return &guard.SocketBlockedError{Family: family}
	case d.Filters():
		host, ok := guard.HostFromAddress(family, address)
		if ok && d.Allowed.Contains(host) {
			return nil
		}
		return &guard.ConnectBlockedError{Host: host, Allowed: d.Allowed.Display()}
	}
	return nil
}

func familyOf(network, address string) guard.Family {
	if strings.HasPrefix(network, "unix") {
		return guard.FamilyUnix
	}
	if strings.HasSuffix(network, "6") {
		return guard.FamilyInet6
	}
	if host, _, err := net.SplitHostPort(address); err == nil && strings.Contains(host, ":") {
		return guard.FamilyInet6
	}
	return guard.FamilyInet
}

// parseMark turns "name" or "name=hosts" into an Option.
func parseMark(s string) (sockguard.Option, error) {
	name, hosts, hasHosts := strings.Cut(strings.TrimSpace(s), "=")
	switch name {
	case sockguard.MarkEnableSocket:
		if hasHosts {
			return nil, fmt.Errorf("mark %s takes no hosts", name)
		}
		return sockguard.EnableSocket(), nil
	case sockguard.MarkDisableSocket:
		if !hasHosts {
			return sockguard.DisableSocket(), nil
		}
		return sockguard.DisableSocket(hosts), nil
	case sockguard.MarkAllowHosts:
		return sockguard.AllowHosts(hosts), nil
	}
	return nil, fmt.Errorf("unknown mark %q", name)
}

func isFixture(name string) bool {
	for _, f := range sockguard.Fixtures() {
		if f == name {
			return true
		}
	}
	return false
}
