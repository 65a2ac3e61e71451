package main

import (
	"context"
	"fmt"
	"net"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zhangyunhao116/sockguard"
	"github.com/zhangyunhao116/sockguard/allowlist"
)

func newResolveCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve [host...]",
		Short: "Show the allow-list after hostname resolution",
		Long: `Resolves the given hosts, or the configured --allow-hosts when none are
given, and prints one display entry per line exactly as it appears in
blocked-connect errors.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			hosts := o.cfg.AllowHosts
			if len(args) > 0 {
				hosts = sockguard.ParseHosts(strings.Join(args, ","))
			}
			if hosts == nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "no allow-list configured")
				return nil
			}

			ctx := cmd.Context()
			if o.cfg.ResolveTimeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, o.cfg.ResolveTimeout)
				defer cancel()
			}
			var r allowlist.Resolver = net.DefaultResolver
			if o.cfg.Resolver != nil {
				r = o.cfg.Resolver
			}

			set := allowlist.New(ctx, hosts, nil, r)
			o.cfg.Logger.Debug("allow-list resolved", "hosts", len(hosts), "entries", set.Len())
			for _, line := range set.Display() {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
}
