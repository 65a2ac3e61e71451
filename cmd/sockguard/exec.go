package main

import (
	"os/exec"

	"github.com/spf13/cobra"
)

func newExecCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "exec -- command [args...]",
		Short: "Run a command with the policy exported to its environment",
		Long: `Runs command with the effective policy written to the SOCKGUARD_*
environment variables, so test binaries and helpers that call
sockguard.InstallFromEnv pick it up. The command's exit status is returned.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := exec.CommandContext(cmd.Context(), args[0], args[1:]...)
			c.Env = o.cfg.Environ(o.environ())
			c.Stdin = cmd.InOrStdin()
			c.Stdout = cmd.OutOrStdout()
			c.Stderr = cmd.ErrOrStderr()
			o.cfg.Logger.Debug("running command", "path", args[0], "args", len(args)-1)
			return c.Run()
		},
	}
}
