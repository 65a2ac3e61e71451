package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/zhangyunhao116/sockguard"
)

// options carries the state shared by all subcommands.
type options struct {
	// flagCfg receives the policy flags. Only flags the user set are copied
	// into cfg, so they override the file and the environment.
	flagCfg *sockguard.Config

	// cfg is the effective configuration, built in PersistentPreRunE.
	cfg *sockguard.Config

	configPath string
	verbose    bool
	jsonOutput bool

	environ func() []string
}

func defaultOptions() *options {
	return &options{
		flagCfg: sockguard.DefaultConfig(),
		environ: os.Environ,
	}
}

func newRootCmd(o *options) *cobra.Command {
	root := &cobra.Command{
		Use:   "sockguard",
		Short: "Inspect and export network access policies for go test",
		Long: `sockguard evaluates the same options a test binary reads, so a policy
can be checked before a run and exported to subprocesses.

Settings are layered: the --config file, then SOCKGUARD_* environment
variables, then command-line flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.load(cmd)
		},
	}

	pf := root.PersistentFlags()
	o.flagCfg.RegisterFlags(pf)
	pf.StringVarP(&o.configPath, "config", "c", "", "Read settings from a YAML, TOML or JSON file")
	pf.BoolVarP(&o.verbose, "verbose", "v", false, "Enable debug logging")
	pf.BoolVar(&o.jsonOutput, "json", false, "Output logs in JSON format")
	root.CompletionOptions.DisableDefaultCmd = true

	root.AddCommand(newResolveCmd(o), newCheckCmd(o), newExecCmd(o))
	return root
}

// load builds the effective configuration from the file, the environment
// and the flags that were set on cmd.
func (o *options) load(cmd *cobra.Command) error {
	cfg := sockguard.DefaultConfig()
	if o.configPath != "" {
		if err := cfg.MergeFile(o.configPath); err != nil {
			return err
		}
	}
	if err := cfg.MergeEnv(o.environ()); err != nil {
		return err
	}

	fs := cmd.Flags()
	if fs.Changed(sockguard.FlagDisableSocket) {
		cfg.DisableSocket = o.flagCfg.DisableSocket
	}
	if fs.Changed(sockguard.FlagForceEnableSocket) {
		cfg.ForceEnableSocket = o.flagCfg.ForceEnableSocket
	}
	if fs.Changed(sockguard.FlagAllowUnixSocket) {
		cfg.AllowUnixSocket = o.flagCfg.AllowUnixSocket
	}
	if fs.Changed(sockguard.FlagAllowHosts) {
		cfg.AllowHosts = o.flagCfg.AllowHosts
	}
	cfg.Logger = newLogger(cmd.ErrOrStderr(), o.verbose, o.jsonOutput)

	if err := cfg.Validate(); err != nil {
		return err
	}
	o.cfg = cfg
	return nil
}

func newLogger(w io.Writer, verbose, jsonOutput bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if jsonOutput {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
