package sockguard

import (
	"flag"
	"strings"

	"github.com/spf13/pflag"
)

// Flag names registered by RegisterFlags and RegisterGoFlags.
const (
	FlagDisableSocket     = "disable-socket"
	FlagForceEnableSocket = "force-enable-socket"
	FlagAllowUnixSocket   = "allow-unix-socket"
	FlagAllowHosts        = "allow-hosts"
)

// RegisterFlags binds the run-wide options to fs. Current field values are
// used as flag defaults, so file and environment settings applied before
// registration stay in effect unless a flag overrides them.
func (c *Config) RegisterFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&c.DisableSocket, FlagDisableSocket, c.DisableSocket,
		"Disable socket construction by default to block network calls.")
	fs.BoolVar(&c.ForceEnableSocket, FlagForceEnableSocket, c.ForceEnableSocket,
		"Force enable sockets for every test (overrides --disable-socket and per-test marks).")
	fs.BoolVar(&c.AllowUnixSocket, FlagAllowUnixSocket, c.AllowUnixSocket,
		"Allow calls if they are to Unix domain sockets.")
	fs.Var(&hostsValue{dst: &c.AllowHosts}, FlagAllowHosts,
		"Only allow specified hosts through connect (comma-separated ALLOWED_HOSTS_CSV).")
}

// RegisterGoFlags binds the run-wide options to a standard library flag set,
// typically flag.CommandLine in a TestMain before flag.Parse.
func (c *Config) RegisterGoFlags(fs *flag.FlagSet) {
	pfs := pflag.NewFlagSet("sockguard", pflag.ContinueOnError)
	c.RegisterFlags(pfs)
	pfs.VisitAll(func(f *pflag.Flag) {
		fs.Var(f.Value, f.Name, f.Usage)
	})
}

// hostsValue is a pflag.Value for a comma-separated host list. Setting it to
// a blank string clears the restriction.
type hostsValue struct {
	dst *[]string
}

var _ pflag.Value = (*hostsValue)(nil)

func (v *hostsValue) String() string {
	if v == nil || v.dst == nil {
		return ""
	}
	return strings.Join(*v.dst, ",")
}

func (v *hostsValue) Set(s string) error {
	hosts := ParseHosts(s)
	if err := validateHosts(hosts); err != nil {
		return err
	}
	*v.dst = hosts
	return nil
}

func (v *hostsValue) Type() string {
	return "hosts"
}
