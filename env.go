package sockguard

import (
	"fmt"
	"strings"

	"github.com/zhangyunhao116/sockguard/internal/envutil"
)

// Environment variables read by MergeEnv and written by Environ.
const (
	EnvDisableSocket     = "SOCKGUARD_DISABLE_SOCKET"
	EnvForceEnableSocket = "SOCKGUARD_FORCE_ENABLE_SOCKET"
	EnvAllowUnixSocket   = "SOCKGUARD_ALLOW_UNIX_SOCKET"
	EnvAllowHosts        = "SOCKGUARD_ALLOW_HOSTS"

	envPrefix = "SOCKGUARD_"
)

// ConfigFromEnv returns DefaultConfig with the SOCKGUARD_* variables in
// environ applied.
func ConfigFromEnv(environ []string) (*Config, error) {
	cfg := DefaultConfig()
	if err := cfg.MergeEnv(environ); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MergeEnv applies the SOCKGUARD_* variables present in environ on top of c.
// Unset or empty variables leave the corresponding field unchanged.
func (c *Config) MergeEnv(environ []string) error {
	bools := []struct {
		key string
		dst *bool
	}{
		{EnvDisableSocket, &c.DisableSocket},
		{EnvForceEnableSocket, &c.ForceEnableSocket},
		{EnvAllowUnixSocket, &c.AllowUnixSocket},
	}
	for _, b := range bools {
		v, present, err := envutil.GetBool(environ, b.key)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrConfigInvalid, b.key, err)
		}
		if present {
			*b.dst = v
		}
	}
	if raw, ok := envutil.GetEnv(environ, EnvAllowHosts); ok && strings.TrimSpace(raw) != "" {
		hosts := ParseHosts(raw)
		if err := validateHosts(hosts); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrConfigInvalid, EnvAllowHosts, err)
		}
		c.AllowHosts = hosts
	}
	return nil
}

// Environ returns base with every SOCKGUARD_* variable replaced by the values
// of c, so a subprocess started with it can apply the same run-wide policy
// through InstallFromEnv.
func (c *Config) Environ(base []string) []string {
	vars := []string{
		EnvDisableSocket + "=" + formatBool(c.DisableSocket),
		EnvForceEnableSocket + "=" + formatBool(c.ForceEnableSocket),
		EnvAllowUnixSocket + "=" + formatBool(c.AllowUnixSocket),
	}
	if c.AllowHosts != nil {
		vars = append(vars, EnvAllowHosts+"="+strings.Join(c.AllowHosts, ","))
	}
	return envutil.MergeEnv(envutil.RemoveEnvPrefix(base, envPrefix), vars)
}

func formatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
