package sockguard

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// fileConfig is the on-disk form of Config. Pointer and interface fields
// distinguish "not set" from zero values so a file only overrides what it
// mentions.
type fileConfig struct {
	DisableSocket     *bool   `yaml:"disable_socket" toml:"disable_socket" json:"disable_socket"`
	ForceEnableSocket *bool   `yaml:"force_enable_socket" toml:"force_enable_socket" json:"force_enable_socket"`
	AllowUnixSocket   *bool   `yaml:"allow_unix_socket" toml:"allow_unix_socket" json:"allow_unix_socket"`
	ResolveTimeout    *string `yaml:"resolve_timeout" toml:"resolve_timeout" json:"resolve_timeout"`

	// AllowHosts is either a comma-separated string or a list of strings.
	AllowHosts any `yaml:"allow_hosts" toml:"allow_hosts" json:"allow_hosts"`
}

// LoadConfigFile returns DefaultConfig with the settings from the file at
// path applied. See MergeFile for the supported formats.
func LoadConfigFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := cfg.MergeFile(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MergeFile reads the file at path and applies the settings it contains on
// top of c. The format is chosen by extension: .yaml and .yml are YAML,
// .toml is TOML, .json and .jsonc are JSON with comments and trailing commas
// allowed.
func (c *Config) MergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("sockguard: read config %s: %w", path, err)
	}
	var fc fileConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	case ".toml":
		_, err = toml.Decode(string(data), &fc)
	case ".json", ".jsonc":
		err = json.Unmarshal(jsonc.ToJSON(data), &fc)
	default:
		return fmt.Errorf("%w: unsupported config file extension %q", ErrConfigInvalid, ext)
	}
	if err != nil {
		return fmt.Errorf("%w: parse %s: %w", ErrConfigInvalid, path, err)
	}
	return c.applyFile(&fc)
}

func (c *Config) applyFile(fc *fileConfig) error {
	if fc.DisableSocket != nil {
		c.DisableSocket = *fc.DisableSocket
	}
	if fc.ForceEnableSocket != nil {
		c.ForceEnableSocket = *fc.ForceEnableSocket
	}
	if fc.AllowUnixSocket != nil {
		c.AllowUnixSocket = *fc.AllowUnixSocket
	}
	if fc.ResolveTimeout != nil {
		d, err := time.ParseDuration(*fc.ResolveTimeout)
		if err != nil {
			return fmt.Errorf("%w: resolve_timeout: %w", ErrConfigInvalid, err)
		}
		c.ResolveTimeout = d
	}
	if fc.AllowHosts != nil {
		hosts, err := hostsFromAny(fc.AllowHosts)
		if err != nil {
			return fmt.Errorf("%w: allow_hosts: %w", ErrConfigInvalid, err)
		}
		c.AllowHosts = hosts
	}
	return c.Validate()
}

// hostsFromAny converts a decoded allow_hosts value into a host list.
func hostsFromAny(v any) ([]string, error) {
	switch v := v.(type) {
	case string:
		return ParseHosts(v), nil
	case []string:
		return normalizeHosts(v), nil
	case []any:
		hosts := make([]string, 0, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("entry %d is %T, want string", i, item)
			}
			hosts = append(hosts, s)
		}
		return normalizeHosts(hosts), nil
	default:
		return nil, fmt.Errorf("got %T, want string or list of strings", v)
	}
}
