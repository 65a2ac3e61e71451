package sockguard

import (
	"flag"
	"io"
	"reflect"
	"testing"

	"github.com/spf13/pflag"
)

func TestRegisterFlags(t *testing.T) {
	cfg := DefaultConfig()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	cfg.RegisterFlags(fs)

	err := fs.Parse([]string{
		"--disable-socket",
		"--allow-unix-socket",
		"--allow-hosts=93.184.216.34, localhost",
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !cfg.DisableSocket || !cfg.AllowUnixSocket || cfg.ForceEnableSocket {
		t.Errorf("bools = %+v", cfg)
	}
	if want := []string{"93.184.216.34", "localhost"}; !reflect.DeepEqual(cfg.AllowHosts, want) {
		t.Errorf("AllowHosts = %v, want %v", cfg.AllowHosts, want)
	}
	if got := fs.Lookup(FlagAllowHosts).Value.String(); got != "93.184.216.34,localhost" {
		t.Errorf("flag String() = %q", got)
	}
}

func TestRegisterFlags_KeepsEarlierValues(t *testing.T) {
	cfg := &Config{DisableSocket: true, AllowHosts: []string{"10.0.0.1"}}
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	cfg.RegisterFlags(fs)
	if err := fs.Parse(nil); err != nil {
		t.Fatal(err)
	}
	if !cfg.DisableSocket || len(cfg.AllowHosts) != 1 {
		t.Errorf("defaults lost: %+v", cfg)
	}

	if err := fs.Parse([]string{"--disable-socket=false", "--allow-hosts="}); err != nil {
		t.Fatal(err)
	}
	if cfg.DisableSocket || cfg.AllowHosts != nil {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}

func TestRegisterFlags_RejectsPort(t *testing.T) {
	cfg := DefaultConfig()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cfg.RegisterFlags(fs)
	if err := fs.Parse([]string{"--allow-hosts=example.com:80"}); err == nil {
		t.Error("expected error for host:port")
	}
}

func TestRegisterGoFlags(t *testing.T) {
	cfg := DefaultConfig()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg.RegisterGoFlags(fs)

	for _, name := range []string{FlagDisableSocket, FlagForceEnableSocket, FlagAllowUnixSocket, FlagAllowHosts} {
		if fs.Lookup(name) == nil {
			t.Errorf("flag %q not registered", name)
		}
	}

	if err := fs.Parse([]string{"-force-enable-socket", "--allow-hosts", "127.0.0.1"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !cfg.ForceEnableSocket {
		t.Error("boolean flag without value not applied")
	}
	if want := []string{"127.0.0.1"}; !reflect.DeepEqual(cfg.AllowHosts, want) {
		t.Errorf("AllowHosts = %v, want %v", cfg.AllowHosts, want)
	}
}
