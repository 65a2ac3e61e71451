package main

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zhangyunhao116/sockguard"
	"github.com/zhangyunhao116/sockguard/guard"
)

// runCLI executes the command tree with args and an environment that holds
// only env. It returns stdout and the command error.
func runCLI(t *testing.T, env []string, args ...string) (string, error) {
	t.Helper()
	o := defaultOptions()
	o.environ = func() []string { return env }

	root := newRootCmd(o)
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	if !guard.IsOriginal() {
		t.Errorf("command left guard state %v", guard.Active())
	}
	return stdout.String(), err
}

// ---------------------------------------------------------------------------
// resolve
// ---------------------------------------------------------------------------

func TestResolve_Args(t *testing.T) {
	out, err := runCLI(t, nil, "resolve", "::1", "127.0.0.1, 127.0.0.1")
	if err != nil {
		t.Fatal(err)
	}
	if want := "127.0.0.1\n::1\n"; out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestResolve_FromFlagEnvAndFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sockguard.toml")
	if err := os.WriteFile(path, []byte(`allow_hosts = ["10.0.0.1"]`), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		env  []string
		args []string
		want string
	}{
		{"file", nil, []string{"--config", path, "resolve"}, "10.0.0.1\n"},
		{"env over file", []string{"SOCKGUARD_ALLOW_HOSTS=10.0.0.2"}, []string{"-c", path, "resolve"}, "10.0.0.2\n"},
		{"flag over env", []string{"SOCKGUARD_ALLOW_HOSTS=10.0.0.2"}, []string{"--allow-hosts=10.0.0.3", "resolve"}, "10.0.0.3\n"},
		{"nothing configured", nil, []string{"resolve"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCLI(t, tt.env, tt.args...)
			if err != nil {
				t.Fatal(err)
			}
			if out != tt.want {
				t.Errorf("output = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestRoot_InvalidConfig(t *testing.T) {
	_, err := runCLI(t, []string{"SOCKGUARD_DISABLE_SOCKET=perhaps"}, "resolve")
	if !errors.Is(err, sockguard.ErrConfigInvalid) {
		t.Errorf("err = %v, want ErrConfigInvalid", err)
	}
}

// ---------------------------------------------------------------------------
// check
// ---------------------------------------------------------------------------

func TestCheck(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "default",
			args: []string{"check", "1.2.3.4:80"},
			want: []string{"mode: default", "allowed"},
		},
		{
			name: "global disable",
			args: []string{"--disable-socket", "check", "1.2.3.4:80"},
			want: []string{"mode: global-disabled", "blocked: A test tried to use socket.socket."},
		},
		{
			name: "allow hosts",
			args: []string{"--disable-socket", "--allow-hosts=93.184.216.34", "check", "1.2.3.4:80"},
			want: []string{
				"mode: allow-hosts",
				"allowed: 93.184.216.34",
				`blocked: A test tried to use socket.socket.connect() with host "1.2.3.4" (allowed: "93.184.216.34").`,
			},
		},
		{
			name: "allowed host",
			args: []string{"--allow-hosts=93.184.216.34", "check", "93.184.216.34:443"},
			want: []string{"mode: allow-hosts", "\nallowed\n"},
		},
		{
			name: "enable mark beats global disable",
			args: []string{"--disable-socket", "check", "--mark", "enable_socket", "1.2.3.4:80"},
			want: []string{"mode: enabled", "\nallowed\n"},
		},
		{
			name: "force enable beats fixture",
			args: []string{"--force-enable-socket", "check", "-f", "socket_disabled"},
			want: []string{"mode: force-enabled"},
		},
		{
			name: "mark allow_hosts overrides flag",
			args: []string{"--allow-hosts=10.0.0.1", "check", "-m", "allow_hosts=127.0.0.1", "[::1]:80"},
			want: []string{"allowed: 127.0.0.1", `with host "::1"`},
		},
		{
			name: "disable mark with hosts",
			args: []string{"check", "-m", "disable_socket=127.0.0.1", "127.0.0.1:80"},
			want: []string{"mode: disabled", "\nallowed\n"},
		},
		{
			name: "unix socket allowed",
			args: []string{"--disable-socket", "--allow-unix-socket", "check", "--network", "unix", "/tmp/x.sock"},
			want: []string{"mode: global-disabled"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCLI(t, nil, tt.args...)
			if err != nil {
				t.Fatal(err)
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output %q does not contain %q", out, w)
				}
			}
		})
	}
}

func TestCheck_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown mark", []string{"check", "-m", "slow"}},
		{"enable with hosts", []string{"check", "-m", "enable_socket=a"}},
		{"unknown fixture", []string{"check", "-f", "socket_maybe"}},
		{"too many args", []string{"check", "a:1", "b:2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runCLI(t, nil, tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParseMark(t *testing.T) {
	tests := []struct {
		in        string
		wantName  string
		wantHosts []string
	}{
		{"enable_socket", sockguard.MarkEnableSocket, nil},
		{"disable_socket", sockguard.MarkDisableSocket, nil},
		{"disable_socket=a,b", sockguard.MarkDisableSocket, []string{"a", "b"}},
		{"allow_hosts", sockguard.MarkAllowHosts, []string{}},
		{" allow_hosts=x ", sockguard.MarkAllowHosts, []string{"x"}},
	}
	for _, tt := range tests {
		opt, err := parseMark(tt.in)
		if err != nil {
			t.Errorf("parseMark(%q): %v", tt.in, err)
			continue
		}
		it := sockguard.NewItem("t", opt)
		m := it.Marks[0]
		if m.Name != tt.wantName || len(m.Hosts) != len(tt.wantHosts) || (m.Hosts == nil) != (tt.wantHosts == nil) {
			t.Errorf("parseMark(%q) = %+v, want %s %#v", tt.in, m, tt.wantName, tt.wantHosts)
		}
	}
}

// ---------------------------------------------------------------------------
// exec
// ---------------------------------------------------------------------------

func TestExec_ExportsPolicy(t *testing.T) {
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	out, err := runCLI(t, []string{"SOCKGUARD_ALLOW_HOSTS=stale"},
		"--disable-socket", "exec", "--", sh, "-c", `echo "$SOCKGUARD_DISABLE_SOCKET|$SOCKGUARD_ALLOW_HOSTS"`)
	if err != nil {
		t.Fatal(err)
	}
	if out != "1|stale\n" {
		t.Errorf("output = %q", out)
	}
}

func TestExec_ExitStatus(t *testing.T) {
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	_, err = runCLI(t, nil, "exec", "--", sh, "-c", "exit 3")
	if code := exitCode(err); code != 3 {
		t.Errorf("exitCode = %d, want 3 (err %v)", code, err)
	}
}
