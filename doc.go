// Package sockguard keeps tests from silently reaching the network.
//
// It intercepts socket construction and connection made through the guard
// package and decides, per test, which policy applies:
//
//   - --force-enable-socket beats everything and leaves the network open
//   - an enable_socket mark or the socket_enabled fixture opens the network
//   - a disable_socket mark or the socket_disabled fixture blocks sockets,
//     optionally allowing a list of hosts
//   - an allow_hosts mark, or else --allow-hosts, restricts connect to hosts
//   - --disable-socket blocks socket construction
//   - otherwise the network is open
//
// The policy is installed before the test body runs and the original
// primitives are restored in t.Cleanup, whether the test passes or fails.
//
// Basic usage:
//
//	var sg *sockguard.Controller
//
//	func TestMain(m *testing.M) {
//	    cfg := sockguard.DefaultConfig()
//	    cfg.RegisterGoFlags(flag.CommandLine)
//	    flag.Parse()
//	    sg = sockguard.MustNew(cfg)
//	    os.Exit(m.Run())
//	}
//
//	func TestFetch(t *testing.T) {
//	    sg.Run(t, sockguard.AllowHosts("127.0.0.1"))
//	    client := guard.HTTPClient()
//	    ...
//	}
//
// The run-wide options can also come from a YAML, TOML or JSON file
// (LoadConfigFile) and from SOCKGUARD_* environment variables (MergeEnv).
// Config.Environ exports them to a subprocess, which applies them at startup
// with InstallFromEnv.
package sockguard
