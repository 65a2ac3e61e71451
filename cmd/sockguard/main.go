// Command sockguard inspects and exports socket guard policies outside of a
// test binary.
//
//	sockguard resolve --allow-hosts=localhost,10.0.0.1
//	sockguard check --disable-socket --mark enable_socket example.com:443
//	sockguard exec --disable-socket -- go test ./...
package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
)

func main() {
	if err := newRootCmd(defaultOptions()).Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

// exitCode maps an error from a command to a process exit status. A child
// started by exec keeps its own status and is not reported again.
func exitCode(err error) int {
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		if code := ee.ExitCode(); code > 0 {
			return code
		}
		return 1
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
	return 1
}
