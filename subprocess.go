package sockguard

import (
	"context"
	"os"
)

// InstallFromEnv applies the run-wide policy described by the SOCKGUARD_*
// variables of the current process and leaves it in place for the life of
// the process. It is meant for the main function of a helper program that a
// test starts as a subprocess with Config.Environ, so the child enforces the
// same policy as the test run that spawned it.
//
// Only run-wide sources apply: there are no marks or fixtures in a
// subprocess.
func InstallFromEnv() (Decision, error) {
	cfg, err := ConfigFromEnv(os.Environ())
	if err != nil {
		return Decision{}, err
	}
	c, err := New(cfg)
	if err != nil {
		return Decision{}, err
	}
	d := Resolve(c.cfg, &Item{})
	c.apply(context.Background(), &d)
	if d.Mode != ModeDefault {
		c.logger.Debug("socket policy installed from environment", "mode", d.Mode.String())
	}
	return d, nil
}
