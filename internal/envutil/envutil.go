// Package envutil manipulates KEY=VALUE environment slices such as the ones
// returned by os.Environ and accepted by exec.Cmd.Env.
package envutil

import (
	"strconv"
	"strings"
)

// GetEnv gets a value from an env slice.
// Returns the value and true if found, or empty string and false if not.
// When a key appears more than once the last entry wins, matching how
// the process environment resolves duplicates.
func GetEnv(env []string, key string) (string, bool) {
	prefix := key + "="
	for i := len(env) - 1; i >= 0; i-- {
		if strings.HasPrefix(env[i], prefix) {
			return env[i][len(prefix):], true
		}
	}
	return "", false
}

// GetBool parses a boolean variable from an env slice. present is false when
// the key is missing or set to an empty string. Accepted values are those of
// strconv.ParseBool plus "yes"/"no" and "on"/"off", case-insensitively.
func GetBool(env []string, key string) (value, present bool, err error) {
	raw, ok := GetEnv(env, key)
	raw = strings.TrimSpace(raw)
	if !ok || raw == "" {
		return false, false, nil
	}
	switch strings.ToLower(raw) {
	case "yes", "on":
		return true, true, nil
	case "no", "off":
		return false, true, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, true, err
	}
	return v, true, nil
}

// RemoveEnvPrefix removes all variables with a given prefix from an env slice.
// The prefix is matched against the key portion (before '=').
func RemoveEnvPrefix(env []string, prefix string) []string {
	result := make([]string, 0, len(env))
	for _, e := range env {
		key := e
		if idx := strings.IndexByte(e, '='); idx >= 0 {
			key = e[:idx]
		}
		if !strings.HasPrefix(key, prefix) {
			result = append(result, e)
		}
	}
	return result
}

// MergeEnv merges additional env vars into base, with additional taking precedence.
// Returns a new slice. Variables in additional override those in base with the same key.
func MergeEnv(base, additional []string) []string {
	overrides := make(map[string]string, len(additional))
	overrideOrder := make([]string, 0, len(additional))
	for _, e := range additional {
		key := keyOf(e)
		if _, exists := overrides[key]; !exists {
			overrideOrder = append(overrideOrder, key)
		}
		overrides[key] = e
	}

	replaced := make(map[string]bool, len(overrides))
	result := make([]string, 0, len(base)+len(additional))
	for _, e := range base {
		key := keyOf(e)
		if override, ok := overrides[key]; ok {
			if !replaced[key] {
				result = append(result, override)
				replaced[key] = true
			}
		} else {
			result = append(result, e)
		}
	}

	for _, key := range overrideOrder {
		if !replaced[key] {
			result = append(result, overrides[key])
		}
	}

	return result
}

func keyOf(e string) string {
	if idx := strings.IndexByte(e, '='); idx >= 0 {
		return e[:idx]
	}
	return e
}
