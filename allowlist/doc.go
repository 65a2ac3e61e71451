// Package allowlist turns a raw allow-hosts specification into the set of
// hosts and IP addresses a guarded connect may reach.
//
// Each token is either an IP literal, which allows exactly itself, or a
// hostname, which allows the hostname string plus every address it resolves
// to. Resolution results are kept in a Cache for the lifetime of a test run
// so each hostname is looked up at most once.
//
// Most users should not import this package directly; the top-level sockguard
// package builds allow-sets automatically from flags and per-test marks.
package allowlist
