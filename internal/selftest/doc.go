// Package selftest is the suite the unitgate binary runs: units that check
// unitgate's own plan, report and store layers.
//
// The units use reflected operations (exported methods) and type-derived
// identities, so they also exercise the default discovery path.
package selftest
