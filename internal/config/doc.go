// Package config resolves spanweave configuration: user overrides parsed from
// YAML or JSON are laid over built-in defaults, validated, and turned into an
// immutable Config with every pattern compiled once.
//
// A Config also answers the two eligibility questions the weaver asks:
// whether a file should be transformed and whether a method should be
// instrumented.
package config
