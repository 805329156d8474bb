// Package diag defines the SW-series notice codes spanweave emits while
// resolving configuration and weaving files, and the reporter collecting them.
//
// Notices are a side channel: they never change what gets rewritten and
// reporting one never fails.
//
// Code numbering scheme:
//
//	000–099  Configuration
//	100–199  File level decisions
//	200–299  Method level decisions
//
// Example:
//
//	diag.SW210MethodLimitReached.String()      → "SW210: MethodLimitReached"
//	diag.SW210MethodLimitReached.Description() → "Per-file method limit reached, remaining methods left as is."
//
// Codes are stable; never renumber existing ones.
package diag
