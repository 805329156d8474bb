package diag

import (
	"fmt"

	"go.uber.org/zap/zapcore"
)

// Code is an SW-series notice code.
type Code int

const (
	codeInvalid Code = iota

	SW001BlankSpanNamePrefix
	SW002UnknownConfigKey
	SW003IncludeMethodsOverride
	SW100FileExcluded
	SW101FileUnchanged
	SW110EntryPointInjected
	SW111EntryPointPresent
	SW112EntryPointDeferred
	SW200MethodInstrumented
	SW201MethodExcluded
	SW202MethodIgnored
	SW203MethodNoBody
	SW210MethodLimitReached
	SW220MethodAlreadyInstrumented
)

var codeNames = map[Code]string{
	SW001BlankSpanNamePrefix:       "SW001: BlankSpanNamePrefix",
	SW002UnknownConfigKey:          "SW002: UnknownConfigKey",
	SW003IncludeMethodsOverride:    "SW003: IncludeMethodsOverride",
	SW100FileExcluded:              "SW100: FileExcluded",
	SW101FileUnchanged:             "SW101: FileUnchanged",
	SW110EntryPointInjected:        "SW110: EntryPointInjected",
	SW111EntryPointPresent:         "SW111: EntryPointPresent",
	SW112EntryPointDeferred:        "SW112: EntryPointDeferred",
	SW200MethodInstrumented:        "SW200: MethodInstrumented",
	SW201MethodExcluded:            "SW201: MethodExcluded",
	SW202MethodIgnored:             "SW202: MethodIgnored",
	SW203MethodNoBody:              "SW203: MethodNoBody",
	SW210MethodLimitReached:        "SW210: MethodLimitReached",
	SW220MethodAlreadyInstrumented: "SW220: MethodAlreadyInstrumented",
}

// String returns the canonical code and short name, e.g. "SW100: FileExcluded".
func (c Code) String() string {
	v, ok := codeNames[c]
	if !ok {
		return fmt.Sprintf("code-unknown(%d)", c)
	}
	return v
}

// Description returns the human-readable explanation of the code.
func (c Code) Description() string {
	switch c {
	case SW001BlankSpanNamePrefix:
		return "Span name prefix is blank, the default prefix is used."
	case SW002UnknownConfigKey:
		return "Configuration key is not recognized and is ignored."
	case SW003IncludeMethodsOverride:
		return "includeMethods is set, excludeMethods is not consulted."
	case SW100FileExcluded:
		return "File does not match include patterns or matches an exclude pattern."
	case SW101FileUnchanged:
		return "File is eligible but has no method to instrument."
	case SW110EntryPointInjected:
		return "Tracer entry point injected."
	case SW111EntryPointPresent:
		return "Tracer entry point already available, nothing injected."
	case SW112EntryPointDeferred:
		return "File is platform specific, tracer entry point left to a file built everywhere."
	case SW200MethodInstrumented:
		return "Method wrapped into a span."
	case SW201MethodExcluded:
		return "Method rejected by method selection rules."
	case SW202MethodIgnored:
		return "Method opted out with a spanweave:ignore directive."
	case SW203MethodNoBody:
		return "Method has no body."
	case SW210MethodLimitReached:
		return "Per-file method limit reached, remaining methods left as is."
	case SW220MethodAlreadyInstrumented:
		return "Method already starts a span, left as is."
	default:
		return fmt.Sprintf("unknown-code(%d)", c)
	}
}

// Severity is the log level notices of the code are mirrored at.
func (c Code) Severity() zapcore.Level {
	switch c {
	case SW001BlankSpanNamePrefix, SW002UnknownConfigKey, SW210MethodLimitReached:
		return zapcore.WarnLevel
	case SW003IncludeMethodsOverride, SW100FileExcluded, SW110EntryPointInjected, SW112EntryPointDeferred,
		SW220MethodAlreadyInstrumented:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}
