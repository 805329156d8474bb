package config

import (
	"maps"
	"slices"

	"github.com/sirkon/spanweave/internal/diag"
	"github.com/sirkon/spanweave/internal/glob"
	"github.com/sirkon/spanweave/internal/logging"
)

const (
	// DefaultSpanNamePrefix is used when no prefix is configured.
	DefaultSpanNamePrefix = "spanweave"

	// DefaultMaxMethodsPerFile bounds rewrites per file.
	DefaultMaxMethodsPerFile = 100
)

var (
	defaultInclude = []string{"**/*.go"}
	defaultExclude = []string{"**/*_test.go", "**/vendor/**"}

	defaultExcludeMethods = []string{
		"String",
		"GoString",
		"Error",
		"Format",
		"MarshalJSON",
		"UnmarshalJSON",
		"MarshalText",
		"UnmarshalText",
	}
)

// Config is a resolved configuration. It is never modified after Resolve
// returns it and may be shared between goroutines.
type Config struct {
	include                  glob.Set
	exclude                  glob.Set
	instrumentPrivateMethods bool
	spanNamePrefix           string
	autoInjectEntryPoint     bool
	commonAttributes         map[string]string
	excludeMethods           glob.Set
	includeMethods           glob.Set
	debug                    bool
	logLevel                 logging.Level
	maxMethodsPerFile        int

	warnings []Warning
}

// Warning is a soft validation finding: the configuration was accepted.
type Warning struct {
	Key     string
	Code    diag.Code
	Message string
}

func (w Warning) String() string {
	return w.Key + ": " + w.Message
}

// Default returns the configuration used when no user configuration exists.
func Default() *Config {
	cfg, err := Resolve(nil)
	if err != nil {
		panic("default configuration is invalid: " + err.Error())
	}
	return cfg
}

// Include returns file patterns a file must match one of.
func (c *Config) Include() []string { return c.include.Strings() }

// Exclude returns file patterns that veto inclusion.
func (c *Config) Exclude() []string { return c.exclude.Strings() }

// InstrumentPrivateMethods reports whether unexported methods are eligible.
func (c *Config) InstrumentPrivateMethods() bool { return c.instrumentPrivateMethods }

// SpanNamePrefix returns the first component of every span name.
func (c *Config) SpanNamePrefix() string { return c.spanNamePrefix }

// AutoInjectEntryPoint reports whether a tracer declaration is added to files lacking one.
func (c *Config) AutoInjectEntryPoint() bool { return c.autoInjectEntryPoint }

// CommonAttributes returns a copy of attributes attached to every span.
func (c *Config) CommonAttributes() map[string]string { return maps.Clone(c.commonAttributes) }

// CommonAttributeKeys returns common attribute keys in sorted order.
func (c *Config) CommonAttributeKeys() []string {
	return slices.Sorted(maps.Keys(c.commonAttributes))
}

// CommonAttribute returns the value of a common attribute.
func (c *Config) CommonAttribute(key string) (string, bool) {
	v, ok := c.commonAttributes[key]
	return v, ok
}

// ExcludeMethods returns method patterns rejected when IncludeMethods is empty.
func (c *Config) ExcludeMethods() []string { return c.excludeMethods.Strings() }

// IncludeMethods returns method patterns that, when present, solely decide eligibility.
func (c *Config) IncludeMethods() []string { return c.includeMethods.Strings() }

// Debug reports whether debug output is forced.
func (c *Config) Debug() bool { return c.debug }

// LogLevel returns the configured verbosity.
func (c *Config) LogLevel() logging.Level { return c.logLevel }

// MaxMethodsPerFile returns the per-file rewrite bound.
func (c *Config) MaxMethodsPerFile() int { return c.maxMethodsPerFile }

// Warnings returns soft findings collected while resolving.
func (c *Config) Warnings() []Warning { return slices.Clone(c.warnings) }

// Partial returns the configuration as a fully populated overlay.
func (c *Config) Partial() *Partial {
	return &Partial{
		Include:                  c.Include(),
		Exclude:                  c.Exclude(),
		InstrumentPrivateMethods: ptr(c.instrumentPrivateMethods),
		SpanNamePrefix:           ptr(c.spanNamePrefix),
		AutoInjectEntryPoint:     ptr(c.autoInjectEntryPoint),
		CommonAttributes:         c.CommonAttributes(),
		ExcludeMethods:           c.ExcludeMethods(),
		IncludeMethods:           c.IncludeMethods(),
		Debug:                    ptr(c.debug),
		LogLevel:                 ptr(c.logLevel.String()),
		MaxMethodsPerFile:        ptr(c.maxMethodsPerFile),
	}
}

func ptr[T any](v T) *T {
	return &v
}
