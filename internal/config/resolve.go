package config

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"go.uber.org/multierr"

	"github.com/sirkon/spanweave/internal/diag"
	"github.com/sirkon/spanweave/internal/glob"
	"github.com/sirkon/spanweave/internal/logging"
)

// Resolve lays p over the defaults and validates the result. A nil p yields
// the default configuration. Hard problems are returned together as an
// *InvalidError; soft ones end up in Config.Warnings.
func Resolve(p *Partial) (*Config, error) {
	if p == nil {
		p = &Partial{}
	}

	cfg := &Config{
		spanNamePrefix:       DefaultSpanNamePrefix,
		autoInjectEntryPoint: true,
		logLevel:             logging.LevelWarn,
		maxMethodsPerFile:    DefaultMaxMethodsPerFile,
	}

	var errs error

	include := defaultInclude
	if p.Include != nil {
		if len(p.Include) == 0 {
			errs = multierr.Append(errs, fmt.Errorf("include: must not be empty"))
		}
		include = p.Include
	}
	cfg.include, errs = compileSet(errs, "include", include, glob.CompilePath)
	cfg.exclude, errs = compileSet(errs, "exclude", pick(p.Exclude, defaultExclude), glob.CompilePath)
	cfg.excludeMethods, errs = compileSet(errs, "excludeMethods", pick(p.ExcludeMethods, defaultExcludeMethods), glob.CompileName)
	cfg.includeMethods, errs = compileSet(errs, "includeMethods", p.IncludeMethods, glob.CompileName)

	if p.InstrumentPrivateMethods != nil {
		cfg.instrumentPrivateMethods = *p.InstrumentPrivateMethods
	}
	if p.AutoInjectEntryPoint != nil {
		cfg.autoInjectEntryPoint = *p.AutoInjectEntryPoint
	}
	if p.Debug != nil {
		cfg.debug = *p.Debug
	}

	if p.SpanNamePrefix != nil {
		prefix := strings.TrimSpace(*p.SpanNamePrefix)
		if prefix == "" {
			cfg.warnings = append(cfg.warnings, Warning{
				Key:     "spanNamePrefix",
				Code:    diag.SW001BlankSpanNamePrefix,
				Message: fmt.Sprintf("blank value, using %q", DefaultSpanNamePrefix),
			})
		} else {
			cfg.spanNamePrefix = prefix
		}
	}

	if p.CommonAttributes != nil {
		for _, k := range slices.Sorted(maps.Keys(p.CommonAttributes)) {
			if strings.TrimSpace(k) == "" {
				errs = multierr.Append(errs, fmt.Errorf("commonAttributes: keys must not be empty"))
			}
		}
		cfg.commonAttributes = maps.Clone(p.CommonAttributes)
	}

	if p.LogLevel != nil {
		level, err := logging.ParseLevel(*p.LogLevel)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("logLevel: %w (want one of none, error, warn, info, debug)", err))
		} else {
			cfg.logLevel = level
		}
	}

	if p.MaxMethodsPerFile != nil {
		if *p.MaxMethodsPerFile <= 0 {
			errs = multierr.Append(errs, fmt.Errorf("maxMethodsPerFile: must be positive, got %d", *p.MaxMethodsPerFile))
		}
		cfg.maxMethodsPerFile = *p.MaxMethodsPerFile
	}

	if len(p.IncludeMethods) > 0 && len(p.ExcludeMethods) > 0 {
		cfg.warnings = append(cfg.warnings, Warning{
			Key:     "excludeMethods",
			Code:    diag.SW003IncludeMethodsOverride,
			Message: "ignored because includeMethods is set",
		})
	}

	for _, key := range p.Unknown {
		cfg.warnings = append(cfg.warnings, Warning{
			Key:     key,
			Code:    diag.SW002UnknownConfigKey,
			Message: "unknown key ignored",
		})
	}

	if errs != nil {
		return nil, newInvalidError(errs)
	}

	return cfg, nil
}

func pick(user, def []string) []string {
	if user != nil {
		return user
	}
	return def
}

func compileSet(
	errs error,
	key string,
	patterns []string,
	compile func(string) (*glob.Pattern, error),
) (glob.Set, error) {
	set := make(glob.Set, 0, len(patterns))
	for i, pattern := range patterns {
		if pattern == "" {
			errs = multierr.Append(errs, fmt.Errorf("%s[%d]: must be a non-empty string", key, i))
			continue
		}

		p, err := compile(pattern)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s[%d]: %w", key, i, err))
			continue
		}
		set = append(set, p)
	}

	return set, errs
}
