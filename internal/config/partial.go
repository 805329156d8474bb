package config

import (
	"fmt"
	"maps"
	"math"
	"slices"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// Partial is a user overlay over the defaults. Nil fields are absent and keep
// their default values.
type Partial struct {
	Include                  []string          `yaml:"include,omitempty"`
	Exclude                  []string          `yaml:"exclude,omitempty"`
	InstrumentPrivateMethods *bool             `yaml:"instrumentPrivateMethods,omitempty"`
	SpanNamePrefix           *string           `yaml:"spanNamePrefix,omitempty"`
	AutoInjectEntryPoint     *bool             `yaml:"autoInjectEntryPoint,omitempty"`
	CommonAttributes         map[string]string `yaml:"commonAttributes,omitempty"`
	ExcludeMethods           []string          `yaml:"excludeMethods,omitempty"`
	IncludeMethods           []string          `yaml:"includeMethods,omitempty"`
	Debug                    *bool             `yaml:"debug,omitempty"`
	LogLevel                 *string           `yaml:"logLevel,omitempty"`
	MaxMethodsPerFile        *int              `yaml:"maxMethodsPerFile,omitempty"`

	// Unknown lists keys Parse did not recognize.
	Unknown []string `yaml:"-"`
}

// Parse decodes a YAML or JSON document into a Partial, checking the type of
// every recognized field.
func Parse(data []byte) (*Partial, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, newInvalidError(fmt.Errorf("decode: %w", err))
	}

	var (
		p    Partial
		errs error
	)
	for _, key := range slices.Sorted(maps.Keys(raw)) {
		value := raw[key]
		var err error
		switch key {
		case "include":
			p.Include, err = stringList(key, value)
		case "exclude":
			p.Exclude, err = stringList(key, value)
		case "instrumentPrivateMethods":
			p.InstrumentPrivateMethods, err = boolean(key, value)
		case "spanNamePrefix":
			p.SpanNamePrefix, err = str(key, value)
		case "autoInjectEntryPoint":
			p.AutoInjectEntryPoint, err = boolean(key, value)
		case "commonAttributes":
			p.CommonAttributes, err = stringMap(key, value)
		case "excludeMethods":
			p.ExcludeMethods, err = stringList(key, value)
		case "includeMethods":
			p.IncludeMethods, err = stringList(key, value)
		case "debug":
			p.Debug, err = boolean(key, value)
		case "logLevel":
			p.LogLevel, err = str(key, value)
		case "maxMethodsPerFile":
			p.MaxMethodsPerFile, err = integer(key, value)
		default:
			p.Unknown = append(p.Unknown, key)
		}
		errs = multierr.Append(errs, err)
	}
	if errs != nil {
		return nil, newInvalidError(errs)
	}

	return &p, nil
}

func stringList(key string, value any) ([]string, error) {
	items, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("%s: must be a list of strings, got %s", key, typeName(value))
	}

	res := make([]string, 0, len(items))
	var errs error
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			errs = multierr.Append(errs, fmt.Errorf("%s[%d]: must be a string, got %s", key, i, typeName(item)))
			continue
		}
		res = append(res, s)
	}
	if errs != nil {
		return nil, errs
	}

	return res, nil
}

func stringMap(key string, value any) (map[string]string, error) {
	items, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s: must be a mapping of strings, got %s", key, typeName(value))
	}

	res := make(map[string]string, len(items))
	var errs error
	for _, k := range slices.Sorted(maps.Keys(items)) {
		item := items[k]
		s, ok := item.(string)
		if !ok {
			errs = multierr.Append(errs, fmt.Errorf("%s.%s: must be a string, got %s", key, k, typeName(item)))
			continue
		}
		res[k] = s
	}
	if errs != nil {
		return nil, errs
	}

	return res, nil
}

func boolean(key string, value any) (*bool, error) {
	v, ok := value.(bool)
	if !ok {
		return nil, fmt.Errorf("%s: must be a boolean, got %s", key, typeName(value))
	}
	return &v, nil
}

func str(key string, value any) (*string, error) {
	v, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("%s: must be a string, got %s", key, typeName(value))
	}
	return &v, nil
}

func integer(key string, value any) (*int, error) {
	switch v := value.(type) {
	case int:
		return &v, nil
	case int64, uint64:
		// Decoded only when the value does not fit into int.
		return nil, fmt.Errorf("%s: out of range, got %v", key, v)
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%s: must be an integer, got %v", key, v)
		}
		if v < math.MinInt || v >= -math.MinInt {
			return nil, fmt.Errorf("%s: out of range, got %v", key, v)
		}
		n := int(v)
		return &n, nil
	default:
		return nil, fmt.Errorf("%s: must be a number, got %s", key, typeName(value))
	}
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case int, int64, uint64, float64:
		return "number"
	case []any:
		return "list"
	case map[string]any:
		return "mapping"
	default:
		return fmt.Sprintf("%T", v)
	}
}
