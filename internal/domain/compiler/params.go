package compiler

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/felixgeelhaar/ogbon/internal/domain/config"
)

// params holds the raw parameter map of one block instance. It records which
// keys a block read so that misspelled parameters are reported instead of
// silently ignored.
type params struct {
	values    map[string]interface{}
	shorthand string
	used      map[string]bool
	errs      []error
}

func newParams(values map[string]interface{}) *params {
	if values == nil {
		values = map[string]interface{}{}
	}
	return &params{
		values: values,
		used:   make(map[string]bool, len(values)),
	}
}

func (p *params) lookup(key string) (interface{}, bool) {
	p.used[key] = true
	if v, ok := p.values[key]; ok {
		return v, true
	}
	if key == p.shorthand {
		p.used[config.ShorthandKey] = true
		v, ok := p.values[config.ShorthandKey]
		return v, ok
	}
	return nil, false
}

func (p *params) fail(key, format string, args ...interface{}) {
	p.errs = append(p.errs, fmt.Errorf("parameter %q: %s", key, fmt.Sprintf(format, args...)))
}

func (p *params) err() error {
	var unknown []string
	for k := range p.values {
		if !p.used[k] {
			unknown = append(unknown, k)
		}
	}
	errs := p.errs
	if len(unknown) > 0 {
		sort.Strings(unknown)
		errs = append(errs, fmt.Errorf("unknown parameter(s): %s", strings.Join(unknown, ", ")))
	}
	return errors.Join(errs...)
}

// scalarString formats YAML, TOML and HCL scalars as strings.
func scalarString(v interface{}) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case bool:
		return strconv.FormatBool(t), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case uint64:
		return strconv.FormatUint(t, 10), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	default:
		return "", false
	}
}

// String returns a string parameter. Numbers and booleans are formatted, so
// "version: 17" reads as "17".
func (c CompileContext) String(key, def string) string {
	v, ok := c.params.lookup(key)
	if !ok || v == nil {
		return def
	}
	s, ok := scalarString(v)
	if !ok {
		c.params.fail(key, "expected a string, got %T", v)
		return def
	}
	return s
}

// Require returns a string parameter that must be present and non-empty.
func (c CompileContext) Require(key string) string {
	s := c.String(key, "")
	if s == "" {
		c.params.fail(key, "is required")
	}
	return s
}

// Bool returns a boolean parameter. The strings "true" and "false" are
// accepted as well.
func (c CompileContext) Bool(key string, def bool) bool {
	v, ok := c.params.lookup(key)
	if !ok || v == nil {
		return def
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		b, err := strconv.ParseBool(t)
		if err == nil {
			return b
		}
	}
	c.params.fail(key, "expected a boolean, got %v", v)
	return def
}

// Int returns an integer parameter.
func (c CompileContext) Int(key string, def int) int {
	v, ok := c.params.lookup(key)
	if !ok || v == nil {
		return def
	}
	switch t := v.(type) {
	case int:
		return t
	case int64:
		return int(t)
	case uint64:
		return int(t)
	case float64:
		if t == math.Trunc(t) {
			return int(t)
		}
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return i
		}
	}
	c.params.fail(key, "expected an integer, got %v", v)
	return def
}

// Strings returns a list parameter. A single scalar is treated as a
// one-element list. Order and duplicates are kept.
func (c CompileContext) Strings(key string) []string {
	v, ok := c.params.lookup(key)
	if !ok || v == nil {
		return nil
	}
	switch t := v.(type) {
	case []string:
		out := make([]string, len(t))
		copy(out, t)
		return out
	case []interface{}:
		out := make([]string, 0, len(t))
		for i, e := range t {
			s, ok := scalarString(e)
			if !ok {
				c.params.fail(key, "element %d: expected a string, got %T", i, e)
				return nil
			}
			out = append(out, s)
		}
		return out
	default:
		if s, ok := scalarString(v); ok {
			return []string{s}
		}
	}
	c.params.fail(key, "expected a list of strings, got %T", v)
	return nil
}

// StringMap returns a map parameter with scalar values.
func (c CompileContext) StringMap(key string) map[string]string {
	v, ok := c.params.lookup(key)
	if !ok || v == nil {
		return nil
	}
	var m map[string]interface{}
	switch t := v.(type) {
	case map[string]string:
		out := make(map[string]string, len(t))
		for k, e := range t {
			out[k] = e
		}
		return out
	case map[string]interface{}:
		m = t
	case map[interface{}]interface{}:
		m = make(map[string]interface{}, len(t))
		for k, e := range t {
			m[fmt.Sprint(k)] = e
		}
	default:
		c.params.fail(key, "expected a map, got %T", v)
		return nil
	}

	out := make(map[string]string, len(m))
	for k, e := range m {
		s, ok := scalarString(e)
		if !ok {
			c.params.fail(key, "entry %q: expected a scalar, got %T", k, e)
			return nil
		}
		out[k] = s
	}
	return out
}

// BoolOrString reads a parameter that is either a switch or a value, such as
// "cuda: true" versus "cuda: /usr/local/cuda". A non-empty string enables the
// option and is returned as the value.
func (c CompileContext) BoolOrString(key string) (bool, string) {
	v, ok := c.params.lookup(key)
	if !ok || v == nil {
		return false, ""
	}
	switch t := v.(type) {
	case bool:
		return t, ""
	case string:
		if b, err := strconv.ParseBool(t); err == nil {
			return b, ""
		}
		return t != "", t
	}
	c.params.fail(key, "expected a boolean or a string, got %T", v)
	return false, ""
}

// Path returns an absolute path parameter.
func (c CompileContext) Path(key, def string) string {
	p := c.String(key, def)
	if p != "" && !strings.HasPrefix(p, "/") {
		c.params.fail(key, "must be an absolute path, got %q", p)
		return def
	}
	if len(p) > 1 {
		p = strings.TrimSuffix(p, "/")
	}
	return p
}

// Has reports whether the parameter is set.
func (c CompileContext) Has(key string) bool {
	_, ok := c.params.lookup(key)
	return ok
}

// Fail records a parameter error found by the block itself.
func (c CompileContext) Fail(key, format string, args ...interface{}) {
	c.params.fail(key, format, args...)
}

// Err reports type errors, missing required parameters and parameters no
// accessor asked for.
func (c CompileContext) Err() error {
	return c.params.err()
}
