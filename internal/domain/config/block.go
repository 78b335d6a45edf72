package config

import (
	"fmt"
	"sort"
	"strings"
)

// ShorthandKey holds the value of a block written as "kind: scalar" or
// "kind: [list]". Blocks document which parameter the shorthand maps to.
const ShorthandKey = "value"

// Reserved block keys. They steer merging and are never passed to the
// building block.
const (
	keyKind   = "kind"
	keyID     = "id"
	keyBefore = "before"
	keyAfter  = "after"
	keyRemove = "remove"
)

// BlockSpec is one building block entry of a layer.
type BlockSpec struct {
	Kind   string
	ID     string
	Before string
	After  string
	Remove bool
	Params map[string]interface{}
	// Provenance is the path of the layer that declared or last modified
	// the block.
	Provenance string
}

// Ref returns a human readable reference to the block.
func (b BlockSpec) Ref() string {
	if b.ID != "" {
		return fmt.Sprintf("%s[%s]", b.Kind, b.ID)
	}
	return b.Kind
}

// Clone returns a deep copy of the block.
func (b BlockSpec) Clone() BlockSpec {
	c := b
	c.Params = cloneMap(b.Params)
	return c
}

// parseBlock converts one decoded list entry into a BlockSpec. Two shapes are
// accepted:
//
//	- ucx: {version: 1.17.0}         single-key map, kind as key
//	- {kind: ucx, version: 1.17.0}   flat map, kind as a field
func parseBlock(entry interface{}, where string) (BlockSpec, error) {
	m, ok := toStringMap(entry)
	if !ok {
		return BlockSpec{}, NewBlockInvalidError(where,
			fmt.Sprintf("block must be a map, got %T", entry))
	}

	var kind string
	var params map[string]interface{}

	if k, ok := m[keyKind]; ok {
		s, ok := k.(string)
		if !ok {
			return BlockSpec{}, NewBlockInvalidError(where, "block kind must be a string")
		}
		kind = s
		params = cloneMap(m)
		delete(params, keyKind)
	} else {
		if len(m) != 1 {
			return BlockSpec{}, NewBlockInvalidError(where,
				fmt.Sprintf("block must have exactly one kind key, got %s", strings.Join(sortedMapKeys(m), ", ")))
		}
		for k, v := range m {
			kind = k
			params = blockParams(v)
		}
	}

	kind = strings.TrimSpace(kind)
	if kind == "" {
		return BlockSpec{}, NewBlockInvalidError(where, "block kind cannot be empty")
	}

	spec := BlockSpec{Kind: kind, Params: params}
	var err error
	if spec.ID, err = popString(params, keyID); err != nil {
		return BlockSpec{}, NewBlockInvalidError(where, err.Error())
	}
	if spec.Before, err = popString(params, keyBefore); err != nil {
		return BlockSpec{}, NewBlockInvalidError(where, err.Error())
	}
	if spec.After, err = popString(params, keyAfter); err != nil {
		return BlockSpec{}, NewBlockInvalidError(where, err.Error())
	}
	if v, ok := params[keyRemove]; ok {
		b, ok := v.(bool)
		if !ok {
			return BlockSpec{}, NewBlockInvalidError(where, "remove must be a boolean")
		}
		spec.Remove = b
		delete(params, keyRemove)
	}
	if spec.Before != "" && spec.After != "" {
		return BlockSpec{}, NewBlockInvalidError(where, "block cannot set both before and after")
	}

	return spec, nil
}

// blockParams interprets the value under a kind key.
func blockParams(v interface{}) map[string]interface{} {
	if v == nil {
		return map[string]interface{}{}
	}
	if m, ok := toStringMap(v); ok {
		return cloneMap(m)
	}
	return map[string]interface{}{ShorthandKey: v}
}

func popString(m map[string]interface{}, key string) (string, error) {
	v, ok := m[key]
	if !ok {
		return "", nil
	}
	delete(m, key)
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string, got %T", key, v)
	}
	return strings.TrimSpace(s), nil
}

// toStringMap normalizes the map shapes produced by the YAML, TOML and HCL
// decoders.
func toStringMap(v interface{}) (map[string]interface{}, bool) {
	switch m := v.(type) {
	case map[string]interface{}:
		return m, true
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	default:
		return nil, false
	}
}

func cloneMap(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return nil
	}
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		return cloneMap(t)
	case map[interface{}]interface{}:
		m, _ := toStringMap(t)
		return cloneMap(m)
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

func sortedMapKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
