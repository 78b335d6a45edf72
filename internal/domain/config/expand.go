package config

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// Expand substitutes {{ .name }} references in every string parameter with
// the merged recipe variables. Shell text such as $PATH is left alone.
func Expand(merged *MergedConfig) (*MergedConfig, error) {
	out := *merged
	out.Blocks = make([]BlockSpec, len(merged.Blocks))

	for i, b := range merged.Blocks {
		c := b.Clone()
		params, err := expandValue(c.Params, merged.Variables)
		if err != nil {
			return nil, NewVariableUndefinedError(fmt.Sprintf("%s in %s", b.Ref(), b.Provenance), err)
		}
		c.Params, _ = params.(map[string]interface{})
		out.Blocks[i] = c
	}

	doc, err := expandString(merged.Doc, merged.Variables)
	if err != nil {
		return nil, NewVariableUndefinedError("doc", err)
	}
	out.Doc = doc

	return &out, nil
}

func expandValue(v interface{}, vars map[string]string) (interface{}, error) {
	switch t := v.(type) {
	case string:
		return expandString(t, vars)
	case map[string]interface{}:
		for k, e := range t {
			x, err := expandValue(e, vars)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			t[k] = x
		}
		return t, nil
	case []interface{}:
		for i, e := range t {
			x, err := expandValue(e, vars)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			t[i] = x
		}
		return t, nil
	default:
		return v, nil
	}
}

func expandString(s string, vars map[string]string) (string, error) {
	if !strings.Contains(s, "{{") {
		return s, nil
	}
	tmpl, err := template.New("param").Option("missingkey=error").Parse(s)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return "", err
	}
	return buf.String(), nil
}
