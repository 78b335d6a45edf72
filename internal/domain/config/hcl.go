package config

import (
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// hclLayer is the HCL shape of a layer:
//
//	name = "gpu.cuda"
//	variables = { cuda = "12.4.1" }
//	block "ucx" {
//	  id   = "ucx"
//	  cuda = true
//	}
type hclLayer struct {
	Name      string            `hcl:"name,optional"`
	Doc       string            `hcl:"doc,optional"`
	Variables map[string]string `hcl:"variables,optional"`
	Blocks    []*hclBlock       `hcl:"block,block"`
}

type hclBlock struct {
	Kind string   `hcl:"kind,label"`
	Body hcl.Body `hcl:",remain"`
}

// ParseLayerHCL parses a Layer from HCL bytes. filename is used in
// diagnostics only.
func ParseLayerHCL(data []byte, filename string) (*Layer, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, diags
	}

	var root hclLayer
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, diags
	}

	raw := rawLayer{
		Name:      root.Name,
		Doc:       root.Doc,
		Variables: make(map[string]interface{}, len(root.Variables)),
		Blocks:    make([]interface{}, 0, len(root.Blocks)),
	}
	for k, v := range root.Variables {
		raw.Variables[k] = v
	}

	for _, b := range root.Blocks {
		params, err := hclBlockParams(b.Body)
		if err != nil {
			return nil, fmt.Errorf("block %q: %w", b.Kind, err)
		}
		params[keyKind] = b.Kind
		raw.Blocks = append(raw.Blocks, params)
	}

	return raw.build()
}

func hclBlockParams(body hcl.Body) (map[string]interface{}, error) {
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}

	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	params := make(map[string]interface{}, len(attrs))
	for _, name := range names {
		val, diags := attrs[name].Expr.Value(nil)
		if diags.HasErrors() {
			return nil, diags
		}
		native, err := ctyToNative(val)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", name, err)
		}
		params[name] = native
	}
	return params, nil
}

// ctyToNative converts a cty value into the shapes the YAML decoder
// produces. Integral numbers become int.
func ctyToNative(v cty.Value) (interface{}, error) {
	if v.IsNull() || !v.IsKnown() {
		return nil, nil
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString(), nil

	case ty == cty.Number:
		bf := v.AsBigFloat()
		if bf.IsInt() {
			var i int
			if err := gocty.FromCtyValue(v, &i); err == nil {
				return i, nil
			}
		}
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return nil, fmt.Errorf("could not convert number: %w", err)
		}
		return f, nil

	case ty == cty.Bool:
		return v.True(), nil

	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		out := make([]interface{}, 0, v.LengthInt())
		it := v.ElementIterator()
		for it.Next() {
			_, e := it.Element()
			n, err := ctyToNative(e)
			if err != nil {
				return nil, err
			}
			out = append(out, n)
		}
		return out, nil

	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]interface{})
		it := v.ElementIterator()
		for it.Next() {
			k, e := it.Element()
			n, err := ctyToNative(e)
			if err != nil {
				return nil, fmt.Errorf("in attribute %q: %w", k.AsString(), err)
			}
			out[k.AsString()] = n
		}
		return out, nil

	default:
		return nil, fmt.Errorf("unsupported value type %s", ty.FriendlyName())
	}
}
