package config

import "fmt"

// MergedConfig is the result of merging a target's layers.
type MergedConfig struct {
	Target    string
	Format    string
	Doc       string
	Variables map[string]string
	Blocks    []BlockSpec
	Layers    []string
	// provenance maps a variable name to the layer that set it last.
	provenance map[string]string
}

// VariableProvenance returns the layer that last set a variable.
func (m *MergedConfig) VariableProvenance(name string) string {
	if m.provenance == nil {
		return ""
	}
	return m.provenance[name]
}

// FindBlock returns the block with the given id.
func (m *MergedConfig) FindBlock(id string) (BlockSpec, bool) {
	if i := indexOf(m.Blocks, id); i >= 0 {
		return m.Blocks[i], true
	}
	return BlockSpec{}, false
}

// Merger merges multiple layers into a single MergedConfig.
type Merger struct{}

// NewMerger creates a new Merger.
func NewMerger() *Merger {
	return &Merger{}
}

// Merge combines layers in order:
//   - doc: last non-empty wins
//   - variables: last-wins per key
//   - blocks with an id seen before: parameters deep-merged in place, lists
//     replaced; remove drops the block; before/after moves it
//   - other blocks: appended, or inserted at before/after
func (m *Merger) Merge(layers []Layer) (*MergedConfig, error) {
	var blockCount int
	for _, layer := range layers {
		blockCount += len(layer.Blocks)
	}

	merged := &MergedConfig{
		Variables:  make(map[string]string),
		Blocks:     make([]BlockSpec, 0, blockCount),
		Layers:     make([]string, 0, len(layers)),
		provenance: make(map[string]string),
	}

	for _, layer := range layers {
		merged.Layers = append(merged.Layers, layer.Name.String())
		if layer.Doc != "" {
			merged.Doc = layer.Doc
		}
		for k, v := range layer.Variables {
			merged.Variables[k] = v
			merged.provenance[k] = layer.Name.String()
		}

		for _, b := range layer.Blocks {
			blocks, err := mergeBlock(merged.Blocks, b.Clone(), layer.Name.String())
			if err != nil {
				return nil, err
			}
			merged.Blocks = blocks
		}
	}

	return merged, nil
}

func mergeBlock(blocks []BlockSpec, b BlockSpec, layer string) ([]BlockSpec, error) {
	existing := indexOf(blocks, b.ID)

	if b.Remove {
		if b.ID == "" {
			return nil, NewMergeConflictError(layer, fmt.Sprintf("%s: remove requires an id", b.Kind))
		}
		if existing < 0 {
			return nil, NewMergeConflictError(layer, fmt.Sprintf("cannot remove unknown block %q", b.ID))
		}
		return append(blocks[:existing:existing], blocks[existing+1:]...), nil
	}

	if existing >= 0 {
		prev := blocks[existing]
		if prev.Kind != b.Kind {
			return nil, NewMergeConflictError(layer,
				fmt.Sprintf("block %q is a %s block, cannot override it with %s", b.ID, prev.Kind, b.Kind))
		}
		prev.Params = deepMerge(prev.Params, b.Params)
		prev.Provenance = b.Provenance
		if b.Before == "" && b.After == "" {
			blocks[existing] = prev
			return blocks, nil
		}
		blocks = append(blocks[:existing:existing], blocks[existing+1:]...)
		prev.Before, prev.After = b.Before, b.After
		b = prev
	}

	anchor := b.Before
	if anchor == "" {
		anchor = b.After
	}
	if anchor == "" {
		return append(blocks, b), nil
	}

	at := indexOf(blocks, anchor)
	if at < 0 {
		return nil, NewMergeConflictError(layer,
			fmt.Sprintf("%s references unknown block %q", b.Ref(), anchor))
	}
	if b.After != "" {
		at++
	}
	b.Before, b.After = "", ""

	out := make([]BlockSpec, 0, len(blocks)+1)
	out = append(out, blocks[:at]...)
	out = append(out, b)
	out = append(out, blocks[at:]...)
	return out, nil
}

func indexOf(blocks []BlockSpec, id string) int {
	if id == "" {
		return -1
	}
	for i, b := range blocks {
		if b.ID == id {
			return i
		}
	}
	return -1
}

// deepMerge overlays src onto dst. Nested maps merge recursively; every
// other value, lists included, is replaced.
func deepMerge(dst, src map[string]interface{}) map[string]interface{} {
	out := cloneMap(dst)
	if out == nil {
		out = make(map[string]interface{}, len(src))
	}
	for k, v := range src {
		if sm, ok := toStringMap(v); ok {
			if dm, ok := toStringMap(out[k]); ok {
				out[k] = deepMerge(dm, sm)
				continue
			}
		}
		out[k] = cloneValue(v)
	}
	return out
}
