package feed

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	mapset "github.com/deckarep/golang-set/v2"
	"gopkg.in/yaml.v3"
)

// feedExtensions are tried in order; the first existing file wins.
var feedExtensions = []string{".yaml", ".yml", ".cue"}

// DirProvider reads feed files from a directory.
type DirProvider struct {
	Dir string
}

// Load implements Provider.
func (p DirProvider) Load(app string) ([]Definition, bool, error) {
	if p.Dir == "" {
		return nil, false, nil
	}
	for _, ext := range feedExtensions {
		path := filepath.Join(p.Dir, app+ext)
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, false, fmt.Errorf("failed to read feed file: %w", err)
		}

		var defs []Definition
		if ext == ".cue" {
			defs, err = ParseCUE(path, data)
		} else {
			defs, err = ParseYAML(data)
		}
		if err != nil {
			return nil, false, fmt.Errorf("feed %s: %w", path, err)
		}
		defs, err = Normalize(defs)
		if err != nil {
			return nil, false, fmt.Errorf("feed %s: %w", path, err)
		}
		return defs, true, nil
	}
	return nil, false, nil
}

// Apps lists the packages that have a feed file in the directory, sorted
// by name. A missing directory has no feeds.
func (p DirProvider) Apps() ([]string, error) {
	if p.Dir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(p.Dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list feeds: %w", err)
	}

	apps := mapset.NewThreadUnsafeSet[string]()
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if slices.Contains(feedExtensions, ext) {
			apps.Add(strings.TrimSuffix(e.Name(), ext))
		}
	}
	out := apps.ToSlice()
	slices.Sort(out)
	return out, nil
}

// ParseYAML decodes a YAML feed in list or mapping form.
// Unknown fields are rejected to catch typos.
func ParseYAML(data []byte) ([]Definition, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if len(root.Content) == 0 {
		return []Definition{}, nil
	}
	doc := root.Content[0]

	switch doc.Kind {
	case yaml.SequenceNode:
		defs := make([]Definition, 0, len(doc.Content))
		for i, item := range doc.Content {
			def, err := decodeStrict(item)
			if err != nil {
				return nil, fmt.Errorf("icon %d: %w", i, err)
			}
			defs = append(defs, def)
		}
		return defs, nil

	case yaml.MappingNode:
		defs := make([]Definition, 0, len(doc.Content)/2)
		for i := 0; i+1 < len(doc.Content); i += 2 {
			name := doc.Content[i].Value
			def, err := decodeStrict(doc.Content[i+1])
			if err != nil {
				return nil, fmt.Errorf("icon %q: %w", name, err)
			}
			def.ModuleName = name
			defs = append(defs, def)
		}
		return defs, nil
	}

	return nil, fmt.Errorf("feed must be a list or a mapping, got %s", kindName(doc.Kind))
}

// decodeStrict re-encodes a node so the decoder can reject unknown fields;
// yaml.Node.Decode has no KnownFields switch.
func decodeStrict(node *yaml.Node) (Definition, error) {
	var buf bytes.Buffer
	if err := yaml.NewEncoder(&buf).Encode(node); err != nil {
		return Definition{}, err
	}
	var def Definition
	decoder := yaml.NewDecoder(&buf)
	decoder.KnownFields(true)
	if err := decoder.Decode(&def); err != nil {
		return Definition{}, err
	}
	return def, nil
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	case yaml.DocumentNode:
		return "document"
	}
	return fmt.Sprintf("kind %d", k)
}

// ParseCUE evaluates a CUE feed and decodes its `icons` field, which is a
// list of definitions or a struct of module name to definition.
func ParseCUE(filename string, data []byte) ([]Definition, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("failed to compile CUE: %w", err)
	}

	icons := v.LookupPath(cue.ParsePath("icons"))
	if !icons.Exists() {
		return nil, fmt.Errorf("missing top-level icons field")
	}
	if err := icons.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("icons must be concrete: %w", err)
	}

	switch icons.IncompleteKind() {
	case cue.ListKind:
		var defs []Definition
		if err := icons.Decode(&defs); err != nil {
			return nil, fmt.Errorf("decode icons: %w", err)
		}
		return defs, nil

	case cue.StructKind:
		iter, err := icons.Fields()
		if err != nil {
			return nil, fmt.Errorf("iterate icons: %w", err)
		}
		var defs []Definition
		for iter.Next() {
			name := iter.Label()
			var def Definition
			if err := iter.Value().Decode(&def); err != nil {
				return nil, fmt.Errorf("icon %q: %w", name, err)
			}
			def.ModuleName = name
			defs = append(defs, def)
		}
		return defs, nil
	}

	return nil, fmt.Errorf("icons must be a list or a struct, got %s", icons.IncompleteKind())
}
