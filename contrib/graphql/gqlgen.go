package graphql

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	i18n "github.com/syssam/velox-i18n"
)

// GQLGenConfig is a gqlgen.yml document. Only the schema list and the
// model bindings are edited; other keys and comments are kept as they are.
type GQLGenConfig struct {
	doc *yaml.Node
}

// ParseGQLGenConfig parses a gqlgen.yml document.
func ParseGQLGenConfig(data []byte) (*GQLGenConfig, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse gqlgen config: %w", err)
	}
	if doc.Kind == 0 {
		doc = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parse gqlgen config: expected a mapping document")
	}
	return &GQLGenConfig{doc: &doc}, nil
}

// LoadGQLGenConfig loads a gqlgen.yml configuration file. A missing file
// yields an empty configuration.
func LoadGQLGenConfig(path string) (*GQLGenConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read gqlgen config: %w", err)
	}
	return ParseGQLGenConfig(data)
}

// Bytes encodes the configuration.
func (c *GQLGenConfig) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c.doc); err != nil {
		return nil, fmt.Errorf("marshal gqlgen config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("marshal gqlgen config: %w", err)
	}
	return buf.Bytes(), nil
}

// SaveGQLGenConfig saves a gqlgen.yml configuration file.
func SaveGQLGenConfig(path string, cfg *GQLGenConfig) error {
	data, err := cfg.Bytes()
	if err != nil {
		return err
	}
	// Ensure directory exists
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// SchemaPaths returns the schema paths of the configuration.
func (c *GQLGenConfig) SchemaPaths() []string {
	return stringList(lookup(c.root(), "schema"))
}

// AddSchemaPath adds a schema path to the configuration if not already present.
func (c *GQLGenConfig) AddSchemaPath(path string) {
	appendString(c.root(), "schema", path)
}

// Models returns the Go models bound to each GraphQL type.
func (c *GQLGenConfig) Models() map[string][]string {
	models := make(map[string][]string)
	m := lookup(c.root(), "models")
	if m == nil || m.Kind != yaml.MappingNode {
		return models
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		models[m.Content[i].Value] = stringList(lookup(m.Content[i+1], "model"))
	}
	return models
}

// SetModel sets the model binding for a GraphQL type.
func (c *GQLGenConfig) SetModel(typeName, modelPath string) {
	models := ensure(c.root(), "models", yaml.MappingNode)
	entry := ensure(models, typeName, yaml.MappingNode)
	appendString(entry, "model", modelPath)
}

// BindTranslations adds the bindings of the translation types of the
// models registered with m to the configuration: the schema path of the
// exported SDL, the model binding of each translation type to its
// generated Go type, and the gqlgen types of the custom scalars.
func (c *GQLGenConfig) BindTranslations(pkg, schemaPath string, m *i18n.Manager) {
	if pkg == "" {
		return
	}
	if schemaPath != "" {
		c.AddSchemaPath(schemaPath)
	}
	for _, model := range m.Models() {
		name := model.Class().Name
		c.SetModel(name, pkg+"."+name)
	}
	scalars := make([]string, 0, len(scalarModels))
	for s := range scalarModels {
		scalars = append(scalars, s)
	}
	slices.Sort(scalars)
	for _, s := range scalars {
		c.SetModel(s, scalarModels[s])
	}
}

func (c *GQLGenConfig) root() *yaml.Node {
	return c.doc.Content[0]
}

// lookup returns the value of key in a mapping node.
func lookup(m *yaml.Node, key string) *yaml.Node {
	if m == nil || m.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

// ensure returns the value of key in a mapping node, adding an empty node
// of the given kind when missing or null.
func ensure(m *yaml.Node, key string, kind yaml.Kind) *yaml.Node {
	if v := lookup(m, key); v != nil {
		if v.Kind == yaml.ScalarNode && v.Tag == "!!null" {
			v.Kind, v.Tag, v.Value = kind, "", ""
		}
		return v
	}
	v := &yaml.Node{Kind: kind}
	m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: key}, v)
	return v
}

// stringList decodes a node holding either a string or a list of strings.
func stringList(n *yaml.Node) []string {
	switch {
	case n == nil:
		return nil
	case n.Kind == yaml.ScalarNode && n.Tag != "!!null":
		return []string{n.Value}
	case n.Kind == yaml.SequenceNode:
		var list []string
		for _, c := range n.Content {
			list = append(list, c.Value)
		}
		return list
	}
	return nil
}

// appendString adds s to the string or string list under key, turning a
// single string into a list when needed.
func appendString(m *yaml.Node, key, s string) {
	v := lookup(m, key)
	if slices.Contains(stringList(v), s) {
		return
	}
	item := &yaml.Node{Kind: yaml.ScalarNode, Value: s}
	switch {
	case v == nil:
		m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: key}, item)
	case v.Kind == yaml.ScalarNode && v.Tag != "!!null":
		first := &yaml.Node{Kind: yaml.ScalarNode, Value: v.Value, Style: v.Style}
		*v = yaml.Node{Kind: yaml.SequenceNode, Content: []*yaml.Node{first, item}}
	case v.Kind == yaml.SequenceNode:
		v.Content = append(v.Content, item)
	default:
		*v = yaml.Node{Kind: yaml.ScalarNode, Value: s}
	}
}
