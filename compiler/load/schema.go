// Package load reads translatable model declarations from YAML files.
package load

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-openapi/inflect"
	"gopkg.in/yaml.v3"

	i18n "github.com/syssam/velox-i18n"
	"github.com/syssam/velox-i18n/dialect/sql/schema"
	"github.com/syssam/velox-i18n/schema/field"
	"github.com/syssam/velox-i18n/schema/mixin"
)

// Schema represents a model declaration file.
type Schema struct {
	Pos     string   `yaml:"-"`
	Options *Options `yaml:"options,omitempty"`
	Models  []*Model `yaml:"models,omitempty"`
}

// Options represents the translation options of the manager or of a model.
type Options struct {
	Locales                 []string `yaml:"locales,omitempty"`
	DefaultLocale           string   `yaml:"default_locale,omitempty"`
	TableName               string   `yaml:"table_name,omitempty"`
	LocaleColumnName        string   `yaml:"locale_column_name,omitempty"`
	BaseMixins              []string `yaml:"base_mixins,omitempty"`
	ExcludeHybridProperties []string `yaml:"exclude_hybrid_properties,omitempty"`
}

// Model represents a translatable model declaration.
type Model struct {
	Name       string    `yaml:"name"`
	Table      string    `yaml:"table,omitempty"`
	Inherits   string    `yaml:"inherits,omitempty"`
	Columns    []*Column `yaml:"columns,omitempty"`
	Translated []*Column `yaml:"translated,omitempty"`
	Relations  []string  `yaml:"relations,omitempty"`
	Indexes    []*Index  `yaml:"indexes,omitempty"`
	Options    *Options  `yaml:"options,omitempty"`
	Comment    string    `yaml:"comment,omitempty"`
}

// Column represents a column declaration.
type Column struct {
	Name       string   `yaml:"name"`
	Type       string   `yaml:"type"`
	Size       int64    `yaml:"size,omitempty"`
	PrimaryKey bool     `yaml:"primary_key,omitempty"`
	Increment  bool     `yaml:"increment,omitempty"`
	Nullable   bool     `yaml:"nullable,omitempty"`
	Unique     bool     `yaml:"unique,omitempty"`
	Default    any      `yaml:"default,omitempty"`
	Enums      []string `yaml:"enums,omitempty"`
	Comment    string   `yaml:"comment,omitempty"`
}

// Index represents an index declaration of a model table.
type Index struct {
	Name    string   `yaml:"name,omitempty"`
	Unique  bool     `yaml:"unique,omitempty"`
	Columns []string `yaml:"columns"`
}

// Parse decodes a declaration file. Unknown keys are rejected.
func Parse(r io.Reader) (*Schema, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	s := &Schema{}
	if err := dec.Decode(s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("load: decode: %w", err)
	}
	return s, nil
}

// ParseFile decodes the declaration file at path.
func ParseFile(path string) (*Schema, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	s, err := Parse(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.Pos = path
	return s, nil
}

// Load reads and merges the declaration files at the given paths.
// Directories are expanded to the .yaml and .yml files they contain.
func Load(paths ...string) (*Schema, error) {
	files, err := expand(paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("load: no declaration files found in %s", strings.Join(paths, ", "))
	}
	merged := &Schema{Pos: strings.Join(files, ",")}
	var errs []error
	for _, f := range files {
		s, err := ParseFile(f)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if s.Options != nil {
			if merged.Options != nil {
				errs = append(errs, fmt.Errorf("load: %s: manager options already declared", f))
				continue
			}
			merged.Options = s.Options
		}
		merged.Models = append(merged.Models, s.Models...)
	}
	if err := i18n.NewAggregateError(errs...); err != nil {
		return nil, err
	}
	return merged, nil
}

func expand(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("load: %w", err)
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, fmt.Errorf("load: %w", err)
		}
		for _, e := range entries {
			if ext := filepath.Ext(e.Name()); !e.IsDir() && (ext == ".yaml" || ext == ".yml") {
				files = append(files, filepath.Join(p, e.Name()))
			}
		}
	}
	return files, nil
}

// Build converts the declarations into manager options and models. Models
// are ordered so that parents come before their subclasses.
func (s *Schema) Build() (i18n.Options, []*i18n.Model, error) {
	var opts i18n.Options
	if s.Options != nil {
		o, err := s.Options.build()
		if err != nil {
			return opts, nil, fmt.Errorf("load: options: %w", err)
		}
		opts = *o
	}
	ordered, err := s.sort()
	if err != nil {
		return opts, nil, err
	}
	var (
		errs   []error
		models = make([]*i18n.Model, 0, len(ordered))
	)
	for _, m := range ordered {
		model, err := m.build()
		if err != nil {
			errs = append(errs, fmt.Errorf("load: model %q: %w", m.Name, err))
			continue
		}
		models = append(models, model)
	}
	if err := i18n.NewAggregateError(errs...); err != nil {
		return opts, nil, err
	}
	return opts, models, nil
}

// Manager builds the declarations and registers the models with a new
// manager.
func (s *Schema) Manager(options ...i18n.ManagerOption) (*i18n.Manager, error) {
	opts, models, err := s.Build()
	if err != nil {
		return nil, err
	}
	m := i18n.NewManager(opts, options...)
	if err := m.Register(models...); err != nil {
		return nil, err
	}
	return m, nil
}

// sort orders the models parents first, keeping the declaration order
// otherwise.
func (s *Schema) sort() ([]*Model, error) {
	byName := make(map[string]*Model, len(s.Models))
	for _, m := range s.Models {
		if m.Name == "" {
			return nil, errors.New("load: model without name")
		}
		if _, ok := byName[m.Name]; ok {
			return nil, fmt.Errorf("load: model %q declared twice", m.Name)
		}
		byName[m.Name] = m
	}
	var (
		sorted = make([]*Model, 0, len(s.Models))
		state  = make(map[string]int, len(s.Models))
		visit  func(*Model) error
	)
	visit = func(m *Model) error {
		switch state[m.Name] {
		case 2:
			return nil
		case 1:
			return fmt.Errorf("load: inheritance cycle through model %q", m.Name)
		}
		state[m.Name] = 1
		if m.Inherits != "" {
			parent, ok := byName[m.Inherits]
			if !ok {
				return fmt.Errorf("load: model %q inherits undeclared model %q", m.Name, m.Inherits)
			}
			if err := visit(parent); err != nil {
				return err
			}
		}
		state[m.Name] = 2
		sorted = append(sorted, m)
		return nil
	}
	for _, m := range s.Models {
		if err := visit(m); err != nil {
			return nil, err
		}
	}
	return sorted, nil
}

func (m *Model) build() (*i18n.Model, error) {
	model := &i18n.Model{
		Name:      m.Name,
		Inherits:  m.Inherits,
		Relations: slices.Clone(m.Relations),
	}
	name := m.Table
	if name == "" && m.Inherits == "" {
		name = TableName(m.Name)
	}
	if name != "" {
		t := schema.NewTable(name)
		t.Comment = m.Comment
		for _, c := range m.Columns {
			col, err := c.build()
			if err != nil {
				return nil, err
			}
			if c.PrimaryKey {
				t.AddPrimary(col)
			} else {
				t.AddColumn(col)
			}
		}
		for _, idx := range m.Indexes {
			for _, c := range idx.Columns {
				if !t.HasColumn(c) {
					return nil, fmt.Errorf("index %q: unknown column %q", idx.Name, c)
				}
			}
			in := idx.Name
			if in == "" {
				in = name + "_" + strings.Join(idx.Columns, "_")
			}
			t.AddIndex(in, idx.Unique, idx.Columns)
		}
		model.Table = t
	} else if len(m.Columns) > 0 {
		return nil, errors.New("columns declared without a table")
	}
	for _, c := range m.Translated {
		col, err := c.build()
		if err != nil {
			return nil, err
		}
		if c.PrimaryKey {
			return nil, fmt.Errorf("translated column %q cannot be a primary key", c.Name)
		}
		model.TranslatedColumns = append(model.TranslatedColumns, col)
	}
	if m.Options != nil {
		o, err := m.Options.build()
		if err != nil {
			return nil, err
		}
		model.Options = o
	}
	return model, nil
}

func (c *Column) build() (*schema.Column, error) {
	if c.Name == "" {
		return nil, errors.New("column without name")
	}
	typ, err := field.ParseType(c.Type)
	if err != nil {
		return nil, fmt.Errorf("column %q: %w", c.Name, err)
	}
	if typ == field.TypeEnum && len(c.Enums) == 0 {
		return nil, fmt.Errorf("column %q: enum without values", c.Name)
	}
	if c.Size < 0 {
		return nil, fmt.Errorf("column %q: negative size %d", c.Name, c.Size)
	}
	return &schema.Column{
		Name:      c.Name,
		Type:      typ,
		Size:      c.Size,
		Unique:    c.Unique,
		Nullable:  c.Nullable,
		Increment: c.Increment,
		Default:   c.Default,
		Enums:     slices.Clone(c.Enums),
		Comment:   c.Comment,
	}, nil
}

func (o *Options) build() (*i18n.Options, error) {
	opts := &i18n.Options{
		Locales:                 slices.Clone(o.Locales),
		DefaultLocale:           o.DefaultLocale,
		TableName:               o.TableName,
		LocaleColumnName:        o.LocaleColumnName,
		ExcludeHybridProperties: slices.Clone(o.ExcludeHybridProperties),
	}
	for _, name := range o.BaseMixins {
		m, ok := mixin.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown base mixin %q (known: %s)", name, strings.Join(mixin.Names(), ", "))
		}
		opts.BaseClasses = append(opts.BaseClasses, m)
	}
	if o.DefaultLocale != "" && len(o.Locales) > 0 && !slices.Contains(o.Locales, o.DefaultLocale) {
		return nil, fmt.Errorf("default locale %q is not one of %v", o.DefaultLocale, o.Locales)
	}
	return opts, nil
}

var rules = inflect.NewDefaultRuleset()

// TableName returns the default table name of a model: the snake-cased
// plural of its name.
func TableName(model string) string {
	return rules.Underscore(rules.Pluralize(model))
}
