package i18n

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/syssam/velox-i18n/dialect/sql/schema"
	"github.com/syssam/velox-i18n/schema/field"
)

// TranslationType describes the translation model generated for a
// translatable model. Subclasses of a translated model get their own type
// built on the ancestor's type, sharing its table.
type TranslationType struct {
	// Name is "<Model>Translation".
	Name string
	// Table is the translation table. It is shared along an inheritance
	// chain.
	Table *schema.Table
	// Bases are the types the translation type is built on.
	Bases []Base
	// ForeignKey references the model primary key. It is nil for types
	// built on an ancestor's type.
	ForeignKey *schema.ForeignKey
	// LocaleColumn is the name of the locale column.
	LocaleColumn string

	columns []*schema.Column // declared by this type
	fields  []*schema.Column // declared and inherited
	keys    []string         // model key columns, without the locale
	pending []*schema.Column // not yet added to the shared table
	parent  *Model
}

// Columns returns the columns declared by the type itself.
func (t *TranslationType) Columns() []*schema.Column {
	return slices.Clone(t.columns)
}

// Fields returns all columns of the type, inherited ones included.
func (t *TranslationType) Fields() []*schema.Column {
	return slices.Clone(t.fields)
}

// Field returns the column of the type with the given name.
func (t *TranslationType) Field(name string) (*schema.Column, bool) {
	for _, c := range t.fields {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// PrimaryKey returns the primary key of the translation table.
func (t *TranslationType) PrimaryKey() []*schema.Column {
	return slices.Clone(t.Table.PrimaryKey)
}

// KeyColumns returns the names of the columns copied from the model
// primary key.
func (t *TranslationType) KeyColumns() []string {
	return slices.Clone(t.keys)
}

// ParentModel returns the model the type was generated for.
func (t *TranslationType) ParentModel() *Model {
	return t.parent
}

// Ancestor returns the type this type is built on, or nil for the root
// type of a table.
func (t *TranslationType) Ancestor() *TranslationType {
	for _, b := range t.Bases {
		if a, ok := b.(*TranslationType); ok {
			return a
		}
	}
	return nil
}

// metadata returns the metadata of the declarative base of the type, or
// def when the type is built on custom bases.
func (t *TranslationType) metadata(def *schema.Metadata) *schema.Metadata {
	for _, b := range t.Bases {
		if d, ok := b.(Declarative); ok && d.Metadata != nil {
			return d.Metadata
		}
	}
	return def
}

var _ Base = (*TranslationType)(nil)

// schemaBuilder derives the translation type of a model.
type schemaBuilder struct {
	manager   *Manager
	model     *Model
	ancestors []*Model
	log       *slog.Logger
}

// build resolves the options of the model and derives its translation type.
// The returned link publishes the result on the model; it is not called
// when build fails. Columns of a subclass reach the shared table only
// through TranslationType.attach.
func (b *schemaBuilder) build() (*Config, func(), error) {
	opts := resolveOptions(b.model, b.ancestors, &b.manager.options)
	if len(opts.Locales) == 0 {
		return nil, nil, NewConfigError(b.model.Name, "locales must be defined: either the manager or the model must define available locales")
	}
	cfg := &Config{Options: opts}
	parent := closestGeneratedParent(b.ancestors)
	var (
		tt  *TranslationType
		err error
	)
	if parent != nil {
		tt = b.inherit(parent.config.Class)
	} else if tt, err = b.root(&cfg.Options); err != nil {
		return nil, nil, err
	}
	return cfg, func() {
		cfg.Class = tt
		cfg.Manager = b.manager
		tt.parent = b.model
		b.model.config = cfg
	}, nil
}

// root builds the type owning a new translation table.
func (b *schemaBuilder) root(opts *Options) (*TranslationType, error) {
	m := b.model
	table := mappedTable(m, b.ancestors)
	if table == nil {
		return nil, NewConfigError(m.Name, "model has no table")
	}
	if len(table.PrimaryKey) == 0 {
		return nil, NewConfigError(m.Name, "table %q has no primary key", table.Name)
	}
	if !validTableName(opts.TableName) {
		return nil, NewConfigError(m.Name, "table name template %q must contain a single %%s verb", opts.TableName)
	}
	t := schema.NewTable(fmt.Sprintf(opts.TableName, table.Name))
	merged := &columnSet{}
	keys := make([]string, 0, len(table.PrimaryKey))
	for _, c := range table.PrimaryKey {
		cp := c.Copy()
		cp.Unique = false
		cp.Increment = false
		merged.add(cp)
		keys = append(keys, cp.Name)
	}
	merged.add(&schema.Column{Name: opts.LocaleColumnName, Type: field.TypeString, Size: LocaleColumnSize})
	for _, c := range m.TranslatedColumns {
		if merged.add(c.Copy()) {
			b.log.Warn("translated column replaces an existing column",
				"model", m.Name, "table", t.Name, "column", c.Name)
		}
	}
	for _, c := range merged.columns {
		t.AddColumn(c)
	}
	for _, name := range append(slices.Clone(keys), opts.LocaleColumnName) {
		c, _ := merged.get(name)
		t.PrimaryKey = append(t.PrimaryKey, c)
	}
	fk := &schema.ForeignKey{
		RefTable:   table,
		RefColumns: slices.Clone(table.PrimaryKey),
		OnDelete:   schema.Cascade,
	}
	for _, name := range keys {
		c, _ := merged.get(name)
		fk.Columns = append(fk.Columns, c)
	}
	t.AddForeignKey(fk)

	bases := opts.BaseClasses
	if len(bases) == 0 {
		md := metadataOf(m, b.ancestors)
		if md == nil {
			md = b.manager.metadata
		}
		bases = []Base{Declarative{Metadata: md}}
	}
	for _, base := range bases {
		for _, c := range base.Columns() {
			if !t.HasColumn(c.Name) {
				t.AddColumn(c)
			}
		}
	}
	tt := &TranslationType{
		Name:         m.Name + "Translation",
		Table:        t,
		Bases:        bases,
		ForeignKey:   fk,
		LocaleColumn: opts.LocaleColumnName,
		columns:      merged.columns,
		fields:       slices.Clone(t.Columns),
		keys:         keys,
	}
	return tt, nil
}

// inherit builds a type on the ancestor's type. Its columns are added to
// the shared table by attach, once the model is fully configured.
func (b *schemaBuilder) inherit(base *TranslationType) *TranslationType {
	m := b.model
	merged := &columnSet{}
	for _, c := range m.TranslatedColumns {
		cp := c.Copy()
		if merged.add(cp) || base.Table.HasColumn(c.Name) {
			b.log.Warn("translated column replaces an existing column",
				"model", m.Name, "table", base.Table.Name, "column", c.Name)
		}
	}
	fields := &columnSet{columns: slices.Clone(base.fields)}
	for _, c := range merged.columns {
		fields.add(c)
	}
	return &TranslationType{
		Name:         m.Name + "Translation",
		Table:        base.Table,
		Bases:        []Base{base},
		LocaleColumn: base.LocaleColumn,
		columns:      merged.columns,
		fields:       fields.columns,
		keys:         slices.Clone(base.keys),
		pending:      merged.columns,
	}
}

// attach adds the columns of a subclass type to the shared table.
func (t *TranslationType) attach() {
	for _, c := range t.pending {
		t.Table.AddColumn(c)
	}
	t.pending = nil
}

// closestGeneratedParent returns the nearest ancestor with a translation type.
func closestGeneratedParent(ancestors []*Model) *Model {
	for _, a := range ancestors {
		if a.config != nil && a.config.Class != nil {
			return a
		}
	}
	return nil
}

// columnSet is an ordered name-keyed column mapping. Adding a column with
// a taken name replaces the previous one in place.
type columnSet struct {
	columns []*schema.Column
}

func (s *columnSet) add(c *schema.Column) (replaced bool) {
	for i, old := range s.columns {
		if old.Name == c.Name {
			s.columns[i] = c
			return true
		}
	}
	s.columns = append(s.columns, c)
	return false
}

func (s *columnSet) get(name string) (*schema.Column, bool) {
	for _, c := range s.columns {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}
