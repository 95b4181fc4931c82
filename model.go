package i18n

import (
	"slices"

	"github.com/syssam/velox-i18n/dialect/sql/schema"
)

// Model describes a translatable model.
type Model struct {
	// Name identifies the model, e.g. "Article".
	Name string
	// Table is the table the model is mapped on. Models inheriting from a
	// single-table ancestor leave it nil.
	Table *schema.Table
	// Inherits names the parent model. The parent must be registered first.
	Inherits string
	// TranslatedColumns are the columns stored per locale.
	TranslatedColumns []*schema.Column
	// Relations names mapped attributes that are not table columns.
	Relations []string
	// Metadata receives the translation table of root models. It defaults
	// to the nearest ancestor's, then to the manager's.
	Metadata *schema.Metadata
	// Options overrides the manager options. A nil block inherits the
	// nearest ancestor's block.
	Options *Options

	id        int
	ancestors []int // arena indices, nearest first
	manager   *Manager
	config    *Config
	accessors map[string]Property
}

// Config is the configuration snapshot published on a registered model.
// Each model owns its snapshot; siblings sharing an Options block do not
// share their Config.
type Config struct {
	Options
	Class   *TranslationType
	Manager *Manager
}

// Config returns the configuration of the model, or nil if the model was
// not built by a manager.
func (m *Model) Config() *Config {
	return m.config
}

// Class returns the translation type of the model.
func (m *Model) Class() *TranslationType {
	if m.config == nil {
		return nil
	}
	return m.config.Class
}

// Manager returns the manager the model is registered with.
func (m *Model) Manager() *Manager {
	return m.manager
}

// Parent returns the registered parent model, if any.
func (m *Model) Parent() *Model {
	if len(m.ancestors) == 0 || m.manager == nil {
		return nil
	}
	return m.manager.at(m.ancestors[0])
}

// Ancestors returns the ancestors of the model, nearest first.
func (m *Model) Ancestors() []*Model {
	if m.manager == nil {
		return nil
	}
	return m.manager.ancestorsOf(m.ancestors)
}

// MappedTable returns the table the model is mapped on: its own, else the
// nearest ancestor's.
func (m *Model) MappedTable() *schema.Table {
	return mappedTable(m, m.Ancestors())
}

// PrimaryKey returns the primary key columns of the model.
func (m *Model) PrimaryKey() []*schema.Column {
	if t := m.MappedTable(); t != nil {
		return slices.Clone(t.PrimaryKey)
	}
	return nil
}

// HasAttribute reports if the model maps an attribute with the given name,
// as a table column or a relation, either itself or through an ancestor.
func (m *Model) HasAttribute(name string) bool {
	return hasAttribute(m, m.Ancestors(), name)
}

// Property returns the accessor installed for the given name on the model
// or inherited from an ancestor.
func (m *Model) Property(name string) (Property, bool) {
	if p, ok := m.accessors[name]; ok {
		return p, true
	}
	for _, a := range m.Ancestors() {
		if p, ok := a.accessors[name]; ok {
			return p, true
		}
	}
	return nil, false
}

// Properties returns the names of the accessors installed on the model
// itself, in installation order.
func (m *Model) Properties() []string {
	if m.config == nil || m.config.Class == nil {
		return nil
	}
	var names []string
	for _, c := range m.config.Class.columns {
		if _, ok := m.accessors[c.Name]; ok {
			names = append(names, c.Name)
		}
	}
	return names
}

func mappedTable(m *Model, ancestors []*Model) *schema.Table {
	if m.Table != nil {
		return m.Table
	}
	for _, a := range ancestors {
		if a.Table != nil {
			return a.Table
		}
	}
	return nil
}

func hasAttribute(m *Model, ancestors []*Model, name string) bool {
	for _, x := range append([]*Model{m}, ancestors...) {
		if x.Table != nil && x.Table.HasColumn(name) {
			return true
		}
		if slices.Contains(x.Relations, name) {
			return true
		}
	}
	return false
}

func metadataOf(m *Model, ancestors []*Model) *schema.Metadata {
	if m.Metadata != nil {
		return m.Metadata
	}
	for _, a := range ancestors {
		if a.Metadata != nil {
			return a.Metadata
		}
	}
	return nil
}
