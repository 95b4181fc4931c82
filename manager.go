package i18n

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/syssam/velox-i18n/dialect/sql/schema"
)

// Manager registers translatable models and holds the manager-level
// options they fall back to.
type Manager struct {
	mu       sync.RWMutex
	options  Options
	log      *slog.Logger
	metadata *schema.Metadata
	models   []*Model // arena, indexed by Model.id
	names    map[string]int
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLogger sets the logger of the manager.
func WithLogger(l *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// WithMetadata sets the metadata receiving the translation tables of
// models that declare none.
func WithMetadata(md *schema.Metadata) ManagerOption {
	return func(m *Manager) {
		if md != nil {
			m.metadata = md
		}
	}
}

// NewManager returns a manager with the given manager-level options.
func NewManager(opts Options, options ...ManagerOption) *Manager {
	m := &Manager{
		options:  opts.clone(),
		log:      slog.New(slog.DiscardHandler),
		metadata: schema.NewMetadata(),
		names:    make(map[string]int),
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

// Options returns a copy of the manager-level options.
func (m *Manager) Options() Options {
	return m.options.clone()
}

// Metadata returns the default metadata of the manager.
func (m *Manager) Metadata() *schema.Metadata {
	return m.metadata
}

// Register builds the translation types and accessors of the given models,
// in order. Parents must be registered before their subclasses, either in
// an earlier call or earlier in the list. Register stops at the first
// failing model; models before it stay registered.
func (m *Manager) Register(models ...*Model) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, model := range models {
		if err := m.register(model); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) register(model *Model) error {
	if model == nil {
		return NewConfigError("", "nil model")
	}
	if model.Name == "" {
		return NewConfigError("", "model name is required")
	}
	if _, ok := m.names[model.Name]; ok {
		return NewConfigError(model.Name, "model is already registered")
	}
	var ancestors []int
	if model.Inherits != "" {
		idx, ok := m.names[model.Inherits]
		if !ok {
			return NewConfigError(model.Name, "parent model %q is not registered", model.Inherits)
		}
		ancestors = append([]int{idx}, m.models[idx].ancestors...)
	}
	chain := m.resolve(ancestors)
	sb := &schemaBuilder{manager: m, model: model, ancestors: chain, log: m.log}
	_, link, err := sb.build()
	if err != nil {
		return err
	}
	link()
	ab := &accessorBuilder{model: model, ancestors: chain}
	if err := ab.build(); err != nil {
		return err
	}
	model.config.Class.attach()
	model.id = len(m.models)
	model.ancestors = ancestors
	model.manager = m
	m.models = append(m.models, model)
	m.names[model.Name] = model.id
	class := model.config.Class
	if class.ForeignKey != nil {
		md := metadataOf(model, chain)
		if md == nil {
			md = m.metadata
		}
		class.metadata(md).AddTable(class.Table)
	}
	m.log.Debug("registered translatable model",
		"model", model.Name,
		"translation", class.Name,
		"table", class.Table.Name,
		"inherited", class.ForeignKey == nil,
		"accessors", len(model.accessors),
	)
	return nil
}

// Model returns the registered model with the given name.
func (m *Manager) Model(name string) (*Model, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	idx, ok := m.names[name]
	if !ok {
		return nil, false
	}
	return m.models[idx], true
}

// Models returns the registered models in registration order.
func (m *Manager) Models() []*Model {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.models)
}

// ClosestGeneratedParent returns the nearest ancestor of the model that
// has a translation type, or nil.
func (m *Manager) ClosestGeneratedParent(model *Model) *Model {
	return closestGeneratedParent(model.Ancestors())
}

// TranslationTables returns the translation tables, one per inheritance
// root, in registration order.
func (m *Manager) TranslationTables() []*schema.Table {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var tables []*schema.Table
	for _, model := range m.models {
		if c := model.config.Class; c.ForeignKey != nil {
			tables = append(tables, c.Table)
		}
	}
	return tables
}

// Tables returns the model tables followed by the translation tables.
func (m *Manager) Tables() []*schema.Table {
	m.mu.RLock()
	var tables []*schema.Table
	for _, model := range m.models {
		if model.Table != nil && !slices.Contains(tables, model.Table) {
			tables = append(tables, model.Table)
		}
	}
	m.mu.RUnlock()
	return append(tables, m.TranslationTables()...)
}

// Validate validates the model and translation tables.
func (m *Manager) Validate() error {
	res := schema.ValidateSchema(m.Tables())
	for _, w := range res.Warnings {
		m.log.Warn("schema warning", "table", w.Table, "column", w.Column, "message", w.Message)
	}
	if err := res.Err(); err != nil {
		return fmt.Errorf("i18n: validate: %w", err)
	}
	return nil
}

// DefaultLocale returns the default locale of the record: the result of
// DefaultLocaleFunc when set and non-empty, else DefaultLocale.
func (m *Manager) DefaultLocale(r *Record) string {
	cfg := r.model.config
	if cfg.DefaultLocaleFunc != nil {
		if l := cfg.DefaultLocaleFunc(r); l != "" {
			return l
		}
	}
	if cfg.DefaultLocale != "" {
		return cfg.DefaultLocale
	}
	if len(cfg.Locales) > 0 {
		return cfg.Locales[0]
	}
	return ""
}

func (m *Manager) ancestorsOf(ids []int) []*Model {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.resolve(ids)
}

func (m *Manager) at(idx int) *Model {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.models[idx]
}

// resolve maps arena indices to models. Callers holding the write lock
// may call it since it takes no lock.
func (m *Manager) resolve(ids []int) []*Model {
	models := make([]*Model, len(ids))
	for i, id := range ids {
		models[i] = m.models[id]
	}
	return models
}
