package i18n

import (
	"reflect"

	"github.com/syssam/velox-i18n/dialect/sql/schema"
)

// Property is an attribute installed on a model.
type Property interface {
	// Name returns the attribute name.
	Name() string
	// Get reads the attribute of the record.
	Get(*Record) (any, error)
	// Set writes the attribute of the record.
	Set(*Record, any) error
	// Expr returns the column the attribute stands for in query expressions.
	Expr() schema.ColumnRef
}

// Hybrid is the accessor of a translated column. Reads go to the current
// translation of the record and fall back to its default-locale
// translation. Writes always go to the current translation.
type Hybrid struct {
	name  string
	class *TranslationType
}

var _ Property = (*Hybrid)(nil)

// Name implements Property.
func (h *Hybrid) Name() string { return h.name }

// Get returns the value of the current translation if it is set, else the
// value of the default-locale translation. A missing default-locale
// translation is returned as a TranslationNotFoundError.
func (h *Hybrid) Get(r *Record) (any, error) {
	if t, ok := r.translations[r.Locale()]; ok {
		v, err := t.Get(h.name)
		if err != nil {
			return nil, err
		}
		if truthy(v) {
			return v, nil
		}
	}
	t, err := r.Translations().Get(r.DefaultLocale())
	if err != nil {
		return nil, err
	}
	return t.Get(h.name)
}

// Set writes v to the current translation of the record.
func (h *Hybrid) Set(r *Record, v any) error {
	return r.CurrentTranslation().Set(h.name, v)
}

// Expr returns the translation table column of the accessor.
func (h *Hybrid) Expr() schema.ColumnRef {
	return schema.ColumnRef{Table: h.class.Table.Name, Column: h.name}
}

// truthy reports if v holds a present value: nil, zero values and empty
// strings, slices and maps are absent.
func truthy(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() > 0
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	default:
		return !rv.IsZero()
	}
}

// accessorBuilder installs the accessors of a model's translated columns.
type accessorBuilder struct {
	model     *Model
	ancestors []*Model
}

// build installs one accessor per translated column. It stops at the first
// collision; accessors installed before it stay installed.
func (b *accessorBuilder) build() error {
	m := b.model
	cfg := m.config
	if m.accessors == nil {
		m.accessors = make(map[string]Property, len(m.TranslatedColumns))
	}
	for _, c := range m.TranslatedColumns {
		if cfg.Excluded(c.Name) {
			continue
		}
		if hasAttribute(m, b.ancestors, c.Name) {
			err := NewConfigError(m.Name,
				"attribute name collision detected: could not create hybrid property for translated attribute %q, an attribute with the same name already exists", c.Name)
			err.Attribute = c.Name
			return err
		}
		m.accessors[c.Name] = &Hybrid{name: c.Name, class: cfg.Class}
	}
	return nil
}
