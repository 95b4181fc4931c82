// Package mixin provides reusable bases for translation types.
//
// A mixin contributes columns to every translation table built on it. Set
// mixins as the base classes of a model or of the whole manager:
//
//	i18n.Options{
//	    Locales:     []string{"en", "fr"},
//	    BaseClasses: []i18n.Base{mixin.Time{}, mixin.Translator{}},
//	}
//
// Custom mixins embed Schema and override Columns:
//
//	type Reviewed struct{ mixin.Schema }
//
//	func (Reviewed) Columns() []*schema.Column {
//	    return []*schema.Column{
//	        {Name: "reviewed_by", Type: field.TypeString, Nullable: true},
//	    }
//	}
//
// Columns must return fresh columns on every call: each translation table
// owns the columns it is built with.
package mixin

import (
	"fmt"
	"sort"
	"sync"

	"github.com/syssam/velox-i18n/dialect/sql/schema"
	"github.com/syssam/velox-i18n/schema/field"
)

// Mixin is a base contributing columns to translation tables.
type Mixin interface {
	Columns() []*schema.Column
}

// Schema is the default implementation for the Mixin interface.
// It should be embedded in all custom mixin definitions.
type Schema struct{}

// Columns returns the columns of the mixin.
func (Schema) Columns() []*schema.Column { return nil }

var _ Mixin = (*Schema)(nil)

// Time adds created_at and updated_at timestamp columns.
type Time struct {
	Schema
}

// Columns returns the time tracking columns.
func (Time) Columns() []*schema.Column {
	return append(CreateTime{}.Columns(), UpdateTime{}.Columns()...)
}

// CreateTime adds only the created_at timestamp column.
type CreateTime struct {
	Schema
}

// Columns returns the created_at column.
func (CreateTime) Columns() []*schema.Column {
	return []*schema.Column{
		{Name: "created_at", Type: field.TypeTime, Comment: "Timestamp when the translation was created"},
	}
}

// UpdateTime adds only the updated_at timestamp column.
type UpdateTime struct {
	Schema
}

// Columns returns the updated_at column.
func (UpdateTime) Columns() []*schema.Column {
	return []*schema.Column{
		{Name: "updated_at", Type: field.TypeTime, Comment: "Timestamp when the translation was last updated"},
	}
}

// Translator records who (or what) produced a translation.
type Translator struct {
	Schema
}

// Columns returns the translator column.
func (Translator) Columns() []*schema.Column {
	return []*schema.Column{
		{Name: "translator", Type: field.TypeString, Size: 255, Nullable: true},
	}
}

// Verified flags translations that were reviewed.
type Verified struct {
	Schema
}

// Columns returns the verified column.
func (Verified) Columns() []*schema.Column {
	return []*schema.Column{
		{Name: "verified", Type: field.TypeBool, Default: false},
	}
}

var (
	mu       sync.RWMutex
	registry = map[string]Mixin{
		"time":        Time{},
		"create_time": CreateTime{},
		"update_time": UpdateTime{},
		"translator":  Translator{},
		"verified":    Verified{},
	}
)

// Register makes a mixin available by name to model files.
// It panics if the name is already taken.
func Register(name string, m Mixin) {
	mu.Lock()
	defer mu.Unlock()
	if _, dup := registry[name]; dup {
		panic(fmt.Sprintf("mixin: Register called twice for %q", name))
	}
	registry[name] = m
}

// Lookup returns the mixin registered with the given name.
func Lookup(name string) (Mixin, bool) {
	mu.RLock()
	defer mu.RUnlock()
	m, ok := registry[name]
	return m, ok
}

// Names returns the registered mixin names, sorted.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
