package i18n

import (
	"fmt"
	"maps"
	"slices"
)

// Record is an instance of a registered model holding its own column
// values and its translations by locale.
type Record struct {
	model        *Model
	locale       string
	values       map[string]any
	translations map[string]*Translation
}

// NewRecord returns an empty record of the given model.
func NewRecord(m *Model) (*Record, error) {
	if m == nil || m.config == nil || m.manager == nil {
		name := ""
		if m != nil {
			name = m.Name
		}
		return nil, NewConfigError(name, "model is not registered")
	}
	return &Record{
		model:        m,
		values:       make(map[string]any),
		translations: make(map[string]*Translation),
	}, nil
}

// Model returns the model of the record.
func (r *Record) Model() *Model {
	return r.model
}

// SetLocale selects the locale translated attributes are read and written
// in. An empty locale selects the default locale.
func (r *Record) SetLocale(locale string) *Record {
	r.locale = locale
	return r
}

// Locale returns the active locale of the record.
func (r *Record) Locale() string {
	if r.locale != "" {
		return r.locale
	}
	return r.DefaultLocale()
}

// DefaultLocale returns the default locale of the record.
func (r *Record) DefaultLocale() string {
	return r.model.manager.DefaultLocale(r)
}

// Get returns the value of an attribute. Translated attributes are read
// through their accessor.
func (r *Record) Get(name string) (any, error) {
	if p, ok := r.model.Property(name); ok {
		return p.Get(r)
	}
	if r.model.HasAttribute(name) {
		return r.values[name], nil
	}
	return nil, NewUnknownAttributeError(r.model.Name, name)
}

// Set sets the value of an attribute. Translated attributes are written
// through their accessor.
func (r *Record) Set(name string, v any) error {
	if p, ok := r.model.Property(name); ok {
		return p.Set(r, v)
	}
	if r.model.HasAttribute(name) {
		r.values[name] = v
		return nil
	}
	return NewUnknownAttributeError(r.model.Name, name)
}

// CurrentTranslation returns the translation of the active locale,
// creating it if the record has none.
func (r *Record) CurrentTranslation() *Translation {
	locale := r.Locale()
	if t, ok := r.translations[locale]; ok {
		return t
	}
	t := &Translation{
		Locale: locale,
		typ:    r.model.config.Class,
		record: r,
		values: make(map[string]any),
	}
	r.translations[locale] = t
	return t
}

// Translations returns the translations of the record.
func (r *Record) Translations() Translations {
	return Translations{r: r}
}

// Translations is the collection of translations of a record, keyed by
// locale.
type Translations struct {
	r *Record
}

// Get returns the translation of the given locale.
func (ts Translations) Get(locale string) (*Translation, error) {
	if t, ok := ts.r.translations[locale]; ok {
		return t, nil
	}
	return nil, NewTranslationNotFoundError(ts.r.model.Name, locale)
}

// Locales returns the locales the record has translations for, sorted.
func (ts Translations) Locales() []string {
	return slices.Sorted(maps.Keys(ts.r.translations))
}

// Len returns the number of translations.
func (ts Translations) Len() int {
	return len(ts.r.translations)
}

// Delete removes the translation of the given locale.
func (ts Translations) Delete(locale string) {
	delete(ts.r.translations, locale)
}

// Translation is a row of a translation table.
type Translation struct {
	Locale string

	typ    *TranslationType
	record *Record
	values map[string]any
}

// Type returns the translation type of the row.
func (t *Translation) Type() *TranslationType {
	return t.typ
}

// Record returns the record owning the translation.
func (t *Translation) Record() *Record {
	return t.record
}

// Get returns the value of a column of the row. Key columns are read from
// the owning record.
func (t *Translation) Get(column string) (any, error) {
	if _, ok := t.typ.Field(column); !ok {
		return nil, NewUnknownAttributeError(t.typ.Name, column)
	}
	switch {
	case column == t.typ.LocaleColumn:
		return t.Locale, nil
	case slices.Contains(t.typ.keys, column):
		return t.record.values[column], nil
	}
	return t.values[column], nil
}

// Set sets the value of a column of the row. Key columns are read-only.
func (t *Translation) Set(column string, v any) error {
	if _, ok := t.typ.Field(column); !ok {
		return NewUnknownAttributeError(t.typ.Name, column)
	}
	if column == t.typ.LocaleColumn || slices.Contains(t.typ.keys, column) {
		return fmt.Errorf("i18n: %s.%s is a key column", t.typ.Name, column)
	}
	t.values[column] = v
	return nil
}

// Key returns the primary key of the row: the key values of the owning
// record followed by the locale.
func (t *Translation) Key() []any {
	key := make([]any, 0, len(t.typ.keys)+1)
	for _, name := range t.typ.keys {
		key = append(key, t.record.values[name])
	}
	return append(key, t.Locale)
}

// Values returns the non-key column values of the row.
func (t *Translation) Values() map[string]any {
	return maps.Clone(t.values)
}
