package i18n

import (
	"slices"
	"strings"

	"github.com/syssam/velox-i18n/dialect/sql/schema"
)

// Defaults applied when neither the model nor the manager set an option.
const (
	DefaultTableName        = "%s_translation"
	DefaultLocaleColumnName = "locale"
	// LocaleColumnSize is the maximum length of a locale code.
	LocaleColumnSize = 10
)

// Base contributes columns to the translation types built on it.
// Bases are implemented by translation types themselves, by Declarative and
// by the mixins of the schema/mixin package.
type Base interface {
	Columns() []*schema.Column
}

// Declarative is the fallback base of a translation type. It contributes
// no columns and places the translation table in the metadata of the model.
type Declarative struct {
	Metadata *schema.Metadata
}

// Columns implements Base.
func (Declarative) Columns() []*schema.Column { return nil }

// Options holds the translation options of a model or of a manager.
// Zero fields are resolved from the next tier: the model block first (own,
// else nearest ancestor's), then the manager, then the package defaults.
type Options struct {
	// Locales lists the locales translations are stored for. It is required
	// on the model or on the manager.
	Locales []string

	// DefaultLocale is the locale hybrid accessors fall back to. It defaults
	// to the first locale.
	DefaultLocale string

	// DefaultLocaleFunc resolves the default locale per record. It takes
	// precedence over DefaultLocale of the same tier.
	DefaultLocaleFunc func(*Record) string

	// TableName is the translation table name template. Its single %s verb
	// receives the model table name.
	TableName string

	// LocaleColumnName names the locale column of translation tables.
	LocaleColumnName string

	// BaseClasses replaces the declarative base of root translation types.
	BaseClasses []Base

	// ExcludeHybridProperties lists translated columns that get no accessor
	// on the model. A non-nil empty list overrides the next tier.
	ExcludeHybridProperties []string
}

// Excluded reports if the column name is excluded from accessor generation.
func (o *Options) Excluded(name string) bool {
	return slices.Contains(o.ExcludeHybridProperties, name)
}

// HasLocale reports if the locale is one of the configured locales.
func (o *Options) HasLocale(locale string) bool {
	return slices.Contains(o.Locales, locale)
}

// clone returns a copy of o that shares no slices with it.
func (o Options) clone() Options {
	o.Locales = slices.Clone(o.Locales)
	o.BaseClasses = slices.Clone(o.BaseClasses)
	o.ExcludeHybridProperties = slices.Clone(o.ExcludeHybridProperties)
	return o
}

// overlay fills the unset fields of o from t.
func (o *Options) overlay(t *Options) {
	if t == nil {
		return
	}
	if len(o.Locales) == 0 {
		o.Locales = slices.Clone(t.Locales)
	}
	if o.DefaultLocale == "" && o.DefaultLocaleFunc == nil {
		o.DefaultLocale, o.DefaultLocaleFunc = t.DefaultLocale, t.DefaultLocaleFunc
	}
	if o.TableName == "" {
		o.TableName = t.TableName
	}
	if o.LocaleColumnName == "" {
		o.LocaleColumnName = t.LocaleColumnName
	}
	if len(o.BaseClasses) == 0 {
		o.BaseClasses = slices.Clone(t.BaseClasses)
	}
	if o.ExcludeHybridProperties == nil {
		o.ExcludeHybridProperties = slices.Clone(t.ExcludeHybridProperties)
	}
}

// resolveOptions merges the option tiers of a model. The result shares no
// state with the blocks it was built from.
func resolveOptions(model *Model, ancestors []*Model, manager *Options) Options {
	block := model.Options
	for _, a := range ancestors {
		if block != nil {
			break
		}
		block = a.Options
	}
	var o Options
	o.overlay(block)
	o.overlay(manager)
	if o.TableName == "" {
		o.TableName = DefaultTableName
	}
	if o.LocaleColumnName == "" {
		o.LocaleColumnName = DefaultLocaleColumnName
	}
	if o.DefaultLocale == "" && o.DefaultLocaleFunc == nil && len(o.Locales) > 0 {
		o.DefaultLocale = o.Locales[0]
	}
	return o
}

func validTableName(tmpl string) bool {
	return strings.Count(tmpl, "%") == 1 && strings.Count(tmpl, "%s") == 1
}
