// Package i18n stores per-locale translations of model columns in companion
// translation tables.
//
// Registering a model with a Manager derives its translation type: a table
// keyed by the model primary key plus a locale column, with a cascading
// foreign key to the model table and one column per translated column.
// Each translated column is also exposed on the model as a Hybrid accessor
// reading the record's current translation with a fallback to the default
// locale.
//
//	article := &i18n.Model{
//	    Name:  "Article",
//	    Table: articles,
//	    TranslatedColumns: []*schema.Column{
//	        {Name: "title", Type: field.TypeString, Size: 255},
//	        {Name: "content", Type: field.TypeString},
//	    },
//	}
//	m := i18n.NewManager(i18n.Options{Locales: []string{"en", "fr"}, DefaultLocale: "en"})
//	if err := m.Register(article); err != nil {
//	    return err
//	}
//	r, _ := i18n.NewRecord(article)
//	r.SetLocale("fr")
//	_ = r.Set("title", "Bonjour")
package i18n
