package gen

import (
	"context"

	"github.com/dave/jennifer/jen"

	i18n "github.com/syssam/velox-i18n"
	"github.com/syssam/velox-i18n/dialect/sql/schema"
)

// File is a file to generate.
type File struct {
	// Name is the file path relative to the target directory.
	Name string
	// Model is the model the file is generated for, if any.
	Model string
	// Render builds the file content.
	Render func() *jen.File
}

// Generate writes the Go types of the translation types of all models
// registered with m to the target directory.
func Generate(ctx context.Context, m *i18n.Manager, opts ...Option) error {
	cfg, err := NewConfig(opts...)
	if err != nil {
		return err
	}
	if cfg.Target == "" {
		return NewConfigError("Target", nil, "missing target directory in config")
	}
	return NewWriter(cfg).Write(ctx, Files(cfg, m))
}

// Files returns the files generated for the models registered with m: one
// file per model and a package file holding the manager locales.
func Files(cfg *Config, m *i18n.Manager) []File {
	models := m.Models()
	files := make([]File, 0, len(models)+1)
	files = append(files, File{
		Name:   "i18n.go",
		Render: func() *jen.File { return genPackage(cfg, m) },
	})
	for _, model := range models {
		files = append(files, File{
			Name:   snake(model.Name) + "_translation.go",
			Model:  model.Name,
			Render: func() *jen.File { return genTranslation(cfg, model) },
		})
	}
	return files
}

func newFile(cfg *Config) *jen.File {
	f := jen.NewFile(cfg.Package)
	if cfg.Header != "" {
		f.HeaderComment(cfg.Header)
	}
	f.ImportName("github.com/google/uuid", "uuid")
	return f
}

// genPackage generates the package-level locale declarations.
func genPackage(cfg *Config, m *i18n.Manager) *jen.File {
	f := newFile(cfg)
	opts := m.Options()
	def := opts.DefaultLocale
	if def == "" && len(opts.Locales) > 0 {
		def = opts.Locales[0]
	}
	f.Comment("DefaultLocale is the locale translated values fall back to.")
	f.Const().Id("DefaultLocale").Op("=").Lit(def)
	f.Comment("Locales are the locales translations are stored for.")
	f.Var().Id("Locales").Op("=").Index().String().ValuesFunc(func(g *jen.Group) {
		for _, l := range opts.Locales {
			g.Lit(l)
		}
	})
	f.Comment("Tables lists the translation tables.")
	f.Var().Id("Tables").Op("=").Index().String().ValuesFunc(func(g *jen.Group) {
		for _, t := range m.TranslationTables() {
			g.Lit(t.Name)
		}
	})
	return f
}

// genTranslation generates the translation struct of a model and the
// locale-keyed collection with fallback getters.
func genTranslation(cfg *Config, model *i18n.Model) *jen.File {
	f := newFile(cfg)
	class := model.Class()
	conf := model.Config()
	typ, coll := class.Name, model.Name+"Translations"
	fields := class.Fields()
	localeField := pascal(class.LocaleColumn)
	defLocale := model.Name + "DefaultLocale"

	def := conf.DefaultLocale
	if def == "" {
		def = conf.Locales[0]
	}

	f.Commentf("%s is a row of the %q table: the %s translation of a %s in one locale.", typ, class.Table.Name, typ, model.Name)
	f.Type().Id(typ).StructFunc(func(g *jen.Group) {
		for _, c := range fields {
			tag := map[string]string{"json": c.Name, "db": c.Name}
			if c.Nullable {
				tag["json"] += ",omitempty"
			}
			s := g.Id(pascal(c.Name)).Add(goType(c)).Tag(tag)
			if c.Comment != "" {
				s.Comment(c.Comment)
			}
		}
	})

	f.Commentf("TableName returns the table name of %s.", typ)
	f.Func().Params(jen.Id(typ)).Id("TableName").Params().String().Block(
		jen.Return(jen.Id(typ + "Table")),
	)

	f.Commentf("Key returns the primary key of the %s row.", typ)
	f.Func().Params(jen.Id("t").Op("*").Id(typ)).Id("Key").Params().Index().Any().Block(
		jen.Return(jen.Index().Any().ValuesFunc(func(g *jen.Group) {
			for _, c := range class.PrimaryKey() {
				g.Id("t").Dot(pascal(c.Name))
			}
		})),
	)

	f.Const().DefsFunc(func(g *jen.Group) {
		g.Commentf("%sTable holds the table name of %s.", typ, typ)
		g.Id(typ + "Table").Op("=").Lit(class.Table.Name)
		for _, c := range fields {
			g.Id(typ + "Field" + pascal(c.Name)).Op("=").Lit(c.Name)
		}
		g.Commentf("%s is the locale %s values fall back to.", defLocale, model.Name)
		g.Id(defLocale).Op("=").Lit(def)
	})
	f.Commentf("%sColumns holds all columns of %s.", typ, typ)
	f.Var().Id(typ + "Columns").Op("=").Index().String().ValuesFunc(func(g *jen.Group) {
		for _, c := range fields {
			g.Id(typ + "Field" + pascal(c.Name))
		}
	})
	f.Commentf("%sLocales holds the locales %s is translated in.", model.Name, model.Name)
	f.Var().Id(model.Name + "Locales").Op("=").Index().String().ValuesFunc(func(g *jen.Group) {
		for _, l := range conf.Locales {
			g.Lit(l)
		}
	})

	f.Commentf("%s holds the translations of a %s keyed by locale.", coll, model.Name)
	f.Type().Id(coll).Map(jen.String()).Op("*").Id(typ)

	f.Commentf("New%s returns an empty %s.", coll, coll)
	f.Func().Id("New" + coll).Params().Id(coll).Block(
		jen.Return(jen.Make(jen.Id(coll))),
	)

	f.Comment("translation returns the translation of locale, creating it if missing.")
	f.Func().Params(jen.Id("ts").Id(coll)).Id("translation").Params(jen.Id("locale").String()).Op("*").Id(typ).Block(
		jen.List(jen.Id("t"), jen.Id("ok")).Op(":=").Id("ts").Index(jen.Id("locale")),
		jen.If(jen.Op("!").Id("ok")).Block(
			jen.Id("t").Op("=").Op("&").Id(typ).Values(jen.Dict{jen.Id(localeField): jen.Id("locale")}),
			jen.Id("ts").Index(jen.Id("locale")).Op("=").Id("t"),
		),
		jen.Return(jen.Id("t")),
	)

	for _, c := range fields {
		if _, ok := model.Property(c.Name); !ok {
			continue
		}
		genAccessors(f, c, coll, defLocale)
	}
	return f
}

// genAccessors generates the fallback getter and the setter of a
// translated column.
func genAccessors(f *jen.File, c *schema.Column, coll, defLocale string) {
	name := pascal(c.Name)
	fieldOf := func() *jen.Statement { return jen.Id("t").Dot(name) }
	f.Commentf("%s returns the %s in locale, falling back to the %s value", name, c.Name, defLocale)
	f.Comment("when it is not set.")
	f.Func().Params(jen.Id("ts").Id(coll)).Id(name).Params(jen.Id("locale").String()).Add(goType(c)).Block(
		jen.If(
			jen.List(jen.Id("t"), jen.Id("ok")).Op(":=").Id("ts").Index(jen.Id("locale")),
			jen.Id("ok").Op("&&").Add(present(c, fieldOf())),
		).Block(jen.Return(fieldOf())),
		jen.If(
			jen.List(jen.Id("t"), jen.Id("ok")).Op(":=").Id("ts").Index(jen.Id(defLocale)),
			jen.Id("ok"),
		).Block(jen.Return(fieldOf())),
		jen.Var().Id("zero").Add(goType(c)),
		jen.Return(jen.Id("zero")),
	)
	f.Commentf("Set%s sets the %s in locale.", name, c.Name)
	f.Func().Params(jen.Id("ts").Id(coll)).Id("Set"+name).Params(
		jen.Id("locale").String(),
		jen.Id("v").Add(goType(c)),
	).Block(
		jen.Id("ts").Dot("translation").Call(jen.Id("locale")).Dot(name).Op("=").Id("v"),
	)
}
