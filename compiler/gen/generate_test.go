package gen_test

import (
	"context"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	i18n "github.com/syssam/velox-i18n"
	"github.com/syssam/velox-i18n/compiler/gen"
	"github.com/syssam/velox-i18n/dialect/sql/schema"
	"github.com/syssam/velox-i18n/schema/field"
)

func newManager(t *testing.T) *i18n.Manager {
	t.Helper()
	tbl := schema.NewTable("article")
	tbl.AddPrimary(&schema.Column{Name: "id", Type: field.TypeUUID})
	m := i18n.NewManager(i18n.Options{
		Locales:                 []string{"en", "fr"},
		DefaultLocale:           "en",
		ExcludeHybridProperties: []string{"slug"},
	})
	article := &i18n.Model{
		Name:  "Article",
		Table: tbl,
		TranslatedColumns: []*schema.Column{
			{Name: "title", Type: field.TypeString, Size: 255, Comment: "Headline"},
			{Name: "content", Type: field.TypeString, Nullable: true},
			{Name: "slug", Type: field.TypeString},
			{Name: "featured", Type: field.TypeBool},
			{Name: "published_at", Type: field.TypeTime, Nullable: true},
			{Name: "meta", Type: field.TypeJSON, Nullable: true},
			{Name: "views", Type: field.TypeInt64},
		},
	}
	news := &i18n.Model{
		Name:              "NewsArticle",
		Inherits:          "Article",
		Options:           &i18n.Options{Locales: []string{"fr", "de"}},
		TranslatedColumns: []*schema.Column{{Name: "subtitle", Type: field.TypeString}},
	}
	require.NoError(t, m.Register(article, news))
	return m
}

// decls lists the top-level declarations of a Go file.
type decls struct {
	types   map[string]*ast.TypeSpec
	funcs   map[string]bool // "Recv.Name" or "Name"
	values  map[string]ast.Expr
	pkgName string
}

func parse(t *testing.T, path string) decls {
	t.Helper()
	f, err := parser.ParseFile(token.NewFileSet(), path, nil, parser.ParseComments)
	require.NoError(t, err)
	d := decls{
		types:   make(map[string]*ast.TypeSpec),
		funcs:   make(map[string]bool),
		values:  make(map[string]ast.Expr),
		pkgName: f.Name.Name,
	}
	for _, decl := range f.Decls {
		switch decl := decl.(type) {
		case *ast.FuncDecl:
			name := decl.Name.Name
			if decl.Recv != nil {
				recv := decl.Recv.List[0].Type
				if star, ok := recv.(*ast.StarExpr); ok {
					recv = star.X
				}
				name = recv.(*ast.Ident).Name + "." + name
			}
			d.funcs[name] = true
		case *ast.GenDecl:
			for _, spec := range decl.Specs {
				switch spec := spec.(type) {
				case *ast.TypeSpec:
					d.types[spec.Name.Name] = spec
				case *ast.ValueSpec:
					for i, n := range spec.Names {
						if i < len(spec.Values) {
							d.values[n.Name] = spec.Values[i]
						}
					}
				}
			}
		}
	}
	return d
}

// fields returns the field names and tags of a struct type.
func fields(t *testing.T, spec *ast.TypeSpec) (names []string, tags map[string]reflect.StructTag) {
	t.Helper()
	st, ok := spec.Type.(*ast.StructType)
	require.True(t, ok)
	tags = make(map[string]reflect.StructTag)
	for _, f := range st.Fields.List {
		name := f.Names[0].Name
		names = append(names, name)
		if f.Tag != nil {
			tag, err := strconv.Unquote(f.Tag.Value)
			require.NoError(t, err)
			tags[name] = reflect.StructTag(tag)
		}
	}
	return names, tags
}

func lit(t *testing.T, e ast.Expr) string {
	t.Helper()
	bl, ok := e.(*ast.BasicLit)
	require.True(t, ok)
	s, err := strconv.Unquote(bl.Value)
	require.NoError(t, err)
	return s
}

func TestGenerate(t *testing.T) {
	m := newManager(t)
	dir := t.TempDir()
	require.NoError(t, gen.Generate(context.Background(), m, gen.WithTarget(dir), gen.WithPackage("model"), gen.WithWorkers(2)))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"i18n.go", "article_translation.go", "news_article_translation.go"}, names)

	buf, err := os.ReadFile(filepath.Join(dir, "article_translation.go"))
	require.NoError(t, err)
	assert.Contains(t, string(buf), "// "+gen.DefaultHeader)
	assert.Contains(t, string(buf), `"github.com/google/uuid"`)

	t.Run("Package", func(t *testing.T) {
		d := parse(t, filepath.Join(dir, "i18n.go"))
		assert.Equal(t, "model", d.pkgName)
		assert.Equal(t, "en", lit(t, d.values["DefaultLocale"]))
		cl, ok := d.values["Tables"].(*ast.CompositeLit)
		require.True(t, ok)
		require.Len(t, cl.Elts, 1)
		assert.Equal(t, "article_translation", lit(t, cl.Elts[0]))
		cl, ok = d.values["Locales"].(*ast.CompositeLit)
		require.True(t, ok)
		assert.Len(t, cl.Elts, 2)
	})

	t.Run("Article", func(t *testing.T) {
		d := parse(t, filepath.Join(dir, "article_translation.go"))
		spec, ok := d.types["ArticleTranslation"]
		require.True(t, ok)
		names, tags := fields(t, spec)
		assert.Equal(t,
			[]string{"ID", "Locale", "Title", "Content", "Slug", "Featured", "PublishedAt", "Meta", "Views"},
			names,
		)
		assert.Equal(t, "title", tags["Title"].Get("json"))
		assert.Equal(t, "content,omitempty", tags["Content"].Get("json"))
		assert.Equal(t, "published_at", tags["PublishedAt"].Get("db"))

		for _, fn := range []string{
			"ArticleTranslation.TableName",
			"ArticleTranslation.Key",
			"NewArticleTranslations",
			"ArticleTranslations.translation",
			"ArticleTranslations.Title",
			"ArticleTranslations.SetTitle",
			"ArticleTranslations.Content",
			"ArticleTranslations.Featured",
			"ArticleTranslations.PublishedAt",
			"ArticleTranslations.Meta",
			"ArticleTranslations.Views",
		} {
			assert.True(t, d.funcs[fn], fn)
		}
		// Excluded columns get no accessors.
		assert.False(t, d.funcs["ArticleTranslations.Slug"])
		assert.False(t, d.funcs["ArticleTranslations.SetSlug"])

		assert.Equal(t, "article_translation", lit(t, d.values["ArticleTranslationTable"]))
		assert.Equal(t, "published_at", lit(t, d.values["ArticleTranslationFieldPublishedAt"]))
		assert.Equal(t, "en", lit(t, d.values["ArticleDefaultLocale"]))
		_, ok = d.types["ArticleTranslations"]
		assert.True(t, ok)
	})

	t.Run("Subclass", func(t *testing.T) {
		d := parse(t, filepath.Join(dir, "news_article_translation.go"))
		spec, ok := d.types["NewsArticleTranslation"]
		require.True(t, ok)
		names, _ := fields(t, spec)
		assert.Equal(t, "Subtitle", names[len(names)-1])
		assert.Contains(t, names, "Title")
		assert.Equal(t, "article_translation", lit(t, d.values["NewsArticleTranslationTable"]))
		// Locales come from the model block, the default locale from the
		// manager.
		cl, ok := d.values["NewsArticleLocales"].(*ast.CompositeLit)
		require.True(t, ok)
		require.Len(t, cl.Elts, 2)
		assert.Equal(t, "fr", lit(t, cl.Elts[0]))
		assert.Equal(t, "en", lit(t, d.values["NewsArticleDefaultLocale"]))
		// Inherited accessors are generated too.
		assert.True(t, d.funcs["NewsArticleTranslations.Title"])
		assert.True(t, d.funcs["NewsArticleTranslations.Subtitle"])
	})
}

func TestGenerateMissingTarget(t *testing.T) {
	err := gen.Generate(context.Background(), newManager(t))
	require.Error(t, err)
	assert.True(t, gen.IsConfigError(err))
}

func TestFiles(t *testing.T) {
	m := newManager(t)
	cfg, err := gen.NewConfig()
	require.NoError(t, err)
	files := gen.Files(cfg, m)
	require.Len(t, files, 3)
	assert.Equal(t, "i18n.go", files[0].Name)
	assert.Empty(t, files[0].Model)
	assert.Equal(t, "NewsArticle", files[2].Model)
	for _, f := range files {
		assert.NotNil(t, f.Render())
	}
}

func TestWriterCanceled(t *testing.T) {
	m := newManager(t)
	cfg, err := gen.NewConfig(gen.WithTarget(t.TempDir()), gen.WithWorkers(1))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w := gen.NewWriter(cfg)
	err = w.Write(ctx, gen.Files(cfg, m))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, w.Metrics().FilesGenerated)
}

func TestWriterMetrics(t *testing.T) {
	m := newManager(t)
	cfg, err := gen.NewConfig(gen.WithTarget(filepath.Join(t.TempDir(), "nested", "out")))
	require.NoError(t, err)
	w := gen.NewWriter(cfg)
	require.NoError(t, w.Write(context.Background(), gen.Files(cfg, m)))
	metrics := w.Metrics()
	assert.Equal(t, 3, metrics.FilesGenerated)
	assert.Positive(t, metrics.TotalBytes)
}
