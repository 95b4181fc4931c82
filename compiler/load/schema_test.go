package load_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	i18n "github.com/syssam/velox-i18n"
	"github.com/syssam/velox-i18n/compiler/load"
	"github.com/syssam/velox-i18n/schema/field"
	"github.com/syssam/velox-i18n/schema/mixin"
)

func TestLoadDir(t *testing.T) {
	s, err := load.Load("testdata/valid")
	require.NoError(t, err)
	require.NotNil(t, s.Options)
	assert.Equal(t, []string{"en", "fr", "de"}, s.Options.Locales)
	require.Len(t, s.Models, 3)

	opts, models, err := s.Build()
	require.NoError(t, err)
	assert.Equal(t, "en", opts.DefaultLocale)
	assert.Equal(t, []string{"slug"}, opts.ExcludeHybridProperties)

	names := make([]string, len(models))
	for i, m := range models {
		names[i] = m.Name
	}
	// Parents come first.
	assert.Equal(t, []string{"Article", "NewsArticle", "ProductTag"}, names)

	article := models[0]
	require.NotNil(t, article.Table)
	assert.Equal(t, "article", article.Table.Name)
	assert.Equal(t, "Blog articles", article.Table.Comment)
	assert.Equal(t, []string{"id", "author", "published"}, article.Table.ColumnNames())
	require.Len(t, article.Table.PrimaryKey, 1)
	assert.True(t, article.Table.PrimaryKey[0].Increment)
	require.Len(t, article.Table.Indexes, 1)
	assert.Equal(t, "article_author", article.Table.Indexes[0].Name)
	require.Len(t, article.TranslatedColumns, 3)
	assert.Equal(t, field.TypeString, article.TranslatedColumns[1].Type)
	assert.True(t, article.TranslatedColumns[1].Nullable)

	news := models[1]
	assert.Nil(t, news.Table)
	assert.Equal(t, "Article", news.Inherits)

	tag := models[2]
	assert.Equal(t, "product_tags", tag.Table.Name)
	assert.Len(t, tag.Table.PrimaryKey, 2)
	require.NotNil(t, tag.Options)
	assert.Equal(t, []i18n.Base{mixin.Time{}, mixin.Translator{}}, tag.Options.BaseClasses)
}

func TestSchemaManager(t *testing.T) {
	s, err := load.Load("testdata/valid/blog.yaml", "testdata/valid/tags.yml")
	require.NoError(t, err)
	m, err := s.Manager()
	require.NoError(t, err)

	tables := m.TranslationTables()
	require.Len(t, tables, 2)
	assert.Equal(t, "article_translation", tables[0].Name)
	assert.Equal(t, []string{"id", "locale", "title", "content", "slug", "subtitle"}, tables[0].ColumnNames())
	assert.Equal(t, "product_tags_i18n", tables[1].Name)
	assert.Equal(t,
		[]string{"tenant_id", "code", "lang", "label", "created_at", "updated_at", "translator"},
		tables[1].ColumnNames(),
	)

	article, ok := m.Model("Article")
	require.True(t, ok)
	_, ok = article.Property("slug")
	assert.False(t, ok)
	_, ok = article.Property("title")
	assert.True(t, ok)
	assert.NoError(t, m.Validate())
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{
			name:  "Empty",
			input: "",
		},
		{
			name:    "UnknownKey",
			input:   "models:\n  - name: A\n    colums: []\n",
			wantErr: "field colums not found",
		},
		{
			name:    "Malformed",
			input:   "models: [",
			wantErr: "load: decode",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := load.Parse(strings.NewReader(tt.input))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, s.Models)
		})
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{
			name:    "UnknownType",
			input:   "models:\n  - name: A\n    columns:\n      - {name: id, type: decimal, primary_key: true}\n",
			wantErr: `field: unknown type "decimal"`,
		},
		{
			name:    "UndeclaredParent",
			input:   "models:\n  - name: A\n    inherits: B\n",
			wantErr: `inherits undeclared model "B"`,
		},
		{
			name:    "Cycle",
			input:   "models:\n  - name: A\n    inherits: B\n  - name: B\n    inherits: A\n",
			wantErr: "inheritance cycle",
		},
		{
			name:    "DuplicateModel",
			input:   "models:\n  - name: A\n  - name: A\n",
			wantErr: `model "A" declared twice`,
		},
		{
			name:    "UnknownMixin",
			input:   "options:\n  locales: [en]\n  base_mixins: [audit]\n",
			wantErr: `unknown base mixin "audit"`,
		},
		{
			name:    "DefaultLocale",
			input:   "options:\n  locales: [en]\n  default_locale: fr\n",
			wantErr: `default locale "fr" is not one of [en]`,
		},
		{
			name:    "EnumWithoutValues",
			input:   "models:\n  - name: A\n    translated:\n      - {name: state, type: enum}\n",
			wantErr: "enum without values",
		},
		{
			name:    "TranslatedKey",
			input:   "models:\n  - name: A\n    translated:\n      - {name: id, type: int, primary_key: true}\n",
			wantErr: "cannot be a primary key",
		},
		{
			name:    "IndexColumn",
			input:   "models:\n  - name: A\n    columns:\n      - {name: id, type: int}\n    indexes:\n      - columns: [missing]\n",
			wantErr: `unknown column "missing"`,
		},
		{
			name:    "SubclassColumns",
			input:   "models:\n  - name: A\n  - name: B\n    inherits: A\n    columns:\n      - {name: x, type: int}\n",
			wantErr: "columns declared without a table",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := load.Parse(strings.NewReader(tt.input))
			require.NoError(t, err)
			_, _, err = s.Build()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	_, err := load.Load("testdata/failure")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "manager options already declared")

	_, err = load.Load(filepath.Join("testdata", "missing.yaml"))
	require.Error(t, err)

	_, err = load.Load(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no declaration files")
}

func TestTableName(t *testing.T) {
	tests := map[string]string{
		"Article":    "articles",
		"ProductTag": "product_tags",
		"Category":   "categories",
	}
	for in, want := range tests {
		assert.Equal(t, want, load.TableName(in), in)
	}
}
