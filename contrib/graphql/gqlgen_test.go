package graphql

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gqlgenYAML = `# gqlgen configuration
schema:
  - graph/*.graphqls
exec:
  filename: graph/generated.go
models:
  ID:
    model: github.com/99designs/gqlgen/graphql.IntID
`

func TestGQLGenConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gqlgen.yml")
	require.NoError(t, os.WriteFile(path, []byte(gqlgenYAML), 0o644))

	cfg, err := LoadGQLGenConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"graph/*.graphqls"}, cfg.SchemaPaths())

	cfg.BindTranslations("example.com/app/i18n", "i18n/i18n.graphql", manager(t))
	cfg.BindTranslations("example.com/app/i18n", "i18n/i18n.graphql", manager(t))
	require.NoError(t, SaveGQLGenConfig(path, cfg))

	saved, err := LoadGQLGenConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"graph/*.graphqls", "i18n/i18n.graphql"}, saved.SchemaPaths())
	models := saved.Models()
	assert.Equal(t, []string{"github.com/99designs/gqlgen/graphql.IntID"}, models["ID"])
	assert.Equal(t, []string{"example.com/app/i18n.ArticleTranslation"}, models["ArticleTranslation"])
	assert.Equal(t, []string{scalarModels[ScalarTime]}, models[ScalarTime])

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# gqlgen configuration")
	assert.Contains(t, string(data), "filename: graph/generated.go")
}

func TestGQLGenConfigScalars(t *testing.T) {
	cfg, err := ParseGQLGenConfig([]byte("schema: schema.graphql\nmodels:\n  Time:\n    model: example.com/scalars.Time\n"))
	require.NoError(t, err)
	cfg.AddSchemaPath("i18n.graphql")
	cfg.SetModel("Time", "github.com/99designs/gqlgen/graphql.Time")
	assert.Equal(t, []string{"schema.graphql", "i18n.graphql"}, cfg.SchemaPaths())
	assert.Equal(t, []string{"example.com/scalars.Time", "github.com/99designs/gqlgen/graphql.Time"}, cfg.Models()["Time"])
}

func TestGQLGenConfigMissing(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadGQLGenConfig(filepath.Join(dir, "gqlgen.yml"))
	require.NoError(t, err)
	assert.Empty(t, cfg.SchemaPaths())
	assert.Empty(t, cfg.Models())

	cfg.BindTranslations("", "i18n.graphql", manager(t))
	assert.Empty(t, cfg.SchemaPaths())

	cfg.SetModel("ArticleTranslation", "example.com/app.ArticleTranslation")
	path := filepath.Join(dir, "nested", "gqlgen.yml")
	require.NoError(t, SaveGQLGenConfig(path, cfg))
	saved, err := LoadGQLGenConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"example.com/app.ArticleTranslation"}, saved.Models()["ArticleTranslation"])
}

func TestParseGQLGenConfigInvalid(t *testing.T) {
	_, err := ParseGQLGenConfig([]byte("- a\n- b\n"))
	require.Error(t, err)
	_, err = ParseGQLGenConfig([]byte("schema: [\n"))
	require.Error(t, err)
}
