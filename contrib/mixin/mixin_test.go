package mixin_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	i18n "github.com/syssam/velox-i18n"
	"github.com/syssam/velox-i18n/compiler/load"
	"github.com/syssam/velox-i18n/contrib/mixin"
	"github.com/syssam/velox-i18n/dialect"
	"github.com/syssam/velox-i18n/dialect/sql/schema"
	"github.com/syssam/velox-i18n/schema/field"
	base "github.com/syssam/velox-i18n/schema/mixin"
)

func TestMixins(t *testing.T) {
	tests := []struct {
		name    string
		mixin   base.Mixin
		columns []string
	}{
		{"soft_delete", mixin.SoftDelete{}, []string{"deleted_at"}},
		{"tenant_id", mixin.TenantID{}, []string{"tenant_id"}},
		{"time_soft_delete", mixin.TimeSoftDelete{}, []string{"created_at", "updated_at", "deleted_at"}},
		{"row_id", mixin.RowID{}, []string{"row_id"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var names []string
			for _, c := range tt.mixin.Columns() {
				names = append(names, c.Name)
			}
			assert.Equal(t, tt.columns, names)

			m, ok := base.Lookup(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.mixin, m)
		})
	}

	deleted := mixin.SoftDelete{}.Columns()[0]
	assert.Equal(t, field.TypeTime, deleted.Type)
	assert.True(t, deleted.Nullable)
	rowID := mixin.RowID{}.Columns()[0]
	assert.Equal(t, field.TypeUUID, rowID.Type)
	assert.True(t, rowID.Unique)
}

func TestRegisterTwice(t *testing.T) {
	assert.Panics(t, func() { base.Register("row_id", mixin.RowID{}) })
}

func TestBaseClasses(t *testing.T) {
	tbl := schema.NewTable("page")
	tbl.AddPrimary(&schema.Column{Name: "id", Type: field.TypeInt})
	page := &i18n.Model{
		Name:              "Page",
		Table:             tbl,
		TranslatedColumns: []*schema.Column{{Name: "body", Type: field.TypeString}},
	}
	m := i18n.NewManager(i18n.Options{
		Locales:     []string{"en"},
		BaseClasses: []i18n.Base{mixin.TenantID{}, mixin.TimeSoftDelete{}},
	})
	require.NoError(t, m.Register(page))
	assert.Equal(t,
		[]string{"id", "locale", "body", "tenant_id", "created_at", "updated_at", "deleted_at"},
		page.Class().Table.ColumnNames(),
	)
}

const declarations = `
options:
  locales: [en, de]
  base_mixins: [row_id, soft_delete]
models:
  - name: Page
    table: page
    columns:
      - name: id
        type: int
        primary_key: true
    translated:
      - name: body
        type: text
`

func TestDeclaredMixins(t *testing.T) {
	s, err := load.Parse(strings.NewReader(declarations))
	require.NoError(t, err)
	m, err := s.Manager()
	require.NoError(t, err)
	page, ok := m.Model("Page")
	require.True(t, ok)
	assert.Equal(t, []string{"id", "locale", "body", "row_id", "deleted_at"}, page.Class().Table.ColumnNames())

	stmts, err := schema.DDL(context.Background(), dialect.Postgres, m.TranslationTables()...)
	require.NoError(t, err)
	assert.Contains(t, strings.Join(stmts, "\n"), "page_translation_row_id_key")
}
