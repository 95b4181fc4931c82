package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/velox-i18n/schema/field"
)

func TestTable_AddColumn(t *testing.T) {
	tbl := NewTable("articles").
		AddPrimary(&Column{Name: "id", Type: field.TypeInt, Increment: true}).
		AddColumn(&Column{Name: "title", Type: field.TypeString, Size: 100})
	require.Equal(t, []string{"id", "title"}, tbl.ColumnNames())
	require.Len(t, tbl.PrimaryKey, 1)
	assert.True(t, tbl.PrimaryKey[0].Unique, "primary key is unique")

	// Same name replaces in place.
	tbl.AddColumn(&Column{Name: "title", Type: field.TypeString})
	require.Equal(t, []string{"id", "title"}, tbl.ColumnNames())
	c, ok := tbl.Column("title")
	require.True(t, ok)
	assert.Zero(t, c.Size)

	// Replacing a primary key column keeps the key pointing at the table column.
	tbl.AddColumn(&Column{Name: "id", Type: field.TypeInt64})
	assert.Equal(t, field.TypeInt64, tbl.PrimaryKey[0].Type)
	assert.False(t, tbl.HasColumn("body"))
}

func TestTable_Literal(t *testing.T) {
	cols := []*Column{{Name: "id", Type: field.TypeInt}, {Name: "name", Type: field.TypeString}}
	tbl := &Table{Name: "users", Columns: cols, PrimaryKey: cols[:1]}
	c, ok := tbl.Column("name")
	require.True(t, ok)
	assert.Same(t, cols[1], c)
	assert.True(t, cols[0].PrimaryKey(tbl))
	assert.False(t, cols[1].PrimaryKey(tbl))
}

func TestColumn_Copy(t *testing.T) {
	c := &Column{Name: "status", Type: field.TypeEnum, Unique: true, Enums: []string{"a", "b"}}
	cp := c.Copy()
	cp.Unique = false
	cp.Enums[0] = "z"
	assert.True(t, c.Unique)
	assert.Equal(t, []string{"a", "b"}, c.Enums)
	assert.NotSame(t, c, cp)
}

func TestForeignKey_Symbol(t *testing.T) {
	parent := NewTable("articles").AddPrimary(&Column{Name: "id", Type: field.TypeInt})
	child := NewTable("article_translation").AddColumn(&Column{Name: "id", Type: field.TypeInt})
	fk := &ForeignKey{Columns: child.Columns, RefTable: parent, RefColumns: parent.PrimaryKey}
	child.AddForeignKey(fk)
	assert.Equal(t, "article_translation_articles_id", fk.Symbol)
	assert.Equal(t, []string{"id"}, fk.ColumnNames())
	assert.Equal(t, []string{"id"}, fk.RefColumnNames())
}

func TestColumnRef(t *testing.T) {
	ref := ColumnRef{Table: "article_translation", Column: "title"}
	assert.Equal(t, "article_translation.title", ref.String())
	assert.Equal(t, `"article_translation"."title"`, ref.Quote(`"`))
	assert.Equal(t, "`title`", ColumnRef{Column: "title"}.Quote("`"))
	assert.Equal(t, "title", ColumnRef{Column: "title"}.String())
}

func TestMetadata(t *testing.T) {
	a, b := NewTable("a"), NewTable("b")
	md := NewMetadata(a)
	md.AddTable(b).AddTable(a)
	assert.Equal(t, []*Table{a, b}, md.Tables())
	got, ok := md.Table("b")
	require.True(t, ok)
	assert.Same(t, b, got)
	_, ok = md.Table("c")
	assert.False(t, ok)
}
