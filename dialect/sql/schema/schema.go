// Package schema holds the relational metadata of translatable models and
// their translation tables: tables, columns, keys and the metadata
// collection they are registered in.
package schema

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/syssam/velox-i18n/schema/field"
)

// ReferenceOption for constraint actions.
type ReferenceOption string

// Reference options (actions) specified by ON UPDATE and ON DELETE
// subclauses of the FOREIGN KEY clause.
const (
	NoAction   ReferenceOption = "NO ACTION"
	Restrict   ReferenceOption = "RESTRICT"
	Cascade    ReferenceOption = "CASCADE"
	SetNull    ReferenceOption = "SET NULL"
	SetDefault ReferenceOption = "SET DEFAULT"
)

type (
	// Table schema definition.
	Table struct {
		Name        string
		Columns     []*Column
		columns     map[string]*Column
		Indexes     []*Index
		PrimaryKey  []*Column
		ForeignKeys []*ForeignKey
		Comment     string
	}

	// Column schema definition.
	Column struct {
		Name      string
		Type      field.Type
		Size      int64    // max size parameter for string and blob types.
		Unique    bool     // column with unique constraint.
		Nullable  bool     // null or not null attribute.
		Increment bool     // auto increment attribute.
		Default   any      // default value.
		Enums     []string // enum values.
		Comment   string
	}

	// ForeignKey definition for creation.
	ForeignKey struct {
		Symbol     string          // foreign-key name. Generated if empty.
		Columns    []*Column       // table column
		RefTable   *Table          // referenced table.
		RefColumns []*Column       // referenced columns.
		OnUpdate   ReferenceOption // action on update.
		OnDelete   ReferenceOption // action on delete.
	}

	// Index definition for table index.
	Index struct {
		Name    string    // index name.
		Unique  bool      // uniqueness.
		Columns []*Column // actual table columns.
	}
)

// NewTable returns a new table with the given name.
func NewTable(name string) *Table {
	return &Table{
		Name:    name,
		columns: make(map[string]*Column),
	}
}

// AddColumn adds a new column to the table. A column with the same name
// is replaced in place, keeping its position.
func (t *Table) AddColumn(c *Column) *Table {
	t.index()
	if old, ok := t.columns[c.Name]; ok {
		i := slices.Index(t.Columns, old)
		t.Columns[i] = c
		for j, pk := range t.PrimaryKey {
			if pk == old {
				t.PrimaryKey[j] = c
			}
		}
	} else {
		t.Columns = append(t.Columns, c)
	}
	t.columns[c.Name] = c
	return t
}

// AddPrimary adds a new primary key to the table.
func (t *Table) AddPrimary(c *Column) *Table {
	c.Unique = true
	t.AddColumn(c)
	t.PrimaryKey = append(t.PrimaryKey, c)
	return t
}

// AddForeignKey adds a foreign key to the table.
func (t *Table) AddForeignKey(fk *ForeignKey) *Table {
	if fk.Symbol == "" {
		fk.Symbol = fk.symbol(t)
	}
	t.ForeignKeys = append(t.ForeignKeys, fk)
	return t
}

// AddIndex creates and adds a new index to the table from the given options.
func (t *Table) AddIndex(name string, unique bool, columns []string) *Table {
	idx := &Index{Name: name, Unique: unique}
	for _, name := range columns {
		if c, ok := t.Column(name); ok {
			idx.Columns = append(idx.Columns, c)
		}
	}
	t.Indexes = append(t.Indexes, idx)
	return t
}

// Column returns the column with the given name, if it exists.
func (t *Table) Column(name string) (*Column, bool) {
	t.index()
	c, ok := t.columns[name]
	return c, ok
}

// HasColumn reports if the table contains a column with the given name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.Column(name)
	return ok
}

// ColumnNames returns the names of the table columns in order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// index lazily builds the name index for tables created as literals.
func (t *Table) index() {
	if t.columns != nil && len(t.columns) == len(t.Columns) {
		return
	}
	t.columns = make(map[string]*Column, len(t.Columns))
	for _, c := range t.Columns {
		t.columns[c.Name] = c
	}
}

// Copy returns an independent copy of the column. Mutating the copy does
// not affect the table the column was taken from.
func (c *Column) Copy() *Column {
	cp := *c
	cp.Enums = slices.Clone(c.Enums)
	return &cp
}

// PrimaryKey reports if the column is part of the table primary key.
func (c *Column) PrimaryKey(t *Table) bool {
	return slices.Contains(t.PrimaryKey, c)
}

// ColumnNames returns the names of the foreign-key columns.
func (fk *ForeignKey) ColumnNames() []string {
	return names(fk.Columns)
}

// RefColumnNames returns the names of the referenced columns.
func (fk *ForeignKey) RefColumnNames() []string {
	return names(fk.RefColumns)
}

func (fk *ForeignKey) symbol(t *Table) string {
	parts := []string{t.Name}
	if fk.RefTable != nil {
		parts = append(parts, fk.RefTable.Name)
	}
	return strings.Join(append(parts, fk.ColumnNames()...), "_")
}

func names(columns []*Column) []string {
	s := make([]string, len(columns))
	for i, c := range columns {
		s[i] = c.Name
	}
	return s
}

// ColumnRef references a column of a table in query expressions.
type ColumnRef struct {
	Table  string
	Column string
}

// String returns the qualified column name.
func (r ColumnRef) String() string {
	if r.Table == "" {
		return r.Column
	}
	return r.Table + "." + r.Column
}

// Quote returns the qualified column name quoted with the given identifier
// quote, e.g. "`" for MySQL and SQLite or `"` for Postgres.
func (r ColumnRef) Quote(q string) string {
	if r.Table == "" {
		return q + r.Column + q
	}
	return fmt.Sprintf("%[1]s%[2]s%[1]s.%[1]s%[3]s%[1]s", q, r.Table, r.Column)
}

// Metadata is a collection of tables sharing one namespace. Models
// registered with the same metadata have their translation tables created
// alongside their own tables.
type Metadata struct {
	mu     sync.RWMutex
	tables []*Table
}

// NewMetadata returns metadata holding the given tables.
func NewMetadata(tables ...*Table) *Metadata {
	md := &Metadata{}
	for _, t := range tables {
		md.AddTable(t)
	}
	return md
}

// AddTable adds t to the metadata. Adding a table twice is a no-op.
func (md *Metadata) AddTable(t *Table) *Metadata {
	md.mu.Lock()
	defer md.mu.Unlock()
	if !slices.Contains(md.tables, t) {
		md.tables = append(md.tables, t)
	}
	return md
}

// Table returns the table with the given name.
func (md *Metadata) Table(name string) (*Table, bool) {
	md.mu.RLock()
	defer md.mu.RUnlock()
	for _, t := range md.tables {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}

// Tables returns the tables in insertion order.
func (md *Metadata) Tables() []*Table {
	md.mu.RLock()
	defer md.mu.RUnlock()
	return slices.Clone(md.tables)
}
