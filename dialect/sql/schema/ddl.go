package schema

import (
	"context"
	"database/sql"
	"fmt"

	"ariga.io/atlas/sql/migrate"
	"ariga.io/atlas/sql/mysql"
	"ariga.io/atlas/sql/postgres"
	atlas "ariga.io/atlas/sql/schema"
	"ariga.io/atlas/sql/sqlite"

	"github.com/syssam/velox-i18n/dialect"
	"github.com/syssam/velox-i18n/schema/field"
)

// DDL returns the statements creating the given tables in the given
// dialect. Tables are ordered so that referenced tables are created first.
func DDL(ctx context.Context, d string, tables ...*Table) ([]string, error) {
	plan, err := planCreate(ctx, d, tables)
	if err != nil {
		return nil, err
	}
	stmts := make([]string, len(plan.Changes))
	for i, c := range plan.Changes {
		stmts[i] = c.Cmd
	}
	return stmts, nil
}

// Create creates the given tables in db within a single transaction.
func Create(ctx context.Context, db *sql.DB, d string, tables ...*Table) error {
	plan, err := planCreate(ctx, d, tables)
	if err != nil {
		return err
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("schema: begin transaction: %w", err)
	}
	for _, c := range plan.Changes {
		if _, err := tx.ExecContext(ctx, c.Cmd, c.Args...); err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				err = fmt.Errorf("%w: %v", err, rerr)
			}
			return fmt.Errorf("schema: exec %q: %w", c.Cmd, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("schema: commit: %w", err)
	}
	return nil
}

func planCreate(ctx context.Context, d string, tables []*Table) (*migrate.Plan, error) {
	pl, err := planner(d)
	if err != nil {
		return nil, err
	}
	ordered, err := sortTables(tables)
	if err != nil {
		return nil, err
	}
	ats, err := atlasTables(d, ordered)
	if err != nil {
		return nil, err
	}
	changes := make([]atlas.Change, len(ats))
	for i, t := range ats {
		changes[i] = &atlas.AddTable{T: t}
	}
	plan, err := pl.PlanChanges(ctx, "create_tables", changes)
	if err != nil {
		return nil, fmt.Errorf("schema: plan changes: %w", err)
	}
	return plan, nil
}

func planner(d string) (migrate.PlanApplier, error) {
	switch d {
	case dialect.SQLite:
		return sqlite.DefaultPlan, nil
	case dialect.Postgres:
		return postgres.DefaultPlan, nil
	case dialect.MySQL:
		return mysql.DefaultPlan, nil
	default:
		return nil, fmt.Errorf("schema: unsupported dialect %q", d)
	}
}

// sortTables orders tables so that every table comes after the tables its
// foreign keys reference. References to tables outside the list are ignored.
func sortTables(tables []*Table) ([]*Table, error) {
	const (
		visiting = 1
		done     = 2
	)
	in := make(map[*Table]bool, len(tables))
	for _, t := range tables {
		in[t] = true
	}
	state := make(map[*Table]int, len(tables))
	sorted := make([]*Table, 0, len(tables))
	var visit func(*Table) error
	visit = func(t *Table) error {
		switch state[t] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("schema: foreign key cycle through table %q", t.Name)
		}
		state[t] = visiting
		for _, fk := range t.ForeignKeys {
			if ref := fk.RefTable; ref != nil && ref != t && in[ref] {
				if err := visit(ref); err != nil {
					return err
				}
			}
		}
		state[t] = done
		sorted = append(sorted, t)
		return nil
	}
	for _, t := range tables {
		if err := visit(t); err != nil {
			return nil, err
		}
	}
	return sorted, nil
}

func atlasTables(d string, tables []*Table) ([]*atlas.Table, error) {
	converted := make(map[*Table]*atlas.Table, len(tables))
	result := make([]*atlas.Table, 0, len(tables))
	for _, t := range tables {
		at, err := atlasTable(d, t)
		if err != nil {
			return nil, err
		}
		converted[t] = at
		result = append(result, at)
	}
	for _, t := range tables {
		at := converted[t]
		for _, fk := range t.ForeignKeys {
			ref, ok := converted[fk.RefTable]
			if !ok {
				var err error
				// Referenced table is not created here; convert it only to
				// resolve the referenced columns.
				if ref, err = atlasTable(d, fk.RefTable); err != nil {
					return nil, err
				}
			}
			afk := atlas.NewForeignKey(fk.Symbol).SetRefTable(ref)
			for _, c := range fk.Columns {
				ac, ok := at.Column(c.Name)
				if !ok {
					return nil, fmt.Errorf("schema: foreign key %q: unknown column %q in table %q", fk.Symbol, c.Name, t.Name)
				}
				afk.AddColumns(ac)
			}
			for _, c := range fk.RefColumns {
				ac, ok := ref.Column(c.Name)
				if !ok {
					return nil, fmt.Errorf("schema: foreign key %q: unknown column %q in table %q", fk.Symbol, c.Name, ref.Name)
				}
				afk.AddRefColumns(ac)
			}
			if fk.OnDelete != "" {
				afk.SetOnDelete(atlas.ReferenceOption(fk.OnDelete))
			}
			if fk.OnUpdate != "" {
				afk.SetOnUpdate(atlas.ReferenceOption(fk.OnUpdate))
			}
			at.AddForeignKeys(afk)
		}
	}
	return result, nil
}

func atlasTable(d string, t *Table) (*atlas.Table, error) {
	if t == nil {
		return nil, fmt.Errorf("schema: nil table")
	}
	at := atlas.NewTable(t.Name)
	for _, c := range t.Columns {
		ac, err := atlasColumn(d, c)
		if err != nil {
			return nil, fmt.Errorf("schema: table %q: %w", t.Name, err)
		}
		at.AddColumns(ac)
	}
	if len(t.PrimaryKey) > 0 {
		pk := make([]*atlas.Column, 0, len(t.PrimaryKey))
		for _, c := range t.PrimaryKey {
			ac, ok := at.Column(c.Name)
			if !ok {
				return nil, fmt.Errorf("schema: table %q: unknown primary key column %q", t.Name, c.Name)
			}
			pk = append(pk, ac)
		}
		at.SetPrimaryKey(atlas.NewPrimaryKey(pk...))
	}
	for _, c := range t.Columns {
		if !c.Unique || c.PrimaryKey(t) {
			continue
		}
		ac, _ := at.Column(c.Name)
		at.AddIndexes(atlas.NewUniqueIndex(t.Name + "_" + c.Name + "_key").AddColumns(ac))
	}
	for _, idx := range t.Indexes {
		ai := atlas.NewIndex(idx.Name)
		if idx.Unique {
			ai = atlas.NewUniqueIndex(idx.Name)
		}
		for _, c := range idx.Columns {
			ac, ok := at.Column(c.Name)
			if !ok {
				return nil, fmt.Errorf("schema: index %q: unknown column %q", idx.Name, c.Name)
			}
			ai.AddColumns(ac)
		}
		at.AddIndexes(ai)
	}
	return at, nil
}

func atlasColumn(d string, c *Column) (*atlas.Column, error) {
	var ac *atlas.Column
	switch t := c.Type; {
	case t == field.TypeBool:
		ac = atlas.NewBoolColumn(c.Name, pick(d, "bool", "boolean", "boolean"))
	case t == field.TypeString || t == field.TypeEnum:
		if c.Size > 0 {
			ac = atlas.NewStringColumn(c.Name, "varchar", atlas.StringSize(int(c.Size)))
		} else {
			ac = atlas.NewStringColumn(c.Name, pick(d, "text", "text", "longtext"))
		}
	case t == field.TypeUUID:
		if d == dialect.Postgres {
			ac = atlas.NewColumn(c.Name).SetType(&atlas.UUIDType{T: "uuid"})
		} else {
			ac = atlas.NewStringColumn(c.Name, "char", atlas.StringSize(36))
		}
	case t == field.TypeTime:
		ac = atlas.NewTimeColumn(c.Name, pick(d, "datetime", "timestamp with time zone", "timestamp"))
	case t == field.TypeJSON:
		ac = atlas.NewJSONColumn(c.Name, pick(d, "json", "jsonb", "json"))
	case t == field.TypeBytes:
		ac = atlas.NewBinaryColumn(c.Name, pick(d, "blob", "bytea", "blob"))
	case t == field.TypeOther:
		ac = atlas.NewStringColumn(c.Name, "text")
	case t.Float():
		if t == field.TypeFloat32 {
			ac = atlas.NewFloatColumn(c.Name, pick(d, "real", "real", "float"))
		} else {
			ac = atlas.NewFloatColumn(c.Name, pick(d, "real", "double precision", "double"))
		}
	case t.Integer():
		ac = atlas.NewIntColumn(c.Name, intType(d, t))
	default:
		return nil, fmt.Errorf("column %q: unsupported type %s", c.Name, t)
	}
	return ac.SetNull(c.Nullable), nil
}

// pick returns the type name of the dialect d.
func pick(d, sqliteT, postgresT, mysqlT string) string {
	switch d {
	case dialect.Postgres:
		return postgresT
	case dialect.MySQL:
		return mysqlT
	default:
		return sqliteT
	}
}

func intType(d string, t field.Type) string {
	if d == dialect.SQLite {
		return "integer"
	}
	switch t {
	case field.TypeInt8, field.TypeUint8:
		return pick(d, "", "smallint", "tinyint")
	case field.TypeInt16, field.TypeUint16:
		return "smallint"
	case field.TypeInt32, field.TypeUint32:
		return pick(d, "", "integer", "int")
	default:
		return "bigint"
	}
}
