package schema

import (
	"fmt"
	"strings"
)

// ValidationError is a problem found in a table definition.
type ValidationError struct {
	Table   string
	Column  string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Column == "" {
		return e.Table + ": " + e.Message
	}
	return e.Table + "." + e.Column + ": " + e.Message
}

// ValidationResult collects the errors and warnings of a validation run.
// Warnings do not prevent creating the tables.
type ValidationResult struct {
	Errors   []*ValidationError
	Warnings []*ValidationError
}

// HasErrors reports if the run found errors.
func (r *ValidationResult) HasErrors() bool { return len(r.Errors) > 0 }

// HasWarnings reports if the run found warnings.
func (r *ValidationResult) HasWarnings() bool { return len(r.Warnings) > 0 }

// Err returns the errors joined into a single error, or nil.
func (r *ValidationResult) Err() error {
	if !r.HasErrors() {
		return nil
	}
	return fmt.Errorf("schema: invalid tables: %s", join(r.Errors, "; "))
}

// String lists the errors and warnings, one per line.
func (r *ValidationResult) String() string {
	if !r.HasErrors() && !r.HasWarnings() {
		return "No issues found"
	}
	var b strings.Builder
	for _, s := range []struct {
		title string
		list  []*ValidationError
	}{{"Errors", r.Errors}, {"Warnings", r.Warnings}} {
		if len(s.list) > 0 {
			fmt.Fprintf(&b, "%s:\n  - %s\n", s.title, join(s.list, "\n  - "))
		}
	}
	return b.String()
}

func join(list []*ValidationError, sep string) string {
	msgs := make([]string, len(list))
	for i, e := range list {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, sep)
}

// checker records the findings about one table.
type checker struct {
	res   *ValidationResult
	table string
}

func (c checker) errorf(column, format string, args ...any) {
	c.res.Errors = append(c.res.Errors, &ValidationError{Table: c.table, Column: column, Message: fmt.Sprintf(format, args...)})
}

func (c checker) warnf(column, format string, args ...any) {
	c.res.Warnings = append(c.res.Warnings, &ValidationError{Table: c.table, Column: column, Message: fmt.Sprintf(format, args...)})
}

// ValidateTable checks a single table: column names and types, the
// primary key, indexes and foreign keys.
func ValidateTable(t *Table) *ValidationResult {
	res := &ValidationResult{}
	c := checker{res: res, table: t.Name}

	seen := make(map[string]bool, len(t.Columns))
	for _, col := range t.Columns {
		if seen[col.Name] {
			c.errorf(col.Name, "duplicate column name")
		}
		seen[col.Name] = true
		if !col.Type.Valid() {
			c.errorf(col.Name, "invalid column type")
		}
	}

	if len(t.PrimaryKey) == 0 {
		c.warnf("", "table has no primary key")
	}
	for _, col := range t.PrimaryKey {
		if !seen[col.Name] {
			c.errorf(col.Name, "primary key references non-existent column")
		}
		if col.Nullable {
			c.errorf(col.Name, "primary key column cannot be nullable")
		}
		// A unique member makes the rest of a composite key meaningless.
		if col.Unique && len(t.PrimaryKey) > 1 {
			c.warnf(col.Name, "unique column in composite primary key")
		}
	}

	indexes := make(map[string]bool, len(t.Indexes))
	for _, idx := range t.Indexes {
		if indexes[idx.Name] {
			c.errorf("", "duplicate index name: %s", idx.Name)
		}
		indexes[idx.Name] = true
		for _, col := range idx.Columns {
			if col != nil && !seen[col.Name] {
				c.errorf("", "index %q references non-existent column %q", idx.Name, col.Name)
			}
		}
	}

	for _, fk := range t.ForeignKeys {
		for _, col := range fk.Columns {
			if !seen[col.Name] {
				c.errorf("", "foreign key references non-existent column %q", col.Name)
			}
		}
		if len(fk.Columns) != len(fk.RefColumns) {
			c.errorf("", "foreign key %q has %d columns but references %d", fk.Symbol, len(fk.Columns), len(fk.RefColumns))
		}
		if fk.RefTable == nil {
			c.errorf("", "foreign key %q has no referenced table", fk.Symbol)
			continue
		}
		for _, col := range fk.RefColumns {
			if !fk.RefTable.HasColumn(col.Name) {
				c.errorf("", "foreign key %q references non-existent column %q of table %q", fk.Symbol, col.Name, fk.RefTable.Name)
			}
		}
	}
	return res
}

// ValidateSchema checks the tables and the references between them.
// Foreign keys must reference tables of the list.
func ValidateSchema(tables []*Table) *ValidationResult {
	res := &ValidationResult{}
	names := make(map[string]bool, len(tables))
	for _, t := range tables {
		if names[t.Name] {
			checker{res: res, table: t.Name}.errorf("", "duplicate table name")
		}
		names[t.Name] = true
		r := ValidateTable(t)
		res.Errors = append(res.Errors, r.Errors...)
		res.Warnings = append(res.Warnings, r.Warnings...)
	}
	for _, t := range tables {
		for _, fk := range t.ForeignKeys {
			if fk.RefTable != nil && !names[fk.RefTable.Name] {
				checker{res: res, table: t.Name}.errorf("", "foreign key references non-existent table %q", fk.RefTable.Name)
			}
		}
	}
	return res
}
