// Package mixin provides optional mixins for translation tables on top of
// the built-in ones of schema/mixin.
//
// Importing the package registers its mixins by name, so model files can
// list them under base_mixins:
//
//	import _ "github.com/syssam/velox-i18n/contrib/mixin"
//
// Available mixins:
//   - SoftDelete ("soft_delete"): deleted_at timestamp
//   - TenantID ("tenant_id"): tenant_id of the owning tenant
//   - TimeSoftDelete ("time_soft_delete"): Time and SoftDelete
//   - RowID ("row_id"): unique UUID identifying the translation row
//
// They can also be set directly as base classes:
//
//	i18n.Options{
//	    Locales:     []string{"en", "fr"},
//	    BaseClasses: []i18n.Base{mixin.TimeSoftDelete{}},
//	}
package mixin

import (
	"github.com/syssam/velox-i18n/dialect/sql/schema"
	"github.com/syssam/velox-i18n/schema/field"
	"github.com/syssam/velox-i18n/schema/mixin"
)

func init() {
	mixin.Register("soft_delete", SoftDelete{})
	mixin.Register("tenant_id", TenantID{})
	mixin.Register("time_soft_delete", TimeSoftDelete{})
	mixin.Register("row_id", RowID{})
}

// SoftDelete adds a nullable deleted_at column.
//
//	deleted_at TIMESTAMP NULL
type SoftDelete struct{ mixin.Schema }

// Columns of the SoftDelete mixin.
func (SoftDelete) Columns() []*schema.Column {
	return []*schema.Column{
		{Name: "deleted_at", Type: field.TypeTime, Nullable: true},
	}
}

// soft delete mixin must implement `Mixin` interface.
var _ mixin.Mixin = (*SoftDelete)(nil)

// TenantID adds a tenant_id column for multi-tenant translation tables.
//
// For different naming conventions, create your own mixin:
//
//	type WorkspaceID struct{ mixin.Schema }
//
//	func (WorkspaceID) Columns() []*schema.Column {
//	    return []*schema.Column{{Name: "workspace_id", Type: field.TypeString, Size: 64}}
//	}
type TenantID struct{ mixin.Schema }

// Columns of the TenantID mixin.
func (TenantID) Columns() []*schema.Column {
	return []*schema.Column{
		{Name: "tenant_id", Type: field.TypeString, Size: 64},
	}
}

// tenant id mixin must implement `Mixin` interface.
var _ mixin.Mixin = (*TenantID)(nil)

// TimeSoftDelete composes Time and SoftDelete mixins.
// Provides created_at, updated_at, and deleted_at columns.
type TimeSoftDelete struct{ mixin.Schema }

// Columns of the TimeSoftDelete mixin.
func (TimeSoftDelete) Columns() []*schema.Column {
	return append(mixin.Time{}.Columns(), SoftDelete{}.Columns()...)
}

// time soft delete mixin must implement `Mixin` interface.
var _ mixin.Mixin = (*TimeSoftDelete)(nil)

// RowID adds a unique UUID column identifying a translation row
// independently of its composite key, e.g. for global object IDs.
//
//	row_id UUID NOT NULL UNIQUE
type RowID struct{ mixin.Schema }

// Columns of the RowID mixin.
func (RowID) Columns() []*schema.Column {
	return []*schema.Column{
		{Name: "row_id", Type: field.TypeUUID, Unique: true},
	}
}

// row id mixin must implement `Mixin` interface.
var _ mixin.Mixin = (*RowID)(nil)
