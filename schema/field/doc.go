// Package field defines the column types used by translatable models and
// the translation tables synthesized for them.
//
// Types are declared by name in model files:
//
//	field.ParseType("string") // field.TypeString
//	field.ParseType("int64")  // field.TypeInt64
//	field.ParseType("uuid")   // field.TypeUUID
package field
