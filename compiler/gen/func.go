package gen

import (
	"strings"

	"github.com/dave/jennifer/jen"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/syssam/velox-i18n/dialect/sql/schema"
	"github.com/syssam/velox-i18n/schema/field"
)

var (
	title = cases.Title(language.Und, cases.NoLower)

	acronyms = map[string]bool{
		"ACL": true, "API": true, "CSS": true, "DB": true, "HTML": true,
		"HTTP": true, "ID": true, "IP": true, "JSON": true, "SQL": true,
		"SEO": true, "TLS": true, "URL": true, "UUID": true, "XML": true,
	}
)

// pascal converts a snake-cased column name to a Go identifier.
//
//	pascal("meta_title") => "MetaTitle"
//	pascal("user_id") => "UserID"
func pascal(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool { return r == '_' || r == '-' || r == ' ' })
	var b strings.Builder
	for _, w := range words {
		if u := strings.ToUpper(w); acronyms[u] {
			b.WriteString(u)
			continue
		}
		b.WriteString(title.String(w))
	}
	return b.String()
}

// snake converts a model name to a file name stem.
//
//	snake("NewsArticle") => "news_article"
func snake(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		upper := r >= 'A' && r <= 'Z'
		if upper && i > 0 {
			prevLower := runes[i-1] >= 'a' && runes[i-1] <= 'z'
			nextLower := i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z'
			if prevLower || (nextLower && runes[i-1] >= 'A' && runes[i-1] <= 'Z') {
				b.WriteByte('_')
			}
		}
		b.WriteString(strings.ToLower(string(r)))
	}
	return b.String()
}

// baseType returns the Go type of a column, ignoring nullability.
func baseType(c *schema.Column) jen.Code {
	switch c.Type {
	case field.TypeBool:
		return jen.Bool()
	case field.TypeTime:
		return jen.Qual("time", "Time")
	case field.TypeJSON:
		return jen.Qual("encoding/json", "RawMessage")
	case field.TypeUUID:
		return jen.Qual("github.com/google/uuid", "UUID")
	case field.TypeBytes:
		return jen.Index().Byte()
	case field.TypeInt8:
		return jen.Int8()
	case field.TypeInt16:
		return jen.Int16()
	case field.TypeInt32:
		return jen.Int32()
	case field.TypeInt:
		return jen.Int()
	case field.TypeInt64:
		return jen.Int64()
	case field.TypeUint8:
		return jen.Uint8()
	case field.TypeUint16:
		return jen.Uint16()
	case field.TypeUint32:
		return jen.Uint32()
	case field.TypeUint:
		return jen.Uint()
	case field.TypeUint64:
		return jen.Uint64()
	case field.TypeFloat32:
		return jen.Float32()
	case field.TypeFloat64:
		return jen.Float64()
	default:
		return jen.String()
	}
}

// nillable reports if the Go type of a nullable column is a pointer.
// Byte slices and raw JSON are nil-able already.
func nillable(c *schema.Column) bool {
	return c.Nullable && c.Type != field.TypeBytes && c.Type != field.TypeJSON
}

// goType returns the Go type of a column.
func goType(c *schema.Column) jen.Code {
	if nillable(c) {
		return jen.Op("*").Add(baseType(c))
	}
	return baseType(c)
}

// present returns the expression reporting if v holds a value of column c.
func present(c *schema.Column, v *jen.Statement) *jen.Statement {
	switch {
	case nillable(c):
		return v.Op("!=").Nil()
	case c.Type == field.TypeBytes || c.Type == field.TypeJSON:
		return jen.Len(v).Op(">").Lit(0)
	case c.Type == field.TypeBool:
		return v
	case c.Type == field.TypeTime:
		return jen.Op("!").Add(v).Dot("IsZero").Call()
	case c.Type == field.TypeUUID:
		return v.Op("!=").Qual("github.com/google/uuid", "Nil")
	case c.Type.Numeric():
		return v.Op("!=").Lit(0)
	default:
		return v.Op("!=").Lit("")
	}
}
