// Package graphql exports the translation types of registered models as a
// GraphQL schema and binds them in gqlgen configuration files.
package graphql

import (
	"fmt"
	"slices"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"

	i18n "github.com/syssam/velox-i18n"
	"github.com/syssam/velox-i18n/dialect/sql/schema"
	"github.com/syssam/velox-i18n/schema/field"
)

// Custom scalars used by translation types.
const (
	ScalarTime  = "Time"
	ScalarUUID  = "UUID"
	ScalarJSON  = "JSON"
	ScalarInt64 = "Int64"
)

// Option configures the schema export.
type Option func(*exporter)

// WithGoModel binds each object to its generated Go type in the given
// package with the gqlgen @goModel directive.
func WithGoModel(pkg string) Option {
	return func(e *exporter) {
		e.goPkg = pkg
	}
}

// WithDescriptions toggles type and field descriptions. They are enabled
// by default.
func WithDescriptions(enabled bool) Option {
	return func(e *exporter) {
		e.descriptions = enabled
	}
}

type exporter struct {
	goPkg        string
	descriptions bool
	scalars      []string
}

// Schema returns the schema document of the translation types of the
// models registered with m.
func Schema(m *i18n.Manager, opts ...Option) *ast.SchemaDocument {
	e := &exporter{descriptions: true}
	for _, opt := range opts {
		opt(e)
	}
	doc := &ast.SchemaDocument{}
	var objects ast.DefinitionList
	for _, model := range m.Models() {
		objects = append(objects, e.object(model))
	}
	for _, s := range e.scalars {
		def := &ast.Definition{Kind: ast.Scalar, Name: s}
		if e.goPkg != "" {
			if model, ok := scalarModels[s]; ok {
				def.Directives = ast.DirectiveList{goModel(model)}
			}
		}
		doc.Definitions = append(doc.Definitions, def)
	}
	doc.Definitions = append(doc.Definitions, objects...)
	if e.goPkg != "" {
		doc.Directives = ast.DirectiveDefinitionList{goModelDirective()}
	}
	return doc
}

// SDL returns the schema of the translation types in the GraphQL schema
// definition language.
func SDL(m *i18n.Manager, opts ...Option) string {
	var b strings.Builder
	formatter.NewFormatter(&b).FormatSchemaDocument(Schema(m, opts...))
	return b.String()
}

func (e *exporter) object(model *i18n.Model) *ast.Definition {
	class := model.Class()
	def := &ast.Definition{
		Kind: ast.Object,
		Name: class.Name,
	}
	if e.descriptions {
		def.Description = fmt.Sprintf("%s translation of %s, stored in %s.", class.Name, model.Name, class.Table.Name)
	}
	if e.goPkg != "" {
		def.Directives = ast.DirectiveList{goModel(e.goPkg + "." + class.Name)}
	}
	for _, c := range class.Fields() {
		fd := &ast.FieldDefinition{
			Name: lowerCamel(c.Name),
			Type: e.fieldType(c),
		}
		if e.descriptions && c.Comment != "" {
			fd.Description = c.Comment
		}
		def.Fields = append(def.Fields, fd)
	}
	return def
}

func (e *exporter) fieldType(c *schema.Column) *ast.Type {
	name := e.scalar(c.Type)
	if c.Nullable {
		return ast.NamedType(name, nil)
	}
	return ast.NonNullNamedType(name, nil)
}

// scalar returns the GraphQL type name of a column type, recording the
// custom scalars in use.
func (e *exporter) scalar(t field.Type) string {
	var name string
	switch {
	case t == field.TypeBool:
		return "Boolean"
	case t == field.TypeTime:
		name = ScalarTime
	case t == field.TypeUUID:
		name = ScalarUUID
	case t == field.TypeJSON:
		name = ScalarJSON
	case t.Float():
		return "Float"
	case t == field.TypeInt8, t == field.TypeInt16, t == field.TypeInt32, t == field.TypeUint8, t == field.TypeUint16:
		return "Int"
	case t.Integer():
		name = ScalarInt64
	default:
		return "String"
	}
	if !slices.Contains(e.scalars, name) {
		e.scalars = append(e.scalars, name)
	}
	return name
}

// scalarModels binds the custom scalars to gqlgen types.
var scalarModels = map[string]string{
	ScalarTime:  "github.com/99designs/gqlgen/graphql.Time",
	ScalarUUID:  "github.com/99designs/gqlgen/graphql.UUID",
	ScalarJSON:  "github.com/99designs/gqlgen/graphql.Map",
	ScalarInt64: "github.com/99designs/gqlgen/graphql.Int64",
}

func goModel(model string) *ast.Directive {
	return &ast.Directive{
		Name: "goModel",
		Arguments: ast.ArgumentList{
			{Name: "model", Value: &ast.Value{Kind: ast.StringValue, Raw: model}},
		},
	}
}

func goModelDirective() *ast.DirectiveDefinition {
	return &ast.DirectiveDefinition{
		Name: "goModel",
		// The formatter reads Position.Src to skip built-in directives.
		Position: &ast.Position{Src: &ast.Source{}},
		Arguments: ast.ArgumentDefinitionList{
			{Name: "model", Type: ast.NamedType("String", nil)},
			{Name: "models", Type: ast.ListType(ast.NonNullNamedType("String", nil), nil)},
		},
		Locations: []ast.DirectiveLocation{
			ast.LocationObject,
			ast.LocationInputObject,
			ast.LocationScalar,
			ast.LocationEnum,
			ast.LocationInterface,
			ast.LocationUnion,
		},
	}
}

// lowerCamel converts a snake-cased column name to a GraphQL field name.
//
//	lowerCamel("published_at") => "publishedAt"
func lowerCamel(s string) string {
	parts := strings.Split(s, "_")
	var b strings.Builder
	for i, p := range parts {
		if p == "" {
			continue
		}
		if i == 0 || b.Len() == 0 {
			b.WriteString(strings.ToLower(p[:1]) + p[1:])
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]) + p[1:])
	}
	return b.String()
}
