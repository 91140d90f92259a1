package schema

import (
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"
)

// checkValue reports why v is not a valid literal of type t, or "" when it is.
// Custom scalars accept any literal.
func checkValue(schema *ast.Schema, v *ast.Value, t *ast.Type) string {
	if v.Kind == ast.Variable {
		return "variables are not allowed here"
	}
	if v.Kind == ast.NullValue {
		if t.NonNull {
			return fmt.Sprintf("null is not a valid %s", t)
		}
		return ""
	}
	if t.Elem != nil {
		if v.Kind != ast.ListValue {
			// Input coercion accepts a single item for a list.
			return checkValue(schema, v, t.Elem)
		}
		for _, c := range v.Children {
			if msg := checkValue(schema, c.Value, t.Elem); msg != "" {
				return msg
			}
		}
		return ""
	}

	def := schema.Types[t.NamedType]
	if def == nil {
		return ""
	}
	switch def.Kind {
	case ast.Scalar:
		if !scalarAccepts(def.Name, v.Kind) {
			return fmt.Sprintf("%s is not a valid %s", v.String(), def.Name)
		}
	case ast.Enum:
		if v.Kind != ast.EnumValue || def.EnumValues.ForName(v.Raw) == nil {
			return fmt.Sprintf("%s is not a value of enum %s", v.String(), def.Name)
		}
	case ast.InputObject:
		if v.Kind != ast.ObjectValue {
			return fmt.Sprintf("%s is not a valid %s", v.String(), def.Name)
		}
		for _, c := range v.Children {
			f := def.Fields.ForName(c.Name)
			if f == nil {
				return fmt.Sprintf("%s has no field %s", def.Name, c.Name)
			}
			if msg := checkValue(schema, c.Value, f.Type); msg != "" {
				return msg
			}
		}
		for _, f := range def.Fields {
			if f.Type.NonNull && f.DefaultValue == nil && v.Children.ForName(f.Name) == nil {
				return fmt.Sprintf("missing required field %s.%s", def.Name, f.Name)
			}
		}
	default:
		return fmt.Sprintf("%s is not an input type", def.Name)
	}
	return ""
}

func scalarAccepts(name string, kind ast.ValueKind) bool {
	switch name {
	case "Int":
		return kind == ast.IntValue
	case "Float":
		return kind == ast.IntValue || kind == ast.FloatValue
	case "String":
		return kind == ast.StringValue || kind == ast.BlockValue
	case "Boolean":
		return kind == ast.BooleanValue
	case "ID":
		return kind == ast.StringValue || kind == ast.IntValue
	}
	return true
}
