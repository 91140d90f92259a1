package language

import (
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

func ParseQuery(source string) (*QueryDocument, error) {
	doc, err := parser.ParseQuery(&ast.Source{Input: source})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func ParseSchema(name, source string) (*SchemaDocument, error) {
	doc, err := parser.ParseSchema(&ast.Source{Name: name, Input: source})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// ParseValue parses a constant GraphQL literal such as `10`, `"text"`, `[A, B]` or `{a: 1}`.
func ParseValue(literal string) (*Value, error) {
	doc, err := ParseQuery("{ f(v: " + literal + ") }")
	if err != nil {
		return nil, err
	}
	field, ok := doc.Operations[0].SelectionSet[0].(*Field)
	if !ok || len(field.Arguments) != 1 {
		return nil, fmt.Errorf("invalid literal %q", literal)
	}
	value := field.Arguments[0].Value
	if hasVariable(value) {
		return nil, fmt.Errorf("literal %q must not reference variables", literal)
	}
	return value, nil
}

// ParseDirective parses a single directive application such as `cacheControl(maxAge: 60)`.
func ParseDirective(application string) (*Directive, error) {
	doc, err := ParseSchema("", "scalar X @"+application)
	if err != nil {
		return nil, err
	}
	if len(doc.Definitions) != 1 || len(doc.Definitions[0].Directives) != 1 {
		return nil, fmt.Errorf("invalid directive application %q", application)
	}
	return doc.Definitions[0].Directives[0], nil
}

func hasVariable(v *Value) bool {
	if v == nil {
		return false
	}
	if v.Kind == Variable {
		return true
	}
	for _, c := range v.Children {
		if hasVariable(c.Value) {
			return true
		}
	}
	return false
}
