// Package language parses the GraphQL literals written in Go doc comments and struct tags.
// Parsed values are gqlparser ASTs so they can be lowered into schema documents unchanged.
package language

import "github.com/vektah/gqlparser/v2/ast"

type (
	QueryDocument  = ast.QueryDocument
	SchemaDocument = ast.SchemaDocument
	Field          = ast.Field
	Directive      = ast.Directive
	ArgumentList   = ast.ArgumentList
	Value          = ast.Value
	ChildValueList = ast.ChildValueList
)

type ValueKind = ast.ValueKind

const (
	Variable     ValueKind = ast.Variable
	IntValue     ValueKind = ast.IntValue
	FloatValue   ValueKind = ast.FloatValue
	StringValue  ValueKind = ast.StringValue
	BlockValue   ValueKind = ast.BlockValue
	BooleanValue ValueKind = ast.BooleanValue
	NullValue    ValueKind = ast.NullValue
	EnumValue    ValueKind = ast.EnumValue
	ListValue    ValueKind = ast.ListValue
	ObjectValue  ValueKind = ast.ObjectValue
)
