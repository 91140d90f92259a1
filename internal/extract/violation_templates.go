package extract

import (
	"fmt"

	"github.com/hanpama/gqlderive/internal/ir"
)

// Extraction violation constructors.
// NOTE: Keep messages stable to avoid breaking snapshot tests.

func violationUnknownTag(word string, pos ir.Position) *ir.Violation {
	return ir.NewViolation(fmt.Sprintf("Unknown tag @%s", word), pos)
}

func violationIncorrectCasing(word, canonical string, pos ir.Position) *ir.Violation {
	return ir.NewViolation(fmt.Sprintf("Incorrect casing for tag @%s; expected @%s", word, canonical), pos)
}

func violationTagNotInDoc(word string, pos ir.Position) *ir.Violation {
	return ir.NewViolation(
		fmt.Sprintf("Tag @%s must be placed in the doc comment directly above a declaration", word),
		pos,
	)
}

func violationTagUnsupported(name, element string, pos ir.Position) *ir.Violation {
	return ir.NewViolation(fmt.Sprintf("Tag @%s is not supported on %s", name, element), pos)
}

func violationConflictingTags(name, first string, pos, firstPos ir.Position) *ir.Violation {
	return ir.NewViolation(
		fmt.Sprintf("Tag @%s conflicts with @%s on the same declaration", name, first),
		pos,
	).Relate("@"+first+" declared here", firstPos)
}

func violationDuplicateTag(name string, pos, firstPos ir.Position) *ir.Violation {
	return ir.NewViolation(fmt.Sprintf("Duplicate tag @%s", name), pos).
		Relate("first declared here", firstPos)
}

func violationImplementsRemoved(pos ir.Position) *ir.Violation {
	return ir.NewViolation(
		"Tag @gqlImplements is not supported; embed the interface or implement its methods instead",
		pos,
	)
}

func violationInvalidNameOverride(name, text string, pos ir.Position) *ir.Violation {
	return ir.NewViolation(
		fmt.Sprintf("Expected a single GraphQL name after @%s, got %q; descriptions belong above the tags", name, text),
		pos,
	)
}

func violationReservedName(kind, name string, pos ir.Position) *ir.Violation {
	return ir.NewViolation(
		fmt.Sprintf("%s name %q cannot start with '__' (reserved prefix)", kind, name),
		pos,
	)
}

func violationTagTakesNoText(name string, pos ir.Position) *ir.Violation {
	return ir.NewViolation(fmt.Sprintf("Tag @%s does not take any text", name), pos)
}

func violationWrongShape(tagName, expected string, pos ir.Position) *ir.Violation {
	return ir.NewViolation(fmt.Sprintf("@%s can only be used on %s", tagName, expected), pos)
}

func violationNotExported(kind, name string, pos ir.Position) *ir.Violation {
	return ir.NewViolation(fmt.Sprintf("%s %q must be exported to be used as a resolver", kind, name), pos)
}

func violationFieldNeedsTaggedReceiver(method, receiver string, pos ir.Position) *ir.Violation {
	return ir.NewViolation(
		fmt.Sprintf("Method %s has @gqlField but its receiver %s is not tagged @gqlType", method, receiver),
		pos,
	)
}

func violationUnsupportedType(what string, pos ir.Position) *ir.Violation {
	return ir.NewViolation(fmt.Sprintf("Unsupported type: %s cannot be represented in GraphQL", what), pos)
}

func violationMissingType(pos ir.Position) *ir.Violation {
	return ir.NewViolation("Type expression does not denote a type", pos)
}

func violationUnnamedParameter(pos ir.Position) *ir.Violation {
	return ir.NewViolation("Resolver parameters must be named; unnamed and '_' parameters cannot become arguments", pos)
}

func violationVariadicParameter(pos ir.Position) *ir.Violation {
	return ir.NewViolation("Variadic parameters are not supported on resolvers", pos)
}

func violationDuplicateArgsStruct(pos, firstPos ir.Position) *ir.Violation {
	return ir.NewViolation("A resolver accepts at most one inline arguments struct", pos).
		Relate("arguments struct declared here", firstPos)
}

func violationMissingSource(name string, pos ir.Position) *ir.Violation {
	return ir.NewViolation(
		fmt.Sprintf("Field function %s must take the parent type as its first parameter", name),
		pos,
	)
}

func violationGenericFunction(name string, pos ir.Position) *ir.Violation {
	return ir.NewViolation(fmt.Sprintf("Generic function %s cannot be used as a resolver", name), pos)
}

func violationNoResult(name string, pos ir.Position) *ir.Violation {
	return ir.NewViolation(fmt.Sprintf("Resolver %s must return a value", name), pos)
}

func violationBadResults(name string, pos ir.Position) *ir.Violation {
	return ir.NewViolation(
		fmt.Sprintf("Resolver %s must return T or (T, error)", name),
		pos,
	)
}

func violationErrorResult(pos ir.Position) *ir.Violation {
	return ir.NewViolation("A resolver's only result cannot be error", pos)
}

func violationSendOnlyChannel(pos ir.Position) *ir.Violation {
	return ir.NewViolation("Stream resolvers must return a receivable channel", pos)
}

func violationEmbeddedField(element string, pos ir.Position) *ir.Violation {
	return ir.NewViolation(fmt.Sprintf("Embedded fields are not supported in %s", element), pos)
}

func violationInvalidInputName(name string, pos ir.Position) *ir.Violation {
	return ir.NewViolation(fmt.Sprintf("%q is not a valid GraphQL argument or input field name", name), pos)
}

func violationInvalidDefault(literal string, err error, pos ir.Position) *ir.Violation {
	return ir.NewViolation(fmt.Sprintf("Invalid default value %q: %v", literal, err), pos)
}

func violationInvalidStructTag(err error, pos ir.Position) *ir.Violation {
	return ir.NewViolation(fmt.Sprintf("Invalid struct tag: %v", err), pos)
}

func violationInvalidAnnotation(text string, err error, pos ir.Position) *ir.Violation {
	return ir.NewViolation(fmt.Sprintf("Invalid @gqlAnnotate %q: %v", text, err), pos)
}

func violationMultipleNames(pos ir.Position) *ir.Violation {
	return ir.NewViolation("A name override cannot be applied to a field declaring several names", pos)
}

func violationEnumNotString(name string, pos ir.Position) *ir.Violation {
	return ir.NewViolation(fmt.Sprintf("Enum %s must have string as its underlying type", name), pos)
}

func violationEnumEmpty(name string, pos ir.Position) *ir.Violation {
	return ir.NewViolation(fmt.Sprintf("Enum %s has no constants of its type", name), pos)
}

func violationEnumValueInvalid(value string, pos ir.Position) *ir.Violation {
	return ir.NewViolation(fmt.Sprintf("Enum value %q is not a valid GraphQL enum value", value), pos)
}

func violationUnionWithoutMethods(name string, pos ir.Position) *ir.Violation {
	return ir.NewViolation(
		fmt.Sprintf("Union %s must be an interface with at least one method so members can be told apart", name),
		pos,
	)
}

func violationTypeSetInterface(pos ir.Position) *ir.Violation {
	return ir.NewViolation("Interfaces with type-set terms cannot be GraphQL types", pos)
}

func violationDirectiveSyntax(text string, pos ir.Position) *ir.Violation {
	return ir.NewViolation(
		fmt.Sprintf("Invalid @gqlDirective %q; expected `[name] [repeatable] on LOCATION | LOCATION`", text),
		pos,
	)
}

func violationDirectiveLocation(loc string, pos ir.Position) *ir.Violation {
	return ir.NewViolation(fmt.Sprintf("Unknown directive location %q", loc), pos)
}

func violationDirectiveParams(name string, pos ir.Position) *ir.Violation {
	return ir.NewViolation(
		fmt.Sprintf("Directive function %s may only take a single inline arguments struct", name),
		pos,
	)
}

func violationReceiverNotStruct(receiver string, pos ir.Position) *ir.Violation {
	return ir.NewViolation(
		fmt.Sprintf("Static resolver receiver %s must be an exported, non-generic defined type", receiver),
		pos,
	)
}
