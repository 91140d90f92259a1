package derive

import (
	"fmt"

	"github.com/hanpama/gqlderive/internal/ir"
)

// Derive violation constructors.
// NOTE: Keep messages stable to avoid breaking snapshot tests.

func violationUnresolvedType(name string, pos ir.Position) *ir.Violation {
	return ir.NewViolation(
		fmt.Sprintf("Unresolved type reference: %s is not a GraphQL type; tag its declaration or use a supported type", name),
		pos,
	)
}

func violationAliasCycle(name string, pos ir.Position) *ir.Violation {
	return ir.NewViolation(fmt.Sprintf("Unresolved type reference: alias %s refers to itself", name), pos)
}

func violationOwnerKind(name, kind string, pos ir.Position) *ir.Violation {
	return ir.NewViolation(
		fmt.Sprintf("Cannot add fields to %s (%s); the first parameter must be a @gqlType or @gqlInterface", name, kind),
		pos,
	)
}

func violationGenericOwner(name string, pos ir.Position) *ir.Violation {
	return ir.NewViolation(
		fmt.Sprintf("Cannot add fields to generic type %s; declare the field on the type itself", name),
		pos,
	)
}

func violationInterfacePointer(name string, pos ir.Position) *ir.Violation {
	return ir.NewViolation(fmt.Sprintf("Source parameter must be %s, not a pointer to it", name), pos)
}

func violationTemplateWithoutArgs(name string, pos, paramsPos ir.Position) *ir.Violation {
	return ir.NewViolation(fmt.Sprintf("Generic type %s must be used with type arguments", name), pos).
		Relate("type parameters declared here", paramsPos)
}

func violationTypeArgCount(name string, want, got int, pos, paramsPos ir.Position) *ir.Violation {
	msg := fmt.Sprintf("Generic type %s expects %d type argument(s), got %d", name, want, got)
	return ir.NewViolation(msg, pos).Relate("type parameters declared here", paramsPos)
}

func violationTypeArgNotReference(name, arg string, pos, paramsPos ir.Position) *ir.Violation {
	return ir.NewViolation(
		fmt.Sprintf("Type argument %s of %s must be a plain type name; pointers, slices and nested generics with wrappers are not supported", arg, name),
		pos,
	).Relate("type parameters declared here", paramsPos)
}

func violationUnboundedInstantiation(name string, pos, paramsPos ir.Position) *ir.Violation {
	return ir.NewViolation(
		fmt.Sprintf("Generic type %s instantiates itself with ever-growing type arguments", name),
		pos,
	).Relate("type parameters declared here", paramsPos)
}

func violationInstantiate(name string, err error, pos, paramsPos ir.Position) *ir.Violation {
	return ir.NewViolation(fmt.Sprintf("Cannot instantiate %s: %v", name, err), pos).
		Relate("type parameters declared here", paramsPos)
}

func violationTemplateHeritage(name string, pos, paramsPos ir.Position) *ir.Violation {
	return ir.NewViolation(
		fmt.Sprintf("Generic type %s cannot be embedded to inherit fields; declare the fields directly", name),
		pos,
	).Relate("type parameters declared here", paramsPos)
}

func violationEmptyUnion(name, goName string, pos ir.Position) *ir.Violation {
	return ir.NewViolation(
		fmt.Sprintf("Union %s has no members; no @gqlType implements %s", name, goName),
		pos,
	)
}

func violationExtendUnknown(name string, pos ir.Position) *ir.Violation {
	return ir.NewViolation(fmt.Sprintf("Cannot extend unknown type %s", name), pos)
}

func violationExtendKind(name, kind string, pos ir.Position) *ir.Violation {
	return ir.NewViolation(fmt.Sprintf("Cannot add fields to %s (%s)", name, kind), pos)
}

func violationDuplicateField(typeName, field string, pos, prevPos ir.Position) *ir.Violation {
	return ir.NewViolation(fmt.Sprintf("Field %s.%s is defined more than once", typeName, field), pos).
		Relate("previous definition", prevPos)
}

func violationKillsParentDisabled(typeName, field string, pos ir.Position) *ir.Violation {
	return ir.NewViolation(
		fmt.Sprintf("@killsParentOnException on %s.%s requires nullableByDefault to be enabled", typeName, field),
		pos,
	)
}

func violationKillsParentNullable(typeName, field string, pos ir.Position) *ir.Violation {
	return ir.NewViolation(
		fmt.Sprintf("@killsParentOnException on %s.%s has no effect; the field is already nullable", typeName, field),
		pos,
	)
}

func violationContextPosition(name string, pos ir.Position) *ir.Violation {
	return ir.NewViolation(
		fmt.Sprintf("Context type %s can only be used as a resolver parameter", name),
		pos,
	)
}

func violationNotAsyncIterable(field string, pos ir.Position) *ir.Violation {
	return ir.NewViolation(
		fmt.Sprintf("Subscription field %s is not async-iterable; return a receive channel", field),
		pos,
	)
}

func violationStreamOutsideSubscription(typeName, field string, pos ir.Position) *ir.Violation {
	return ir.NewViolation(
		fmt.Sprintf("Field %s.%s returns a channel; only Subscription fields may stream", typeName, field),
		pos,
	)
}
