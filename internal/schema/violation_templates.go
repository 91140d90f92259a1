package schema

import (
	"fmt"

	"github.com/hanpama/gqlderive/internal/ir"
)

// Validation violation constructors.
// NOTE: Keep messages stable to avoid breaking snapshot tests.

func violationNoFields(kind, name string, pos ir.Position) *ir.Violation {
	return ir.NewViolation(fmt.Sprintf("%s %s must define one or more fields", kind, name), pos)
}

func violationNoIdentity(abstract, member, reason string, pos, abstractPos ir.Position) *ir.Violation {
	return ir.NewViolation(
		fmt.Sprintf("Cannot resolve the runtime type of %s as %s: %s", abstract, member, reason),
		pos,
	).Relate(abstract+" declared here", abstractPos)
}

func violationDuplicateSingleton(tag string, pos, firstPos ir.Position) *ir.Violation {
	return ir.NewViolation(fmt.Sprintf("Only one declaration may be tagged @%s", tag), pos).
		Relate("first declared here", firstPos)
}

func violationMergedInterface(name string, pos, firstPos ir.Position) *ir.Violation {
	return ir.NewViolation(
		fmt.Sprintf("Interface %s is declared by more than one Go type; merging declarations is ambiguous", name),
		pos,
	).Relate("other declaration", firstPos)
}

func violationDirectiveArgument(directive, arg, reason string, pos ir.Position) *ir.Violation {
	return ir.NewViolation(fmt.Sprintf("Invalid argument %s of @%s: %s", arg, directive, reason), pos)
}

func violationMissingDirectiveArgument(directive, arg string, pos ir.Position) *ir.Violation {
	return ir.NewViolation(fmt.Sprintf("Missing required argument %s of @%s", arg, directive), pos)
}

func violationInvalidDefault(owner, name, reason string, pos ir.Position) *ir.Violation {
	return ir.NewViolation(fmt.Sprintf("Invalid default value for %s.%s: %s", owner, name, reason), pos)
}
