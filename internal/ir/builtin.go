package ir

// Builtin scalar names. They never get a definition of their own.
const (
	StringScalar  = "String"
	IntScalar     = "Int"
	FloatScalar   = "Float"
	BooleanScalar = "Boolean"
	IDScalar      = "ID"
)

func IsBuiltinScalar(name string) bool {
	switch name {
	case StringScalar, IntScalar, FloatScalar, BooleanScalar, IDScalar:
		return true
	}
	return false
}

// Operation root type names.
const (
	QueryType        = "Query"
	MutationType     = "Mutation"
	SubscriptionType = "Subscription"
)

func IsRootType(name string) bool {
	return name == QueryType || name == MutationType || name == SubscriptionType
}
