package ir

import "go/types"

// Resolver describes how a field is executed at runtime.
type Resolver struct {
	Kind ResolverKind `json:"kind"`
	// Name is the struct field, method, function or static method name.
	Name string `json:"name"`
	// Path walks embedded fields from the parent value to the declaring struct (PROPERTY, METHOD).
	Path []*EmbedStep `json:"path,omitempty"`
	// Package is the import path of a FUNCTION or STATIC_METHOD.
	Package string `json:"package,omitempty"`
	// Receiver is the receiver type name of a STATIC_METHOD.
	Receiver        string         `json:"receiver,omitempty"`
	ReceiverPointer bool           `json:"receiverPointer,omitempty"`
	Args            []*ResolverArg `json:"args,omitempty"`
}

type ResolverKind string

const (
	ResolverKindProperty     ResolverKind = "PROPERTY"
	ResolverKindMethod       ResolverKind = "METHOD"
	ResolverKindFunction     ResolverKind = "FUNCTION"
	ResolverKindStaticMethod ResolverKind = "STATIC_METHOD"
)

type EmbedStep struct {
	Field   string `json:"field"`
	Pointer bool   `json:"pointer,omitempty"`
}

// ResolverArg is one positional argument of a resolver call.
type ResolverArg struct {
	Kind ResolverArgKind `json:"kind"`
	// Name is the GraphQL argument name of a NAMED argument.
	Name string `json:"name,omitempty"`
	// Source and Path describe how the parent value is passed to a SOURCE argument.
	Source SourceMode   `json:"source,omitempty"`
	Path   []*EmbedStep `json:"path,omitempty"`
	// Go is the declared Go type of the parameter.
	Go       types.Type `json:"-"`
	Position Position   `json:"position"`
}

type ResolverArgKind string

const (
	ResolverArgKindSource  ResolverArgKind = "SOURCE"
	ResolverArgKindArgs    ResolverArgKind = "ARGS"
	ResolverArgKindNamed   ResolverArgKind = "NAMED"
	ResolverArgKindContext ResolverArgKind = "CONTEXT"
	ResolverArgKindInfo    ResolverArgKind = "INFO"
)

type SourceMode string

const (
	SourceModePointer   SourceMode = "POINTER"
	SourceModeValue     SourceMode = "VALUE"
	SourceModeInterface SourceMode = "INTERFACE"
)

// WithPath returns a copy of r rebased through the embedded field path.
func (r *Resolver) WithPath(path []*EmbedStep) *Resolver {
	c := r.Clone()
	if len(path) == 0 {
		return c
	}
	switch c.Kind {
	case ResolverKindProperty, ResolverKindMethod:
		c.Path = append(append([]*EmbedStep(nil), path...), c.Path...)
	case ResolverKindFunction, ResolverKindStaticMethod:
		for _, a := range c.Args {
			if a.Kind == ResolverArgKindSource && a.Source != SourceModeInterface {
				a.Path = append(append([]*EmbedStep(nil), path...), a.Path...)
			}
		}
	}
	return c
}
