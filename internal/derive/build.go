// Package derive turns the provisional extraction output into the final schema project.
//
// The builder runs a fixed sequence of passes. Each pass works on a copy of the document it
// receives and appends violations; a pass never starts once an earlier one reported one.
package derive

import (
	"context"
	"time"

	eventbus "github.com/hanpama/gqlderive/internal/eventbus"
	events "github.com/hanpama/gqlderive/internal/events"
	"github.com/hanpama/gqlderive/internal/extract"
	"github.com/hanpama/gqlderive/internal/host"
	"github.com/hanpama/gqlderive/internal/ir"
)

// Options tunes the derived schema.
type Options struct {
	// NullableByDefault makes every output field nullable unless it is marked
	// @killsParentOnException.
	NullableByDefault bool
}

type builder struct {
	oracle host.Oracle
	types  *ir.TypeContext
	opts   Options
	result *extract.Result

	schema     *ir.Schema
	violations []*ir.Violation

	// generics
	templates map[string]*template
	instances map[string]*ir.Definition
	shared    map[string]*ir.Definition
	depth     map[*ir.Definition]int
	queue     []*ir.Definition
	unbounded map[*template]bool

	// heritage
	local     map[*ir.Definition][]*ir.FieldDefinition
	extFields map[string][]*ir.FieldDefinition
	ancestors map[*ir.Definition][]*ancestor
	ifaces    []*ir.Definition
	byName    map[string]*ir.Definition
}

type pass struct {
	name string
	run  func(*ir.Document) *ir.Document
}

// Build resolves, materializes and transforms the extracted document. tc must be the
// type context the document was extracted with.
func Build(ctx context.Context, oracle host.Oracle, tc *ir.TypeContext, res *extract.Result, opts Options) (*ir.Project, error) {
	b := &builder{
		oracle: oracle,
		types:  tc,
		opts:   opts,
		result: res,
		schema: &ir.Schema{},
	}

	doc, err := b.build(ctx, res.Document)
	if err != nil {
		return nil, err
	}

	return &ir.Project{
		Schema:      b.schema,
		Definitions: doc.Definitions,
		Directives:  doc.Directives,
		Contexts:    res.Contexts,
		Infos:       res.Infos,
		Interfaces:  res.Interfaces,
	}, nil
}

func (b *builder) build(ctx context.Context, doc *ir.Document) (*ir.Document, error) {
	passes := []pass{
		// Replace placeholders with GraphQL names
		{"resolve", b.resolveNames},
		// Decide whether free function fields extend objects or interfaces
		{"owners", b.resolveOwners},
		// Expand generic templates into concrete definitions
		{"generics", b.materializeGenerics},
		{"unions", b.collectUnionMembers},
		// Inherit fields and interfaces from embedded and implemented types
		{"heritage", b.propagateHeritage},
		{"merge", b.mergeExtensions},
		{"nullability", b.applyNullability},
		{"context", b.filterContextArgs},
		{"enumDefaults", b.coerceEnumDefaults},
		{"subscriptions", b.normalizeSubscriptions},
	}
	for _, p := range passes {
		next, err := b.runPass(ctx, p, doc)
		if err != nil {
			return nil, err
		}
		doc = next
	}
	return doc, nil
}

func (b *builder) runPass(ctx context.Context, p pass, doc *ir.Document) (*ir.Document, error) {
	eventbus.Publish(ctx, events.PassStart{Pass: p.name})
	start := time.Now()
	before := len(b.violations)

	out := p.run(doc)

	var err error
	if len(b.violations) > 0 {
		err = ir.ValidationError(b.violations)
	}
	eventbus.Publish(ctx, events.PassFinish{
		Pass:        p.name,
		Definitions: len(out.Definitions),
		Violations:  len(b.violations) - before,
		Err:         err,
		Duration:    time.Since(start),
	})
	return out, err
}

func (b *builder) addViolation(v ...*ir.Violation) {
	b.violations = append(b.violations, v...)
}
