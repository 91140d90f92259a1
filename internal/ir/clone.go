package ir

import "slices"

// Passes never mutate the document they receive. Clone produces the copy a pass rewrites.
// Go type information and gqlparser values are shared; they are never mutated.

func (doc *Document) Clone() *Document {
	c := &Document{
		Definitions: make([]*Definition, len(doc.Definitions)),
		Directives:  make([]*DirectiveDefinition, len(doc.Directives)),
	}
	for i, d := range doc.Definitions {
		c.Definitions[i] = d.Clone()
	}
	for i, d := range doc.Directives {
		c.Directives[i] = d.Clone()
	}
	return c
}

func (d *Definition) Clone() *Definition {
	c := &Definition{}
	switch {
	case d.Object != nil:
		o := *d.Object
		o.Fields = cloneFields(o.Fields)
		o.Interfaces = append([]string(nil), o.Interfaces...)
		o.Directives = cloneDirectiveUses(o.Directives)
		o.Heritage = cloneHeritage(o.Heritage)
		o.Go = o.Go.Clone()
		c.Object = &o
	case d.Interface != nil:
		i := *d.Interface
		i.Fields = cloneFields(i.Fields)
		i.Interfaces = append([]string(nil), i.Interfaces...)
		i.Directives = cloneDirectiveUses(i.Directives)
		i.Heritage = cloneHeritage(i.Heritage)
		i.Go = i.Go.Clone()
		c.Interface = &i
	case d.Union != nil:
		u := *d.Union
		u.Types = append([]string(nil), u.Types...)
		u.Directives = cloneDirectiveUses(u.Directives)
		u.Go = u.Go.Clone()
		c.Union = &u
	case d.Input != nil:
		in := *d.Input
		in.Fields = make([]*InputValueDefinition, len(d.Input.Fields))
		for i, f := range d.Input.Fields {
			in.Fields[i] = f.Clone()
		}
		in.Directives = cloneDirectiveUses(in.Directives)
		in.Go = in.Go.Clone()
		c.Input = &in
	case d.Enum != nil:
		e := *d.Enum
		e.Values = make([]*EnumValueDefinition, len(d.Enum.Values))
		for i, v := range d.Enum.Values {
			cv := *v
			cv.Directives = cloneDirectiveUses(v.Directives)
			e.Values[i] = &cv
		}
		e.Directives = cloneDirectiveUses(e.Directives)
		e.Go = e.Go.Clone()
		c.Enum = &e
	case d.Scalar != nil:
		s := *d.Scalar
		s.Directives = cloneDirectiveUses(s.Directives)
		s.Go = s.Go.Clone()
		c.Scalar = &s
	case d.Extension != nil:
		x := *d.Extension
		x.Owner = x.Owner.Clone()
		x.Fields = cloneFields(x.Fields)
		c.Extension = &x
	}
	return c
}

func (g *GoType) Clone() *GoType {
	if g == nil {
		return nil
	}
	c := *g
	c.Instances = slices.Clone(g.Instances)
	return &c
}

func (d *DirectiveDefinition) Clone() *DirectiveDefinition {
	c := *d
	c.Args = cloneArgs(d.Args)
	c.Locations = append([]string(nil), d.Locations...)
	return &c
}

func (f *FieldDefinition) Clone() *FieldDefinition {
	c := *f
	c.Args = cloneArgs(f.Args)
	c.Type = f.Type.Clone()
	c.Directives = cloneDirectiveUses(f.Directives)
	c.Resolver = f.Resolver.Clone()
	return &c
}

func (a *ArgumentDefinition) Clone() *ArgumentDefinition {
	c := *a
	c.Type = a.Type.Clone()
	c.Directives = cloneDirectiveUses(a.Directives)
	return &c
}

func (v *InputValueDefinition) Clone() *InputValueDefinition {
	c := *v
	c.Type = v.Type.Clone()
	c.Directives = cloneDirectiveUses(v.Directives)
	return &c
}

func (t *TypeExpr) Clone() *TypeExpr {
	if t == nil {
		return nil
	}
	c := *t
	c.OfType = t.OfType.Clone()
	if t.Args != nil {
		c.Args = make([]*TypeExpr, len(t.Args))
		for i, a := range t.Args {
			c.Args[i] = a.Clone()
		}
	}
	return &c
}

func (r *Resolver) Clone() *Resolver {
	if r == nil {
		return nil
	}
	c := *r
	c.Path = append([]*EmbedStep(nil), r.Path...)
	c.Args = make([]*ResolverArg, len(r.Args))
	for i, a := range r.Args {
		ca := *a
		ca.Path = append([]*EmbedStep(nil), a.Path...)
		c.Args[i] = &ca
	}
	return &c
}

func cloneFields(fields []*FieldDefinition) []*FieldDefinition {
	if fields == nil {
		return nil
	}
	out := make([]*FieldDefinition, len(fields))
	for i, f := range fields {
		out[i] = f.Clone()
	}
	return out
}

func cloneArgs(args []*ArgumentDefinition) []*ArgumentDefinition {
	if args == nil {
		return nil
	}
	out := make([]*ArgumentDefinition, len(args))
	for i, a := range args {
		out[i] = a.Clone()
	}
	return out
}

func cloneDirectiveUses(uses []*DirectiveUse) []*DirectiveUse {
	if uses == nil {
		return nil
	}
	out := make([]*DirectiveUse, len(uses))
	for i, u := range uses {
		c := *u
		out[i] = &c
	}
	return out
}

func cloneHeritage(hs []*Heritage) []*Heritage {
	if hs == nil {
		return nil
	}
	out := make([]*Heritage, len(hs))
	for i, h := range hs {
		c := *h
		c.Type = h.Type.Clone()
		out[i] = &c
	}
	return out
}
