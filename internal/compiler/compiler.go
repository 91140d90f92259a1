// Package compiler runs the whole pipeline: load, extract, derive, validate and emit.
package compiler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/hanpama/gqlderive/internal/codegen"
	"github.com/hanpama/gqlderive/internal/derive"
	eventbus "github.com/hanpama/gqlderive/internal/eventbus"
	events "github.com/hanpama/gqlderive/internal/events"
	"github.com/hanpama/gqlderive/internal/extract"
	"github.com/hanpama/gqlderive/internal/host"
	"github.com/hanpama/gqlderive/internal/ir"
	runid "github.com/hanpama/gqlderive/internal/runid"
	"github.com/hanpama/gqlderive/internal/schema"
)

type Options struct {
	Discovery host.Discovery
	// Dir and Patterns describe what Discovery loads. They are only reported in events.
	Dir      string
	Patterns []string

	NullableByDefault bool
	// ReportTypeErrors turns Go type-check errors into diagnostics instead of
	// deriving from partially checked packages.
	ReportTypeErrors bool

	// Generated code package. Both default to the first loaded package.
	PackagePath string
	PackageName string

	SchemaHeader  string
	CodegenHeader string
	// SkipCodegen leaves Result.Code empty.
	SkipCodegen bool
}

type Result struct {
	Program *host.Program
	Project *ir.Project
	Schema  *ast.Schema
	// SDL is the rendered schema including the header.
	SDL  string
	Code []byte
}

// Compile loads the packages and derives the schema. Diagnostics are returned as
// ir.ValidationError; any other error is operational.
func Compile(ctx context.Context, opts Options) (res *Result, err error) {
	if opts.Discovery == nil {
		return nil, errors.New("compiler: discovery is required")
	}
	ctx, _ = runid.Ensure(ctx)
	start := time.Now()
	eventbus.Publish(ctx, events.CompileStart{Dir: opts.Dir, Patterns: opts.Patterns})
	defer func() {
		finish := events.CompileFinish{
			Dir:      opts.Dir,
			Patterns: opts.Patterns,
			Err:      err,
			Duration: time.Since(start),
		}
		if res != nil && res.Project != nil {
			finish.Definitions = len(res.Project.Definitions)
		}
		var verr ir.ValidationError
		if errors.As(err, &verr) {
			finish.Violations = len(verr)
		}
		eventbus.Publish(ctx, finish)
	}()

	res = &Result{}
	res.Program, err = opts.Discovery.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}
	if opts.ReportTypeErrors && len(res.Program.Errors) > 0 {
		return nil, typeErrors(res.Program.Errors)
	}

	tc := ir.NewTypeContext()
	var extracted *extract.Result
	err = runStep(ctx, "extract", func() (int, error) {
		var err error
		extracted, err = extract.Extract(res.Program, tc)
		if extracted == nil {
			return 0, err
		}
		return len(extracted.Document.Definitions), err
	})
	if err != nil {
		return nil, err
	}

	res.Project, err = derive.Build(ctx, res.Program, tc, extracted, derive.Options{
		NullableByDefault: opts.NullableByDefault,
	})
	if err != nil {
		return nil, err
	}

	err = runStep(ctx, "validate", func() (int, error) {
		var err error
		res.Schema, err = schema.Validate(res.Project)
		return len(res.Project.Definitions), err
	})
	if err != nil {
		return nil, err
	}
	res.SDL = withHeader(opts.SchemaHeader, "# ") + schema.Render(schema.BuildFromIR(res.Project))

	if opts.SkipCodegen {
		return res, nil
	}
	copts := codegen.Options{
		PackagePath: opts.PackagePath,
		PackageName: opts.PackageName,
		Header:      opts.CodegenHeader,
	}
	if len(res.Program.Packages) > 0 {
		first := res.Program.Packages[0]
		if copts.PackagePath == "" {
			copts.PackagePath = first.Path
		}
		if copts.PackageName == "" {
			copts.PackageName = first.Name
		}
	}
	err = runStep(ctx, "codegen", func() (int, error) {
		var err error
		res.Code, err = codegen.Generate(res.Project, copts)
		return len(res.Project.Definitions), err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// runStep reports fn as a pass on the event bus.
func runStep(ctx context.Context, name string, fn func() (int, error)) error {
	eventbus.Publish(ctx, events.PassStart{Pass: name})
	start := time.Now()
	defs, err := fn()
	finish := events.PassFinish{Pass: name, Definitions: defs, Err: err, Duration: time.Since(start)}
	var verr ir.ValidationError
	if errors.As(err, &verr) {
		finish.Violations = len(verr)
	}
	eventbus.Publish(ctx, finish)
	return err
}

func typeErrors(errs []*host.PackageError) ir.ValidationError {
	out := make(ir.ValidationError, 0, len(errs))
	for _, e := range errs {
		out = append(out, ir.NewViolation(e.Message, ir.PositionOf(e.Position)))
	}
	return out
}

func withHeader(header, prefix string) string {
	if header == "" {
		return ""
	}
	var b strings.Builder
	for _, line := range strings.Split(strings.TrimRight(header, "\n"), "\n") {
		b.WriteString(strings.TrimRight(prefix+line, " "))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return b.String()
}
