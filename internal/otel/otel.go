package otel

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	eventbus "github.com/hanpama/gqlderive/internal/eventbus"
	events "github.com/hanpama/gqlderive/internal/events"
	runid "github.com/hanpama/gqlderive/internal/runid"
)

// Setup configures OpenTelemetry and attaches eventbus subscribers.
// If endpoint is empty, no telemetry is configured.
func Setup(endpoint, service string) (func(context.Context) error, error) {
	if endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}
	exp, err := otlptracegrpc.New(context.Background(),
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(service),
		)),
	)
	otel.SetTracerProvider(tp)

	sub := newSubscriber(otel.Tracer("gqlderive"))
	unsubscribe := sub.register()

	return func(ctx context.Context) error {
		unsubscribe()
		return tp.Shutdown(ctx)
	}, nil
}

type passKey struct {
	run  int64
	pass string
}

type subscriber struct {
	tracer       trace.Tracer
	compileSpans sync.Map // rid -> trace.Span
	passSpans    sync.Map // passKey -> trace.Span
}

func newSubscriber(tracer trace.Tracer) *subscriber {
	return &subscriber{tracer: tracer}
}

func (s *subscriber) register() (unsubscribe func()) {
	var unsubs []func()

	unsubs = append(unsubs, eventbus.Subscribe(func(ctx context.Context, e events.CompileStart) {
		rid, _ := runid.FromContext(ctx)
		_, span := s.tracer.Start(ctx, "gqlderive.compile")
		span.SetAttributes(
			attribute.String("gqlderive.dir", e.Dir),
			attribute.StringSlice("gqlderive.patterns", e.Patterns),
		)
		s.compileSpans.Store(rid, span)
	}))

	unsubs = append(unsubs, eventbus.Subscribe(func(ctx context.Context, e events.CompileFinish) {
		rid, _ := runid.FromContext(ctx)
		v, ok := s.compileSpans.LoadAndDelete(rid)
		if !ok {
			return
		}
		span := v.(trace.Span)
		span.SetAttributes(
			attribute.Int("gqlderive.definitions", e.Definitions),
			attribute.Int("gqlderive.violations", e.Violations),
		)
		if e.Err != nil {
			span.RecordError(e.Err)
			span.SetStatus(codes.Error, "compilation failed")
		}
		span.End()
	}))

	unsubs = append(unsubs, eventbus.Subscribe(func(ctx context.Context, e events.PassStart) {
		rid, _ := runid.FromContext(ctx)
		parent := ctx
		if v, ok := s.compileSpans.Load(rid); ok {
			parent = trace.ContextWithSpan(ctx, v.(trace.Span))
		}
		_, span := s.tracer.Start(parent, "gqlderive.pass")
		span.SetAttributes(attribute.String("gqlderive.pass", e.Pass))
		s.passSpans.Store(passKey{run: rid, pass: e.Pass}, span)
	}))

	unsubs = append(unsubs, eventbus.Subscribe(func(ctx context.Context, e events.PassFinish) {
		rid, _ := runid.FromContext(ctx)
		v, ok := s.passSpans.LoadAndDelete(passKey{run: rid, pass: e.Pass})
		if !ok {
			return
		}
		span := v.(trace.Span)
		span.SetAttributes(
			attribute.Int("gqlderive.definitions", e.Definitions),
			attribute.Int("gqlderive.violations", e.Violations),
		)
		if e.Err != nil {
			span.RecordError(e.Err)
			span.SetStatus(codes.Error, e.Pass+" failed")
		}
		span.End()
	}))

	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}
