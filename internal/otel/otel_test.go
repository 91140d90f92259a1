package otel

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	eventbus "github.com/hanpama/gqlderive/internal/eventbus"
	events "github.com/hanpama/gqlderive/internal/events"
	runid "github.com/hanpama/gqlderive/internal/runid"
)

func TestSetupWithoutEndpoint(t *testing.T) {
	shutdown, err := Setup("", "gqlderive")
	require.NoError(t, err)
	require.NoError(t, shutdown(t.Context()))
}

func TestPassSpansNestUnderCompile(t *testing.T) {
	eventbus.Use(eventbus.New())
	t.Cleanup(func() { eventbus.Use(nil) })

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	unsubscribe := newSubscriber(tp.Tracer("test")).register()
	defer unsubscribe()

	ctx, _ := runid.NewContext(context.Background())
	eventbus.Publish(ctx, events.CompileStart{Dir: ".", Patterns: []string{"./..."}})
	eventbus.Publish(ctx, events.PassStart{Pass: "resolve"})
	eventbus.Publish(ctx, events.PassFinish{Pass: "resolve", Violations: 1, Err: errors.New("unresolved")})
	eventbus.Publish(ctx, events.CompileFinish{Dir: ".", Definitions: 3})

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	pass, compile := spans[0], spans[1]
	require.Equal(t, "gqlderive.pass", pass.Name())
	require.Equal(t, "gqlderive.compile", compile.Name())
	require.Equal(t, compile.SpanContext().SpanID(), pass.Parent().SpanID())
	require.Equal(t, codes.Error, pass.Status().Code)
	require.Equal(t, codes.Unset, compile.Status().Code)
}
