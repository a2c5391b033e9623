package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/JPClow3/Veins-of-Erid-n/internal/observability"
)

// spanAttributes ends one recorded span after copying ctx's game context
// onto it and returns its attributes by key.
func spanAttributes(t *testing.T, ctx context.Context) map[attribute.Key]attribute.Value {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	_, span := tp.Tracer("test").Start(ctx, "op")
	CopyGameContextToSpan(ctx, span)
	span.End()

	ended := rec.Ended()
	require.Len(t, ended, 1)
	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range ended[0].Attributes() {
		attrs[kv.Key] = kv.Value
	}
	return attrs
}

func TestCopyGameContextToSpan(t *testing.T) {
	ctx := observability.WithSessionID(context.Background(), "s-1")
	ctx = WithGameContext(ctx, map[string]interface{}{
		"act":    2,
		"action": "Hide",
		"tags":   []string{"a", "b"},
		"skip":   3.5,
	})

	attrs := spanAttributes(t, ctx)
	assert.Equal(t, int64(2), attrs["game.act"].AsInt64())
	assert.Equal(t, "Hide", attrs["game.action"].AsString())
	assert.Equal(t, []string{"a", "b"}, attrs["game.tags"].AsStringSlice())
	assert.Equal(t, "s-1", attrs["session.id"].AsString())
	assert.NotContains(t, attrs, attribute.Key("game.skip"))
}

func TestCopyGameContextToSpanWithoutContext(t *testing.T) {
	attrs := spanAttributes(t, context.Background())
	assert.Empty(t, attrs)
}

func TestOperationType(t *testing.T) {
	assert.Empty(t, OperationType(context.Background()))
	ctx := WithOperationType(context.Background(), "turn.stream")
	assert.Equal(t, "turn.stream", OperationType(ctx))
}
