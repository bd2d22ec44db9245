// Package tracing exposes the tracer used around remote API calls. Without an SDK installed
// by the host process the global provider is a no-op.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "dareNowConsole/api"

// StartRequest opens a client span for a remote API call.
func StartRequest(ctx context.Context, method, path, class string) (context.Context, trace.Span) {
	return otel.Tracer(instrumentationName).Start(ctx, "api "+method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", path),
			attribute.String("darenow.classification", class),
		),
	)
}

// EndRequest records the outcome and ends span.
func EndRequest(span trace.Span, status int, err error) {
	if status > 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", status))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
