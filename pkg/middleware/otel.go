package middleware

import (
	"fmt"

	"github.com/swipekit-dev/swipekit/pkg/protocol"
	"github.com/swipekit-dev/swipekit/pkg/server"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// defaultTracerName is the tracer name used when none is configured.
const defaultTracerName = "swipekit"

// OTelConfig configures the OpenTelemetry instrumentation.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "swipekit").
	TracerName string

	// Filter determines which events to trace. Return true to trace.
	// If nil, all events are traced.
	Filter func(ev *protocol.Event) bool

	// AttributeExtractor extracts custom attributes per event.
	AttributeExtractor func(s *server.Session, ev *protocol.Event) []attribute.KeyValue

	tracer trace.Tracer
}

// OTelOption configures the OpenTelemetry instrumentation.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithEventFilter sets a filter for traced events.
func WithEventFilter(filter func(ev *protocol.Event) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(s *server.Session, ev *protocol.Event) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extractor
	}
}

// OpenTelemetry returns instrumentation creating a span per dispatched
// pointer event, with type, target, and session attributes.
//
// The tracer comes from the global OpenTelemetry tracer provider;
// configure that in main() before starting the server.
func OpenTelemetry(opts ...OTelOption) *server.Instrumentation {
	config := OTelConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	config.tracer = otel.Tracer(config.TracerName)

	return &server.Instrumentation{
		Event: func(next server.EventHandler) server.EventHandler {
			return func(s *server.Session, ev *protocol.Event) {
				if config.Filter != nil && !config.Filter(ev) {
					next(s, ev)
					return
				}

				attrs := []attribute.KeyValue{
					attribute.String("swipekit.event_type", ev.Type.String()),
					attribute.String("swipekit.event_target", ev.Target),
					attribute.String("swipekit.session_id", s.ID),
				}
				if config.AttributeExtractor != nil {
					attrs = append(attrs, config.AttributeExtractor(s, ev)...)
				}

				_, span := config.tracer.Start(
					s.Context(),
					fmt.Sprintf("swipekit.%s", ev.Type),
					trace.WithSpanKind(trace.SpanKindServer),
					trace.WithAttributes(attrs...),
				)
				defer span.End()

				next(s, ev)
			}
		},
	}
}
