package api

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName      = "serene-api"
	requestSpanName = "serene.api.request"
)

// requestMetrics times one request and emits a single structured log line
// plus an OpenTelemetry span when it completes.
type requestMetrics struct {
	logger *log.Logger
	span   trace.Span

	start      time.Time
	route      string
	method     string
	requestID  string
	userID     string
	errorStage string
}

func newRequestMetrics(ctx context.Context, logger *log.Logger, method, route string) (*requestMetrics, context.Context) {
	spanCtx, span := otel.Tracer(tracerName).Start(ctx, requestSpanName, trace.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("http.route", route),
	))
	return &requestMetrics{
		logger: logger,
		span:   span,
		start:  time.Now(),
		route:  route,
		method: method,
	}, spanCtx
}

func (m *requestMetrics) SetRequestID(id string) {
	m.requestID = id
}

func (m *requestMetrics) SetUserID(id string) {
	m.userID = id
}

func (m *requestMetrics) SetErrorStage(stage string) {
	if stage == "" {
		return
	}
	m.errorStage = stage
}

func (m *requestMetrics) Log(status int, err error) {
	if m == nil {
		return
	}
	duration := time.Since(m.start)

	if m.span != nil {
		m.span.SetAttributes(
			attribute.Int("http.status_code", status),
			attribute.Float64("serene.request.duration_ms", durationToMillis(duration)),
		)
		if m.requestID != "" {
			m.span.SetAttributes(attribute.String("serene.request.id", m.requestID))
		}
		if err != nil || status >= 500 {
			m.span.SetStatus(codes.Error, m.errorStage)
		}
		m.span.End()
	}

	if m.logger == nil {
		return
	}
	fields := log.Fields{
		"request_id":  m.requestID,
		"method":      m.method,
		"route":       m.route,
		"status":      status,
		"duration_ms": durationToMillis(duration),
	}
	if m.userID != "" {
		fields["user_id"] = m.userID
	}
	if m.errorStage != "" {
		fields["error_stage"] = m.errorStage
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	m.logger.WithFields(fields).Info("request.complete")
}

func durationToMillis(d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(d) / float64(time.Millisecond)
}
