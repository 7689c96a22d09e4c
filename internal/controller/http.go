package controller

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/project/circulation/internal/entity"
	"github.com/project/circulation/pkg/logger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const maxBodyBytes = 1 << 20

var RequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "circulation_http_request_duration_ms",
	Help:    "Duration of HTTP handlers in ms",
	Buckets: prometheus.DefBuckets,
}, []string{"route", "code"})

func init() {
	prometheus.MustRegister(RequestDuration)
}

var tracer = otel.Tracer("github.com/project/circulation/internal/controller")

// request is what a handler sees: the resolved caller and the path params.
type request struct {
	*http.Request
	user   entity.User
	params map[string]string
}

type response struct {
	status int
	body   any
}

type handlerFunc func(r request) (response, error)

func (i *implementation) wrap(name string, h handlerFunc) func(http.ResponseWriter, *http.Request, map[string]string) {
	return func(w http.ResponseWriter, r *http.Request, params map[string]string) {
		start := time.Now()

		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
		ctx, span := tracer.Start(ctx, name, trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()
		traceID := span.SpanContext().TraceID().String()

		status := http.StatusOK
		defer func() {
			RequestDuration.WithLabelValues(name, fmt.Sprint(status)).Observe(float64(time.Since(start).Milliseconds()))
		}()

		user, err := i.auth.Authenticate(r.Header.Get("Authorization"))
		var resp response
		if err == nil {
			if user.ID != "" {
				span.SetAttributes(attribute.String("user_id", user.ID), attribute.String("role", string(user.Role)))
			}
			resp, err = h(request{Request: r.WithContext(ctx), user: user, params: params})
		}

		if err != nil {
			span.RecordError(err)
			status = i.writeError(w, err, traceID, name)
			return
		}

		status = resp.status
		if resp.body == nil {
			w.WriteHeader(status)
			return
		}
		writeJSON(w, status, resp.body)
	}
}

func ok(body any) (response, error) {
	return response{status: http.StatusOK, body: body}, nil
}

func created(body any) (response, error) {
	return response{status: http.StatusCreated, body: body}, nil
}

func noContent() (response, error) {
	return response{status: http.StatusNoContent}, nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func invalid(err error) error {
	return fmt.Errorf("%s: %w", err.Error(), entity.ErrValidation)
}

// decode reads a JSON body of at most maxBodyBytes into dst.
func decode(r request, dst any) error {
	raw, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err != nil {
		return invalid(err)
	}
	if len(raw) == 0 {
		return invalid(errors.New("empty body"))
	}
	if err = json.Unmarshal(raw, dst); err != nil {
		return invalid(errors.New("malformed JSON body"))
	}
	return nil
}

type errorBody struct {
	Detail string `json:"detail"`
	Code   string `json:"code"`
}

var kindStatus = map[error]struct {
	status int
	code   string
}{
	entity.ErrValidation:      {http.StatusBadRequest, "VALIDATION_ERROR"},
	entity.ErrUnauthenticated: {http.StatusUnauthorized, "UNAUTHENTICATED"},
	entity.ErrForbidden:       {http.StatusForbidden, "FORBIDDEN"},
	entity.ErrNotFound:        {http.StatusNotFound, "NOT_FOUND"},
	entity.ErrConflict:        {http.StatusConflict, "CONFLICT"},
	entity.ErrAlreadyClosed:   {http.StatusConflict, "ALREADY_CLOSED"},
	entity.ErrUnavailable:     {http.StatusConflict, "UNAVAILABLE"},
	entity.ErrInternal:        {http.StatusInternalServerError, "INTERNAL"},
}

func routingCode(status int) string {
	switch status {
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case http.StatusBadRequest:
		return "VALIDATION_ERROR"
	default:
		return "INTERNAL"
	}
}

func (i *implementation) writeError(w http.ResponseWriter, err error, traceID, route string) int {
	mapped := kindStatus[entity.KindOf(err)]

	detail := err.Error()
	if mapped.status == http.StatusInternalServerError {
		logger.CheckError(err, i.logger, "request failed",
			zap.String("trace_id", traceID), zap.String("route", route), zap.Error(err))
		detail = "internal error"
	}

	writeJSON(w, mapped.status, errorBody{Detail: detail, Code: mapped.code})
	return mapped.status
}
