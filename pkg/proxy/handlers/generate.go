package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"instructions-hq/extractor/pkg/generation"
	"instructions-hq/extractor/pkg/proxy"
	"instructions-hq/extractor/pkg/proxy/types"
	"instructions-hq/extractor/pkg/quota"
	"instructions-hq/extractor/pkg/telemetry/logging"
)

// Outcome labels recorded for each /generate request.
const (
	OutcomeSuccess          = "success"
	OutcomeInvalid          = "invalid"
	OutcomeQuotaExceeded    = "quota_exceeded"
	OutcomeGenerationFailed = "generation_failed"
	OutcomeTooLarge         = "too_large"
	OutcomeMethodNotAllowed = "method_not_allowed"
	OutcomeInternal         = "internal"
)

// Generator produces extracted instructions for page text.
type Generator interface {
	Generate(ctx context.Context, userContent string) generation.Result
}

// Recorder receives per-request counters. *metrics.Collector implements it.
type Recorder interface {
	RecordGenerateOutcome(outcome string)
	RecordQuotaDecision(decision string)
}

// GenerateHandler serves POST /generate.
//
// Processing order is fixed: parse and validate, then charge the caller's
// daily quota, then call the generator. A request rejected by validation
// never touches the quota, and a generation failure does not refund it.
type GenerateHandler struct {
	quota        quota.Store
	generator    Generator
	recorder     Recorder
	maxBodyBytes int64
	now          func() time.Time
	logger       *slog.Logger
}

// Option customizes a GenerateHandler.
type Option func(*GenerateHandler)

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(h *GenerateHandler) { h.recorder = r }
}

// WithMaxBodyBytes sets the request body limit.
func WithMaxBodyBytes(n int64) Option {
	return func(h *GenerateHandler) { h.maxBodyBytes = n }
}

// WithClock replaces time.Now. Tests use it to cross UTC midnight.
func WithClock(now func() time.Time) Option {
	return func(h *GenerateHandler) { h.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *GenerateHandler) { h.logger = l }
}

// NewGenerateHandler creates the /generate handler.
func NewGenerateHandler(store quota.Store, generator Generator, opts ...Option) *GenerateHandler {
	h := &GenerateHandler{
		quota:        store,
		generator:    generator,
		maxBodyBytes: proxy.DefaultMaxBodyBytes,
		now:          time.Now,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *GenerateHandler) record(outcome string) {
	if h.recorder != nil {
		h.recorder.RecordGenerateOutcome(outcome)
	}
}

// ServeHTTP implements http.Handler.
func (h *GenerateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := logging.GetRequestID(ctx)
	log := logging.FromContext(ctx, h.logger)

	switch r.Method {
	case http.MethodPost:
	case http.MethodOptions:
		w.WriteHeader(http.StatusNoContent)
		return
	default:
		h.record(OutcomeMethodNotAllowed)
		w.Header().Set("Allow", "POST, OPTIONS")
		_ = proxy.WriteError(w, http.StatusMethodNotAllowed, types.MsgMethodNotAllowed)
		return
	}

	now := h.now()

	req, err := proxy.ParseGenerateRequest(w, r, h.maxBodyBytes)
	if err != nil {
		var reqErr *proxy.RequestError
		if !errors.As(err, &reqErr) {
			log.WarnContext(ctx, "failed to read request", "error", err)
			h.record(OutcomeInvalid)
			_ = proxy.WriteError(w, http.StatusBadRequest, types.MsgMissingFields)
			return
		}
		if reqErr.Status == http.StatusRequestEntityTooLarge {
			h.record(OutcomeTooLarge)
		} else {
			h.record(OutcomeInvalid)
		}
		log.InfoContext(ctx, "request rejected", "status", reqErr.Status, "reason", reqErr.Error())
		_ = proxy.WriteRequestError(w, reqErr)
		return
	}

	ctx = logging.WithUser(ctx, req.UserID)
	md := proxy.ExtractRequestMetadata(r, req, requestID, now)
	log = h.logger.With(md.LogAttrs()...)

	decision, err := h.quota.CheckAndConsume(ctx, req.UserID, now)
	if err != nil {
		log.ErrorContext(ctx, "quota check failed", "error", err)
		h.record(OutcomeInternal)
		_ = proxy.WriteError(w, http.StatusInternalServerError, types.MsgInternal)
		return
	}
	if h.recorder != nil {
		h.recorder.RecordQuotaDecision(string(decision.Outcome))
	}
	proxy.SetRateLimitHeaders(w, decision)

	if !decision.Allowed() {
		log.InfoContext(ctx, "daily limit reached", "used", decision.Used, "limit", decision.Limit)
		h.record(OutcomeQuotaExceeded)
		_ = proxy.WriteError(w, http.StatusTooManyRequests, types.QuotaExceededMessage(decision.Limit))
		return
	}

	result := h.generator.Generate(ctx, req.Prompt)
	if !result.OK() {
		log.WarnContext(ctx, "generation failed",
			"kind", result.Failure.Kind,
			"used", decision.Used,
		)
		h.record(OutcomeGenerationFailed)
		_ = proxy.WriteError(w, http.StatusInternalServerError, result.Failure.Message)
		return
	}

	log.InfoContext(ctx, "generation completed",
		"used", decision.Used,
		"response_length", len(result.Text),
	)
	h.record(OutcomeSuccess)
	_ = proxy.WriteGenerateResponse(w, result.Text)
}
