package hospital

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"hospital-ai/logging"
	"hospital-ai/openai"
)

// Completer is the part of openai.Client the handlers use.
type Completer interface {
	Complete(ctx context.Context, model, prompt string) (string, error)
}

// Options are fixed for the lifetime of a Handler.
type Options struct {
	Model   string
	Timeout time.Duration

	// ErrorDetail adds the extraction failure reason to fallback bodies.
	ErrorDetail bool
}

type Handler struct {
	ai   Completer
	opts Options
}

func NewHandler(ai Completer, opts Options) *Handler {
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	return &Handler{ai: ai, opts: opts}
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/recommend-doctor", h.RecommendDoctor)
	r.POST("/suggest-medicine", h.SuggestMedicine)
}

// RecommendDoctor asks the model to pick one of the supplied doctors for the
// patient's reason and returns {id, name}.
func (h *Handler) RecommendDoctor(c *gin.Context) {
	var req DoctorRecommendationRequest
	if !bindJSON(c, &req) {
		return
	}
	text, ok := h.complete(c, "recommend_doctor", DoctorPrompt(req.Doctors, *req.Reason))
	if !ok {
		return
	}

	logger := logging.FromContext(c.Request.Context())
	res := Extract(text)
	if !res.OK() {
		logger.Warn().Err(res.Err).Str("endpoint", "recommend_doctor").Msg("no usable JSON in reply, returning fallback")
		c.JSON(http.StatusOK, newDoctorFallback(h.detail(res.Err)))
		return
	}
	if !doctorShapeOK(res.Value) {
		logger.Warn().Str("endpoint", "recommend_doctor").RawJSON("reply", res.Value).Msg("reply does not match {id, name}; passing through")
	}
	c.JSON(http.StatusOK, res.Value)
}

// SuggestMedicine asks the model for medicines given symptoms and past
// records and returns {medicines: [...]}.
func (h *Handler) SuggestMedicine(c *gin.Context) {
	var req MedicineSuggestionRequest
	if !bindJSON(c, &req) {
		return
	}
	text, ok := h.complete(c, "suggest_medicine", MedicinePrompt(values(req.Symptoms), req.MedicalRecords))
	if !ok {
		return
	}

	logger := logging.FromContext(c.Request.Context())
	res := Extract(text)
	if !res.OK() {
		logger.Warn().Err(res.Err).Str("endpoint", "suggest_medicine").Msg("no usable JSON in reply, returning fallback")
		c.JSON(http.StatusOK, newMedicineFallback(h.detail(res.Err)))
		return
	}
	if !medicineShapeOK(res.Value) {
		logger.Warn().Str("endpoint", "suggest_medicine").RawJSON("reply", res.Value).Msg("reply does not match {medicines}; passing through")
	}
	c.JSON(http.StatusOK, res.Value)
}

// complete makes the single model call for a request. Failures are written
// as 502, or 504 when the call ran out of time, and ok is false.
func (h *Handler) complete(c *gin.Context, endpoint, prompt string) (string, bool) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.opts.Timeout)
	defer cancel()

	logger := logging.FromContext(c.Request.Context())
	start := time.Now()
	text, err := h.ai.Complete(ctx, h.opts.Model, prompt)
	if err != nil {
		status, kind := http.StatusBadGateway, "unknown"
		var upErr *openai.UpstreamError
		if errors.As(err, &upErr) {
			kind = string(upErr.Kind)
		} else if errors.Is(err, context.DeadlineExceeded) {
			kind = string(openai.KindTimeout)
		}
		if kind == string(openai.KindTimeout) {
			status = http.StatusGatewayTimeout
		}
		logger.Error().Err(err).
			Str("endpoint", endpoint).
			Str("kind", kind).
			Dur("elapsed", time.Since(start)).
			Msg("completion call failed")
		c.JSON(status, gin.H{"error": "upstream model call failed", "kind": kind})
		return "", false
	}
	logger.Debug().
		Str("endpoint", endpoint).
		Str("model", h.opts.Model).
		Int("reply_len", len(text)).
		Dur("elapsed", time.Since(start)).
		Msg("completion ok")
	return text, true
}

func (h *Handler) detail(err error) string {
	if !h.opts.ErrorDetail {
		return ""
	}
	return err.Error()
}

// bindJSON binds and validates the body, writing 413, 422 or 400 on failure.
func bindJSON(c *gin.Context, obj any) bool {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	var fieldErrs validator.ValidationErrors
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &tooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
	case errors.As(err, &fieldErrs):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "fields": fieldNames(fieldErrs)})
	case errors.As(err, &typeErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "detail": "field " + typeErr.Field + " must be " + typeErr.Type.String()})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "detail": err.Error()})
	}
	return false
}
