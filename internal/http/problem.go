package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"bdactivity/internal/core"
	"bdactivity/internal/dashboard"
	"bdactivity/internal/loader"
	"bdactivity/internal/log"
	"bdactivity/internal/middleware/trace"
)

// Problem types following RFC 7807
const (
	TypeValidation   = "/errors/validation"
	TypeUnknownField = "/errors/unknown-field"
	TypeNotFound     = "/errors/not-found"
	TypeRateLimit    = "/errors/rate-limit"
	TypeDatasetParse = "/errors/dataset/parse"
	TypeDatasetEmpty = "/errors/dataset/empty"
	TypeServiceDown  = "/errors/service-unavailable"
	TypeTimeout      = "/errors/timeout"
	TypeInternal     = "/errors/internal"
)

// ProblemDetails is an RFC 7807 error body.
type ProblemDetails struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`

	Extensions map[string]any `json:"-"`
}

func NewProblemDetails(status int, typ, title, detail, instance string) *ProblemDetails {
	return &ProblemDetails{
		Type:     typ,
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: instance,
	}
}

// WithExtension adds a member next to the standard ones.
func (pd *ProblemDetails) WithExtension(key string, value any) *ProblemDetails {
	if pd.Extensions == nil {
		pd.Extensions = make(map[string]any)
	}
	pd.Extensions[key] = value
	return pd
}

// Render implements the render.Renderer interface
func (pd *ProblemDetails) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, pd.Status)
	return nil
}

// MarshalJSON flattens extensions into the top-level object.
func (pd *ProblemDetails) MarshalJSON() ([]byte, error) {
	data := make(map[string]any, 5+len(pd.Extensions))
	for k, v := range pd.Extensions {
		data[k] = v
	}
	data["type"] = pd.Type
	data["title"] = pd.Title
	data["status"] = pd.Status
	if pd.Detail != "" {
		data["detail"] = pd.Detail
	}
	if pd.Instance != "" {
		data["instance"] = pd.Instance
	}
	return json.Marshal(data)
}

// errorToProblem maps domain errors to problem responses.
func errorToProblem(err error, r *http.Request) *ProblemDetails {
	path := r.URL.Path

	var (
		verr *dashboard.ValidationError
		ufe  *core.UnknownFieldError
	)
	switch {
	case errors.As(err, &verr):
		return NewProblemDetails(http.StatusBadRequest, TypeValidation,
			"Validation Failed", verr.Error(), path).WithExtension("errors", verr.Errors)
	case errors.As(err, &ufe):
		return NewProblemDetails(http.StatusBadRequest, TypeUnknownField,
			"Unknown Field", err.Error(), path).WithExtension("field", ufe.Field)
	case errors.Is(err, core.ErrInvalidMonth):
		return NewProblemDetails(http.StatusBadRequest, TypeValidation,
			"Validation Failed", err.Error(), path)
	case errors.Is(err, core.ErrParse):
		return NewProblemDetails(http.StatusBadGateway, TypeDatasetParse,
			"Dataset Could Not Be Parsed", err.Error(), path)
	case errors.Is(err, core.ErrEmptyDataset):
		return NewProblemDetails(http.StatusUnprocessableEntity, TypeDatasetEmpty,
			"No Activity In Selection", err.Error(), path)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return NewProblemDetails(http.StatusGatewayTimeout, TypeTimeout,
			"Request Timeout", "The request took too long to process and was cancelled", path)
	case errors.Is(err, loader.ErrSourceUnavailable):
		return NewProblemDetails(http.StatusServiceUnavailable, TypeServiceDown,
			"Activity Source Unavailable", err.Error(), path)
	default:
		return NewProblemDetails(http.StatusInternalServerError, TypeInternal,
			"Internal Server Error", "An unexpected error occurred", path)
	}
}

// writeError logs err and renders it as a problem.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	problem := errorToProblem(err, r)
	if id := trace.GetRequestID(r.Context()); id != "" {
		problem.WithExtension("trace_id", id)
	}

	logger := log.FromContext(r.Context())
	if problem.Status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "Request failed", log.FieldError, err.Error(), log.FieldPath, r.URL.Path)
	} else {
		logger.DebugContext(r.Context(), "Request rejected", log.FieldError, err.Error(), log.FieldPath, r.URL.Path)
	}

	_ = render.Render(w, r, problem)
}
