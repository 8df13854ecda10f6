package responses

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	pkgerrors "github.com/hostelworks/roster-backend/pkg/errors"
	"github.com/hostelworks/roster-backend/pkg/logger"
	"github.com/hostelworks/roster-backend/pkg/session"
)

// SuccessEnvelope wraps data responses.
type SuccessEnvelope struct {
	Data    any             `json:"data"`
	Flashes []session.Flash `json:"flashes,omitempty"`
}

// ErrorEnvelope wraps error responses.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func WriteSuccess(w http.ResponseWriter, data any) {
	WriteSuccessStatus(w, http.StatusOK, data)
}

func WriteSuccessStatus(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, SuccessEnvelope{Data: data})
}

// WritePage renders a data GET together with any pending flash messages.
func WritePage(w http.ResponseWriter, r *http.Request, sess *session.Manager, data any) {
	envelope := SuccessEnvelope{Data: data}
	if sess != nil {
		envelope.Flashes = sess.PopFlashes(w, r)
	}
	writeJSON(w, http.StatusOK, envelope)
}

// WriteError renders a typed error as JSON. Used where a redirect makes no
// sense (health checks, panics, non-form surfaces).
func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}

	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}

	meta := pkgerrors.MetadataFor(typed.Code())
	msg := publicMessage(typed, meta)

	payload := ErrorEnvelope{
		Error: APIError{
			Code:    string(typed.Code()),
			Message: msg,
		},
	}
	if meta.DetailsAllowed {
		if details := typed.Details(); details != nil {
			payload.Error.Details = details
		}
	}

	if logg != nil {
		ctx = logg.WithFields(ctx, map[string]any{
			"error":      typed.Message(),
			"error_code": string(typed.Code()),
		})
		logg.Error(ctx, "request.error", err)
	}

	writeJSON(w, meta.HTTPStatus, payload)
}

// Redirect issues a plain See Other redirect.
func Redirect(w http.ResponseWriter, r *http.Request, location string) {
	http.Redirect(w, r, location, http.StatusSeeOther)
}

// RedirectWithFlash queues a flash message and redirects.
func RedirectWithFlash(w http.ResponseWriter, r *http.Request, sess *session.Manager, location string, severity pkgerrors.Severity, message string) {
	if sess != nil {
		_ = sess.AddFlash(w, r, severity, message)
	}
	http.Redirect(w, r, location, http.StatusSeeOther)
}

// RedirectError converts any failure into a redirect plus flash message.
// This is the single choke point that keeps errors from escaping the
// handler boundary: every outcome becomes a redirect the browser can follow.
func RedirectError(ctx context.Context, logg *logger.Logger, sess *session.Manager, w http.ResponseWriter, r *http.Request, location string, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}

	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}

	meta := pkgerrors.MetadataFor(typed.Code())

	if logg != nil {
		ctx = logg.WithFields(ctx, map[string]any{
			"error":      typed.Message(),
			"error_code": string(typed.Code()),
		})
		if typed.Code() == pkgerrors.CodeInternal {
			logg.Error(ctx, "request.error", err)
		} else {
			logg.Warn(ctx, "request.rejected")
		}
	}

	RedirectWithFlash(w, r, sess, location, meta.Severity, publicMessage(typed, meta))
}

func publicMessage(typed *pkgerrors.Error, meta pkgerrors.Metadata) string {
	switch typed.Code() {
	case pkgerrors.CodeValidation,
		pkgerrors.CodeConflict,
		pkgerrors.CodeNotFound,
		pkgerrors.CodeUnauthorized,
		pkgerrors.CodeForbidden:
		if m := typed.Message(); m != "" {
			return m
		}
	}
	return meta.PublicMessage
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf(`{"level":"error","msg":"failed to encode response","err":"%v"}`, err)
	}
}
