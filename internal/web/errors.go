package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
)

// requestError pairs an error with the status and metric reason it maps to.
type requestError struct {
	status int
	reason string
	msg    string
	err    error
}

func (e *requestError) Error() string {
	if e.err == nil {
		return e.msg
	}
	return e.msg + ": " + e.err.Error()
}

func (e *requestError) Unwrap() error {
	return e.err
}

func badRequest(reason, msg string, err error) error {
	return &requestError{status: http.StatusBadRequest, reason: reason, msg: msg, err: err}
}

func notFound(reason, msg string, err error) error {
	return &requestError{status: http.StatusNotFound, reason: reason, msg: msg, err: err}
}

// ErrorResponse is the JSON body of an API error.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// respondError logs err with the request id and writes it in the format the
// client expects. Errors that are not a *requestError become a 500 with a
// generic message.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	reason := "internal"
	msg := "internal error"

	var re *requestError
	if errors.As(err, &re) {
		status = re.status
		reason = re.reason
		msg = re.msg
	}

	requestID := middleware.GetReqID(r.Context())
	slog.Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"reason", reason,
		"error", err.Error(),
		"request_id", requestID,
	)
	s.metrics.observeFailure(reason)

	if wantsJSON(r) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(ErrorResponse{Error: msg, RequestID: requestID})
		return
	}

	s.renderIndex(w, status, pageData{Error: msg})
}

// wantsJSON reports whether the client should get a JSON error body.
func wantsJSON(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
