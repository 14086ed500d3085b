// Package response writes the JSON envelopes every endpoint answers with.
package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kiranshivaraju/mediagate/pkg/models"
)

type envelope struct {
	Data any `json:"data"`
}

type collectionEnvelope struct {
	Data any            `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type PaginationMeta struct {
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	Total   int  `json:"total"`
	HasNext bool `json:"has_next"`
}

func JSON(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, envelope{Data: data})
}

func Accepted(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusAccepted, envelope{Data: data})
}

func Collection(w http.ResponseWriter, data any, meta PaginationMeta) {
	writeJSON(w, http.StatusOK, collectionEnvelope{Data: data, Meta: meta})
}

func Error(w http.ResponseWriter, status int, code, message string, details any) {
	writeJSON(w, status, errorEnvelope{Error: errorBody{
		Code:    code,
		Message: message,
		Details: details,
	}})
}

// StatusFor is the HTTP status a failure kind answers with.
func StatusFor(kind models.ErrorKind) int {
	switch kind {
	case models.KindInvalidInput:
		return http.StatusBadRequest
	case models.KindUnsupportedTask:
		return http.StatusNotFound
	case models.KindContentRejected:
		return http.StatusUnprocessableEntity
	case models.KindProvider, models.KindRehostFailed:
		return http.StatusBadGateway
	case models.KindNetwork:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// FromError classifies err and writes the matching error envelope. Provider errors
// carry the upstream status in details; internal errors never leak their text.
func FromError(w http.ResponseWriter, err error) {
	kind := models.KindOf(err)
	status := StatusFor(kind)

	if kind == models.KindInternal {
		Error(w, status, string(kind), "An unexpected error occurred", nil)
		return
	}

	var details any
	var pe *models.ProviderError
	if errors.As(err, &pe) {
		details = map[string]any{
			"provider":        pe.Provider,
			"upstream_status": pe.StatusCode,
		}
	}
	Error(w, status, string(kind), err.Error(), details)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
