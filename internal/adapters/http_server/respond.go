package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"stayhub/internal/domain"
)

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

type listEnvelope struct {
	Success  bool           `json:"success"`
	Data     []domain.Hotel `json:"data"`
	Total    int            `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"pageSize"`
	HasMore  bool           `json:"hasMore"`
}

type errEnvelope struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func writeMessage(w http.ResponseWriter, data any, msg string) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: data, Message: msg})
}

func writePage(w http.ResponseWriter, page domain.HotelPage) {
	items := page.Items
	if items == nil {
		items = []domain.Hotel{}
	}
	writeJSON(w, http.StatusOK, listEnvelope{
		Success:  true,
		Data:     items,
		Total:    page.Total,
		Page:     page.Page,
		PageSize: page.PageSize,
		HasMore:  page.HasMore,
	})
}

func writeErrorStatus(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errEnvelope{Success: false, Code: code, Message: msg})
}

// writeError maps service failure kinds onto wire status codes.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeErrorStatus(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, domain.ErrValidation):
		writeErrorStatus(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeErrorStatus(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeErrorStatus(w, http.StatusForbidden, "AUTHORIZATION_ERROR", err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeErrorStatus(w, http.StatusConflict, "CONFLICT", err.Error())
	default:
		log.Error().Err(err).Msg("internal error")
		writeErrorStatus(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal error")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}
