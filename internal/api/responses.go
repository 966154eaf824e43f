package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/prompt-general/knowledgehub/internal/apperr"
)

// APIResponse is the uniform response envelope.
type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, response APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(response)
}

func writeSuccess(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, APIResponse{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, apperr.StatusOf(err), APIResponse{
		Success: false,
		Error: &APIError{
			Code:    string(apperr.KindOf(err)),
			Message: apperr.MessageOf(err),
		},
	})
}

func parseRequestBody(r *http.Request, dst any) error {
	defer io.Copy(io.Discard, r.Body) //nolint:errcheck
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return errors.New("malformed request body")
	}
	return nil
}
