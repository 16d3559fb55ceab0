package http

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/errors"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success bool           `json:"success"`
	Data    any            `json:"data,omitempty"`
	Error   string         `json:"error,omitempty"`
	Code    string         `json:"code,omitempty"`
	Details map[string]any `json:"details,omitempty"`
	Meta    *Pagination    `json:"meta,omitempty"`
}

type Pagination struct {
	TotalCount int64 `json:"total_count"`
	Limit      int   `json:"limit"`
	Offset     int64 `json:"offset"`
}

func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteError renders err as a failure envelope. Errors that are not AppErrors
// are reported as a generic internal error so store details never leak.
func WriteError(w http.ResponseWriter, err error) error {
	appErr := apperrors.AsAppError(err)

	message := appErr.Message
	if !apperrors.IsAppError(err) {
		message = "Internal server error"
	}

	return WriteJSON(w, appErr.StatusCode(), Envelope{
		Success: false,
		Error:   message,
		Code:    appErr.Code,
		Details: appErr.Details,
	})
}

func WriteFailure(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, Envelope{Success: false, Error: message})
}

func WriteSuccess(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusOK, Envelope{Success: true, Data: data})
}

func WriteCreated(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusCreated, Envelope{Success: true, Data: data})
}

func WritePaginated(w http.ResponseWriter, data any, totalCount int64, limit int, offset int64) error {
	return WriteJSON(w, http.StatusOK, Envelope{
		Success: true,
		Data:    data,
		Meta: &Pagination{
			TotalCount: totalCount,
			Limit:      limit,
			Offset:     offset,
		},
	})
}

func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
