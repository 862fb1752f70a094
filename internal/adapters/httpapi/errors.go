package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/nullable"

	"github.com/Overland-East-Bay/transit-records/internal/app/records"
	"github.com/Overland-East-Bay/transit-records/internal/ports/out/kvstore"
)

type errorResponse struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code      string                            `json:"code"`
	Message   string                            `json:"message"`
	Details   nullable.Nullable[map[string]any] `json:"details,omitempty"`
	RequestID nullable.Nullable[string]         `json:"requestId,omitempty"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code string, message string, details map[string]any) {
	var er errorResponse
	er.Error.Code = code
	er.Error.Message = message
	if details != nil {
		er.Error.Details = nullable.NewNullableWithValue(details)
	}
	if rid := middleware.GetReqID(r.Context()); rid != "" {
		er.Error.RequestID = nullable.NewNullableWithValue(rid)
	}
	writeJSON(w, status, er)
}

// writeAppError maps façade and port errors to HTTP responses.
func writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	if ae := (*records.Error)(nil); errors.As(err, &ae) {
		status := ae.Status
		if status == 0 {
			status = http.StatusInternalServerError
		}
		writeError(w, r, status, ae.Code, ae.Message, ae.Details)
		return
	}
	switch {
	case errors.Is(err, kvstore.ErrQuotaExceeded):
		writeError(w, r, http.StatusInsufficientStorage, "QUOTA_EXCEEDED", "primary store quota exceeded", nil)
	case errors.Is(err, records.ErrCorruptSnapshot):
		writeError(w, r, http.StatusInternalServerError, "CORRUPT_SNAPSHOT", "stored snapshot could not be decoded", nil)
	default:
		writeError(w, r, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
