package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hariomtransport/books/config"
	"github.com/hariomtransport/books/service"
	"github.com/sirupsen/logrus"
)

const moduleName = "handlers"

type ApiResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, resp ApiResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

func writeOK(w http.ResponseWriter, status int, message string, data interface{}) {
	writeJSON(w, status, ApiResponse{Success: true, Message: message, Data: data})
}

// decodeJSON reads the request body into v and answers 400 when it cannot.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, ApiResponse{
			Success: false,
			Message: "Invalid request payload: " + err.Error(),
		})
		return false
	}
	return true
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, service.ErrPartyNotFound),
		errors.Is(err, service.ErrSupplierNotFound),
		errors.Is(err, service.ErrAdvanceNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrDuplicate), errors.Is(err, service.ErrInUse):
		return http.StatusConflict
	case errors.Is(err, service.ErrLockNotObtained):
		return http.StatusLocked
	}
	return http.StatusInternalServerError
}

// writeError answers with the status the error maps to. Validation errors
// carry the failing fields; unexpected errors are logged and their detail
// kept out of the response.
func writeError(w http.ResponseWriter, logger *logrus.Logger, funcName string, err error) {
	status := statusFor(err)
	resp := ApiResponse{Success: false, Message: err.Error()}

	var ve *service.ValidationError
	if errors.As(err, &ve) {
		resp.Message = "Validation failed"
		resp.Data = ve.Fields
	}
	if status == http.StatusInternalServerError {
		config.LogError(logger, moduleName, funcName, "request failed", nil, err)
		resp.Message = "internal server error"
	}
	writeJSON(w, status, resp)
}
