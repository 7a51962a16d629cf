package common

import (
	"encoding/json"
	"net/http"
)

// APIResponse is the success envelope shared by every handler.
type APIResponse struct {
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data"`
	Message    string      `json:"message"`
	Success    bool        `json:"success"`
}

func NewAPIResponse(statusCode int, data interface{}, message string) *APIResponse {
	return &APIResponse{
		StatusCode: statusCode,
		Data:       data,
		Message:    message,
		Success:    statusCode < http.StatusBadRequest,
	}
}

// WriteJSON writes an APIResponse with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(NewAPIResponse(statusCode, data, message))
}
