// Package http holds the response envelope helpers shared by all handlers.
package http

import (
	"encoding/json"
	"net/http"

	linkerrors "clearlink/internal/links/errors"
	"clearlink/internal/links/validator"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

type SuccessResponse struct {
	Data any `json:"data,omitempty"`
}

func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

func WriteSuccess(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, SuccessResponse{Data: data})
}

// WriteError maps engine and validation errors onto HTTP statuses:
// malformed input is the caller's fault, redirect resolution is an upstream
// fault, hook failures are ours.
func WriteError(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors
	switch e := err.(type) {
	case *linkerrors.CleanError:
		WriteJSON(w, statusFor(e.Code), ErrorResponse{
			Error: e.Message,
			Code:  e.Code,
		})
		return
	case validator.ValidationErrors:
		verrs = e
	case validator.ValidationError:
		verrs = validator.ValidationErrors{e}
	default:
		WriteJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error: "internal server error",
		})
		return
	}

	WriteJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "validation failed",
		Details: verrs,
	})
}

func statusFor(code string) int {
	switch code {
	case linkerrors.CodeURLParse, linkerrors.CodeNoDomain:
		return http.StatusBadRequest
	case linkerrors.CodeRedirectFail:
		return http.StatusBadGateway
	case linkerrors.CodeHookFailed:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
