package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"videotube-api/service"

	"github.com/stretchr/testify/assert"
)

func TestServiceError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"unknown user", service.ErrUserNotFound, http.StatusNotFound, "User does not exist"},
		{"bad password", service.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid user credentials"},
		{"wrapped refresh failure", fmt.Errorf("%w: token is expired", service.ErrInvalidRefreshToken), http.StatusUnauthorized, "Invalid refresh token"},
		{"reused refresh token", service.ErrRefreshTokenUsed, http.StatusUnauthorized, "Refresh token is expired or used"},
		{"duplicate user", service.ErrUserExists, http.StatusConflict, "User with email or username already exists"},
		{"foreign playlist", service.ErrPermissionDenied, http.StatusForbidden, "You are not allowed to modify this resource"},
		{"unmapped", errors.New("pq: deadlock detected"), http.StatusInternalServerError, "Could not do it"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			appErr := serviceError(tc.err, "Could not do it")
			assert.Equal(t, tc.code, appErr.Code)
			assert.Equal(t, tc.message, appErr.Message)
			assert.ErrorIs(t, appErr, tc.err)
		})
	}
}
