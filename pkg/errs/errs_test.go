package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapCodeToHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeInvalidInput, http.StatusBadRequest},
		{CodeAlreadyExists, http.StatusBadRequest},
		{CodeForbidden, http.StatusForbidden},
		{CodeNotFound, http.StatusNotFound},
		{CodeValidationFailed, http.StatusUnprocessableEntity},
		{CodeInternal, http.StatusInternalServerError},
		{Code("SOMETHING_ELSE"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, MapCodeToHTTPStatus(tt.code))
		})
	}
}

func TestErrorFormatting(t *testing.T) {
	err := New(CodeNotFound, "Role not found")
	assert.Equal(t, "[NOT_FOUND] Role not found", err.Error())
	assert.Equal(t, http.StatusNotFound, err.HTTPStatus())

	wrapped := Wrap(errors.New("row scan failed"), CodeInternal, "query failed")
	assert.Contains(t, wrapped.Error(), "row scan failed")
	assert.Equal(t, "query failed", wrapped.Message)
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, CodeInternal, "ignored"))
}

func TestCodeExtraction(t *testing.T) {
	sentinel := New(CodeAlreadyExists, "Email already registered")

	assert.True(t, IsCode(sentinel, CodeAlreadyExists))
	assert.False(t, IsCode(sentinel, CodeNotFound))
	assert.Equal(t, CodeAlreadyExists, GetCode(sentinel))
	assert.Equal(t, "Email already registered", GetMessage(sentinel))

	// Sentinels survive fmt wrapping
	wrapped := fmt.Errorf("creating user: %w", sentinel)
	assert.True(t, IsCode(wrapped, CodeAlreadyExists))
	assert.Equal(t, "Email already registered", GetMessage(wrapped))

	// Unstructured errors fall back to internal
	plain := errors.New("boom")
	assert.Equal(t, CodeInternal, GetCode(plain))
	assert.Equal(t, "Internal server error", GetMessage(plain))
}
