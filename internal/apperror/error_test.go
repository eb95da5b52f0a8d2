package apperror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Error(t *testing.T) {
	err := New(http.StatusBadRequest, "bad_request", "Invalid request")
	assert.Equal(t, "bad_request: Invalid request", err.Error())

	wrapped := err.WithInternal(errors.New("boom"))
	assert.Equal(t, "bad_request: Invalid request (boom)", wrapped.Error())
}

func TestError_WithInternalKeepsOriginal(t *testing.T) {
	cause := errors.New("connection refused")
	err := ErrDatabase.WithInternal(cause)

	assert.ErrorIs(t, err, cause)
	assert.Nil(t, ErrDatabase.Internal)
	assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus)
}

func TestError_WithMessage(t *testing.T) {
	err := NewBadRequest("root too long")
	assert.Equal(t, "root too long", err.Message)
	assert.Equal(t, "bad_request", err.Code)
	assert.Equal(t, "Invalid request", ErrBadRequest.Message)
}

func TestNewNotFound(t *testing.T) {
	err := NewNotFound("movie", "Big")
	assert.Equal(t, http.StatusNotFound, err.HTTPStatus)
	assert.Equal(t, "movie 'Big' not found", err.Message)
}
