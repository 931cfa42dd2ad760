package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructorsCarryHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, NotFound("missing").HTTPStatus)
	assert.Equal(t, http.StatusForbidden, Forbidden("no").HTTPStatus)
	assert.Equal(t, http.StatusBadRequest, Validation("bad").HTTPStatus)
	assert.Equal(t, http.StatusConflict, Conflict("taken").HTTPStatus)
	assert.Equal(t, http.StatusUnauthorized, Unauthorized("who").HTTPStatus)
	assert.Equal(t, http.StatusInternalServerError, Internal(errors.New("x"), "boom").HTTPStatus)
}

func TestIsCode(t *testing.T) {
	err := NotFound("requisition not found")
	assert.True(t, IsCode(err, CodeNotFound))
	assert.False(t, IsCode(err, CodeForbidden))

	// wrapped errors still match
	wrapped := fmt.Errorf("loading aggregate: %w", err)
	assert.True(t, IsCode(wrapped, CodeNotFound))

	assert.False(t, IsCode(errors.New("plain"), CodeNotFound))
	assert.False(t, IsCode(nil, CodeNotFound))
}

func TestErrorMessageIncludesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal(cause, "failed to reach database")

	assert.Contains(t, err.Error(), "failed to reach database")
	assert.Contains(t, err.Error(), "connection refused")
	assert.ErrorIs(t, err, cause)
}
