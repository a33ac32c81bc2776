package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardError_HTTPStatusDefaults(t *testing.T) {
	err := NewUpstreamServiceError(0, "boom", nil)
	assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus())

	err = NewUpstreamServiceError(http.StatusNotFound, "missing", nil)
	assert.Equal(t, http.StatusNotFound, err.HTTPStatus())
}

func TestStandardError_BodyPassesUpstreamThrough(t *testing.T) {
	body := map[string]interface{}{"error": "Resource not found", "code": float64(404)}
	err := NewUpstreamServiceError(404, "Resource not found", body)
	assert.Equal(t, body, err.Body())

	local := NewInvalidRequestError(fmt.Errorf("unexpected EOF"))
	assert.Equal(t, local, local.Body())
	assert.Equal(t, http.StatusBadRequest, local.HTTPStatus())
}

func TestAs_UnwrapsChain(t *testing.T) {
	wrapped := fmt.Errorf("classify: %w", NewDateOutOfRangeError("too far", 12))

	se, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrCodeDateOutOfRange, se.Code)
	assert.Equal(t, 12, se.Metadata["diff"])
	assert.True(t, IsCode(wrapped, ErrCodeDateOutOfRange))
	assert.False(t, IsCode(fmt.Errorf("plain"), ErrCodeDateOutOfRange))
}
