package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromErrorWrapsUnknownErrors(t *testing.T) {
	cause := stdErrors.New("boom")
	appErr := FromError(cause)

	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.ErrorIs(t, appErr, cause)
	assert.Nil(t, FromError(nil))
}

func TestCloneKeepsIdentityForErrorsIs(t *testing.T) {
	notFound := Clone(ErrNotFound, "exam board not found")
	wrapped := fmt.Errorf("create enrollment: %w", notFound)

	assert.ErrorIs(t, wrapped, ErrNotFound)
	assert.NotErrorIs(t, wrapped, ErrConflict)
	assert.Equal(t, "exam board not found", FromError(wrapped).Message)
	assert.Equal(t, "resource not found", ErrNotFound.Message)
}
