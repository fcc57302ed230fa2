package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, KindValidation.HTTPStatus())
	assert.Equal(t, http.StatusConflict, KindConflict.HTTPStatus())
	assert.Equal(t, http.StatusUnauthorized, KindUnauthorized.HTTPStatus())
	assert.Equal(t, http.StatusForbidden, KindPrecondition.HTTPStatus())
	assert.Equal(t, http.StatusForbidden, KindForbidden.HTTPStatus())
	assert.Equal(t, http.StatusNotFound, KindNotFound.HTTPStatus())
	assert.Equal(t, http.StatusInternalServerError, KindInternal.HTTPStatus())
}

func TestKindOf_Wrapped(t *testing.T) {
	base := Conflict("college code already used")
	wrapped := fmt.Errorf("bootstrap: %w", base)

	assert.Equal(t, KindConflict, KindOf(wrapped))
	assert.True(t, Is(wrapped, KindConflict))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.False(t, Is(nil, KindInternal))
}

func TestWrapKeepsKind(t *testing.T) {
	cause := errors.New("duplicate key")
	err := Conflict("email already registered").Wrap(cause)

	assert.Equal(t, KindConflict, err.Kind)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "duplicate key")
}
