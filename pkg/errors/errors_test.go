package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCodes(t *testing.T) {
	cases := []struct {
		err    *AppError
		status int
		label  string
	}{
		{NotFound("specialty"), http.StatusNotFound, "Resource Not Found"},
		{Conflict("taken"), http.StatusConflict, "Resource Conflict"},
		{BusinessRule("nope"), http.StatusBadRequest, "Business Rule Violation"},
		{BadRequest("bad", nil), http.StatusBadRequest, "Bad Request"},
		{Unauthorized("who"), http.StatusUnauthorized, "Unauthorized"},
		{Internal(fmt.Errorf("boom")), http.StatusInternalServerError, "Internal Server Error"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.status, tc.err.StatusCode())
		assert.Equal(t, tc.label, tc.err.Label())
	}
}

func TestNotFoundMessage(t *testing.T) {
	assert.Equal(t, "specialty not found for this clinic", NotFound("specialty").Message)
}

func TestPredicatesUnwrap(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", NotFound("patient"))
	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsConflict(wrapped))
	assert.True(t, IsConflict(fmt.Errorf("outer: %w", Conflict("slot"))))
	assert.True(t, IsBusinessRule(Wrap(BusinessRule("rule"), fmt.Errorf("cause"))))
}

func TestErrorIncludesCause(t *testing.T) {
	err := Wrap(Conflict("slot taken"), fmt.Errorf("pq: duplicate key"))
	assert.Contains(t, err.Error(), "slot taken")
	assert.Contains(t, err.Error(), "duplicate key")
}
