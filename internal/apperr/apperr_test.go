package apperr

import (
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{Validation("bad input"), fiber.StatusBadRequest},
		{InvalidStatus("no such status"), fiber.StatusBadRequest},
		{Conflict("taken"), fiber.StatusConflict},
		{NotFound("missing"), fiber.StatusNotFound},
		{Forbidden("denied"), fiber.StatusForbidden},
		{Unauthenticated("no token"), fiber.StatusUnauthorized},
		{fmt.Errorf("plain"), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.err), "%v", tt.err)
	}
}

func TestKindOfUnwraps(t *testing.T) {
	wrapped := fmt.Errorf("while registering: %w", Conflict("username taken"))

	kind, ok := KindOf(wrapped)
	assert.True(t, ok)
	assert.Equal(t, KindConflict, kind)
	assert.True(t, IsKind(wrapped, KindConflict))
	assert.False(t, IsKind(wrapped, KindNotFound))

	_, ok = KindOf(fmt.Errorf("plain"))
	assert.False(t, ok)
}

func TestMessageFormatting(t *testing.T) {
	err := NotFound("doctor %s not found", "abc")
	assert.Equal(t, "doctor abc not found", err.Error())
}
