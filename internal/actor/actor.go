// Package actor carries the authenticated principal through a request.
// Every policy and service call takes the actor explicitly; nothing reads
// ambient request state.
package actor

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/clinicore/clinic-backend/internal/models"
)

// LocalsKey is the Fiber locals slot the actor middleware populates.
const LocalsKey = "actor"

// Actor is the authenticated identity behind a request, as attested by its
// access-token claims.
type Actor struct {
	UserID   uuid.UUID
	Username string
	Role     models.Role
	IsStaff  bool
}

// FromContext returns the actor stored by the actor middleware.
func FromContext(c *fiber.Ctx) (Actor, error) {
	a, ok := c.Locals(LocalsKey).(Actor)
	if !ok {
		return Actor{}, errors.New("no actor in request context")
	}
	return a, nil
}
