package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/clinicore/clinic-backend/internal/actor"
	"github.com/clinicore/clinic-backend/internal/apperr"
	"github.com/clinicore/clinic-backend/internal/dto"
	"github.com/clinicore/clinic-backend/internal/models"
)

// LoadActor turns verified JWT claims into an explicit actor.Actor in the
// request locals. Runs after JWTProtected; every policy and service call
// downstream takes the actor as an argument rather than reading claims.
func LoadActor() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := c.Locals("user").(*jwt.Token)
		if !ok || token == nil {
			return unauthenticated(c, "missing token")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return unauthenticated(c, "invalid claims")
		}

		sub, _ := claims["sub"].(string)
		userID, err := uuid.Parse(sub)
		if err != nil {
			return unauthenticated(c, "invalid subject claim")
		}

		roleClaim, _ := claims["role"].(string)
		role := models.Role(roleClaim)
		if !role.IsValid() {
			return unauthenticated(c, "invalid role claim")
		}

		username, _ := claims["username"].(string)
		isStaff, _ := claims["is_staff"].(bool)

		c.Locals(actor.LocalsKey, actor.Actor{
			UserID:   userID,
			Username: username,
			Role:     role,
			IsStaff:  isStaff,
		})
		return c.Next()
	}
}

func unauthenticated(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error:   true,
		Kind:    string(apperr.KindUnauthenticated),
		Message: msg,
	})
}
