package httpapi

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"doorman/internal/common"
	"doorman/internal/server/auth"
)

const userIDKey = "userID"

// requireToken gates protected routes. It expects an authorization header of
// the form "Bearer <token>", verifies the token, and stores the account ID
// for the handler. No store is consulted: a token stays valid until expiry.
func (s *Server) requireToken(c *fiber.Ctx) error {
	header := c.Get("Authorization")
	if header == "" {
		return s.fail(c, common.ErrTokenMissing)
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return s.fail(c, common.ErrTokenInvalid)
	}

	userID, err := auth.GetUserIDFromToken(parts[1], s.jwtSecret)
	if err != nil {
		return s.fail(c, common.ErrTokenInvalid)
	}

	c.Locals(userIDKey, userID)

	return c.Next()
}
