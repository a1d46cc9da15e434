package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"doorman/internal/common"
	"doorman/internal/server/validation"
)

func (s *Server) register(c *fiber.Ctx) error {
	s.logger.Info(c.Context(), "Registration request")

	var req validation.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return s.fail(c, common.ErrValidation)
	}

	in, err := req.Validate()
	if err != nil {
		return s.fail(c, err)
	}

	user, err := s.users.Register(c.Context(), in)
	if err != nil {
		return s.fail(c, err)
	}

	s.logger.Info(c.Context(), "Registered", "email", user.Email)
	return c.JSON(user)
}

func (s *Server) login(c *fiber.Ctx) error {
	s.logger.Info(c.Context(), "Login request")

	var req validation.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return s.fail(c, common.ErrValidation)
	}

	in, err := req.Validate()
	if err != nil {
		return s.fail(c, err)
	}

	user, token, err := s.users.Login(c.Context(), in)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(fiber.Map{"user": user, "token": token})
}

func (s *Server) update(c *fiber.Ctx) error {
	userID, _ := c.Locals(userIDKey).(string)

	var req validation.UpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return s.fail(c, common.ErrValidation)
	}

	in, err := req.Validate()
	if err != nil {
		return s.fail(c, err)
	}

	user, err := s.users.Update(c.Context(), userID, in)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(user)
}
