package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/clinicore/clinic-backend/internal/actor"
	"github.com/clinicore/clinic-backend/internal/apperr"
	"github.com/clinicore/clinic-backend/internal/dto"
	"github.com/clinicore/clinic-backend/internal/services"
)

type RegistrationHandler struct {
	registrationService *services.RegistrationService
}

func NewRegistrationHandler(registrationService *services.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registrationService: registrationService}
}

func (h *RegistrationHandler) RegisterUser(c *fiber.Ctx) error {
	var req dto.RegisterUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	resp, err := h.registrationService.RegisterIdentity(&req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *RegistrationHandler) RegisterPatient(c *fiber.Ctx) error {
	var req dto.RegisterPatientRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	resp, err := h.registrationService.RegisterPatientProfile(&req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *RegistrationHandler) RegisterDoctor(c *fiber.Ctx) error {
	var req dto.RegisterDoctorRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	resp, err := h.registrationService.RegisterDoctorProfile(&req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// UpdateUser is self-service only: the target row is always the caller's own.
func (h *RegistrationHandler) UpdateUser(c *fiber.Ctx) error {
	a, err := actor.FromContext(c)
	if err != nil {
		return respondError(c, apperr.Unauthenticated("no authenticated actor"))
	}

	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	resp, err := h.registrationService.UpdateIdentity(a.UserID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}
