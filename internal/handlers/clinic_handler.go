package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/clinicore/clinic-backend/internal/actor"
	"github.com/clinicore/clinic-backend/internal/apperr"
	"github.com/clinicore/clinic-backend/internal/dto"
	"github.com/clinicore/clinic-backend/internal/services"
)

type ClinicHandler struct {
	directoryService *services.DirectoryService
}

func NewClinicHandler(directoryService *services.DirectoryService) *ClinicHandler {
	return &ClinicHandler{directoryService: directoryService}
}

func (h *ClinicHandler) List(c *fiber.Ctx) error {
	a, err := actor.FromContext(c)
	if err != nil {
		return respondError(c, apperr.Unauthenticated("no authenticated actor"))
	}

	resp, err := h.directoryService.ListClinics(a)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

func (h *ClinicHandler) Get(c *fiber.Ctx) error {
	a, err := actor.FromContext(c)
	if err != nil {
		return respondError(c, apperr.Unauthenticated("no authenticated actor"))
	}
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "invalid clinic id")
	}

	resp, err := h.directoryService.GetClinic(a, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

func (h *ClinicHandler) Create(c *fiber.Ctx) error {
	a, err := actor.FromContext(c)
	if err != nil {
		return respondError(c, apperr.Unauthenticated("no authenticated actor"))
	}

	var req dto.ClinicRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	resp, err := h.directoryService.CreateClinic(a, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *ClinicHandler) Update(c *fiber.Ctx) error {
	a, err := actor.FromContext(c)
	if err != nil {
		return respondError(c, apperr.Unauthenticated("no authenticated actor"))
	}
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "invalid clinic id")
	}

	var req dto.ClinicRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	resp, err := h.directoryService.UpdateClinic(a, id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

func (h *ClinicHandler) Delete(c *fiber.Ctx) error {
	a, err := actor.FromContext(c)
	if err != nil {
		return respondError(c, apperr.Unauthenticated("no authenticated actor"))
	}
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "invalid clinic id")
	}

	if err := h.directoryService.DeleteClinic(a, id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
