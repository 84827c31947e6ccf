package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/clinicore/clinic-backend/internal/actor"
	"github.com/clinicore/clinic-backend/internal/apperr"
	"github.com/clinicore/clinic-backend/internal/dto"
	"github.com/clinicore/clinic-backend/internal/services"
)

type PatientHandler struct {
	directoryService *services.DirectoryService
}

func NewPatientHandler(directoryService *services.DirectoryService) *PatientHandler {
	return &PatientHandler{directoryService: directoryService}
}

func (h *PatientHandler) List(c *fiber.Ctx) error {
	a, err := actor.FromContext(c)
	if err != nil {
		return respondError(c, apperr.Unauthenticated("no authenticated actor"))
	}

	resp, err := h.directoryService.ListPatients(a, c.Query("search"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

func (h *PatientHandler) Get(c *fiber.Ctx) error {
	a, err := actor.FromContext(c)
	if err != nil {
		return respondError(c, apperr.Unauthenticated("no authenticated actor"))
	}
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "invalid patient id")
	}

	resp, err := h.directoryService.GetPatient(a, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

func (h *PatientHandler) Create(c *fiber.Ctx) error {
	a, err := actor.FromContext(c)
	if err != nil {
		return respondError(c, apperr.Unauthenticated("no authenticated actor"))
	}

	var req dto.RegisterPatientRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	resp, err := h.directoryService.CreatePatient(a, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *PatientHandler) Update(c *fiber.Ctx) error {
	a, err := actor.FromContext(c)
	if err != nil {
		return respondError(c, apperr.Unauthenticated("no authenticated actor"))
	}
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "invalid patient id")
	}

	var req dto.UpdatePatientRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	resp, err := h.directoryService.UpdatePatient(a, id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

func (h *PatientHandler) Delete(c *fiber.Ctx) error {
	a, err := actor.FromContext(c)
	if err != nil {
		return respondError(c, apperr.Unauthenticated("no authenticated actor"))
	}
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "invalid patient id")
	}

	if err := h.directoryService.DeletePatient(a, id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
