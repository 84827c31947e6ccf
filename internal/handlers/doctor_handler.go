package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/clinicore/clinic-backend/internal/actor"
	"github.com/clinicore/clinic-backend/internal/apperr"
	"github.com/clinicore/clinic-backend/internal/dto"
	"github.com/clinicore/clinic-backend/internal/services"
)

type DoctorHandler struct {
	directoryService *services.DirectoryService
}

func NewDoctorHandler(directoryService *services.DirectoryService) *DoctorHandler {
	return &DoctorHandler{directoryService: directoryService}
}

func (h *DoctorHandler) List(c *fiber.Ctx) error {
	a, err := actor.FromContext(c)
	if err != nil {
		return respondError(c, apperr.Unauthenticated("no authenticated actor"))
	}

	resp, err := h.directoryService.ListDoctors(a, c.Query("search"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

func (h *DoctorHandler) Get(c *fiber.Ctx) error {
	a, err := actor.FromContext(c)
	if err != nil {
		return respondError(c, apperr.Unauthenticated("no authenticated actor"))
	}
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "invalid doctor id")
	}

	resp, err := h.directoryService.GetDoctor(a, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

func (h *DoctorHandler) Create(c *fiber.Ctx) error {
	a, err := actor.FromContext(c)
	if err != nil {
		return respondError(c, apperr.Unauthenticated("no authenticated actor"))
	}

	var req dto.RegisterDoctorRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	resp, err := h.directoryService.CreateDoctor(a, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *DoctorHandler) Update(c *fiber.Ctx) error {
	a, err := actor.FromContext(c)
	if err != nil {
		return respondError(c, apperr.Unauthenticated("no authenticated actor"))
	}
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "invalid doctor id")
	}

	var req dto.UpdateDoctorRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	resp, err := h.directoryService.UpdateDoctor(a, id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

func (h *DoctorHandler) Delete(c *fiber.Ctx) error {
	a, err := actor.FromContext(c)
	if err != nil {
		return respondError(c, apperr.Unauthenticated("no authenticated actor"))
	}
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "invalid doctor id")
	}

	if err := h.directoryService.DeleteDoctor(a, id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
