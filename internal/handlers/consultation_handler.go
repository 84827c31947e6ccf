package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/clinicore/clinic-backend/internal/actor"
	"github.com/clinicore/clinic-backend/internal/apperr"
	"github.com/clinicore/clinic-backend/internal/dto"
	"github.com/clinicore/clinic-backend/internal/services"
)

type ConsultationHandler struct {
	consultationService *services.ConsultationService
}

func NewConsultationHandler(consultationService *services.ConsultationService) *ConsultationHandler {
	return &ConsultationHandler{consultationService: consultationService}
}

func (h *ConsultationHandler) Create(c *fiber.Ctx) error {
	a, err := actor.FromContext(c)
	if err != nil {
		return respondError(c, apperr.Unauthenticated("no authenticated actor"))
	}

	var req dto.CreateConsultationRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	resp, err := h.consultationService.Create(a, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *ConsultationHandler) List(c *fiber.Ctx) error {
	a, err := actor.FromContext(c)
	if err != nil {
		return respondError(c, apperr.Unauthenticated("no authenticated actor"))
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	resp, err := h.consultationService.List(a, services.ConsultationFilter{
		Status: c.Query("status"),
		Search: c.Query("search"),
		Order:  c.Query("ordering"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

func (h *ConsultationHandler) Get(c *fiber.Ctx) error {
	a, err := actor.FromContext(c)
	if err != nil {
		return respondError(c, apperr.Unauthenticated("no authenticated actor"))
	}
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "invalid consultation id")
	}

	resp, err := h.consultationService.Get(a, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

func (h *ConsultationHandler) Update(c *fiber.Ctx) error {
	a, err := actor.FromContext(c)
	if err != nil {
		return respondError(c, apperr.Unauthenticated("no authenticated actor"))
	}
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "invalid consultation id")
	}

	var req dto.UpdateConsultationRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	resp, err := h.consultationService.Update(a, id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

func (h *ConsultationHandler) Delete(c *fiber.Ctx) error {
	a, err := actor.FromContext(c)
	if err != nil {
		return respondError(c, apperr.Unauthenticated("no authenticated actor"))
	}
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "invalid consultation id")
	}

	if err := h.consultationService.Delete(a, id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ConsultationHandler) ChangeStatus(c *fiber.Ctx) error {
	a, err := actor.FromContext(c)
	if err != nil {
		return respondError(c, apperr.Unauthenticated("no authenticated actor"))
	}
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "invalid consultation id")
	}

	var req dto.ChangeStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	resp, err := h.consultationService.ChangeStatus(a, id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

func parseID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(c.Params("id"))
}
