package server

import (
	"github.com/gofiber/fiber/v2"

	"github.com/joseph-ayodele/branch-expenses/internal/catalog"
)

type catalogHandlers struct {
	svc *catalog.Service
}

type nameRequest struct {
	Name string `json:"nombre" form:"nombre"`
}

func (h *catalogHandlers) listBranches(c *fiber.Ctx) error {
	list, err := h.svc.ListBranches(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(response{Success: true, Data: list})
}

func (h *catalogHandlers) listConcepts(c *fiber.Ctx) error {
	list, err := h.svc.ListConcepts(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(response{Success: true, Data: list})
}

func (h *catalogHandlers) createBranch(c *fiber.Ctx) error {
	var req nameRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la solicitud inválido.")
	}
	br, err := h.svc.CreateBranch(c.UserContext(), req.Name)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(response{Success: true, ID: &br.ID, Data: br})
}

func (h *catalogHandlers) createConcept(c *fiber.Ctx) error {
	var req nameRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la solicitud inválido.")
	}
	concept, err := h.svc.CreateConcept(c.UserContext(), req.Name)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(response{Success: true, ID: &concept.ID, Data: concept})
}
