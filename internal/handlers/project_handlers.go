package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/haiminh-dev/projecthub/internal/middleware"
	"github.com/haiminh-dev/projecthub/internal/repository"
	"github.com/haiminh-dev/projecthub/internal/services"
)

type ProjectHandler struct {
	svc *services.ProjectService
	log *zap.Logger
}

func NewProjectHandler(svc *services.ProjectService, log *zap.Logger) *ProjectHandler {
	return &ProjectHandler{svc: svc, log: log}
}

type createProjectReq struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	OwnerID     string `json:"owner_id"`
}

func (h *ProjectHandler) Create(c *fiber.Ctx) error {
	var req createProjectReq
	if ok, err := parseAndValidate(c, &req); !ok {
		return err
	}
	project, err := h.svc.Create(c.Context(), middleware.CurrentUser(c), services.ProjectInput{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     req.OwnerID,
	})
	if err != nil {
		return h.mapError(c, "create project failed", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"project": project})
}

func (h *ProjectHandler) List(c *fiber.Ctx) error {
	projects, err := h.svc.List(c.Context(), middleware.CurrentUser(c))
	if err != nil {
		return h.mapError(c, "list projects failed", err)
	}
	return c.JSON(fiber.Map{"projects": projects})
}

func (h *ProjectHandler) Get(c *fiber.Ctx) error {
	project, err := h.svc.Get(c.Context(), middleware.CurrentUser(c), c.Params("id"))
	if err != nil {
		return h.mapError(c, "get project failed", err)
	}
	return c.JSON(fiber.Map{"project": project})
}

type updateProjectReq struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Status      *string `json:"status" validate:"omitempty,oneof=active archived"`
}

func (h *ProjectHandler) Update(c *fiber.Ctx) error {
	var req updateProjectReq
	if ok, err := parseAndValidate(c, &req); !ok {
		return err
	}
	project, err := h.svc.Update(c.Context(), middleware.CurrentUser(c), c.Params("id"), repository.ProjectUpdate{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		return h.mapError(c, "update project failed", err)
	}
	return c.JSON(fiber.Map{"project": project})
}

func (h *ProjectHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.Context(), middleware.CurrentUser(c), c.Params("id")); err != nil {
		return h.mapError(c, "delete project failed", err)
	}
	return c.JSON(fiber.Map{"message": "project deleted"})
}

func (h *ProjectHandler) mapError(c *fiber.Ctx, msg string, err error) error {
	switch {
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden"})
	case errors.Is(err, services.ErrProjectNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "project not found"})
	case errors.Is(err, services.ErrUserNotFound):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "owner not found"})
	}
	h.log.Error(msg, zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
}
