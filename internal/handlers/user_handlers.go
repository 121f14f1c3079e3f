package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/haiminh-dev/projecthub/internal/middleware"
	"github.com/haiminh-dev/projecthub/internal/models"
	"github.com/haiminh-dev/projecthub/internal/repository"
	"github.com/haiminh-dev/projecthub/internal/services"
)

type UserHandler struct {
	svc *services.UserService
	log *zap.Logger
}

func NewUserHandler(svc *services.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{svc: svc, log: log}
}

type createUserReq struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Age      int    `json:"age" validate:"omitempty,gte=0"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin"`
}

func (h *UserHandler) Create(c *fiber.Ctx) error {
	var req createUserReq
	if ok, err := parseAndValidate(c, &req); !ok {
		return err
	}
	role := models.Role(req.Role)
	if role == "" {
		role = models.RoleUser
	}
	user, err := h.svc.Create(c.Context(), middleware.CurrentUser(c), services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Age:      req.Age,
	}, role)
	if err != nil {
		return h.mapError(c, "create user failed", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": user})
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.svc.List(c.Context(), middleware.CurrentUser(c))
	if err != nil {
		return h.mapError(c, "list users failed", err)
	}
	return c.JSON(fiber.Map{"users": users})
}

func (h *UserHandler) Get(c *fiber.Ctx) error {
	user, err := h.svc.Get(c.Context(), middleware.CurrentUser(c), c.Params("id"))
	if err != nil {
		return h.mapError(c, "get user failed", err)
	}
	return c.JSON(fiber.Map{"user": user})
}

type updateUserReq struct {
	Name  *string `json:"name"`
	Email *string `json:"email" validate:"omitempty,email"`
	Age   *int    `json:"age" validate:"omitempty,gte=0"`
	Role  *string `json:"role" validate:"omitempty,oneof=user admin"`
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	var req updateUserReq
	if ok, err := parseAndValidate(c, &req); !ok {
		return err
	}
	upd := repository.UserUpdate{Name: req.Name, Email: req.Email, Age: req.Age}
	if req.Role != nil {
		role := models.Role(*req.Role)
		upd.Role = &role
	}
	user, err := h.svc.Update(c.Context(), middleware.CurrentUser(c), c.Params("id"), upd)
	if err != nil {
		return h.mapError(c, "update user failed", err)
	}
	return c.JSON(fiber.Map{"user": user})
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.Context(), middleware.CurrentUser(c), c.Params("id")); err != nil {
		return h.mapError(c, "delete user failed", err)
	}
	return c.JSON(fiber.Map{"message": "user deleted"})
}

func (h *UserHandler) mapError(c *fiber.Ctx, msg string, err error) error {
	switch {
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden"})
	case errors.Is(err, services.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
	case errors.Is(err, services.ErrEmailTaken):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": services.ErrEmailTaken.Error()})
	}
	h.log.Error(msg, zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
}
