package handler

import (
	"github.com/gofiber/fiber/v2"

	"zerowaste/internal/model"
	"zerowaste/internal/service"
)

type registerRequest struct {
	Name      string     `json:"name"`
	Password  string     `json:"password"`
	Role      model.Role `json:"role"`
	Latitude  float64    `json:"latitude"`
	Longitude float64    `json:"longitude"`
	Capacity  int        `json:"capacity"`
}

type sessionRequest struct {
	Name     string     `json:"name"`
	Role     model.Role `json:"role"`
	Password string     `json:"password"`
}

// RegisterOrganization godoc
// @Summary Register a donor or receiver
// @Tags organizations
// @Accept json
// @Produce json
// @Param body body registerRequest true "Organization"
// @Success 201 {object} model.Organization
// @Failure 400 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Router /organizations [post]
func RegisterOrganization(svc service.OrganizationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req registerRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		org, err := svc.Register(c.UserContext(), service.RegisterInput{
			Name:      req.Name,
			Password:  req.Password,
			Role:      req.Role,
			Latitude:  req.Latitude,
			Longitude: req.Longitude,
			Capacity:  req.Capacity,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(org)
	}
}

// CreateSession godoc
// @Summary Log in and obtain a bearer token
// @Tags organizations
// @Accept json
// @Produce json
// @Param body body sessionRequest true "Credentials"
// @Success 201 {object} service.Session
// @Failure 401 {object} errorPayload
// @Router /sessions [post]
func CreateSession(svc service.OrganizationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req sessionRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		if req.Name == "" || req.Password == "" || !req.Role.Valid() {
			return writeError(c, fiber.StatusBadRequest, "INVALID_INPUT", "name, role and password are required")
		}

		sess, err := svc.Authenticate(c.UserContext(), req.Name, req.Role, req.Password)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(sess)
	}
}
