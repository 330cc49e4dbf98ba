package middleware

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"zerowaste/internal/model"
)

type stubVerifier map[string]model.Actor

func (s stubVerifier) Verify(token string) (model.Actor, error) {
	if a, ok := s[token]; ok {
		return a, nil
	}
	return model.Actor{}, errors.New("bad token")
}

func TestAuthenticateAndRequireRole(t *testing.T) {
	verifier := stubVerifier{
		"donor-token":    {ID: "d1", Role: model.RoleDonor},
		"receiver-token": {ID: "r1", Role: model.RoleReceiver},
	}

	app := fiber.New()
	app.Get("/donor-only", Authenticate(verifier), RequireRole(model.RoleDonor), func(c *fiber.Ctx) error {
		actor, _ := ActorFrom(c)
		return c.SendString(actor.ID)
	})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", fiber.StatusUnauthorized},
		{"wrong scheme", "Basic donor-token", fiber.StatusUnauthorized},
		{"empty token", "Bearer ", fiber.StatusUnauthorized},
		{"unknown token", "Bearer nope", fiber.StatusUnauthorized},
		{"wrong role", "Bearer receiver-token", fiber.StatusForbidden},
		{"allowed", "Bearer donor-token", fiber.StatusOK},
		{"scheme is case insensitive", "bearer donor-token", fiber.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/donor-only", nil)
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}
			resp, _ := app.Test(req)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestRequireRole_WithoutAuthenticate(t *testing.T) {
	app := fiber.New()
	app.Get("/", RequireRole(model.RoleReceiver), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, _ := app.Test(httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
