package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"zerowaste/internal/http/middleware"
	"zerowaste/internal/model"
	"zerowaste/internal/service"
)

type createDonationRequest struct {
	FoodName    string `json:"food_name"`
	Quantity    int    `json:"quantity"`
	ExpiryHours int    `json:"expiry_hours"`
}

type donationListResponse struct {
	Items []model.Donation `json:"items"`
	Total int              `json:"total"`
}

func actorOf(c *fiber.Ctx) model.Actor {
	actor, _ := middleware.ActorFrom(c)
	return actor
}

// CreateDonation godoc
// @Summary Report surplus food and assign it to a receiver
// @Tags donations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body createDonationRequest true "Donation"
// @Success 201 {object} model.Donation
// @Failure 400 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Router /donations [post]
func CreateDonation(svc service.DonationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createDonationRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		d, err := svc.CreateAndAssign(c.UserContext(), actorOf(c).ID, req.FoodName, req.Quantity, req.ExpiryHours)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(d)
	}
}

// CollectDonation godoc
// @Summary Mark an assigned donation as collected
// @Tags donations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Donation ID"
// @Success 200 {object} model.Donation
// @Failure 403 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Router /donations/{id}/collect [post]
func CollectDonation(svc service.DonationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		d, err := svc.Collect(c.UserContext(), actorOf(c).ID, id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(d)
	}
}

// GetDonation godoc
// @Summary Get a donation visible to the caller
// @Tags donations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Donation ID"
// @Success 200 {object} model.Donation
// @Failure 404 {object} errorPayload
// @Router /donations/{id} [get]
func GetDonation(svc service.DonationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		d, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		// Only the donor and the assigned receiver may see a donation.
		actor := actorOf(c)
		if d.DonorID != actor.ID && d.AssignedReceiverID != actor.ID {
			return writeError(c, fiber.StatusNotFound, "UNKNOWN_DONATION", "donation not found")
		}
		return c.JSON(d)
	}
}

// ListDonations godoc
// @Summary List the caller's reported donations, newest first
// @Tags donations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} donationListResponse
// @Router /donations [get]
func ListDonations(svc service.DonationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.ListByDonor(c.UserContext(), actorOf(c).ID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(donationListResponse{Items: items, Total: len(items)})
	}
}

// ReceiverDashboard godoc
// @Summary Capacity usage and assigned donations for the calling receiver
// @Tags donations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.Dashboard
// @Router /dashboard [get]
func ReceiverDashboard(svc service.DonationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dash, err := svc.ReceiverDashboard(c.UserContext(), actorOf(c).ID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(dash)
	}
}

// Stats godoc
// @Summary Donation counts by status
// @Tags donations
// @Produce json
// @Success 200 {object} model.Stats
// @Router /stats [get]
func Stats(svc service.DonationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		st, err := svc.Stats(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(st)
	}
}
