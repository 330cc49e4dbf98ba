package handler

import (
	"github.com/gofiber/fiber/v2"

	"zerowaste/internal/http/middleware"
	"zerowaste/internal/model"
	"zerowaste/internal/service"
)

// Dependencies are the collaborators the HTTP routes need.
type Dependencies struct {
	Health        []Pinger
	Organizations service.OrganizationService
	Donations     service.DonationService
	Reports       service.ReportService
	Tokens        middleware.TokenVerifier
}

// RegisterRoutes attaches the API routes to app.
func RegisterRoutes(app *fiber.App, deps Dependencies) {
	app.Get("/health", HealthCheck(deps.Health...))
	app.Get("/healthz", LivenessProbe())

	app.Post("/organizations", RegisterOrganization(deps.Organizations))
	app.Post("/sessions", CreateSession(deps.Organizations))

	app.Get("/stats", Stats(deps.Donations))

	authed := middleware.Authenticate(deps.Tokens)
	donor := middleware.RequireRole(model.RoleDonor)
	receiver := middleware.RequireRole(model.RoleReceiver)

	app.Post("/donations", authed, donor, CreateDonation(deps.Donations))
	app.Get("/donations", authed, donor, ListDonations(deps.Donations))
	app.Get("/donations/:id", authed, GetDonation(deps.Donations))
	app.Post("/donations/:id/collect", authed, receiver, CollectDonation(deps.Donations))
	app.Get("/dashboard", authed, receiver, ReceiverDashboard(deps.Donations))

	app.Post("/reports/impact", authed, ExportImpactReport(deps.Reports))
}
