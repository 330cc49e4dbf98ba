package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"zerowaste/internal/http/middleware"
	"zerowaste/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError writes a standardized JSON error response. message must be safe to show to clients.
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(errorPayload{
		RequestID: middleware.RequestIDFrom(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	})
}

type errorMapping struct {
	err     error
	status  int
	code    string
	message string
}

// serviceErrors maps domain errors to HTTP responses. Order matters for wrapped errors.
var serviceErrors = []errorMapping{
	{service.ErrInvalidInput, fiber.StatusBadRequest, "INVALID_INPUT", ""},
	{service.ErrUnknownDonor, fiber.StatusNotFound, "UNKNOWN_DONOR", "donor not found"},
	{service.ErrUnknownDonation, fiber.StatusNotFound, "UNKNOWN_DONATION", "donation not found"},
	{service.ErrUnknownReceiver, fiber.StatusNotFound, "UNKNOWN_RECEIVER", "receiver not found"},
	{service.ErrUnknownOrg, fiber.StatusNotFound, "NOT_FOUND", "organization not found"},
	{service.ErrNoEligibleReceiver, fiber.StatusConflict, "NO_ELIGIBLE_RECEIVER", "no receiver has enough capacity for this donation"},
	{service.ErrRaceLost, fiber.StatusConflict, "RACE_LOST", "receiver capacity was taken concurrently, retry"},
	{service.ErrInsufficientCapacity, fiber.StatusConflict, "INSUFFICIENT_CAPACITY", "receiver capacity is insufficient"},
	{service.ErrAlreadyCollected, fiber.StatusConflict, "ALREADY_COLLECTED", "donation already collected"},
	{service.ErrLedgerOverflow, fiber.StatusConflict, "LEDGER_OVERFLOW", "capacity would exceed the receiver's original capacity"},
	{service.ErrDuplicateName, fiber.StatusConflict, "DUPLICATE_NAME", "organization name already registered"},
	{service.ErrNotAssignedReceiver, fiber.StatusForbidden, "NOT_ASSIGNED_RECEIVER", "donation is assigned to another receiver"},
	{service.ErrInvalidCredentials, fiber.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid credentials"},
	{service.ErrReportsDisabled, fiber.StatusServiceUnavailable, "REPORTS_DISABLED", "report storage is not configured"},
}

// writeServiceError translates a service error into the error envelope without leaking internals.
func writeServiceError(c *fiber.Ctx, err error) error {
	for _, m := range serviceErrors {
		if errors.Is(err, m.err) {
			msg := m.message
			if msg == "" {
				msg = err.Error()
			}
			return writeError(c, m.status, m.code, msg)
		}
	}
	return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusUnauthorized:
			return writeError(c, status, "UNAUTHORIZED", "authentication required")
		case fiber.StatusForbidden:
			return writeError(c, status, "FORBIDDEN", "forbidden")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "PAYLOAD_TOO_LARGE", "request body too large")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
