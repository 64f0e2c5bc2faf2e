package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"brgydocs/internal/http/middleware"
	"brgydocs/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_ID", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return writeErrorFields(c, status, code, message, nil)
}

func writeErrorFields(c *fiber.Ctx, status int, code, message string, fields map[string]string) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
			Fields:  fields,
		},
	}
	return c.Status(status).JSON(res)
}

// serviceErrorStatus maps a service error to its HTTP status and code.
func serviceErrorStatus(err error) (int, string, string) {
	var (
		verr *service.ValidationError
		terr *service.TransitionError
	)
	switch {
	case errors.As(err, &verr):
		return fiber.StatusBadRequest, "VALIDATION_FAILED", "validation failed"
	case errors.As(err, &terr):
		return fiber.StatusBadRequest, "INVALID_TRANSITION", terr.Error()
	case errors.Is(err, service.ErrInvalidTransition):
		return fiber.StatusBadRequest, "INVALID_TRANSITION", "status transition not allowed"
	case errors.Is(err, service.ErrInvalidToken):
		return fiber.StatusUnprocessableEntity, "INVALID_QR", "QR code is invalid or has been revoked"
	case errors.Is(err, service.ErrNotFound):
		return fiber.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, service.ErrForbidden):
		return fiber.StatusForbidden, "FORBIDDEN", "not allowed for this account"
	case errors.Is(err, service.ErrReferenced):
		return fiber.StatusConflict, "DOCUMENT_TYPE_IN_USE", "document type is used by existing requests"
	case errors.Is(err, service.ErrNameTaken):
		return fiber.StatusConflict, "NAME_TAKEN", "document type name already exists"
	case errors.Is(err, service.ErrNoReleaseToken):
		return fiber.StatusConflict, "NO_RELEASE_TOKEN", "request has not been accepted yet"
	default:
		return fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error"
	}
}

// writeServiceError translates a service error into the error envelope.
func writeServiceError(c *fiber.Ctx, err error) error {
	status, code, message := serviceErrorStatus(err)
	if status == fiber.StatusInternalServerError {
		c.Locals(middleware.ErrorLocalKey, err)
	}
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		return writeErrorFields(c, status, code, message, verr.Fields)
	}
	return writeError(c, status, code, message)
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusUnauthorized:
			return writeError(c, status, "UNAUTHORIZED", "missing or invalid bearer token")
		case fiber.StatusForbidden:
			return writeError(c, status, "FORBIDDEN", "not allowed for this account")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "BODY_TOO_LARGE", "request body too large")
		default:
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
	}
}
