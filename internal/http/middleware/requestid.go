package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"

	"brgydocs/internal/service"
)

const (
	// RequestIDHeader is the header used to propagate request IDs.
	RequestIDHeader = "X-Request-ID"
	// RequestIDLocalKey is the key used to store the request ID in Fiber's context locals.
	RequestIDLocalKey = "request_id"

	maxRequestIDLen = 128
)

// RequestID adopts the caller's X-Request-ID when it is usable and generates a UUID
// otherwise. The id is echoed on the response and becomes the correlation id that
// audit entries and status events carry.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Copied: the id outlives the request in audit rows, events and log entries.
		id := utils.CopyString(c.Get(RequestIDHeader))
		if !usableRequestID(id) {
			id = uuid.NewString()
		}

		c.Locals(RequestIDLocalKey, id)
		c.SetUserContext(service.WithCorrelationID(c.UserContext(), id))
		c.Set(RequestIDHeader, id)

		return c.Next()
	}
}

// usableRequestID accepts printable ASCII up to maxRequestIDLen bytes.
func usableRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}
