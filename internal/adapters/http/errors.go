package http

import "github.com/gofiber/fiber/v2"

// APIError is a structured error response.
type APIError struct {
	Status    int    `json:"status"`
	Code      string `json:"code"`    // Error code: bad_request, not_found, internal_error, etc.
	Message   string `json:"message"` // Human-readable message
	RequestID string `json:"request_id,omitempty"`
}

// newError builds a JSON error response with a request ID.
func newError(c *fiber.Ctx, status int, code string, message string) error {
	reqID, _ := c.Locals("requestid").(string)
	return c.Status(status).JSON(APIError{
		Status:    status,
		Code:      code,
		Message:   message,
		RequestID: reqID,
	})
}

// errBadRequest returns a 400 error.
func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusBadRequest, "bad_request", msg)
}

// errNotFound returns a 404 error.
func errNotFound(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusNotFound, "not_found", msg)
}

// errTooManyRequests returns a 429 error.
func errTooManyRequests(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusTooManyRequests, "rate_limited", msg)
}

// ErrorHandler renders errors escaping handlers (panics recovered by the
// recover middleware, fiber errors such as 404 on unknown routes) as APIError.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	code := "internal_error"
	msg := "internal server error"
	if fe, ok := err.(*fiber.Error); ok {
		status = fe.Code
		msg = fe.Message
		switch status {
		case fiber.StatusNotFound:
			code = "not_found"
		case fiber.StatusRequestTimeout:
			code = "timeout"
		case fiber.StatusUpgradeRequired:
			code = "upgrade_required"
		default:
			if status < 500 {
				code = "bad_request"
			}
		}
	}
	LoggerFromCtx(c.UserContext()).Error("request failed", "path", c.Path(), "status", status, "error", err)
	return newError(c, status, code, msg)
}
