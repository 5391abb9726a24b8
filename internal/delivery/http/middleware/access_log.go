package middleware

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const HeaderRequestID = "X-Request-ID"

// CtxRequestIDKey is the locals key holding the request id for the
// lifetime of one request.
const CtxRequestIDKey = "request_id"

// AccessLog assigns every request an id, echoes it back in the response
// header and writes one pipe-delimited line per request.
func AccessLog(logger *log.Logger) fiber.Handler {
	if logger == nil {
		logger = log.Default()
	}
	return func(c fiber.Ctx) error {
		reqID := c.Get(HeaderRequestID)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Locals(CtxRequestIDKey, reqID)
		c.Set(HeaderRequestID, reqID)

		start := time.Now()
		err := c.Next()

		logger.Printf("access | id=%s method=%s path=%s status=%d duration=%s ip=%s",
			reqID, c.Method(), c.Path(), c.Response().StatusCode(), time.Since(start).Round(time.Microsecond), c.IP())
		return err
	}
}
