package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/sicko7947/contactbook"
)

const localRequestID = "request_id"

// requestLogger tags every request with an ID and logs its outcome
func (s *Server) requestLogger(c fiber.Ctx) error {
	start := time.Now()

	requestID := c.Get(HeaderRequestID)
	if requestID == "" {
		requestID = uuid.New().String()
	}
	c.Set(HeaderRequestID, requestID)
	c.Locals(localRequestID, requestID)

	err := c.Next()

	status := c.Response().StatusCode()
	if err != nil {
		status = fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}
	}

	contactbook.LogRequestCompleted(s.logger, requestID, c.Method(), c.Path(), status, time.Since(start))
	return err
}
