package api

import (
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"github.com/sicko7947/contactbook"
)

// addRequest is the body of PUT /contacts/:name
type addRequest struct {
	PhoneNo string `json:"phone_no"`
	Email   string `json:"email"`
}

// emailRequest is the body of PATCH /contacts/:name/email
type emailRequest struct {
	Email string `json:"email"`
}

// phoneRequest is the body of PATCH /contacts/:name/phone
type phoneRequest struct {
	PhoneNo string `json:"phone_no"`
}

// listResponse is one page of contacts
type listResponse struct {
	Contacts []*contactbook.Contact `json:"contacts"`
	Page     int                    `json:"page"`
	Size     int                    `json:"size"`
}

func contactName(c fiber.Ctx) string {
	raw := c.Params("name")
	name, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return name
}

// writeError maps repository errors to HTTP statuses
func (s *Server) writeError(c fiber.Ctx, err error) error {
	if contactbook.IsValidationError(err) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": err.Error(),
			"code":  contactbook.ErrorCode(err),
		})
	}

	s.logger.Error().
		Err(err).
		Str("request_id", requestID(c)).
		Msg("Repository operation failed")

	body := fiber.Map{"error": "Internal server error"}
	if code := contactbook.ErrorCode(err); code != "" {
		body["code"] = code
	}
	return c.Status(fiber.StatusInternalServerError).JSON(body)
}

func notFound(c fiber.Ctx, name string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error": "No contact with name " + name,
	})
}

func badRequest(c fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Invalid request body",
	})
}

func requestID(c fiber.Ctx) string {
	id, _ := c.Locals(localRequestID).(string)
	return id
}

// queryInt reads a non-negative integer query parameter, falling back when
// it is absent or malformed
func queryInt(c fiber.Ctx, key string, fallback int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func (s *Server) handleList(c fiber.Ctx) error {
	page := queryInt(c, "page", 0)
	size := queryInt(c, "size", s.pageSize)

	contacts, err := s.repo.List(c.Context(), page, size)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(listResponse{
		Contacts: contacts,
		Page:     page,
		Size:     size,
	})
}

func (s *Server) handleCount(c fiber.Ctx) error {
	count, err := s.repo.Count(c.Context())
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(fiber.Map{"count": count})
}

func (s *Server) handleGet(c fiber.Ctx) error {
	name := contactName(c)

	contact, err := s.repo.Get(c.Context(), name)
	if err != nil {
		return s.writeError(c, err)
	}
	if contact == nil {
		return notFound(c, name)
	}
	return c.JSON(contact)
}

func (s *Server) handleAdd(c fiber.Ctx) error {
	name := contactName(c)

	var req addRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c)
	}

	if err := s.repo.Add(c.Context(), name, req.PhoneNo, req.Email); err != nil {
		return s.writeError(c, err)
	}

	contact, err := s.repo.Get(c.Context(), name)
	if err != nil {
		return s.writeError(c, err)
	}
	if contact == nil {
		return notFound(c, name)
	}
	return c.JSON(contact)
}

func (s *Server) handleUpdateEmail(c fiber.Ctx) error {
	name := contactName(c)

	var req emailRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c)
	}

	found, err := s.repo.UpdateEmail(c.Context(), name, req.Email)
	if err != nil {
		return s.writeError(c, err)
	}
	if !found {
		return notFound(c, name)
	}
	return c.JSON(fiber.Map{"message": "Contact updated successfully"})
}

func (s *Server) handleUpdatePhone(c fiber.Ctx) error {
	name := contactName(c)

	var req phoneRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c)
	}

	found, err := s.repo.UpdatePhone(c.Context(), name, req.PhoneNo)
	if err != nil {
		return s.writeError(c, err)
	}
	if !found {
		return notFound(c, name)
	}
	return c.JSON(fiber.Map{"message": "Contact updated successfully"})
}

func (s *Server) handleDelete(c fiber.Ctx) error {
	name := contactName(c)

	removed, err := s.repo.Delete(c.Context(), name)
	if err != nil {
		return s.writeError(c, err)
	}
	if removed == nil {
		return notFound(c, name)
	}
	return c.JSON(removed)
}
