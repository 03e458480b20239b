package notification

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes notification endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a notification HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type notificationResponse struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Read        bool   `json:"read"`
	CreatedAt   string `json:"createdAt"`
}

// List returns the account's notifications, newest first.
func (h *Handler) List(c *fiber.Ctx) error {
	accountID := c.Params("userId")
	notifications, err := h.service.ListForAccount(c.UserContext(), accountID)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	out := make([]notificationResponse, 0, len(notifications))
	for _, n := range notifications {
		out = append(out, notificationResponse{
			ID:          n.ID,
			Type:        n.Type,
			Title:       n.Title,
			Description: n.Description,
			Read:        n.Read,
			CreatedAt:   n.CreatedAt.Format(time.RFC3339),
		})
	}
	return c.Status(http.StatusOK).JSON(out)
}

// MarkRead marks a single notification as read.
func (h *Handler) MarkRead(c *fiber.Ctx) error {
	if err := h.service.MarkRead(c.UserContext(), c.Params("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, "notification not found")
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.SendStatus(http.StatusOK)
}

// MarkAllRead marks every notification owned by the account as read.
func (h *Handler) MarkAllRead(c *fiber.Ctx) error {
	if err := h.service.MarkAllRead(c.UserContext(), c.Params("userId")); err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.SendStatus(http.StatusOK)
}
