package account

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/athirchat/athirchat/internal/money"
)

// Handler exposes registration, login and password reset endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds an account HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Birthday string `json:"birthday"`
	Sex      string `json:"sex"`
}

// UserResponse is the account shape returned to clients. The credential
// hash is never included.
type UserResponse struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	FullName      string `json:"fullName,omitempty"`
	Birthday      string `json:"birthday,omitempty"`
	Sex           string `json:"sex,omitempty"`
	WalletAddress string `json:"walletAddress"`
	UsdBalance    string `json:"usdBalance"`
	SypBalance    string `json:"sypBalance"`
	AthrBalance   string `json:"athrBalance"`
	CreatedAt     string `json:"createdAt"`
}

// ToUserResponse maps an account onto its wire representation.
func ToUserResponse(a Account) UserResponse {
	resp := UserResponse{
		ID:            a.ID,
		Username:      a.Username,
		Email:         a.Email,
		FullName:      a.FullName,
		Sex:           a.Gender,
		WalletAddress: a.WalletAddress,
		UsdBalance:    money.Format(a.UsdBalance),
		SypBalance:    money.Format(a.SypBalance),
		AthrBalance:   money.Format(a.AthrBalance),
		CreatedAt:     a.CreatedAt.Format(time.RFC3339),
	}
	if !a.BirthDate.IsZero() {
		resp.Birthday = a.BirthDate.Format("2006-01-02")
	}
	return resp
}

// Register creates an account and returns it without the credential hash.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	a, err := h.service.Register(c.UserContext(), Registration{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Birthday: req.Birthday,
		Sex:      req.Sex,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrDuplicateUsername), errors.Is(err, ErrDuplicateEmail):
			return fiber.NewError(http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrNotFound):
			return fiber.NewError(http.StatusNotFound, err.Error())
		default:
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"user": ToUserResponse(a)})
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// Login validates credentials and returns the account.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	a, err := h.service.Authenticate(c.UserContext(), req.Identifier, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return fiber.NewError(http.StatusUnauthorized, "invalid credentials")
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"user": ToUserResponse(a)})
}

type resetRequestBody struct {
	Email string `json:"email"`
}

// RequestPasswordReset records a pending reset code for admin review.
func (h *Handler) RequestPasswordReset(c *fiber.Ctx) error {
	var req resetRequestBody
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	request, err := h.service.RequestPasswordReset(c.UserContext(), req.Email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, "user not found")
		}
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message":   "Password reset request submitted. Admin will send the code to your email.",
		"requestId": request.ID,
	})
}

type resolveResetBody struct {
	Status string `json:"status"`
}

// ResolveResetRequest lets the admin approve or reject a reset request.
func (h *Handler) ResolveResetRequest(c *fiber.Ctx) error {
	var req resolveResetBody
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := h.service.ResolveResetRequest(c.UserContext(), c.Params("id"), req.Status); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, "reset request not found")
		}
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.SendStatus(http.StatusOK)
}

// ListResetRequests returns every reset request for the admin panel.
func (h *Handler) ListResetRequests(c *fiber.Ctx) error {
	requests, err := h.service.ListResetRequests(c.UserContext())
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	out := make([]fiber.Map, 0, len(requests))
	for _, r := range requests {
		out = append(out, fiber.Map{
			"id":        r.ID,
			"email":     r.Email,
			"code":      r.Code,
			"status":    r.Status,
			"createdAt": r.CreatedAt.Format(time.RFC3339),
		})
	}
	return c.Status(http.StatusOK).JSON(out)
}
