package ledger

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/athirchat/athirchat/internal/account"
	"github.com/athirchat/athirchat/internal/money"
)

// Handler exposes the wallet transfer, trade and balance endpoints.
type Handler struct {
	engine *Engine
}

// NewHandler builds a wallet HTTP handler.
func NewHandler(engine *Engine) *Handler {
	return &Handler{engine: engine}
}

type transferRequest struct {
	UserID           string `json:"userId"`
	RecipientAddress string `json:"recipientAddress"`
	Amount           string `json:"amount"`
	Currency         string `json:"currency"`
}

// Transfer debits the sender, credits the recipient wallet and returns the
// sender's remaining balance in the transfer currency.
func (h *Handler) Transfer(c *fiber.Ctx) error {
	var req transferRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	result, err := h.engine.Transfer(c.UserContext(), req.UserID, req.RecipientAddress, req.Amount, req.Currency)
	if err != nil {
		return mapLedgerError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message":       "Transfer successful",
		"fee":           money.Format(result.Fee),
		"senderBalance": money.Format(result.SenderBalance),
	})
}

type tradeRequest struct {
	UserID   string `json:"userId"`
	Action   string `json:"action"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

// Trade buys or sells ATHR and returns only the balances the trade changed.
func (h *Handler) Trade(c *fiber.Ctx) error {
	var req tradeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	result, err := h.engine.TradeToken(c.UserContext(), req.UserID, req.Action, req.Amount, req.Currency)
	if err != nil {
		return mapLedgerError(err)
	}
	balances := fiber.Map{}
	for _, cur := range result.Changed {
		switch cur {
		case money.USD:
			balances["usdBalance"] = money.Format(result.Balances.USD)
		case money.SYP:
			balances["sypBalance"] = money.Format(result.Balances.SYP)
		case money.ATHR:
			balances["athrBalance"] = money.Format(result.Balances.ATHR)
		}
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"balances": balances})
}

// GetBalances returns the account's wallet address and all three balances.
func (h *Handler) GetBalances(c *fiber.Ctx) error {
	acct, err := h.engine.Wallet(c.UserContext(), c.Params("userId"))
	if err != nil {
		return mapLedgerError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"walletAddress": acct.WalletAddress,
		"usdBalance":    money.Format(acct.UsdBalance),
		"sypBalance":    money.Format(acct.SypBalance),
		"athrBalance":   money.Format(acct.AthrBalance),
	})
}

func mapLedgerError(err error) error {
	switch {
	case errors.Is(err, account.ErrNotFound):
		return fiber.NewError(http.StatusNotFound, "user not found")
	case errors.Is(err, ErrRecipientNotFound):
		return fiber.NewError(http.StatusNotFound, err.Error())
	case errors.Is(err, account.ErrInsufficientBalance),
		errors.Is(err, ErrSelfTransfer),
		errors.Is(err, ErrUnknownAction),
		errors.Is(err, money.ErrInvalidAmount),
		errors.Is(err, money.ErrUnsupportedCurrency):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	default:
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
}
