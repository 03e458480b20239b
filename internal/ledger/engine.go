package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/athirchat/athirchat/internal/account"
	"github.com/athirchat/athirchat/internal/money"
	"github.com/athirchat/athirchat/internal/notification"
)

// Trade actions accepted by TradeToken.
const (
	ActionBuy  = "buy"
	ActionSell = "sell"
)

// TransferResult captures the outcome of a wallet-to-wallet transfer.
type TransferResult struct {
	Fee           decimal.Decimal
	SenderBalance decimal.Decimal
}

// TradeResult captures the balances touched by a token trade.
type TradeResult struct {
	Balances account.Balances
	Changed  []money.Currency
}

// Engine applies transfers and token trades against account balances and
// records the matching wallet notifications.
type Engine struct {
	accounts          account.Repository
	notifier          *notification.Service
	rates             map[money.Currency]decimal.Decimal
	feeRate           decimal.Decimal
	allowSelfTransfer bool
	logger            *slog.Logger
}

// NewEngine wires an engine over the given account store and notification
// service using the default exchange rates and fee schedule.
func NewEngine(accounts account.Repository, notifier *notification.Service, logger *slog.Logger, allowSelfTransfer bool) *Engine {
	return &Engine{
		accounts:          accounts,
		notifier:          notifier,
		rates:             money.DefaultRates,
		feeRate:           money.TransferFeeRate,
		allowSelfTransfer: allowSelfTransfer,
		logger:            logger,
	}
}

// Transfer moves amount of the quoted currency from the sender to the account
// owning recipientAddress. The sender is debited amount plus the transfer fee;
// the recipient is credited exactly amount. The fee is not credited anywhere.
func (e *Engine) Transfer(ctx context.Context, senderID, recipientAddress, rawAmount, rawCurrency string) (TransferResult, error) {
	amount, err := money.ParseAmount(rawAmount)
	if err != nil {
		return TransferResult{}, err
	}
	currency, err := money.ParseQuote(rawCurrency)
	if err != nil {
		return TransferResult{}, err
	}

	sender, err := e.accounts.FindByID(ctx, senderID)
	if err != nil {
		return TransferResult{}, err
	}
	recipient, err := e.accounts.FindByWalletAddress(ctx, recipientAddress)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return TransferResult{}, ErrRecipientNotFound
		}
		return TransferResult{}, err
	}
	if sender.ID == recipient.ID && !e.allowSelfTransfer {
		return TransferResult{}, ErrSelfTransfer
	}

	fee := money.Round2(amount.Mul(e.feeRate))
	debit := amount.Add(fee)

	senderBalances, err := e.accounts.UpdateBalances(ctx, sender.ID, account.BalanceDeltas{
		currency: debit.Neg(),
	})
	if err != nil {
		return TransferResult{}, err
	}

	if _, err := e.accounts.UpdateBalances(ctx, recipient.ID, account.BalanceDeltas{
		currency: amount,
	}); err != nil {
		// Put the debited funds back so a failed credit leaves no trace.
		if _, refundErr := e.accounts.UpdateBalances(ctx, sender.ID, account.BalanceDeltas{currency: debit}); refundErr != nil {
			e.logger.Error("transfer refund failed", "sender", sender.ID, "error", refundErr)
		}
		return TransferResult{}, fmt.Errorf("%w: %v", ErrLedgerInconsistent, err)
	}

	e.notify(ctx, recipient.ID, "Transaction Successful",
		fmt.Sprintf("You received %s %s", money.Format(amount), currency))
	e.notify(ctx, sender.ID, "Transfer Sent",
		fmt.Sprintf("Sent %s %s to %s (fee %s %s)", money.Format(amount), currency, recipientAddress, money.Format(fee), currency))

	return TransferResult{Fee: fee, SenderBalance: senderBalances.Get(currency)}, nil
}

// TradeToken buys or sells ATHR against the quoted currency at the fixed
// exchange rate. Buys are fee-free; sells deduct the transfer fee from the
// gross proceeds. Both legs of a trade apply atomically.
func (e *Engine) TradeToken(ctx context.Context, userID, action, rawAmount, rawCurrency string) (TradeResult, error) {
	amount, err := money.ParseAmount(rawAmount)
	if err != nil {
		return TradeResult{}, err
	}
	currency, err := money.ParseQuote(rawCurrency)
	if err != nil {
		return TradeResult{}, err
	}
	rate := e.rates[currency]

	var deltas account.BalanceDeltas
	var title, description string

	switch action {
	case ActionBuy:
		cost := money.Round2(amount.Mul(rate))
		deltas = account.BalanceDeltas{
			currency:   cost.Neg(),
			money.ATHR: amount,
		}
		title = "ATHR Purchase Complete"
		description = fmt.Sprintf("Bought %s ATHR for %s %s", money.Format(amount), money.Format(cost), currency)
	case ActionSell:
		gross := amount.Mul(rate)
		fee := money.Round2(gross.Mul(e.feeRate))
		net := money.Round2(gross.Sub(fee))
		deltas = account.BalanceDeltas{
			money.ATHR: amount.Neg(),
			currency:   net,
		}
		title = "ATHR Sale Complete"
		description = fmt.Sprintf("Sold %s ATHR for %s %s (fee %s %s)", money.Format(amount), money.Format(net), currency, money.Format(fee), currency)
	default:
		return TradeResult{}, ErrUnknownAction
	}

	balances, err := e.accounts.UpdateBalances(ctx, userID, deltas)
	if err != nil {
		return TradeResult{}, err
	}

	e.notify(ctx, userID, title, description)

	return TradeResult{
		Balances: balances,
		Changed:  []money.Currency{currency, money.ATHR},
	}, nil
}

// Wallet returns the account's wallet address and current balances.
func (e *Engine) Wallet(ctx context.Context, userID string) (account.Account, error) {
	return e.accounts.FindByID(ctx, userID)
}

// notify records a wallet notification. Notification failures do not fail the
// ledger operation that produced them.
func (e *Engine) notify(ctx context.Context, accountID, title, description string) {
	if _, err := e.notifier.Append(ctx, accountID, notification.TypeWallet, title, description); err != nil {
		e.logger.Error("notification append failed", "account", accountID, "title", title, "error", err)
	}
}
