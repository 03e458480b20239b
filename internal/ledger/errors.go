package ledger

import "errors"

var (
	// ErrRecipientNotFound occurs when a transfer names a wallet address
	// that does not belong to any account.
	ErrRecipientNotFound = errors.New("recipient wallet not found")

	// ErrSelfTransfer indicates the sender targeted their own wallet address.
	ErrSelfTransfer = errors.New("cannot transfer to own wallet")

	// ErrUnknownAction indicates a trade action other than buy or sell.
	ErrUnknownAction = errors.New("unknown trade action")

	// ErrLedgerInconsistent indicates the recipient credit failed after the
	// sender was debited. The debit is refunded best-effort.
	ErrLedgerInconsistent = errors.New("ledger inconsistent: credit failed after debit")
)
