package transfer

import (
	"errors"  // Error unwrapping
	"fmt"     // Message formatting
	"strconv" // Integer parsing
	"strings" // Input trimming

	"github.com/shopspring/decimal" // Amount bounds

	"wallet_console/internal/domain" // Wire models
)

const (
	MinRecipients     = 2  // Smallest batch
	MaxRecipients     = 10 // Largest batch
	DefaultRecipients = 2  // Count used when the input is unusable

	MaxAmountScale = 8  // decimal places the ledger keeps
	maxAmountExp   = 12 // amounts stay below 10^12
)

var maxAmount = decimal.New(1, maxAmountExp)

// Reason says which rule a form broke
type Reason int

const (
	ReasonAmount Reason = iota + 1
	ReasonSourceWallet
	ReasonWalletID
	ReasonSelfTransfer
	ReasonDuplicate
	ReasonRecipientCount
)

// ValidationError is a local rejection; no request was sent.
// Recipient is the 1-based ordinal of the offending batch recipient, or 0.
type ValidationError struct {
	Recipient int    // 1-based ordinal, 0 for single transfers
	Reason    Reason // Broken rule
}

func (e *ValidationError) Error() string {
	if e.Recipient > 0 {
		return fmt.Sprintf("Recipient %d: %s", e.Recipient, e.batchText())
	}
	switch e.Reason {
	case ReasonAmount:
		return "Amount must be greater than 0!"
	case ReasonSourceWallet:
		return "Invalid source wallet ID!"
	case ReasonWalletID:
		return "Invalid wallet ID!"
	case ReasonSelfTransfer:
		return "Cannot transfer to self!"
	case ReasonRecipientCount:
		return fmt.Sprintf("Number of recipients must be between %d and %d!", MinRecipients, MaxRecipients)
	default:
		return "Invalid transfer"
	}
}

func (e *ValidationError) batchText() string {
	switch e.Reason {
	case ReasonAmount:
		return "Amount must be greater than 0!"
	case ReasonWalletID:
		return "Invalid wallet ID!"
	case ReasonSelfTransfer:
		return "Cannot transfer to sender wallet!"
	case ReasonDuplicate:
		return "Duplicate wallet ID detected!"
	default:
		return "Invalid recipient"
	}
}

// IsValidation reports whether err is a local validation failure
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// Recipient is the raw input of one batch recipient
type Recipient struct {
	WalletID string // Raw wallet ID input
	Amount   string // Raw amount input
}

// ParseWalletID accepts positive integers only
func ParseWalletID(s string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, false // Zero, negative or not a number
	}
	return id, true
}

// ParsePositiveAmount accepts decimals strictly greater than zero, below
// 10^12 and with at most MaxAmountScale decimal places
func ParsePositiveAmount(s string) (domain.Amount, bool) {
	a, err := domain.ParseAmount(strings.TrimSpace(s))
	if err != nil || !a.IsPositive() {
		return domain.Amount{}, false
	}
	// Exponent first: comparing 1e50000000 would expand it
	if exp := a.Exponent(); exp < -MaxAmountScale || exp >= maxAmountExp || !a.LessThan(maxAmount) {
		return domain.Amount{}, false
	}
	return a, true
}

// ParseRecipientCount returns the count and whether it lies in [MinRecipients, MaxRecipients]
func ParseRecipientCount(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return n, n >= MinRecipients && n <= MaxRecipients
}

// ValidateSingle checks a single transfer and builds the request
func ValidateSingle(from, to, amount string) (domain.TransferRequest, error) {
	amt, ok := ParsePositiveAmount(amount) // Amount is reported first
	if !ok {
		return domain.TransferRequest{}, &ValidationError{Reason: ReasonAmount}
	}
	fromID, ok := ParseWalletID(from)
	if !ok {
		return domain.TransferRequest{}, &ValidationError{Reason: ReasonSourceWallet}
	}
	toID, ok := ParseWalletID(to)
	if !ok {
		return domain.TransferRequest{}, &ValidationError{Reason: ReasonWalletID}
	}
	// Prevent self-transfer
	if fromID == toID {
		return domain.TransferRequest{}, &ValidationError{Reason: ReasonSelfTransfer}
	}
	return domain.TransferRequest{FromWalletID: fromID, ToWalletID: toID, Amount: amt}, nil
}

// ValidateBatch checks recipients in order and stops at the first failure.
// The returned request keeps the input order.
func ValidateBatch(from string, recipients []Recipient) (domain.BatchTransferRequest, error) {
	if len(recipients) < MinRecipients || len(recipients) > MaxRecipients {
		return domain.BatchTransferRequest{}, &ValidationError{Reason: ReasonRecipientCount}
	}
	fromID, ok := ParseWalletID(from)
	if !ok {
		return domain.BatchTransferRequest{}, &ValidationError{Reason: ReasonSourceWallet}
	}

	transfers := make([]domain.BatchEntry, 0, len(recipients)) // Input order is kept
	seen := make(map[int64]struct{}, len(recipients))          // Wallets already listed
	for i, r := range recipients {
		ordinal := i + 1 // Recipient numbering starts at 1
		amt, ok := ParsePositiveAmount(r.Amount)
		if !ok {
			return domain.BatchTransferRequest{}, &ValidationError{Recipient: ordinal, Reason: ReasonAmount}
		}
		walletID, ok := ParseWalletID(r.WalletID)
		if !ok {
			return domain.BatchTransferRequest{}, &ValidationError{Recipient: ordinal, Reason: ReasonWalletID}
		}
		if walletID == fromID {
			return domain.BatchTransferRequest{}, &ValidationError{Recipient: ordinal, Reason: ReasonSelfTransfer}
		}
		if _, dup := seen[walletID]; dup {
			return domain.BatchTransferRequest{}, &ValidationError{Recipient: ordinal, Reason: ReasonDuplicate}
		}
		seen[walletID] = struct{}{} // Mark as used
		transfers = append(transfers, domain.BatchEntry{ToWalletID: walletID, Amount: amt})
	}
	return domain.BatchTransferRequest{FromWalletID: fromID, Transfers: transfers}, nil
}
