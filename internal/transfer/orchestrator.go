package transfer

import (
	"context"     // Request cancellation
	"errors"      // Sentinel errors
	"fmt"         // Notice formatting
	"strconv"     // Recipient counts
	"strings"     // Input trimming
	"sync"        // Form lock
	"sync/atomic" // In-flight guard

	"github.com/sirupsen/logrus" // Structured logging

	"wallet_console/internal/domain"   // Wire models
	"wallet_console/internal/feedback" // Notice kinds
	"wallet_console/internal/gateway"  // Ledger calls
)

var (
	// ErrSubmitInFlight is returned when a submission is already pending
	ErrSubmitInFlight = errors.New("transfer already in progress")
	// ErrUnknownField is returned by SetField for names the current form does not have
	ErrUnknownField = errors.New("unknown transfer field")
)

// API is the part of the ledger gateway used for transfers
type API interface {
	Transfer(ctx context.Context, req domain.TransferRequest) gateway.Result[domain.Transaction]
	BatchTransfer(ctx context.Context, req domain.BatchTransferRequest) gateway.Result[[]domain.Transaction]
}

// Notifier posts user-facing notices
type Notifier interface {
	Notify(kind feedback.Kind, message string)
}

// BalanceRefresher refreshes the wallet currently shown in the balance display
type BalanceRefresher interface {
	InspectedWallet() (int64, bool)
	CheckBalance(ctx context.Context, id int64) error
}

// Outcome is a successful submission
type Outcome struct {
	Mode         Mode                 // Mode the submission ran in
	Transactions []domain.Transaction // Created transactions
}

// Orchestrator owns the transfer form
type Orchestrator struct {
	api      API                // Ledger calls
	notifier Notifier           // User-facing notices
	balances BalanceRefresher   // Optional balance display
	logger   logrus.FieldLogger // Transaction log

	mu             sync.Mutex
	mode           Mode        // Single or Batch
	singleRequired bool        // To and Amount are required
	from           string      // Raw sender input
	to             string      // Raw receiver input, Single only
	amount         string      // Raw amount input, Single only
	count          string      // Raw recipient count, Batch only
	recipients     []Recipient // Generated recipient inputs, Batch only

	inFlight atomic.Bool // One submission at a time
}

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithBalanceRefresher refreshes the inspected wallet after single transfers touching it
func WithBalanceRefresher(b BalanceRefresher) Option {
	return func(o *Orchestrator) { o.balances = b }
}

// WithLogger sets the logger
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

func New(api API, notifier Notifier, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		api:            api,
		notifier:       notifier,
		logger:         logrus.StandardLogger(),         // Default logger
		singleRequired: true,                            // Single mode on start
		count:          strconv.Itoa(DefaultRecipients), // Prefilled count
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Orchestrator) Mode() Mode {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.mode
}

// SingleRequired reports whether the single-mode inputs are currently required
func (o *Orchestrator) SingleRequired() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.singleRequired
}

// SubmitLabel is the submit button text for the current mode
func (o *Orchestrator) SubmitLabel() string {
	if o.Mode() == ModeBatch {
		return BatchSubmitLabel
	}
	return SingleSubmitLabel
}

// SetBatch switches modes. Entering Batch regenerates the recipient fields
// from the recipient count; leaving it drops them and restores requiredness.
func (o *Orchestrator) SetBatch(on bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if on == (o.mode == ModeBatch) {
		return // Already in the requested mode
	}
	if on {
		o.mode = ModeBatch
		o.singleRequired = false
		o.generateLocked(initialCount(o.count)) // Fresh recipient fields
		return
	}
	o.mode = ModeSingle
	o.singleRequired = true
	o.recipients = nil // Drop recipient fields
}

// ToggleBatch flips the mode and returns the new one
func (o *Orchestrator) ToggleBatch() Mode {
	o.SetBatch(o.Mode() != ModeBatch)
	return o.Mode()
}

// initialCount mirrors `parseInt(value) || 2`, clamped to the allowed range
func initialCount(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n == 0 {
		return DefaultRecipients
	}
	return min(max(n, MinRecipients), MaxRecipients)
}

// generateLocked replaces the recipients with n empty entries
func (o *Orchestrator) generateLocked(n int) {
	o.recipients = make([]Recipient, n)
}

// SetField stores a raw input value. Changing the recipient count in Batch
// mode to a value in range regenerates every recipient field, discarding input.
func (o *Orchestrator) SetField(name, value string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch name {
	case FieldFrom:
		o.from = value
		return nil
	case FieldTo:
		o.to = value
		return nil
	case FieldAmount:
		o.amount = value
		return nil
	case FieldRecipientCount:
		o.count = value
		// Regenerate only for counts in range
		if n, ok := ParseRecipientCount(value); ok && o.mode == ModeBatch {
			o.generateLocked(n) // Discards recipient input
		}
		return nil
	}

	i, kind, ok := parseRecipientField(name)
	if !ok || o.mode != ModeBatch || i > len(o.recipients) {
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	if kind == "wallet" {
		o.recipients[i-1].WalletID = value
	} else {
		o.recipients[i-1].Amount = value
	}
	return nil
}

// Form returns a copy of the current inputs
func (o *Orchestrator) Form() Form {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.formLocked()
}

func (o *Orchestrator) formLocked() Form {
	recipients := make([]Recipient, len(o.recipients))
	copy(recipients, o.recipients) // Callers never share the backing array
	return Form{
		From:           o.from,
		To:             o.to,
		Amount:         o.amount,
		RecipientCount: o.count,
		Recipients:     recipients,
	}
}

// Fields lists every input of the form in display order
func (o *Orchestrator) Fields() []Field {
	o.mu.Lock()
	defer o.mu.Unlock()

	single := o.mode == ModeSingle
	fields := []Field{
		{Name: FieldFrom, Label: "From Wallet ID", Placeholder: "Wallet ID", Value: o.from, Required: true, Visible: true, Numeric: true},
		{Name: FieldTo, Label: "To Wallet ID", Placeholder: "Wallet ID", Value: o.to, Required: o.singleRequired, Visible: single, Numeric: true},
		{Name: FieldAmount, Label: "Amount ($)", Placeholder: "0.00", Value: o.amount, Required: o.singleRequired, Visible: single, Numeric: true},
		{Name: FieldRecipientCount, Label: "Number of Recipients", Placeholder: strconv.Itoa(DefaultRecipients), Value: o.count, Required: !single, Visible: !single, Numeric: true},
	}
	for i, r := range o.recipients {
		n := i + 1
		group := fmt.Sprintf("Recipient %d", n)
		fields = append(fields,
			Field{Name: RecipientWalletField(n), Label: "Wallet ID", Placeholder: "Wallet ID", Value: r.WalletID, Group: group, Required: true, Visible: !single, Numeric: true},
			Field{Name: RecipientAmountField(n), Label: "Amount ($)", Placeholder: "0.00", Value: r.Amount, Group: group, Required: true, Visible: !single, Numeric: true},
		)
	}
	return fields
}

// Reset clears every input and returns to Single mode
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.resetLocked()
}

func (o *Orchestrator) resetLocked() {
	o.mode = ModeSingle
	o.singleRequired = true
	o.from, o.to, o.amount = "", "", ""
	o.count = strconv.Itoa(DefaultRecipients)
	o.recipients = nil
}

// Submit validates the form and, if it passes, sends one request.
// Validation failures and in-flight rejections never reach the network.
func (o *Orchestrator) Submit(ctx context.Context) (Outcome, error) {
	// Reject while another submission is pending
	if !o.inFlight.CompareAndSwap(false, true) {
		o.notifier.Notify(feedback.KindError, "A request is already in progress")
		return Outcome{}, ErrSubmitInFlight
	}
	defer o.inFlight.Store(false)

	o.mu.Lock()
	mode := o.mode         // Mode at submit time
	form := o.formLocked() // Snapshot of the inputs
	o.mu.Unlock()

	if mode == ModeBatch {
		return o.submitBatch(ctx, form)
	}
	return o.submitSingle(ctx, form)
}

func (o *Orchestrator) submitSingle(ctx context.Context, form Form) (Outcome, error) {
	req, err := ValidateSingle(form.From, form.To, form.Amount)
	if err != nil {
		o.notifier.Notify(feedback.KindError, err.Error())
		return Outcome{}, err
	}

	res := o.api.Transfer(ctx, req) // Gateway already notified on failure
	if !res.OK() {
		o.logger.WithFields(logrus.Fields{
			"from_wallet_id": req.FromWalletID,
			"to_wallet_id":   req.ToWalletID,
			"amount":         req.Amount.String(),
			"error":          res.Err.Error(),
		}).Error("Transfer failed")
		return Outcome{}, res.Err
	}

	o.logger.WithFields(logrus.Fields{
		"from_wallet_id": req.FromWalletID,
		"to_wallet_id":   req.ToWalletID,
		"amount":         req.Amount.String(),
		"transaction_id": res.Value.ID,
	}).Info("Transfer transaction")

	o.Reset() // Clear the form
	o.notifier.Notify(feedback.KindSuccess, "Transfer completed successfully!")
	o.refreshInspected(ctx, req.FromWalletID, req.ToWalletID) // Either end may be on display

	return Outcome{Mode: ModeSingle, Transactions: []domain.Transaction{res.Value}}, nil
}

func (o *Orchestrator) submitBatch(ctx context.Context, form Form) (Outcome, error) {
	n, ok := ParseRecipientCount(form.RecipientCount)
	if !ok {
		err := &ValidationError{Reason: ReasonRecipientCount}
		o.notifier.Notify(feedback.KindError, err.Error())
		return Outcome{}, err
	}
	req, err := ValidateBatch(form.From, recipientsFor(n, form.Recipients))
	if err != nil {
		o.notifier.Notify(feedback.KindError, err.Error())
		return Outcome{}, err
	}

	o.notifier.Notify(feedback.KindInfo, "Processing Payroll Batch...")

	res := o.api.BatchTransfer(ctx, req) // All or nothing on the ledger
	if !res.OK() {
		o.logger.WithFields(logrus.Fields{
			"from_wallet_id": req.FromWalletID,
			"recipients":     len(req.Transfers),
			"total":          req.Total().String(),
			"error":          res.Err.Error(),
		}).Error("Batch transfer failed")
		o.notifier.Notify(feedback.KindError, "Batch Failed: "+batchDetail(res.Err))
		return Outcome{}, res.Err
	}

	o.logger.WithFields(logrus.Fields{
		"from_wallet_id": req.FromWalletID,
		"recipients":     len(req.Transfers),
		"total":          req.Total().String(),
		"processed":      len(res.Value),
	}).Info("Batch transfer transaction")

	o.Reset() // Clear the form
	o.notifier.Notify(feedback.KindSuccess, fmt.Sprintf("Payroll Success! Processed %d transactions.", len(res.Value)))

	return Outcome{Mode: ModeBatch, Transactions: res.Value}, nil
}

// recipientsFor returns exactly n recipients; missing ones count as blank input
func recipientsFor(n int, recipients []Recipient) []Recipient {
	out := make([]Recipient, n)
	copy(out, recipients) // Extras beyond n are dropped
	return out
}

func batchDetail(err *gateway.Error) string {
	if err.Detail == "" {
		return "Unknown error"
	}
	return err.Detail
}

// refreshInspected re-reads the balance display when it shows one of ids
func (o *Orchestrator) refreshInspected(ctx context.Context, ids ...int64) {
	if o.balances == nil {
		return // No balance display wired
	}
	inspected, ok := o.balances.InspectedWallet()
	if !ok {
		return // Nothing on display
	}
	for _, id := range ids {
		if id == inspected {
			if err := o.balances.CheckBalance(ctx, inspected); err != nil {
				o.logger.WithError(err).WithField("wallet_id", inspected).Warn("Balance refresh failed")
			}
			return
		}
	}
}
