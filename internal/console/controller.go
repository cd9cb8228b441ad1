package console

import (
	"context"       // Request cancellation
	"encoding/json" // Raw delete and deposit bodies
	"errors"        // Sentinel errors
	"fmt"           // Notice formatting
	"strconv"       // Wallet and owner IDs
	"strings"       // Input trimming
	"sync/atomic"   // Per-form busy flags
	"time"          // Reload delay

	"github.com/sirupsen/logrus" // Structured logging

	"wallet_console/internal/domain"   // Wire models
	"wallet_console/internal/feedback" // Notice kinds
	"wallet_console/internal/gateway"  // Ledger results
	"wallet_console/internal/transfer" // Shared input parsing
)

var (
	ErrBusy             = errors.New("request already in progress")
	ErrInvalidAmount    = errors.New("deposit amount must be greater than 0")
	ErrInvalidWalletID  = errors.New("invalid wallet id")
	ErrInvalidOwner     = errors.New("invalid owner")
	ErrUsernameRequired = errors.New("username is required")
)

// API is the mutating side of the ledger gateway
type API interface {
	CreateUser(ctx context.Context, req domain.CreateUserRequest) gateway.Result[domain.User]
	DeleteUser(ctx context.Context, id int64) gateway.Result[json.RawMessage]
	CreateWallet(ctx context.Context, req domain.CreateWalletRequest) gateway.Result[domain.Wallet]
	GetWallet(ctx context.Context, id int64) gateway.Result[domain.Wallet]
	DeleteWallet(ctx context.Context, id int64) gateway.Result[json.RawMessage]
	Deposit(ctx context.Context, id int64, amount domain.Amount) gateway.Result[json.RawMessage]
}

// Views is the view state the controller reconciles after each call
type Views interface {
	LoadUsers(ctx context.Context) error
	LoadWallets(ctx context.Context) error
	LoadHistory(ctx context.Context) error
	Inspect(id int64)
	InspectedWallet() (int64, bool)
	ShowBalance(w domain.Wallet)
}

// TransferForm receives the wallet picked from the list
type TransferForm interface {
	SetField(name, value string) error
}

// Notifier posts user-facing notices
type Notifier interface {
	Notify(kind feedback.Kind, message string)
}

// UserForm is the create-user input
type UserForm struct {
	Username string            // Required
	Email    string            // Optional
	Extra    map[string]string // Additional form fields, sent as-is
}

// WalletForm is the create-wallet input; UserID is the owner selector value
type WalletForm struct {
	UserID string            // Owner selector value
	Extra  map[string]string // Additional form fields, sent as-is
}

// DepositForm is the deposit input
type DepositForm struct {
	WalletID string // Raw wallet ID input
	Amount   string // Raw amount input
}

// Commands is what a view layer may call
type Commands interface {
	Refresh(ctx context.Context)
	CreateUser(ctx context.Context, form UserForm) error
	DeleteUser(ctx context.Context, id int64) error
	CreateWallet(ctx context.Context, form WalletForm) error
	DeleteWallet(ctx context.Context, id int64) error
	CheckBalance(ctx context.Context, id int64) error
	CheckBalanceInput(ctx context.Context, walletID string) error
	Deposit(ctx context.Context, form DepositForm) error
	SelectWallet(id int64)
	LoadTransactions(ctx context.Context) error
}

var (
	_ Commands                  = (*Controller)(nil)
	_ transfer.BalanceRefresher = (*Controller)(nil)
)

// guard rejects re-entry into one form while its request is pending
type guard struct {
	busy atomic.Bool
}

func (g *guard) enter() bool { return g.busy.CompareAndSwap(false, true) }
func (g *guard) leave()      { g.busy.Store(false) }

// Controller implements Commands
type Controller struct {
	api         API                                              // Ledger calls
	views       Views                                            // View state
	notifier    Notifier                                         // User-facing notices
	form        TransferForm                                     // Transfer form, nil until linked
	reloadDelay time.Duration                                    // Pause before the wallet reload after a create
	sleep       func(ctx context.Context, d time.Duration) error // Delay implementation
	logger      logrus.FieldLogger                               // Structured logger

	createUser   guard // Create-user form
	createWallet guard // Create-wallet form
	deposit      guard // Deposit form
	checkBalance guard // Balance form
}

// Option configures a Controller
type Option func(*Controller)

// WithReloadDelay sets the pause before reloading wallets after a create
func WithReloadDelay(d time.Duration) Option {
	return func(c *Controller) { c.reloadDelay = d }
}

// WithSleep replaces the delay implementation, mainly for tests
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(c *Controller) { c.sleep = sleep }
}

// WithLogger sets the logger
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Controller) { c.logger = l }
}

func New(api API, views Views, notifier Notifier, opts ...Option) *Controller {
	c := &Controller{
		api:         api,
		views:       views,
		notifier:    notifier,
		reloadDelay: 100 * time.Millisecond,  // Pause before the wallet reload
		sleep:       sleepContext,            // Cancellable timer
		logger:      logrus.StandardLogger(), // Default logger
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// UseTransferForm lets SelectWallet fill the transfer source. The transfer
// orchestrator refreshes balances through the controller, so the two are
// linked after both exist.
func (c *Controller) UseTransferForm(f TransferForm) {
	c.form = f
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil // No delay configured
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Controller) busy() error {
	c.notifier.Notify(feedback.KindError, "A request is already in progress")
	return ErrBusy
}

// reject posts a local validation notice; no request is made
func (c *Controller) reject(err error, message string) error {
	c.notifier.Notify(feedback.KindError, message)
	return err
}

// Refresh is the initial load: users, then wallets
func (c *Controller) Refresh(ctx context.Context) {
	_ = c.views.LoadUsers(ctx)   // Failures are already on the notice board
	_ = c.views.LoadWallets(ctx) // Owner names come from the users above
}

func (c *Controller) CreateUser(ctx context.Context, form UserForm) error {
	if !c.createUser.enter() {
		return c.busy()
	}
	defer c.createUser.leave()

	username := strings.TrimSpace(form.Username)
	// Validate before any request
	if username == "" {
		return c.reject(ErrUsernameRequired, "Username is required!")
	}

	res := c.api.CreateUser(ctx, domain.CreateUserRequest{Username: username, Email: strings.TrimSpace(form.Email), Extra: form.Extra})
	if !res.OK() {
		return res.Err
	}
	c.notifier.Notify(feedback.KindSuccess, fmt.Sprintf("User '%s' created!", res.Value.Username))
	_ = c.views.LoadUsers(ctx) // New user shows up in the list and owner selector
	return nil
}

// DeleteUser removes a user. The ledger cascades to the user's wallets, so
// both listings are reloaded, users first.
func (c *Controller) DeleteUser(ctx context.Context, id int64) error {
	res := c.api.DeleteUser(ctx, id)
	if !res.OK() {
		c.logger.WithFields(logrus.Fields{"user_id": id, "error": res.Err.Error()}).Error("Delete user failed")
		return res.Err
	}
	c.notifier.Notify(feedback.KindSuccess, fmt.Sprintf("User %d deleted", id))
	_ = c.views.LoadUsers(ctx)   // Users first, for owner names
	_ = c.views.LoadWallets(ctx) // Cascaded wallets disappear
	return nil
}

// CreateWallet creates a wallet and reloads the list after the reload delay
func (c *Controller) CreateWallet(ctx context.Context, form WalletForm) error {
	if !c.createWallet.enter() {
		return c.busy()
	}
	defer c.createWallet.leave()

	userID, err := strconv.ParseInt(strings.TrimSpace(form.UserID), 10, 64)
	if err != nil || userID <= 0 {
		return c.reject(ErrInvalidOwner, "Select an owner first!")
	}

	res := c.api.CreateWallet(ctx, domain.CreateWalletRequest{UserID: userID, Extra: form.Extra})
	if !res.OK() {
		c.logger.WithFields(logrus.Fields{"user_id": userID, "error": res.Err.Error()}).Error("Wallet creation failed")
		return res.Err
	}
	c.notifier.Notify(feedback.KindSuccess, fmt.Sprintf("Wallet #%d created successfully!", res.Value.ID))

	if err := c.sleep(ctx, c.reloadDelay); err != nil {
		return nil // Cancelled; the wallet was still created
	}
	_ = c.views.LoadWallets(ctx)
	return nil
}

func (c *Controller) DeleteWallet(ctx context.Context, id int64) error {
	res := c.api.DeleteWallet(ctx, id)
	if !res.OK() {
		return res.Err
	}
	c.notifier.Notify(feedback.KindSuccess, fmt.Sprintf("Wallet %d deleted", id))
	_ = c.views.LoadWallets(ctx)
	return nil
}

// CheckBalance fetches one wallet, updates the balance display and reloads the list
func (c *Controller) CheckBalance(ctx context.Context, id int64) error {
	if err := c.refreshBalance(ctx, id); err != nil {
		return err
	}
	_ = c.views.LoadWallets(ctx) // Always reload the list if visible
	return nil
}

// refreshBalance updates only the balance display
func (c *Controller) refreshBalance(ctx context.Context, id int64) error {
	res := c.api.GetWallet(ctx, id)
	if !res.OK() {
		return res.Err
	}
	c.views.ShowBalance(res.Value) // Replace the displayed balance
	c.notifier.Notify(feedback.KindSuccess, "Balance updated: $"+res.Value.Balance.String())
	return nil
}

// InspectedWallet returns the wallet shown in the balance display
func (c *Controller) InspectedWallet() (int64, bool) {
	return c.views.InspectedWallet()
}

// CheckBalanceInput handles the balance form: it inspects and fetches walletID
func (c *Controller) CheckBalanceInput(ctx context.Context, walletID string) error {
	if !c.checkBalance.enter() {
		return c.busy()
	}
	defer c.checkBalance.leave()

	id, ok := transfer.ParseWalletID(walletID)
	if !ok {
		return c.reject(ErrInvalidWalletID, "Invalid wallet ID!")
	}
	c.views.Inspect(id) // Later transfers and deposits refresh this wallet
	return c.CheckBalance(ctx, id)
}

// Deposit adds funds. When the wallet is the one on display its balance is
// refreshed; no full reload happens otherwise.
func (c *Controller) Deposit(ctx context.Context, form DepositForm) error {
	if !c.deposit.enter() {
		return c.busy()
	}
	defer c.deposit.leave()

	amount, ok := transfer.ParsePositiveAmount(form.Amount) // Amount is reported first
	if !ok {
		return c.reject(ErrInvalidAmount, "Deposit amount must be greater than 0!")
	}
	id, ok := transfer.ParseWalletID(form.WalletID)
	if !ok {
		return c.reject(ErrInvalidWalletID, "Invalid wallet ID!")
	}

	res := c.api.Deposit(ctx, id, amount)
	if !res.OK() {
		return res.Err
	}
	c.notifier.Notify(feedback.KindSuccess, fmt.Sprintf("Deposited $%s to Wallet #%d", amount.String(), id))

	// Refresh the balance on display, without reloading the list
	if inspected, ok := c.views.InspectedWallet(); ok && inspected == id {
		return c.refreshBalance(ctx, id)
	}
	return nil
}

// SelectWallet puts id in the balance form and in the transfer source
func (c *Controller) SelectWallet(id int64) {
	c.views.Inspect(id) // Balance form
	if c.form != nil {
		_ = c.form.SetField(transfer.FieldFrom, strconv.FormatInt(id, 10)) // Transfer source
	}
}

func (c *Controller) LoadTransactions(ctx context.Context) error {
	return c.views.LoadHistory(ctx)
}
