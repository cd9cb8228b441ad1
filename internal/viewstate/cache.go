package viewstate

import (
	"cmp"     // Wallet ordering
	"context" // Request cancellation
	"fmt"     // Fallback names
	"slices"  // Copies handed to renderers
	"sync"    // State lock
	"time"    // History time zone

	"wallet_console/internal/domain"  // Wire models
	"wallet_console/internal/gateway" // Ledger results
)

// Source is the read side of the ledger gateway
type Source interface {
	ListUsers(ctx context.Context) gateway.Result[[]domain.User]
	ListWallets(ctx context.Context) gateway.Result[[]domain.Wallet]
	History(ctx context.Context) gateway.Result[[]domain.Transaction]
}

// Surfaces tells the cache which listings are currently on screen
type Surfaces interface {
	WantsUsers() bool   // user list or an owner selector is shown
	WantsWallets() bool // wallet list is shown
	WantsHistory() bool // history table is shown
}

// AllSurfaces reports every listing as visible
type AllSurfaces struct{}

func (AllSurfaces) WantsUsers() bool   { return true }
func (AllSurfaces) WantsWallets() bool { return true }
func (AllSurfaces) WantsHistory() bool { return true }

// Cache owns the console's view state
type Cache struct {
	src      Source         // Ledger reads
	surfaces Surfaces       // Which listings are on screen
	loc      *time.Location // Zone for history timestamps

	mu            sync.Mutex
	users         []domain.User    // Last fetched users
	usersStatus   ListStatus       // User list state
	selectedOwner string           // Owner selector value, "" for none
	wallets       []WalletRow      // Wallets, highest ID first
	walletsStatus ListStatus       // Wallet list state
	history       []TransactionRow // Transactions as the ledger ordered them
	historyStatus ListStatus       // History state
	inspected     int64            // Wallet in the balance form, 0 for none
	balance       *BalanceDisplay  // Last fetched balance, nil before the first check
}

// CacheOption configures a Cache
type CacheOption func(*Cache)

// WithLocation sets the zone used to format history timestamps
func WithLocation(loc *time.Location) CacheOption {
	return func(c *Cache) { c.loc = loc }
}

func New(src Source, surfaces Surfaces, opts ...CacheOption) *Cache {
	if surfaces == nil {
		surfaces = AllSurfaces{} // Load everything
	}
	c := &Cache{src: src, surfaces: surfaces, loc: time.Local}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LoadUsers refetches the user collection when something on screen needs it
func (c *Cache) LoadUsers(ctx context.Context) error {
	if !c.surfaces.WantsUsers() {
		return nil // Nothing on screen needs users
	}
	return c.Refresh(ctx)
}

// Refresh fetches the full user collection and replaces the cache
func (c *Cache) Refresh(ctx context.Context) error {
	res := c.src.ListUsers(ctx)
	if !res.OK() {
		return res.Err // Keep the previous users
	}
	c.mu.Lock()
	c.setUsersLocked(res.Value)
	c.mu.Unlock()
	return nil
}

// Invalidate forgets cached users so the next wallet load fetches them again
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.users = nil // Forces a fetch on the next wallet load
	c.usersStatus = StatusIdle
}

func (c *Cache) setUsersLocked(users []domain.User) {
	c.users = users
	c.usersStatus = StatusReady
	if len(users) == 0 {
		c.usersStatus = StatusEmpty
	}
	// Drop a selection whose user is gone
	if c.selectedOwner != "" && !c.hasOwnerLocked(c.selectedOwner) {
		c.selectedOwner = ""
	}
}

func (c *Cache) hasOwnerLocked(value string) bool {
	for _, u := range c.users {
		if ownerOption(u).Value == value {
			return true
		}
	}
	return false
}

// Users returns the cached users
func (c *Cache) Users() []domain.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.users)
}

// UserName resolves a display name, falling back to "User N"
func (c *Cache) UserName(id int64) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.userNameLocked(id)
}

func (c *Cache) userNameLocked(id int64) string {
	for _, u := range c.users {
		if u.ID == id {
			return u.Username
		}
	}
	return fmt.Sprintf("User %d", id) // Owner not cached
}

// SelectOwner records the owner selector value
func (c *Cache) SelectOwner(value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selectedOwner = value
}

// LoadWallets refetches the wallet list when it is on screen. Users are
// fetched first only if the cache is empty; names may be stale otherwise.
func (c *Cache) LoadWallets(ctx context.Context) error {
	if !c.surfaces.WantsWallets() {
		return nil // Wallet list not on screen
	}

	c.mu.Lock()
	c.walletsStatus = StatusLoading
	needUsers := len(c.users) == 0 // Owner names come from the user cache
	c.mu.Unlock()

	if needUsers {
		// A failed user fetch still lets the wallets load, with fallback names
		if res := c.src.ListUsers(ctx); res.OK() {
			c.mu.Lock()
			c.setUsersLocked(res.Value)
			c.mu.Unlock()
		}
	}

	res := c.src.ListWallets(ctx)
	if !res.OK() {
		c.mu.Lock()
		c.walletsStatus = StatusFailed
		c.mu.Unlock()
		return res.Err
	}

	wallets := slices.Clone(res.Value)
	slices.SortStableFunc(wallets, func(a, b domain.Wallet) int { return cmp.Compare(b.ID, a.ID) }) // Newest wallet first

	c.mu.Lock()
	defer c.mu.Unlock()
	rows := make([]WalletRow, len(wallets))
	for i, w := range wallets {
		rows[i] = WalletRow{Index: i + 1, Wallet: w, Owner: c.userNameLocked(w.UserID)}
	}
	c.wallets = rows
	c.walletsStatus = StatusReady
	if len(rows) == 0 {
		c.walletsStatus = StatusEmpty
	}
	return nil
}

// LoadHistory refetches the transaction history when it is on screen
func (c *Cache) LoadHistory(ctx context.Context) error {
	if !c.surfaces.WantsHistory() {
		return nil // History not on screen
	}

	c.mu.Lock()
	c.historyStatus = StatusLoading
	c.mu.Unlock()

	res := c.src.History(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !res.OK() {
		c.historyStatus = StatusFailed
		return res.Err
	}
	rows := make([]TransactionRow, len(res.Value))
	for i, t := range res.Value {
		rows[i] = TransactionRow{Transaction: t, When: t.Timestamp.In(c.loc).Format(historyLayout)} // Local wall clock
	}
	c.history = rows
	c.historyStatus = StatusReady
	if len(rows) == 0 {
		c.historyStatus = StatusEmpty
	}
	return nil
}

// Inspect marks id as the wallet the user is looking at
func (c *Cache) Inspect(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inspected = id
}

// InspectedWallet returns the wallet id in the balance form, if any
func (c *Cache) InspectedWallet() (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inspected, c.inspected > 0
}

// ShowBalance updates the balance display with a freshly fetched wallet
func (c *Cache) ShowBalance(w domain.Wallet) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.balance = &BalanceDisplay{WalletID: w.ID, Balance: w.Balance} // Replaces the previous display
}

// Snapshot copies the current state for rendering
func (c *Cache) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	users := make([]UserRow, len(c.users))
	options := make([]Option, len(c.users))
	for i, u := range c.users {
		users[i] = UserRow{Index: i + 1, User: u}
		options[i] = ownerOption(u)
	}
	var balance *BalanceDisplay
	if c.balance != nil {
		b := *c.balance // Renderers get their own copy
		balance = &b
	}
	return Snapshot{
		UserCount:     len(c.users),
		Users:         users,
		UsersStatus:   c.usersStatus,
		OwnerOptions:  options,
		SelectedOwner: c.selectedOwner,
		Wallets:       slices.Clone(c.wallets),
		WalletsStatus: c.walletsStatus,
		History:       slices.Clone(c.history),
		HistoryStatus: c.historyStatus,
		Balance:       balance,
		Inspected:     c.inspected,
	}
}
