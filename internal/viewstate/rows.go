package viewstate

import (
	"fmt"     // Cell formatting
	"strconv" // Selector values

	"wallet_console/internal/domain" // Wire models
)

// ListStatus is the state of one listing
type ListStatus int

const (
	StatusIdle    ListStatus = iota // Never loaded
	StatusLoading                   // Request in flight
	StatusFailed                    // Last load failed
	StatusEmpty                     // Loaded, no rows
	StatusReady                     // Loaded with rows
)

// UserRow is one line of the user list
type UserRow struct {
	Index int         // 1-based position
	User  domain.User // Listed user
}

func (r UserRow) Badge() string { return fmt.Sprintf("ID: %d", r.User.ID) }

// Option is one entry of the owner selector
type Option struct {
	Value string // User ID
	Label string // "name (ID: n)"
}

func ownerOption(u domain.User) Option {
	return Option{
		Value: strconv.FormatInt(u.ID, 10),
		Label: fmt.Sprintf("%s (ID: %d)", u.Username, u.ID),
	}
}

// WalletRow is one line of the wallet list
type WalletRow struct {
	Index  int           // 1-based position
	Wallet domain.Wallet // Listed wallet
	Owner  string        // username, or "User N" when unknown
}

func (r WalletRow) Title() string { return fmt.Sprintf("#%d   Wallet %d", r.Index, r.Wallet.ID) }

// TransactionRow is one line of the history table
type TransactionRow struct {
	Transaction domain.Transaction // Listed transaction
	When        string             // Formatted local timestamp
}

func (r TransactionRow) Cells() [5]string {
	t := r.Transaction
	return [5]string{
		fmt.Sprintf("#%d", t.ID),
		r.When,
		fmt.Sprintf("Wallet %d", t.FromWalletID),
		fmt.Sprintf("Wallet %d", t.ToWalletID),
		t.Amount.Dollars(),
	}
}

// BalanceDisplay is the last balance fetched for the inspected wallet
type BalanceDisplay struct {
	WalletID int64         // Inspected wallet
	Balance  domain.Amount // Balance at fetch time
}

func (b BalanceDisplay) Text() string { return b.Balance.Dollars() }

// historyLayout renders timestamps like en-US with a 12-hour clock
const historyLayout = "01/02/2006, 03:04:05 PM"
