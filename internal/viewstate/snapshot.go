package viewstate

// Snapshot is an immutable copy of everything a renderer needs
type Snapshot struct {
	UserCount     int              // Shown in the header badge
	Users         []UserRow        // User list
	UsersStatus   ListStatus       // User list state
	OwnerOptions  []Option         // Owner selector entries
	SelectedOwner string           // Owner selector value
	Wallets       []WalletRow      // Wallet list
	WalletsStatus ListStatus       // Wallet list state
	History       []TransactionRow // History table
	HistoryStatus ListStatus       // History state
	Balance       *BalanceDisplay  // nil until a balance is checked
	Inspected     int64            // Wallet in the balance form
}

// UsersMessage is the placeholder line for the user list, or "" when rows exist
func (s Snapshot) UsersMessage() string {
	if len(s.Users) == 0 {
		return "No users found. Create one to get started."
	}
	return ""
}

func (s Snapshot) WalletsMessage() string {
	switch s.WalletsStatus {
	case StatusLoading:
		return "Loading..."
	case StatusFailed:
		return "Failed to load wallets."
	case StatusEmpty, StatusIdle:
		return "No wallets found. Create one to get started."
	}
	return ""
}

func (s Snapshot) HistoryMessage() string {
	switch s.HistoryStatus {
	case StatusLoading:
		return "Loading..."
	case StatusFailed:
		return "Failed to load logs."
	case StatusEmpty, StatusIdle:
		return "No transactions found."
	}
	return ""
}
