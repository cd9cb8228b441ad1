package domain

// Transaction Model (read-only, produced by the server)
type Transaction struct {
	ID           int64     `json:"id"`             // Primary key
	Timestamp    Timestamp `json:"timestamp"`      // Time the transfer was applied
	FromWalletID int64     `json:"from_wallet_id"` // Sender wallet
	ToWalletID   int64     `json:"to_wallet_id"`   // Receiver wallet
	Amount       Amount    `json:"amount"`         // Amount moved
}

// TransferRequest is a single transfer between two wallets
type TransferRequest struct {
	FromWalletID int64  `json:"from_wallet_id"` // Source wallet
	ToWalletID   int64  `json:"to_wallet_id"`   // Destination wallet
	Amount       Amount `json:"amount"`         // Positive amount
}

// BatchEntry is one recipient of a batch transfer
type BatchEntry struct {
	ToWalletID int64  `json:"to_wallet_id"` // Recipient wallet
	Amount     Amount `json:"amount"`       // Positive amount
}

// BatchTransferRequest disburses from one wallet to several recipients in one call
type BatchTransferRequest struct {
	FromWalletID int64        `json:"from_wallet_id"` // Source wallet
	Transfers    []BatchEntry `json:"transfers"`      // Recipients in declared order
}

// Total returns the sum of all recipient amounts
func (b BatchTransferRequest) Total() Amount {
	var total Amount
	for _, t := range b.Transfers {
		total = Amount{total.Add(t.Amount.Decimal)}
	}
	return total
}
