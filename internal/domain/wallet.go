package domain

import "encoding/json" // JSON encoding for the create payload

// Wallet Model
type Wallet struct {
	ID      int64  `json:"id"`               // Server-assigned identifier
	UserID  int64  `json:"user_id"`          // Owning user (reference only)
	Balance Amount `json:"balance"`          // Server-authoritative balance
	Status  string `json:"status,omitempty"` // Wallet status reported by the server
}

// CreateWalletRequest is the payload for POST /wallets/
type CreateWalletRequest struct {
	UserID int64             // Owner user ID
	Extra  map[string]string // Additional form fields
}

// MarshalJSON flattens Extra next to user_id
func (r CreateWalletRequest) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Extra)+1)
	for k, v := range r.Extra {
		out[k] = v
	}
	out["user_id"] = r.UserID // Always sent as an integer
	return json.Marshal(out)
}

// DepositRequest is the payload for POST /wallets/{id}/deposit
type DepositRequest struct {
	Amount Amount `json:"amount"` // Deposit amount
}
