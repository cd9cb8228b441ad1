package ledgerfake

import (
	"time" // Transaction timestamps

	"github.com/shopspring/decimal" // Balances

	"wallet_console/internal/domain" // Wire models
)

// userRecord is the users table
type userRecord struct {
	ID       int64  `gorm:"primaryKey"`                    // Primary key
	Username string `gorm:"size:191;uniqueIndex;not null"` // Unique username
	Email    string `gorm:"size:191"`                      // Contact email
}

func (userRecord) TableName() string { return "users" }

func (r userRecord) toUser() domain.User {
	return domain.User{ID: r.ID, Username: r.Username, Email: r.Email}
}

// walletRecord is the wallets table
type walletRecord struct {
	ID      int64           `gorm:"primaryKey"`                            // Primary key
	UserID  int64           `gorm:"index;not null"`                        // Foreign key to User
	Balance decimal.Decimal `gorm:"type:decimal(20,8);not null;default:0"` // Wallet balance
	Status  string          `gorm:"size:16;not null;default:active"`       // active or inactive
}

func (walletRecord) TableName() string { return "wallets" }

func (r walletRecord) toWallet() domain.Wallet {
	return domain.Wallet{ID: r.ID, UserID: r.UserID, Balance: domain.NewAmount(r.Balance), Status: r.Status}
}

// transactionRecord is the transactions table
type transactionRecord struct {
	ID           int64           `gorm:"primaryKey"`                  // Primary key
	FromWalletID int64           `gorm:"index;not null"`              // Sender wallet
	ToWalletID   int64           `gorm:"index;not null"`              // Receiver wallet
	Amount       decimal.Decimal `gorm:"type:decimal(20,8);not null"` // Amount moved
	CreatedAt    time.Time                                            // Applied at
}

func (transactionRecord) TableName() string { return "transactions" }

func (r transactionRecord) toTransaction() domain.Transaction {
	return domain.Transaction{
		ID:           r.ID,
		Timestamp:    domain.Timestamp{Time: r.CreatedAt.UTC()},
		FromWalletID: r.FromWalletID,
		ToWalletID:   r.ToWalletID,
		Amount:       domain.NewAmount(r.Amount),
	}
}
