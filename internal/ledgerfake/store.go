package ledgerfake

import (
	"errors"   // Unwrapping store errors out of GORM transactions
	"fmt"      // Error details
	"net/http" // Status codes carried by store errors
	"sync"     // Serializes check-then-write sequences
	"time"     // Transaction timestamps

	"gorm.io/gorm" // GORM ORM library

	"wallet_console/internal/domain" // Wire models
)

// Error is a ledger failure rendered as {"detail": ...}
type Error struct {
	Status int    // HTTP status
	Detail string // Human readable detail
	cause  error  // Underlying database error, if any
}

func (e *Error) Error() string { return e.Detail }

func notFound(format string, args ...any) *Error {
	return &Error{Status: http.StatusNotFound, Detail: fmt.Sprintf(format, args...)}
}

func badRequest(format string, args ...any) *Error {
	return &Error{Status: http.StatusBadRequest, Detail: fmt.Sprintf(format, args...)}
}

// dbError hides a database failure behind a 500
func dbError(err error) *Error {
	var se *Error
	if errors.As(err, &se) {
		return se // Already a ledger error returned from inside a transaction
	}
	return &Error{Status: http.StatusInternalServerError, Detail: "Internal server error", cause: err}
}

// Store keeps users, wallets and transactions in a GORM database
type Store struct {
	db  *gorm.DB
	now func() time.Time
	mu  sync.Mutex // One mutation at a time
}

// NewStore migrates db and returns a store stamping transactions with now
func NewStore(db *gorm.DB, now func() time.Time) (*Store, error) {
	if now == nil {
		now = time.Now
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return &Store{db: db, now: now}, nil
}

// Close releases the underlying connection pool
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) ListUsers(skip, limit int) ([]domain.User, *Error) {
	var recs []userRecord
	if err := s.db.Order("id").Offset(skip).Limit(limit).Find(&recs).Error; err != nil {
		return nil, dbError(err)
	}
	out := make([]domain.User, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.toUser())
	}
	return out, nil
}

// CreateUser registers a user; usernames are unique
func (s *Store) CreateUser(username, email string) (domain.User, *Error) {
	if username == "" {
		return domain.User{}, &Error{Status: http.StatusUnprocessableEntity, Detail: "Username is required"}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	if err := s.db.Model(&userRecord{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return domain.User{}, dbError(err)
	}
	if count > 0 {
		return domain.User{}, badRequest("Username already registered")
	}
	rec := userRecord{Username: username, Email: email}
	if err := s.db.Create(&rec).Error; err != nil {
		return domain.User{}, dbError(err)
	}
	return rec.toUser(), nil
}

// DeleteUser removes a user together with its wallets
func (s *Store) DeleteUser(id int64) (domain.User, *Error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rec userRecord
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&rec, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("User not found")
			}
			return err
		}
		// Cascade to the user's wallets
		if err := tx.Where("user_id = ?", id).Delete(&walletRecord{}).Error; err != nil {
			return err // Return error to rollback
		}
		return tx.Delete(&rec).Error
	})
	if err != nil {
		return domain.User{}, dbError(err)
	}
	return rec.toUser(), nil
}

func (s *Store) ListWallets(skip, limit int) ([]domain.Wallet, *Error) {
	var recs []walletRecord
	if err := s.db.Order("id").Offset(skip).Limit(limit).Find(&recs).Error; err != nil {
		return nil, dbError(err)
	}
	out := make([]domain.Wallet, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.toWallet())
	}
	return out, nil
}

// CreateWallet opens an active wallet with a zero balance
func (s *Store) CreateWallet(userID int64) (domain.Wallet, *Error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var owner userRecord
	if err := s.db.First(&owner, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Wallet{}, notFound("User not found")
		}
		return domain.Wallet{}, dbError(err)
	}
	rec := walletRecord{UserID: userID, Status: "active"}
	if err := s.db.Create(&rec).Error; err != nil {
		return domain.Wallet{}, dbError(err)
	}
	return s.GetWallet(rec.ID) // Read back the defaulted balance
}

// findWallet loads one wallet, reporting missing as a 404 with detail
func findWallet(tx *gorm.DB, id int64, missing string) (walletRecord, error) {
	var rec walletRecord
	if err := tx.First(&rec, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return rec, notFound("%s", missing)
		}
		return rec, err
	}
	return rec, nil
}

func (s *Store) GetWallet(id int64) (domain.Wallet, *Error) {
	rec, err := findWallet(s.db, id, "Wallet not found")
	if err != nil {
		return domain.Wallet{}, dbError(err)
	}
	return rec.toWallet(), nil
}

func (s *Store) DeleteWallet(id int64) (domain.Wallet, *Error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := findWallet(s.db, id, "Wallet not found")
	if err != nil {
		return domain.Wallet{}, dbError(err)
	}
	if err := s.db.Delete(&rec).Error; err != nil {
		return domain.Wallet{}, dbError(err)
	}
	return rec.toWallet(), nil
}

// Deposit credits a wallet and returns it updated
func (s *Store) Deposit(id int64, amount domain.Amount) (domain.Wallet, *Error) {
	if !amount.IsPositive() {
		return domain.Wallet{}, badRequest("Deposit amount must be greater than 0")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var rec walletRecord
	err := s.db.Transaction(func(tx *gorm.DB) error {
		w, err := findWallet(tx, id, "Wallet not found")
		if err != nil {
			return err
		}
		if err := tx.Model(&w).Update("balance", gorm.Expr("balance + ?", amount.Decimal)).Error; err != nil {
			return err // Return error to rollback
		}
		rec, err = findWallet(tx, id, "Wallet not found") // Read back the new balance
		return err
	})
	if err != nil {
		return domain.Wallet{}, dbError(err)
	}
	return rec.toWallet(), nil
}

// findSender returns the active source wallet
func findSender(tx *gorm.DB, id int64) (walletRecord, error) {
	w, err := findWallet(tx, id, "Sender wallet not found")
	if err != nil {
		return w, err
	}
	if w.Status != "active" {
		return w, badRequest("Sender wallet inactive")
	}
	return w, nil
}

// move debits from, credits to and records the transaction
func (s *Store) move(tx *gorm.DB, from, to walletRecord, amount domain.Amount) (transactionRecord, error) {
	// Deduct from sender
	if err := tx.Model(&from).Update("balance", gorm.Expr("balance - ?", amount.Decimal)).Error; err != nil {
		return transactionRecord{}, err
	}
	// Add to recipient
	if err := tx.Model(&to).Update("balance", gorm.Expr("balance + ?", amount.Decimal)).Error; err != nil {
		return transactionRecord{}, err
	}
	t := transactionRecord{
		FromWalletID: from.ID,        // Sender wallet
		ToWalletID:   to.ID,          // Receiver wallet
		Amount:       amount.Decimal, // Transfer amount
		CreatedAt:    s.now().UTC(),  // Applied at
	}
	if err := tx.Create(&t).Error; err != nil {
		return transactionRecord{}, err
	}
	return t, nil
}

// Transfer moves amount between two wallets
func (s *Store) Transfer(req domain.TransferRequest) (domain.Transaction, *Error) {
	if !req.Amount.IsPositive() {
		return domain.Transaction{}, badRequest("Transfer amount must be greater than 0")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var rec transactionRecord
	// Atomic transfer
	err := s.db.Transaction(func(tx *gorm.DB) error {
		from, err := findSender(tx, req.FromWalletID)
		if err != nil {
			return err
		}
		to, err := findWallet(tx, req.ToWalletID, "Receiver wallet not found")
		if err != nil {
			return err
		}
		// Check sufficient funds
		if from.Balance.LessThan(req.Amount.Decimal) {
			return badRequest("Insufficient funds")
		}
		rec, err = s.move(tx, from, to, req.Amount)
		return err
	})
	if err != nil {
		return domain.Transaction{}, dbError(err)
	}
	return rec.toTransaction(), nil
}

// BatchTransfer applies every entry or none of them
func (s *Store) BatchTransfer(req domain.BatchTransferRequest) ([]domain.Transaction, *Error) {
	if len(req.Transfers) == 0 {
		return nil, badRequest("Batch must contain at least one transfer")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		from, err := findSender(tx, req.FromWalletID)
		if err != nil {
			return err
		}
		for i, t := range req.Transfers {
			if !t.Amount.IsPositive() {
				return badRequest("Recipient %d: Amount must be greater than 0", i+1)
			}
		}
		receivers := make([]walletRecord, len(req.Transfers))
		for i, t := range req.Transfers {
			w, err := findWallet(tx, t.ToWalletID, fmt.Sprintf("Receiver %d not found", t.ToWalletID)) // Checked before any balance moves
			if err != nil {
				return err
			}
			receivers[i] = w
		}
		total := req.Total()
		if from.Balance.LessThan(total.Decimal) {
			return badRequest("Insufficient funds for batch. Required: %s, Available: %s", total.String(), from.Balance.String())
		}

		out = make([]domain.Transaction, 0, len(req.Transfers))
		for i, t := range req.Transfers {
			rec, err := s.move(tx, from, receivers[i], t.Amount)
			if err != nil {
				return err // Return error to rollback the whole batch
			}
			out = append(out, rec.toTransaction())
		}
		return nil
	})
	if err != nil {
		return nil, dbError(err)
	}
	return out, nil
}

// History lists transactions newest first
func (s *Store) History(skip, limit int) ([]domain.Transaction, *Error) {
	var recs []transactionRecord
	if err := s.db.Order("id desc").Offset(skip).Limit(limit).Find(&recs).Error; err != nil {
		return nil, dbError(err)
	}
	out := make([]domain.Transaction, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.toTransaction())
	}
	return out, nil
}
