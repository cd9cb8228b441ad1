package ledgerfake

import (
	"net/http" // HTTP status codes
	"strconv"  // Path and query parsing
	"time"     // Log timestamps

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library

	"wallet_console/internal/domain" // Wire models
)

const (
	defaultLimit = 100  // Page size when limit is absent
	maxLimit     = 1000 // Upper bound on limit
)

// fail writes a store error as {"detail": ...}
func (s *Server) fail(c *gin.Context, err *Error) {
	// Log database failures with their cause
	if err.cause != nil {
		s.logger.WithFields(logrus.Fields{
			"path":  c.FullPath(),      // Route
			"error": err.cause.Error(), // Database error
		}).Error("Ledger database error")
	}
	c.JSON(err.Status, gin.H{"detail": err.Detail})
}

// invalid rejects a body that does not bind
func invalid(c *gin.Context) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "Invalid request"})
}

// pathID parses :id, writing a 422 when it is not an integer
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "Invalid id"})
		return 0, false
	}
	return id, true
}

// pagination reads skip and limit with their defaults
func pagination(c *gin.Context) (int, int) {
	skip, limit := 0, defaultLimit
	// If skip exists in query
	if v, err := strconv.Atoi(c.Query("skip")); err == nil && v > 0 {
		skip = v
	}
	// If limit exists in query and is within bounds
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 && v <= maxLimit {
		limit = v
	}
	return skip, limit
}

func (s *Server) listUsers(c *gin.Context) {
	skip, limit := pagination(c)
	items, err := s.store.ListUsers(skip, limit)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// createUserBody binds the fields the ledger keeps; extra form fields are ignored
type createUserBody struct {
	Username string `json:"username"` // Required, unique
	Email    string `json:"email"`    // Optional
}

func (s *Server) createUser(c *gin.Context) {
	var req createUserBody // Bind JSON request to struct
	if err := c.ShouldBindJSON(&req); err != nil {
		invalid(c)
		return
	}
	user, err := s.store.CreateUser(req.Username, req.Email)
	if err != nil {
		s.fail(c, err)
		return
	}
	// Log user creation
	s.logger.WithFields(logrus.Fields{
		"user_id":   user.ID,                      // User ID
		"username":  user.Username,                // Username
		"timestamp": s.now().Format(time.RFC3339), // Current timestamp
	}).Info("User created")
	c.JSON(http.StatusOK, user)
}

func (s *Server) deleteUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	user, err := s.store.DeleteUser(id)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.logger.WithFields(logrus.Fields{"user_id": id}).Info("User deleted") // Wallets went with it
	c.JSON(http.StatusOK, user)
}

func (s *Server) listWallets(c *gin.Context) {
	skip, limit := pagination(c)
	items, err := s.store.ListWallets(skip, limit)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// createWalletBody needs only the owner
type createWalletBody struct {
	UserID *int64 `json:"user_id"` // Owner; null or missing is rejected
}

func (s *Server) createWallet(c *gin.Context) {
	var req createWalletBody // Bind JSON request to struct
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == nil {
		invalid(c)
		return
	}
	wallet, err := s.store.CreateWallet(*req.UserID)
	if err != nil {
		// Log the failure with context
		s.logger.WithFields(logrus.Fields{
			"user_id": *req.UserID, // User ID
			"error":   err.Detail,  // Error message
		}).Error("Failed to create wallet")
		s.fail(c, err)
		return
	}
	// Log successful wallet creation
	s.logger.WithFields(logrus.Fields{
		"user_id":   wallet.UserID,                // User ID
		"wallet_id": wallet.ID,                    // Wallet ID
		"type":      "create_wallet",              // Operation
		"timestamp": s.now().Format(time.RFC3339), // Current timestamp
	}).Info("Wallet created")
	c.JSON(http.StatusOK, wallet)
}

func (s *Server) getWallet(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	wallet, err := s.store.GetWallet(id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, wallet)
}

func (s *Server) deleteWallet(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	wallet, err := s.store.DeleteWallet(id)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.logger.WithFields(logrus.Fields{"wallet_id": id}).Info("Wallet deleted")
	c.JSON(http.StatusOK, wallet)
}

func (s *Server) deposit(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req domain.DepositRequest // Bind JSON request to struct
	if err := c.ShouldBindJSON(&req); err != nil {
		invalid(c)
		return
	}
	wallet, err := s.store.Deposit(id, req.Amount)
	if err != nil {
		s.fail(c, err)
		return
	}
	// Log successful deposit
	s.logger.WithFields(logrus.Fields{
		"wallet_id": id,                           // Wallet ID
		"amount":    req.Amount.String(),          // Deposit amount
		"type":      "deposit",                    // Transaction type
		"timestamp": s.now().Format(time.RFC3339), // Current timestamp
	}).Info("Deposit transaction")
	c.JSON(http.StatusOK, wallet)
}

func (s *Server) transfer(c *gin.Context) {
	var req domain.TransferRequest // Bind JSON request to struct
	if err := c.ShouldBindJSON(&req); err != nil {
		invalid(c)
		return
	}
	tx, err := s.store.Transfer(req)
	if err != nil {
		// Log the error with context
		s.logger.WithFields(logrus.Fields{
			"from_wallet_id": req.FromWalletID,    // Sender wallet
			"to_wallet_id":   req.ToWalletID,      // Recipient wallet
			"amount":         req.Amount.String(), // Transfer amount
			"error":          err.Detail,          // Error message
		}).Error("Transfer failed")
		s.fail(c, err)
		return
	}
	// Log successful transfer
	s.logger.WithFields(logrus.Fields{
		"from_wallet_id": tx.FromWalletID,                   // Sender wallet
		"to_wallet_id":   tx.ToWalletID,                     // Recipient wallet
		"amount":         tx.Amount.String(),                // Transfer amount
		"type":           "transfer",                        // Transaction type
		"timestamp":      tx.Timestamp.Format(time.RFC3339), // Applied at
	}).Info("Transfer transaction")
	c.JSON(http.StatusOK, tx)
}

func (s *Server) batchTransfer(c *gin.Context) {
	var req domain.BatchTransferRequest // Bind JSON request to struct
	if err := c.ShouldBindJSON(&req); err != nil {
		invalid(c)
		return
	}
	txs, err := s.store.BatchTransfer(req)
	if err != nil {
		// Log the error with context
		s.logger.WithFields(logrus.Fields{
			"from_wallet_id": req.FromWalletID,   // Sender wallet
			"recipients":     len(req.Transfers), // Recipient count
			"error":          err.Detail,         // Error message
		}).Error("Batch transfer failed")
		s.fail(c, err)
		return
	}
	// Log successful batch
	s.logger.WithFields(logrus.Fields{
		"from_wallet_id": req.FromWalletID,     // Sender wallet
		"recipients":     len(txs),             // Recipient count
		"total":          req.Total().String(), // Amount debited
		"type":           "batch_transfer",     // Transaction type
	}).Info("Batch transfer transaction")
	c.JSON(http.StatusOK, txs)
}

func (s *Server) history(c *gin.Context) {
	skip, limit := pagination(c)
	items, err := s.store.History(skip, limit)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}
