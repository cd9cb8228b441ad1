package ledgerfake

import (
	"fmt" // Error wrapping

	"github.com/glebarez/sqlite" // Pure Go SQLite dialector for GORM
	"github.com/google/uuid"     // Unique in-memory database names
	"gorm.io/driver/mysql"       // MySQL driver for GORM
	"gorm.io/gorm"               // GORM ORM library
	"gorm.io/gorm/logger"        // GORM logger levels
)

// OpenMySQL connects to a MySQL ledger database
func OpenMySQL(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{}) // Open a connection to the database
	if err != nil {
		return nil, fmt.Errorf("cannot connect database: %w", err)
	}
	return db, nil
}

// OpenMemory opens a private in-memory SQLite database
func OpenMemory() (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:ledger-%s?mode=memory&cache=shared", uuid.NewString()) // One database per call
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // Keep SQL out of test output
	})
	if err != nil {
		return nil, fmt.Errorf("cannot open in-memory database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("cannot access connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(1) // The memory database lives on this connection
	return db, nil
}

// Migrate creates or updates the ledger tables
func Migrate(db *gorm.DB) error {
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	if err := db.AutoMigrate(&userRecord{}, &walletRecord{}, &transactionRecord{}); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}
