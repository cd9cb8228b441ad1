// Package ledgerfake is a development ledger served over gin under /api/v1.
// Its store runs on GORM: MySQL when a DSN is configured, otherwise a private
// in-memory SQLite database, which is what the integration tests use. It is
// not a production ledger.
package ledgerfake
