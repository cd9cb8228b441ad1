// Package console exposes the named operations a view layer can invoke:
// user and wallet management, deposits, balance checks and history. Each
// operation performs one ledger call and then reconciles the view state in a
// fixed order.
package console
