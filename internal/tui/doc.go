// Package tui is the terminal front end of the ledger console. It renders the
// view state, forwards key presses to the console commands and the transfer
// form, and reports which listings are on screen so reloads of hidden ones
// are skipped.
package tui
