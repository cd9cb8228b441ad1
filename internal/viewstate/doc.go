// Package viewstate holds what the console shows: the user cache, the wallet
// and history listings, the owner selector and the balance display.
//
// The cache is owned by a Cache value and only changes after a ledger call
// completes. It is a read-through snapshot; the ledger stays authoritative.
package viewstate
