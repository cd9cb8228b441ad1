// Package gateway is the single way the console talks to the ledger API.
//
// Every call returns a Result: either a decoded value or a classified *Error.
// Nothing here panics or retries; a failed call is final and is reported to
// the caller, to the notice board and to the session log.
package gateway
