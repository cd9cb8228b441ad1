// Package transfer builds, validates and submits wallet transfers.
//
// An Orchestrator owns the transfer form. It runs in one of two modes:
// Single (one destination) or Batch (a payroll of 2 to 10 recipients whose
// fields are generated from the recipient count). Validation is local and
// fail-fast; nothing is sent until every field passes. The ledger is trusted
// to apply a batch atomically.
package transfer
