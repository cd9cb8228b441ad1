package gateway

import (
	"context"       // Request cancellation
	"encoding/json" // Raw bodies
	"fmt"           // Path building
	"net/http"      // Method names

	"wallet_console/internal/domain" // Wire models
)

// ListUsers calls GET /users/
func (c *Client) ListUsers(ctx context.Context) Result[[]domain.User] {
	return call[[]domain.User](ctx, c, http.MethodGet, "/users/", nil)
}

// CreateUser calls POST /users/
func (c *Client) CreateUser(ctx context.Context, req domain.CreateUserRequest) Result[domain.User] {
	return call[domain.User](ctx, c, http.MethodPost, "/users/", req)
}

// DeleteUser calls DELETE /users/{id}; the server also removes the user's wallets
func (c *Client) DeleteUser(ctx context.Context, id int64) Result[json.RawMessage] {
	return call[json.RawMessage](ctx, c, http.MethodDelete, fmt.Sprintf("/users/%d", id), nil)
}

// ListWallets calls GET /wallets/
func (c *Client) ListWallets(ctx context.Context) Result[[]domain.Wallet] {
	return call[[]domain.Wallet](ctx, c, http.MethodGet, "/wallets/", nil)
}

// CreateWallet calls POST /wallets/
func (c *Client) CreateWallet(ctx context.Context, req domain.CreateWalletRequest) Result[domain.Wallet] {
	return call[domain.Wallet](ctx, c, http.MethodPost, "/wallets/", req)
}

// GetWallet calls GET /wallets/{id}
func (c *Client) GetWallet(ctx context.Context, id int64) Result[domain.Wallet] {
	return call[domain.Wallet](ctx, c, http.MethodGet, fmt.Sprintf("/wallets/%d", id), nil)
}

// DeleteWallet calls DELETE /wallets/{id}
func (c *Client) DeleteWallet(ctx context.Context, id int64) Result[json.RawMessage] {
	return call[json.RawMessage](ctx, c, http.MethodDelete, fmt.Sprintf("/wallets/%d", id), nil)
}

// Deposit calls POST /wallets/{id}/deposit. The body is an updated wallet or an ack.
func (c *Client) Deposit(ctx context.Context, id int64, amount domain.Amount) Result[json.RawMessage] {
	return call[json.RawMessage](ctx, c, http.MethodPost, fmt.Sprintf("/wallets/%d/deposit", id), domain.DepositRequest{Amount: amount})
}

// Transfer calls POST /transfer/
func (c *Client) Transfer(ctx context.Context, req domain.TransferRequest) Result[domain.Transaction] {
	return call[domain.Transaction](ctx, c, http.MethodPost, "/transfer/", req)
}

// BatchTransfer calls POST /transfer/batch
func (c *Client) BatchTransfer(ctx context.Context, req domain.BatchTransferRequest) Result[[]domain.Transaction] {
	return call[[]domain.Transaction](ctx, c, http.MethodPost, "/transfer/batch", req)
}

// History calls GET /transfer/history
func (c *Client) History(ctx context.Context) Result[[]domain.Transaction] {
	return call[[]domain.Transaction](ctx, c, http.MethodGet, "/transfer/history", nil)
}
