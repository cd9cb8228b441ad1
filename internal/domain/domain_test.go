package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmount_MarshalsAsNumber(t *testing.T) {
	t.Parallel()

	req := TransferRequest{FromWalletID: 5, ToWalletID: 6, Amount: AmountFromFloat(10)}
	b, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"from_wallet_id":5,"to_wallet_id":6,"amount":10}`, string(b))
}

func TestAmount_UnmarshalNumberAndString(t *testing.T) {
	t.Parallel()

	var w Wallet
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"user_id":2,"balance":12.5}`), &w))
	assert.Equal(t, "$12.50", w.Balance.Dollars())

	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"user_id":2,"balance":"3.1"}`), &w))
	assert.Equal(t, "$3.10", w.Balance.Dollars())
}

func TestParseAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "10", want: "10"},
		{in: "0.01", want: "0.01"},
		{in: "-3", want: "-3"},
		{in: "abc", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()

			a, err := ParseAmount(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, a.String())
		})
	}
}

func TestBatchTransferRequest_Total(t *testing.T) {
	t.Parallel()

	b := BatchTransferRequest{
		FromWalletID: 5,
		Transfers: []BatchEntry{
			{ToWalletID: 6, Amount: AmountFromFloat(10)},
			{ToWalletID: 7, Amount: AmountFromFloat(20.25)},
		},
	}
	assert.Equal(t, "30.25", b.Total().String())
}

func TestTimestamp_Layouts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"rfc3339", `"2024-03-01T10:20:30Z"`, time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC)},
		{"no zone", `"2024-03-01T10:20:30.5"`, time.Date(2024, 3, 1, 10, 20, 30, 500000000, time.UTC)},
		{"space separated", `"2024-03-01 10:20:30"`, time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC)},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tc.in), &ts))
			assert.True(t, tc.want.Equal(ts.Time), "got %s", ts.Time)
		})
	}

	var ts Timestamp
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
}

func TestCreateRequests_FlattenExtra(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(CreateUserRequest{
		Username: "alice",
		Email:    "a@example.com",
		Extra:    map[string]string{"full_name": "Alice", "username": "ignored"},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"username":"alice","email":"a@example.com","full_name":"Alice"}`, string(b))

	b, err = json.Marshal(CreateWalletRequest{UserID: 3})
	require.NoError(t, err)
	assert.JSONEq(t, `{"user_id":3}`, string(b))
}
