package transfer

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSingle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		from, to   string
		amount     string
		wantReason Reason
		wantText   string
	}{
		{name: "zero amount", from: "1", to: "2", amount: "0", wantReason: ReasonAmount, wantText: "Amount must be greater than 0!"},
		{name: "negative amount", from: "1", to: "2", amount: "-5", wantReason: ReasonAmount},
		{name: "non-numeric amount", from: "1", to: "2", amount: "ten", wantReason: ReasonAmount},
		{name: "empty amount", from: "1", to: "2", amount: "", wantReason: ReasonAmount},
		{name: "self transfer", from: "3", to: "3", amount: "10", wantReason: ReasonSelfTransfer, wantText: "Cannot transfer to self!"},
		{name: "bad source", from: "x", to: "3", amount: "10", wantReason: ReasonSourceWallet},
		{name: "bad destination", from: "3", to: "", amount: "10", wantReason: ReasonWalletID},
		{name: "amount checked before ids", from: "3", to: "3", amount: "0", wantReason: ReasonAmount},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := ValidateSingle(tc.from, tc.to, tc.amount)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.wantReason, verr.Reason)
			assert.Equal(t, 0, verr.Recipient)
			if tc.wantText != "" {
				assert.Equal(t, tc.wantText, verr.Error())
			}
		})
	}
}

func TestValidateSingle_Valid(t *testing.T) {
	t.Parallel()

	req, err := ValidateSingle(" 5 ", "6", "12.50")
	require.NoError(t, err)
	b, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"from_wallet_id":5,"to_wallet_id":6,"amount":12.5}`, string(b))
}

func TestValidateBatch_Rejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		from          string
		recipients    []Recipient
		wantRecipient int
		wantReason    Reason
		wantText      string
	}{
		{
			name:       "single recipient below minimum",
			from:       "5",
			recipients: []Recipient{{"5", "10"}},
			wantReason: ReasonRecipientCount,
			wantText:   "Number of recipients must be between 2 and 10!",
		},
		{
			name:       "eleven recipients",
			from:       "5",
			recipients: make([]Recipient, 11),
			wantReason: ReasonRecipientCount,
		},
		{
			name:          "duplicate at recipient 2",
			from:          "5",
			recipients:    []Recipient{{"6", "10"}, {"6", "20"}},
			wantRecipient: 2,
			wantReason:    ReasonDuplicate,
			wantText:      "Recipient 2: Duplicate wallet ID detected!",
		},
		{
			name:          "self transfer at recipient 1",
			from:          "5",
			recipients:    []Recipient{{"5", "10"}, {"6", "20"}},
			wantRecipient: 1,
			wantReason:    ReasonSelfTransfer,
			wantText:      "Recipient 1: Cannot transfer to sender wallet!",
		},
		{
			name:          "invalid amount at recipient 3",
			from:          "5",
			recipients:    []Recipient{{"6", "10"}, {"7", "20"}, {"8", "0"}},
			wantRecipient: 3,
			wantReason:    ReasonAmount,
			wantText:      "Recipient 3: Amount must be greater than 0!",
		},
		{
			name:          "non-numeric wallet at recipient 2",
			from:          "5",
			recipients:    []Recipient{{"6", "10"}, {"abc", "20"}},
			wantRecipient: 2,
			wantReason:    ReasonWalletID,
			wantText:      "Recipient 2: Invalid wallet ID!",
		},
		{
			name:          "first failure wins",
			from:          "5",
			recipients:    []Recipient{{"6", "10"}, {"", "-1"}, {"6", "10"}},
			wantRecipient: 2,
			wantReason:    ReasonAmount,
		},
		{
			name:          "amount checked before wallet id",
			from:          "5",
			recipients:    []Recipient{{"6", "1"}, {"5", "nope"}},
			wantRecipient: 2,
			wantReason:    ReasonAmount,
		},
		{
			name:       "invalid source",
			from:       "",
			recipients: []Recipient{{"6", "10"}, {"7", "20"}},
			wantReason: ReasonSourceWallet,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := ValidateBatch(tc.from, tc.recipients)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.True(t, IsValidation(err))
			assert.Equal(t, tc.wantRecipient, verr.Recipient)
			assert.Equal(t, tc.wantReason, verr.Reason)
			if tc.wantText != "" {
				assert.Equal(t, tc.wantText, verr.Error())
			}
		})
	}
}

func TestValidateBatch_KeepsOrder(t *testing.T) {
	t.Parallel()

	recipients := []Recipient{{"9", "1"}, {"7", "2"}, {"8", "3.25"}, {"6", "4"}}
	req, err := ValidateBatch("5", recipients)
	require.NoError(t, err)

	b, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"from_wallet_id":5,"transfers":[
		{"to_wallet_id":9,"amount":1},
		{"to_wallet_id":7,"amount":2},
		{"to_wallet_id":8,"amount":3.25},
		{"to_wallet_id":6,"amount":4}]}`, string(b))
}

func TestValidateBatch_AllSizesInRange(t *testing.T) {
	t.Parallel()

	for n := MinRecipients; n <= MaxRecipients; n++ {
		recipients := make([]Recipient, n)
		for i := range recipients {
			recipients[i] = Recipient{WalletID: itoa(100 + i), Amount: "1"}
		}
		req, err := ValidateBatch("1", recipients)
		require.NoError(t, err, "n=%d", n)
		assert.Len(t, req.Transfers, n)
	}
}

func TestParseHelpers(t *testing.T) {
	t.Parallel()

	_, ok := ParseWalletID("0")
	assert.False(t, ok)
	_, ok = ParseWalletID("6.5")
	assert.False(t, ok)
	id, ok := ParseWalletID("42")
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)

	n, ok := ParseRecipientCount("10")
	assert.True(t, ok)
	assert.Equal(t, 10, n)
	_, ok = ParseRecipientCount("1")
	assert.False(t, ok)
	_, ok = ParseRecipientCount("")
	assert.False(t, ok)
}

func TestParsePositiveAmount_Bounds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{in: "10.50", want: "10.5", ok: true},
		{in: "0.00000001", want: "0.00000001", ok: true},
		{in: "1.5e3", want: "1500", ok: true},
		{in: "999999999999.99", want: "999999999999.99", ok: true},
		{in: "1000000000000", ok: false},
		{in: "1e12", ok: false},
		{in: "1e50000000", ok: false},
		{in: "1e-50000000", ok: false},
		{in: "0.000000001", ok: false},
		{in: "0", ok: false},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()
			a, ok := ParsePositiveAmount(tc.in)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.want, a.String())
			}
		})
	}
}

func TestValidate_HugeAmountIsAmountError(t *testing.T) {
	t.Parallel()

	_, err := ValidateSingle("5", "6", "1e50000000")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, ReasonAmount, verr.Reason)

	_, err = ValidateBatch("5", []Recipient{{WalletID: "6", Amount: "1"}, {WalletID: "7", Amount: "1e50000000"}})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 2, verr.Recipient)
	assert.Equal(t, ReasonAmount, verr.Reason)
}
