package transfer

import (
	"fmt"     // Field names
	"strconv" // Recipient index
	"strings" // Name splitting
)

// Mode is the transfer form mode
type Mode int

const (
	ModeSingle Mode = iota // One receiver
	ModeBatch              // Payroll batch
)

func (m Mode) String() string {
	if m == ModeBatch {
		return "batch"
	}
	return "single"
}

// Field names, matching the ledger console's form inputs
const (
	FieldFrom           = "from_wallet_id"
	FieldTo             = "to_wallet_id"
	FieldAmount         = "amount"
	FieldRecipientCount = "num_recipients"
)

func RecipientWalletField(i int) string { return fmt.Sprintf("recipient_%d_wallet", i) }
func RecipientAmountField(i int) string { return fmt.Sprintf("recipient_%d_amount", i) }

// parseRecipientField splits "recipient_3_amount" into (3, "amount")
func parseRecipientField(name string) (int, string, bool) {
	rest, ok := strings.CutPrefix(name, "recipient_")
	if !ok {
		return 0, "", false // Not a recipient field
	}
	idx, kind, ok := strings.Cut(rest, "_")
	if !ok || (kind != "wallet" && kind != "amount") {
		return 0, "", false
	}
	i, err := strconv.Atoi(idx)
	if err != nil || i < 1 {
		return 0, "", false // Ordinals start at 1
	}
	return i, kind, true
}

// Field describes one input for a renderer
type Field struct {
	Name        string // Input name
	Label       string // Display label
	Placeholder string // Hint when empty
	Value       string // Current raw value
	Group       string // heading, e.g. "Recipient 2"
	Required    bool   // Must be filled before submit
	Visible     bool   // Shown in the current mode
	Numeric     bool   // Numeric keyboard hint
}

// Form is a snapshot of the raw inputs
type Form struct {
	From           string      // Sender wallet
	To             string      // Receiver wallet, Single only
	Amount         string      // Amount, Single only
	RecipientCount string      // Declared recipient count, Batch only
	Recipients     []Recipient // Recipient inputs, Batch only
}

// Submit button labels per mode
const (
	SingleSubmitLabel = "Transfer"
	BatchSubmitLabel  = "💸 Run Payroll Batch"
)
