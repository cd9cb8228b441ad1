package tui

import (
	"context"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wallet_console/internal/console"
	"wallet_console/internal/domain"
	"wallet_console/internal/feedback"
	"wallet_console/internal/prefs"
	"wallet_console/internal/transfer"
	"wallet_console/internal/viewstate"
)

type fakeCommands struct {
	mu       sync.Mutex
	calls    []string
	users    []console.UserForm
	deposits []console.DepositForm
	wallets  []console.WalletForm
	deleted  []int64
	selected []int64
	err      error
}

func (f *fakeCommands) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeCommands) Refresh(context.Context) { f.record("refresh") }
func (f *fakeCommands) CreateUser(_ context.Context, form console.UserForm) error {
	f.record("create_user")
	f.users = append(f.users, form)
	return f.err
}
func (f *fakeCommands) DeleteUser(_ context.Context, id int64) error {
	f.record("delete_user")
	f.deleted = append(f.deleted, id)
	return f.err
}
func (f *fakeCommands) CreateWallet(_ context.Context, form console.WalletForm) error {
	f.record("create_wallet")
	f.wallets = append(f.wallets, form)
	return f.err
}
func (f *fakeCommands) DeleteWallet(_ context.Context, id int64) error {
	f.record("delete_wallet")
	f.deleted = append(f.deleted, id)
	return f.err
}
func (f *fakeCommands) CheckBalance(context.Context, int64) error { return nil }
func (f *fakeCommands) CheckBalanceInput(context.Context, string) error {
	f.record("check_balance")
	return f.err
}
func (f *fakeCommands) Deposit(_ context.Context, form console.DepositForm) error {
	f.record("deposit")
	f.deposits = append(f.deposits, form)
	return f.err
}
func (f *fakeCommands) SelectWallet(id int64) { f.selected = append(f.selected, id) }
func (f *fakeCommands) LoadTransactions(context.Context) error {
	f.record("history")
	return nil
}

type fakeViews struct {
	snap viewstate.Snapshot
}

func (v *fakeViews) Snapshot() viewstate.Snapshot { return v.snap }
func (v *fakeViews) SelectOwner(value string)     { v.snap.SelectedOwner = value }

type fakeFeedback struct {
	notices []feedback.Notice
	entries []feedback.Entry
}

func (f *fakeFeedback) Notices() []feedback.Notice { return f.notices }
func (f *fakeFeedback) Entries() []feedback.Entry  { return f.entries }

type memStore struct {
	theme prefs.Theme
}

func (s *memStore) Load(context.Context) (prefs.Theme, error) { return s.theme, nil }
func (s *memStore) Save(_ context.Context, t prefs.Theme) error {
	s.theme = t
	return nil
}

type fixture struct {
	model    *Model
	commands *fakeCommands
	views    *fakeViews
	orch     *transfer.Orchestrator
	store    *memStore
	surfaces *Surfaces
}

func newFixture(t *testing.T, tab Tab) *fixture {
	t.Helper()
	f := &fixture{
		commands: &fakeCommands{},
		views:    &fakeViews{},
		store:    &memStore{theme: prefs.ThemeDark},
		surfaces: NewSurfaces(tab),
	}
	f.orch = transfer.New(nil, feedback.NewChannel())
	p := prefs.NewPreferences(f.store)
	p.Load(context.Background())
	f.model = New(context.Background(), Deps{
		Commands:  f.commands,
		Transfers: f.orch,
		Views:     f.views,
		Feedback:  &fakeFeedback{},
		Theme:     p,
		Surfaces:  f.surfaces,
	})
	return f
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+n":
		return tea.KeyMsg{Type: tea.KeyCtrlN}
	case "ctrl+b":
		return tea.KeyMsg{Type: tea.KeyCtrlB}
	case "ctrl+t":
		return tea.KeyMsg{Type: tea.KeyCtrlT}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends a key and runs the resulting command, feeding its message back
func (f *fixture) press(t *testing.T, s string) {
	t.Helper()
	_, cmd := f.model.Update(key(s))
	if cmd == nil {
		return
	}
	if msg := cmd(); msg != nil {
		f.model.Update(msg)
	}
}

func (f *fixture) typeText(t *testing.T, text string) {
	t.Helper()
	for _, r := range text {
		f.press(t, string(r))
	}
}

func TestSurfaces(t *testing.T) {
	tests := []struct {
		tab                    Tab
		users, wallets, history bool
	}{
		{TabUsers, true, false, false},
		{TabWallets, true, true, false},
		{TabTransfer, false, false, false},
		{TabHistory, false, false, true},
		{TabLog, false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.tab.String(), func(t *testing.T) {
			s := NewSurfaces(tt.tab)
			assert.Equal(t, tt.users, s.WantsUsers())
			assert.Equal(t, tt.wallets, s.WantsWallets())
			assert.Equal(t, tt.history, s.WantsHistory())
		})
	}
}

func TestSwitchTab_UpdatesSurfacesAndLoads(t *testing.T) {
	f := newFixture(t, TabUsers)

	f.press(t, "ctrl+n")
	assert.Equal(t, TabWallets, f.surfaces.Current())
	assert.Equal(t, []string{"refresh"}, f.commands.calls)

	f.press(t, "ctrl+n")
	f.press(t, "ctrl+n")
	assert.Equal(t, TabHistory, f.surfaces.Current())
	assert.Equal(t, []string{"refresh", "history"}, f.commands.calls)
}

func TestCreateUser_SubmitsAndResets(t *testing.T) {
	f := newFixture(t, TabUsers)

	f.typeText(t, "alice")
	f.press(t, "tab")
	f.typeText(t, "a@example.com")
	f.press(t, "enter")

	require.Len(t, f.commands.users, 1)
	assert.Equal(t, console.UserForm{Username: "alice", Email: "a@example.com"}, f.commands.users[0])
	assert.Empty(t, f.model.users.value(fieldUsername), "form resets after success")
}

func TestDeposit_KeepsInputOnFailure(t *testing.T) {
	f := newFixture(t, TabWallets)
	f.commands.err = assert.AnError

	f.press(t, "tab") // owner -> balance wallet id
	f.press(t, "tab") // -> deposit wallet id
	f.typeText(t, "3")
	f.press(t, "tab")
	f.typeText(t, "12.5")
	f.press(t, "enter")

	require.Len(t, f.commands.deposits, 1)
	assert.Equal(t, console.DepositForm{WalletID: "3", Amount: "12.5"}, f.commands.deposits[0])
	assert.Equal(t, "12.5", f.model.deposit.value(fieldAmount))
}

func TestCreateWallet_UsesSelectedOwner(t *testing.T) {
	f := newFixture(t, TabWallets)
	f.views.snap.OwnerOptions = []viewstate.Option{{Value: "1", Label: "alice (ID: 1)"}, {Value: "2", Label: "bob (ID: 2)"}}

	f.press(t, "l")
	f.press(t, "l")
	assert.Equal(t, "2", f.views.snap.SelectedOwner)
	assert.Contains(t, f.model.View(), "bob (ID: 2)")

	f.press(t, "enter")
	require.Len(t, f.commands.wallets, 1)
	assert.Equal(t, "2", f.commands.wallets[0].UserID)
	assert.Empty(t, f.views.snap.SelectedOwner)
}

func TestDelete_RequiresConfirmation(t *testing.T) {
	f := newFixture(t, TabUsers)
	f.views.snap.Users = []viewstate.UserRow{
		{Index: 1, User: domain.User{ID: 7, Username: "alice"}},
		{Index: 2, User: domain.User{ID: 9, Username: "bob"}},
	}
	f.press(t, "tab")
	f.press(t, "tab") // list

	f.press(t, "j")
	f.press(t, "d")
	assert.Contains(t, f.model.View(), "Are you sure you want to delete this user?")

	f.press(t, "n")
	assert.Empty(t, f.commands.deleted)
	assert.NotContains(t, f.model.View(), "Are you sure")

	f.press(t, "d")
	f.press(t, "y")
	assert.Equal(t, []int64{9}, f.commands.deleted)
}

func TestSelectWallet_FromList(t *testing.T) {
	f := newFixture(t, TabWallets)
	f.views.snap.Wallets = []viewstate.WalletRow{{Index: 1, Wallet: domain.Wallet{ID: 5}, Owner: "alice"}}
	f.views.snap.WalletsStatus = viewstate.StatusReady
	for i := 0; i < 4; i++ {
		f.press(t, "tab")
	}

	f.press(t, "s")
	assert.Equal(t, []int64{5}, f.commands.selected)
	assert.Equal(t, "5", f.model.balance.value(fieldWalletID))
	assert.Equal(t, "5", f.model.deposit.value(fieldWalletID))
	assert.Empty(t, f.model.deposit.value(fieldAmount))
}

func TestTransfer_BatchFieldsFollowOrchestrator(t *testing.T) {
	f := newFixture(t, TabTransfer)
	assert.Len(t, f.model.transfer.inputs, 3)
	assert.Contains(t, f.model.View(), transfer.SingleSubmitLabel)

	f.press(t, "ctrl+b")
	assert.Equal(t, transfer.ModeBatch, f.orch.Mode())
	require.Len(t, f.model.transfer.inputs, 6) // from, count, two recipients
	view := f.model.View()
	assert.Contains(t, view, transfer.BatchSubmitLabel)
	assert.Contains(t, view, "Recipient 2")

	f.press(t, "tab")
	f.press(t, "tab")
	f.typeText(t, "5")
	assert.Equal(t, "5", f.orch.Form().Recipients[0].WalletID)

	f.press(t, "ctrl+b")
	assert.Equal(t, transfer.ModeSingle, f.orch.Mode())
	assert.Len(t, f.model.transfer.inputs, 3)
}

func TestTransfer_SubmitValidationFailureKeepsInputs(t *testing.T) {
	f := newFixture(t, TabTransfer)

	f.typeText(t, "1")
	f.press(t, "tab")
	f.typeText(t, "1")
	f.press(t, "tab")
	f.typeText(t, "10")
	f.press(t, "enter")

	form := f.orch.Form()
	assert.Equal(t, "1", form.From)
	assert.Equal(t, "10", form.Amount)
	assert.Equal(t, "10", f.model.transfer.value(transfer.FieldAmount))
}

func TestToggleTheme_Persists(t *testing.T) {
	f := newFixture(t, TabUsers)
	assert.Contains(t, f.model.View(), "☀")

	f.press(t, "ctrl+t")

	assert.Equal(t, prefs.ThemeLight, f.model.theme)
	assert.Equal(t, prefs.ThemeLight, f.store.theme)
	assert.Contains(t, f.model.View(), "☾")
}

func TestNoticesRendered(t *testing.T) {
	f := newFixture(t, TabLog)
	fb := f.model.deps.Feedback.(*fakeFeedback)
	fb.notices = []feedback.Notice{{Kind: feedback.KindSuccess, Message: "Wallet 3 deleted"}}
	fb.entries = []feedback.Entry{{Action: "DELETE http://x/api/v1/wallets/3", Status: feedback.StatusSuccess, Detail: "{}"}}

	view := f.model.View()
	assert.Contains(t, view, "✓ Wallet 3 deleted")
	assert.Contains(t, view, "DELETE http://x/api/v1/wallets/3")
}

func TestWindow(t *testing.T) {
	from, to := window(5, 2, 12)
	assert.Equal(t, [2]int{0, 5}, [2]int{from, to})
	from, to = window(30, 0, 10)
	assert.Equal(t, [2]int{0, 10}, [2]int{from, to})
	from, to = window(30, 29, 10)
	assert.Equal(t, [2]int{20, 30}, [2]int{from, to})
	from, to = window(30, 15, 10)
	assert.Equal(t, [2]int{10, 20}, [2]int{from, to})
}
