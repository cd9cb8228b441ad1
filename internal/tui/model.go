package tui

import (
	"context"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"wallet_console/internal/console"
	"wallet_console/internal/feedback"
	"wallet_console/internal/prefs"
	"wallet_console/internal/transfer"
	"wallet_console/internal/viewstate"
)

// tickInterval drives re-rendering so notices fade without input
const tickInterval = 100 * time.Millisecond

// input names of the static forms
const (
	fieldUsername = "username"
	fieldEmail    = "email"
	fieldWalletID = "wallet_id"
	fieldAmount   = "amount"
)

// Transfers is the transfer form owned by the orchestrator
type Transfers interface {
	Mode() transfer.Mode
	SubmitLabel() string
	ToggleBatch() transfer.Mode
	SetField(name, value string) error
	Fields() []transfer.Field
	Submit(ctx context.Context) (transfer.Outcome, error)
}

// Views is the read side of the view state
type Views interface {
	Snapshot() viewstate.Snapshot
	SelectOwner(value string)
}

// Feedback exposes notices and the session log
type Feedback interface {
	Notices() []feedback.Notice
	Entries() []feedback.Entry
}

// ThemeSwitcher is the persisted theme preference
type ThemeSwitcher interface {
	Current() prefs.Theme
	Toggle(ctx context.Context) (prefs.Theme, error)
}

// Deps are the collaborators a Model drives
type Deps struct {
	Commands  console.Commands
	Transfers Transfers
	Views     Views
	Feedback  Feedback
	Theme     ThemeSwitcher
	Surfaces  *Surfaces
}

type slotKind int

const (
	slotInput slotKind = iota
	slotOwner
	slotList
)

// slot is one focus stop on the active tab
type slot struct {
	kind  slotKind
	form  *form
	index int
}

// confirmation is a pending destructive action awaiting y/n
type confirmation struct {
	prompt string
	run    func(ctx context.Context) error
}

type (
	tickMsg  time.Time
	themeMsg struct {
		theme prefs.Theme
	}
	opDoneMsg struct {
		onSuccess func()
		err       error
	}
	transferDoneMsg struct {
		err error
	}
)

// Model is the bubbletea model of the console
type Model struct {
	ctx    context.Context
	deps   Deps
	tab    Tab
	theme  prefs.Theme
	styles styles
	width  int

	users    *form
	balance  *form
	deposit  *form
	transfer *form

	focus   int
	cursor  int
	confirm *confirmation
}

func New(ctx context.Context, deps Deps) *Model {
	if deps.Surfaces == nil {
		deps.Surfaces = NewSurfaces(TabUsers)
	}
	m := &Model{
		ctx:   ctx,
		deps:  deps,
		tab:   deps.Surfaces.Current(),
		theme: deps.Theme.Current(),
	}
	m.styles = newStyles(m.theme)
	m.users = &form{title: "Create User", submit: "Create User", inputs: []input{
		newInput(fieldUsername, "Username", "username", 64),
		newInput(fieldEmail, "Email", "email@example.com", 128),
	}}
	m.balance = &form{title: "Check Balance", submit: "Check Balance", inputs: []input{
		newInput(fieldWalletID, "Wallet ID", "Wallet ID", 20),
	}}
	m.deposit = &form{title: "Deposit", submit: "Deposit", inputs: []input{
		newInput(fieldWalletID, "Wallet ID", "Wallet ID", 20),
		newInput(fieldAmount, "Amount ($)", "0.00", 20),
	}}
	m.transfer = &form{title: "Transfer Funds"}
	m.syncTransfer()
	m.refocus()
	return m
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(tick(), m.load(m.tab))
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tickMsg:
		return m, tick()
	case opDoneMsg:
		if msg.err == nil && msg.onSuccess != nil {
			msg.onSuccess()
		}
		return m, nil
	case transferDoneMsg:
		m.syncTransfer()
		m.refocus()
		return m, nil
	case themeMsg:
		m.theme = msg.theme
		m.styles = newStyles(msg.theme)
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, m.updateFocused(msg)
}

// run executes fn off the UI goroutine; onSuccess runs back on it
func (m *Model) run(onSuccess func(), fn func(ctx context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return opDoneMsg{onSuccess: onSuccess, err: fn(ctx)}
	}
}

// load refreshes what tab t shows
func (m *Model) load(t Tab) tea.Cmd {
	cmds := m.deps.Commands
	switch t {
	case TabUsers, TabWallets:
		return m.run(nil, func(ctx context.Context) error {
			cmds.Refresh(ctx)
			return nil
		})
	case TabHistory:
		return m.run(nil, cmds.LoadTransactions)
	}
	return nil
}

func (m *Model) switchTab(t Tab) tea.Cmd {
	t = (t + tabCount) % tabCount
	m.tab = t
	m.deps.Surfaces.Show(t)
	m.focus, m.cursor = 0, 0
	m.confirm = nil
	if t == TabTransfer {
		m.syncTransfer() // source may have been picked on the wallet tab
	}
	m.refocus()
	return m.load(t)
}

func (m *Model) toggleTheme() tea.Cmd {
	ctx, theme := m.ctx, m.deps.Theme
	return func() tea.Msg {
		next, err := theme.Toggle(ctx)
		if err != nil {
			logrus.WithError(err).Warn("Failed to save theme preference") // Applied for this session anyway
		}
		return themeMsg{theme: next}
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.confirm != nil {
		switch msg.String() {
		case "y", "Y", "enter":
			c := m.confirm
			m.confirm = nil
			return m.run(nil, c.run)
		case "n", "N", "esc":
			m.confirm = nil
		}
		return nil
	}

	switch msg.String() {
	case "ctrl+c":
		return tea.Quit
	case "ctrl+n":
		return m.switchTab(m.tab + 1)
	case "ctrl+p":
		return m.switchTab(m.tab - 1)
	case "ctrl+t":
		return m.toggleTheme()
	case "ctrl+b":
		if m.tab == TabTransfer {
			m.deps.Transfers.ToggleBatch()
			m.syncTransfer()
			m.refocus()
		}
		return nil
	case "tab":
		m.moveFocus(1)
		return nil
	case "shift+tab":
		m.moveFocus(-1)
		return nil
	}

	s, ok := m.focused()
	if !ok {
		return nil
	}
	switch s.kind {
	case slotInput:
		return m.handleInputKey(s, msg)
	case slotOwner:
		return m.handleOwnerKey(msg)
	default:
		return m.handleListKey(msg)
	}
}

// slots lists the focus stops of the active tab in order
func (m *Model) slots() []slot {
	var out []slot
	addForm := func(f *form) {
		for i := range f.inputs {
			out = append(out, slot{kind: slotInput, form: f, index: i})
		}
	}
	switch m.tab {
	case TabUsers:
		addForm(m.users)
		out = append(out, slot{kind: slotList})
	case TabWallets:
		out = append(out, slot{kind: slotOwner})
		addForm(m.balance)
		addForm(m.deposit)
		out = append(out, slot{kind: slotList})
	case TabTransfer:
		addForm(m.transfer)
	default:
		out = append(out, slot{kind: slotList})
	}
	return out
}

func (m *Model) focused() (slot, bool) {
	slots := m.slots()
	if m.focus < 0 || m.focus >= len(slots) {
		return slot{}, false
	}
	return slots[m.focus], true
}

func (m *Model) moveFocus(delta int) {
	n := len(m.slots())
	if n == 0 {
		return
	}
	m.focus = (m.focus + delta + n) % n
	m.refocus()
}

// refocus blurs every input and focuses the one under the focus index
func (m *Model) refocus() {
	for _, f := range []*form{m.users, m.balance, m.deposit, m.transfer} {
		for i := range f.inputs {
			f.inputs[i].model.Blur()
		}
	}
	if n := len(m.slots()); m.focus >= n {
		m.focus = max(0, n-1)
	}
	if s, ok := m.focused(); ok && s.kind == slotInput {
		s.form.inputs[s.index].model.Focus()
	}
}

func (m *Model) updateFocused(msg tea.Msg) tea.Cmd {
	s, ok := m.focused()
	if !ok || s.kind != slotInput {
		return nil
	}
	var cmd tea.Cmd
	in := &s.form.inputs[s.index]
	in.model, cmd = in.model.Update(msg)
	return cmd
}

func (m *Model) handleInputKey(s slot, msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "enter" {
		return m.submit(s.form)
	}
	cmd := m.updateFocused(msg)
	if s.form == m.transfer {
		in := s.form.inputs[s.index]
		_ = m.deps.Transfers.SetField(in.name, in.model.Value())
		if in.name == transfer.FieldRecipientCount {
			m.syncTransfer() // A count in range regenerates the recipients
			m.refocus()
		}
	}
	return cmd
}

// submit captures the form values here and sends them from a command
func (m *Model) submit(f *form) tea.Cmd {
	cmds := m.deps.Commands
	switch f {
	case m.users:
		req := console.UserForm{Username: f.value(fieldUsername), Email: f.value(fieldEmail)}
		return m.run(f.reset, func(ctx context.Context) error { return cmds.CreateUser(ctx, req) })
	case m.balance:
		id := f.value(fieldWalletID)
		return m.run(nil, func(ctx context.Context) error { return cmds.CheckBalanceInput(ctx, id) })
	case m.deposit:
		req := console.DepositForm{WalletID: f.value(fieldWalletID), Amount: f.value(fieldAmount)}
		return m.run(f.reset, func(ctx context.Context) error { return cmds.Deposit(ctx, req) })
	case m.transfer:
		ctx, transfers := m.ctx, m.deps.Transfers
		return func() tea.Msg {
			_, err := transfers.Submit(ctx)
			return transferDoneMsg{err: err}
		}
	}
	return nil
}

// syncTransfer rebuilds the transfer inputs from the orchestrator's fields,
// keeping the input state of fields that still exist
func (m *Model) syncTransfer() {
	prev := make(map[string]textinput.Model, len(m.transfer.inputs))
	for _, in := range m.transfer.inputs {
		prev[in.name] = in.model
	}
	fields := m.deps.Transfers.Fields()
	inputs := make([]input, 0, len(fields))
	for _, f := range fields {
		if !f.Visible {
			continue
		}
		ti, ok := prev[f.Name]
		if !ok {
			ti = newTextInput(f.Placeholder, 32)
		}
		if ti.Value() != f.Value {
			ti.SetValue(f.Value)
			ti.CursorEnd()
		}
		label := f.Label
		if f.Required {
			label += " *"
		}
		inputs = append(inputs, input{name: f.Name, label: label, group: f.Group, model: ti})
	}
	m.transfer.inputs = inputs
	m.transfer.submit = m.deps.Transfers.SubmitLabel()
}

func (m *Model) handleOwnerKey(msg tea.KeyMsg) tea.Cmd {
	snap := m.deps.Views.Snapshot()
	switch msg.String() {
	case "left", "h":
		m.cycleOwner(snap, -1)
	case "right", "l":
		m.cycleOwner(snap, 1)
	case "enter":
		req := console.WalletForm{UserID: snap.SelectedOwner}
		views, cmds := m.deps.Views, m.deps.Commands
		return m.run(func() { views.SelectOwner("") }, func(ctx context.Context) error {
			return cmds.CreateWallet(ctx, req)
		})
	}
	return nil
}

func (m *Model) cycleOwner(snap viewstate.Snapshot, delta int) {
	opts := snap.OwnerOptions
	n := len(opts)
	if n == 0 {
		return
	}
	idx := -1
	for i, o := range opts {
		if o.Value == snap.SelectedOwner {
			idx = i
		}
	}
	switch {
	case idx < 0 && delta > 0:
		idx = 0
	case idx < 0:
		idx = n - 1
	default:
		idx = (idx + delta + n) % n
	}
	m.deps.Views.SelectOwner(opts[idx].Value)
}

func (m *Model) listLen() int {
	snap := m.deps.Views.Snapshot()
	switch m.tab {
	case TabUsers:
		return len(snap.Users)
	case TabWallets:
		return len(snap.Wallets)
	case TabHistory:
		return len(snap.History)
	case TabLog:
		return len(m.deps.Feedback.Entries())
	}
	return 0
}

func (m *Model) handleListKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < m.listLen()-1 {
			m.cursor++
		}
	case "r":
		return m.load(m.tab)
	case "q":
		return tea.Quit
	case "d", "x", "delete":
		m.askDelete()
	case "enter", "s":
		snap := m.deps.Views.Snapshot()
		if m.tab == TabWallets && m.cursor < len(snap.Wallets) {
			id := snap.Wallets[m.cursor].Wallet.ID
			m.deps.Commands.SelectWallet(id)
			// Fill the wallet id inputs on this tab too
			m.balance.set(fieldWalletID, strconv.FormatInt(id, 10))
			m.deposit.set(fieldWalletID, strconv.FormatInt(id, 10))
		}
	}
	return nil
}

// askDelete arms a confirmation for the row under the cursor
func (m *Model) askDelete() {
	snap := m.deps.Views.Snapshot()
	cmds := m.deps.Commands
	switch {
	case m.tab == TabUsers && m.cursor < len(snap.Users):
		id := snap.Users[m.cursor].User.ID
		m.confirm = &confirmation{
			prompt: "Are you sure you want to delete this user?",
			run:    func(ctx context.Context) error { return cmds.DeleteUser(ctx, id) },
		}
	case m.tab == TabWallets && m.cursor < len(snap.Wallets):
		id := snap.Wallets[m.cursor].Wallet.ID
		m.confirm = &confirmation{
			prompt: "Are you sure you want to delete this wallet?",
			run:    func(ctx context.Context) error { return cmds.DeleteWallet(ctx, id) },
		}
	}
}
