package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"wallet_console/internal/feedback"
	"wallet_console/internal/transfer"
	"wallet_console/internal/viewstate"
)

// maxRows bounds how many list rows are drawn at once
const maxRows = 12

// window returns the [from, to) rows to draw so that cursor stays visible
func window(n, cursor, size int) (int, int) {
	if n <= size {
		return 0, n
	}
	from := cursor - size/2
	from = max(0, min(from, n-size))
	return from, from + size
}

func (m *Model) View() string {
	snap := m.deps.Views.Snapshot()

	var body string
	switch m.tab {
	case TabUsers:
		body = m.renderUsers(snap)
	case TabWallets:
		body = m.renderWallets(snap)
	case TabTransfer:
		body = m.renderTransfer()
	case TabHistory:
		body = m.renderHistory(snap)
	case TabLog:
		body = m.renderLog()
	}

	parts := []string{m.renderHeader(), body}
	if m.confirm != nil {
		parts = append(parts, m.styles.failure.Render(m.confirm.prompt+" (y/n)"))
	}
	if notices := m.renderNotices(); notices != "" {
		parts = append(parts, notices)
	}
	parts = append(parts, m.renderHelp())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) renderHeader() string {
	tabs := make([]string, 0, tabCount)
	for t := Tab(0); t < tabCount; t++ {
		style := m.styles.tab
		if t == m.tab {
			style = m.styles.activeTab
		}
		tabs = append(tabs, style.Render(t.String()))
	}
	title := m.styles.title.Render("Ledger Console") + "  " + m.styles.muted.Render(themeIcon(m.theme))
	return lipgloss.JoinVertical(lipgloss.Left, title, lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
}

// renderForm draws a form; group headings are emitted when the group changes
func (m *Model) renderForm(f *form) string {
	var b strings.Builder
	b.WriteString(m.styles.heading.Render(f.title))
	b.WriteString("\n")
	group := ""
	for _, in := range f.inputs {
		if in.group != "" && in.group != group {
			b.WriteString(m.styles.heading.Render(in.group))
			b.WriteString("\n")
		}
		group = in.group
		b.WriteString(m.styles.label.Render(in.label + ": "))
		b.WriteString(in.model.View())
		b.WriteString("\n")
	}
	btn := m.styles.button
	if s, ok := m.focused(); ok && s.kind == slotInput && s.form == f {
		btn = m.styles.focusBtn // enter submits this form
	}
	b.WriteString(btn.Render(f.submit))
	return m.styles.panel.Render(b.String())
}

func (m *Model) listFocused() bool {
	s, ok := m.focused()
	return ok && s.kind == slotList
}

// renderRows draws lines with the cursor row highlighted while the list has focus
func (m *Model) renderRows(lines []string) string {
	from, to := window(len(lines), m.cursor, maxRows)
	out := make([]string, 0, to-from)
	for i := from; i < to; i++ {
		style := m.styles.row
		if m.listFocused() && i == m.cursor {
			style = m.styles.selected
		}
		out = append(out, style.Render(lines[i]))
	}
	return strings.Join(out, "\n")
}

func (m *Model) renderUsers(snap viewstate.Snapshot) string {
	list := m.styles.heading.Render(fmt.Sprintf("Users (%d)", snap.UserCount)) + "\n"
	if msg := snap.UsersMessage(); msg != "" {
		list += m.styles.muted.Render(msg)
	} else {
		lines := make([]string, len(snap.Users))
		for i, r := range snap.Users {
			lines[i] = fmt.Sprintf("%d. %-16s %-28s %s", r.Index, r.User.Username, r.User.Email, r.Badge())
		}
		list += m.renderRows(lines)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, m.renderForm(m.users), m.styles.panel.Render(list))
}

func (m *Model) renderOwner(snap viewstate.Snapshot) string {
	label := "Select an owner"
	for _, o := range snap.OwnerOptions {
		if o.Value == snap.SelectedOwner {
			label = o.Label
		}
	}
	if len(snap.OwnerOptions) == 0 {
		label = "No users yet"
	}
	s, _ := m.focused()
	style, btn := m.styles.row, m.styles.button
	if s.kind == slotOwner {
		style, btn = m.styles.selected, m.styles.focusBtn
	}
	body := m.styles.heading.Render("Create Wallet") + "\n" +
		m.styles.label.Render("Owner: ") + style.Render("‹ "+label+" ›") + "\n" +
		btn.Render("Create Wallet")
	return m.styles.panel.Render(body)
}

func (m *Model) renderWallets(snap viewstate.Snapshot) string {
	balance := m.renderForm(m.balance)
	if snap.Balance != nil {
		balance = lipgloss.JoinVertical(lipgloss.Left, balance,
			m.styles.success.Render(fmt.Sprintf("Wallet #%d balance: %s", snap.Balance.WalletID, snap.Balance.Text())))
	}
	left := lipgloss.JoinVertical(lipgloss.Left, m.renderOwner(snap), balance, m.renderForm(m.deposit))

	list := m.styles.heading.Render("Wallets") + "\n"
	if msg := snap.WalletsMessage(); msg != "" {
		list += m.styles.muted.Render(msg)
	} else {
		lines := make([]string, len(snap.Wallets))
		for i, r := range snap.Wallets {
			lines[i] = fmt.Sprintf("%-22s %-16s %14s %s", r.Title(), r.Owner, r.Wallet.Balance.Dollars(), r.Wallet.Status)
		}
		list += m.renderRows(lines)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, left, m.styles.panel.Render(list))
}

func (m *Model) renderTransfer() string {
	mode := "Single transfer"
	if m.deps.Transfers.Mode() == transfer.ModeBatch {
		mode = "Payroll batch"
	}
	header := m.styles.label.Render("Mode: ") + m.styles.heading.Render(mode) + m.styles.muted.Render("  (ctrl+b to switch)")
	return lipgloss.JoinVertical(lipgloss.Left, header, m.renderForm(m.transfer))
}

func (m *Model) renderHistory(snap viewstate.Snapshot) string {
	const layout = "%-8s %-24s %-14s %-14s %12s"
	header := m.styles.heading.Render(fmt.Sprintf(layout, "ID", "Date", "From", "To", "Amount"))
	if msg := snap.HistoryMessage(); msg != "" {
		return m.styles.panel.Render(header + "\n" + m.styles.muted.Render(msg))
	}
	lines := make([]string, len(snap.History))
	for i, r := range snap.History {
		c := r.Cells()
		lines[i] = fmt.Sprintf(layout, c[0], c[1], c[2], c[3], c[4])
	}
	return m.styles.panel.Render(header + "\n" + m.renderRows(lines))
}

func (m *Model) renderLog() string {
	entries := m.deps.Feedback.Entries()
	if len(entries) == 0 {
		return m.styles.panel.Render(m.styles.muted.Render("No requests yet."))
	}
	from, to := window(len(entries), m.cursor, maxRows/3)
	out := make([]string, 0, to-from)
	for _, e := range entries[from:to] {
		style := m.styles.success
		if e.Status == feedback.StatusError {
			style = m.styles.failure
		}
		out = append(out, style.Render(e.String()))
	}
	return m.styles.panel.Render(strings.Join(out, "\n\n"))
}

func (m *Model) renderNotices() string {
	notices := m.deps.Feedback.Notices()
	if len(notices) == 0 {
		return ""
	}
	lines := make([]string, len(notices))
	for i, n := range notices {
		style := m.styles.info
		switch n.Kind {
		case feedback.KindSuccess:
			style = m.styles.success
		case feedback.KindError:
			style = m.styles.failure
		}
		if n.Phase == feedback.PhaseFading {
			style = style.Faint(true)
		}
		lines[i] = style.Render(n.Icon() + " " + n.Message)
	}
	block := strings.Join(lines, "\n")
	if m.width > 0 {
		return lipgloss.PlaceHorizontal(m.width, lipgloss.Right, block)
	}
	return block
}

func (m *Model) renderHelp() string {
	keys := [][2]string{
		{"ctrl+n/p", "tabs"},
		{"tab", "focus"},
		{"enter", "submit"},
		{"ctrl+b", "batch"},
		{"d", "delete"},
		{"s", "select"},
		{"r", "reload"},
		{"ctrl+t", "theme"},
		{"ctrl+c", "quit"},
	}
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = m.styles.key.Render(k[0]) + " " + m.styles.muted.Render(k[1])
	}
	return strings.Join(parts, "  ")
}
