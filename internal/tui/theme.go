package tui

import (
	"github.com/charmbracelet/lipgloss"

	"wallet_console/internal/prefs"
)

type palette struct {
	text    lipgloss.Color
	muted   lipgloss.Color
	accent  lipgloss.Color
	border  lipgloss.Color
	panel   lipgloss.Color
	success lipgloss.Color
	failure lipgloss.Color
	info    lipgloss.Color
}

var palettes = map[prefs.Theme]palette{
	prefs.ThemeDark: {
		text:    lipgloss.Color("#e6e6e6"),
		muted:   lipgloss.Color("#8a8f98"),
		accent:  lipgloss.Color("#7c6cf2"),
		border:  lipgloss.Color("#3a3f4b"),
		panel:   lipgloss.Color("#1e2128"),
		success: lipgloss.Color("#3ecf8e"),
		failure: lipgloss.Color("#ef5350"),
		info:    lipgloss.Color("#4fa3f7"),
	},
	prefs.ThemeLight: {
		text:    lipgloss.Color("#1f2328"),
		muted:   lipgloss.Color("#6e7781"),
		accent:  lipgloss.Color("#5b4bd6"),
		border:  lipgloss.Color("#d0d7de"),
		panel:   lipgloss.Color("#f6f8fa"),
		success: lipgloss.Color("#1a7f37"),
		failure: lipgloss.Color("#cf222e"),
		info:    lipgloss.Color("#0969da"),
	},
}

type styles struct {
	title     lipgloss.Style
	tab       lipgloss.Style
	activeTab lipgloss.Style
	panel     lipgloss.Style
	heading   lipgloss.Style
	label     lipgloss.Style
	muted     lipgloss.Style
	row       lipgloss.Style
	selected  lipgloss.Style
	button    lipgloss.Style
	focusBtn  lipgloss.Style
	success   lipgloss.Style
	failure   lipgloss.Style
	info      lipgloss.Style
	key       lipgloss.Style
}

func newStyles(theme prefs.Theme) styles {
	p, ok := palettes[theme]
	if !ok {
		p = palettes[prefs.DefaultTheme]
	}
	base := lipgloss.NewStyle().Foreground(p.text)
	return styles{
		title:     base.Bold(true).Foreground(p.accent),
		tab:       base.Padding(0, 2).Foreground(p.muted),
		activeTab: base.Padding(0, 2).Bold(true).Foreground(p.accent).Underline(true),
		panel:     base.Border(lipgloss.RoundedBorder()).BorderForeground(p.border).Background(p.panel).Padding(0, 1),
		heading:   base.Bold(true),
		label:     base.Foreground(p.muted),
		muted:     base.Foreground(p.muted),
		row:       base,
		selected:  base.Bold(true).Foreground(p.accent),
		button:    base.Padding(0, 1).Border(lipgloss.NormalBorder()).BorderForeground(p.border),
		focusBtn:  base.Padding(0, 1).Border(lipgloss.NormalBorder()).BorderForeground(p.accent).Foreground(p.accent),
		success:   base.Foreground(p.success),
		failure:   base.Foreground(p.failure),
		info:      base.Foreground(p.info),
		key:       base.Bold(true).Foreground(p.accent),
	}
}

// themeIcon shows what the toggle switches to: a sun in dark mode, a moon in light
func themeIcon(theme prefs.Theme) string {
	if theme == prefs.ThemeLight {
		return "☾"
	}
	return "☀"
}
