package tui

import "sync/atomic"

// Tab is one screen of the console
type Tab int

const (
	TabUsers Tab = iota
	TabWallets
	TabTransfer
	TabHistory
	TabLog
	tabCount
)

var tabTitles = [tabCount]string{"Users", "Wallets", "Transfer", "History", "Log"}

func (t Tab) String() string {
	if t < 0 || t >= tabCount {
		return "Unknown"
	}
	return tabTitles[t]
}

// Surfaces reports which listings the active tab renders. Commands run off
// the UI goroutine, so the tab is held atomically.
type Surfaces struct {
	tab atomic.Int32
}

func NewSurfaces(initial Tab) *Surfaces {
	s := &Surfaces{}
	s.Show(initial)
	return s
}

func (s *Surfaces) Show(t Tab)   { s.tab.Store(int32(t)) }
func (s *Surfaces) Current() Tab { return Tab(s.tab.Load()) }

// WantsUsers is true on the user list and on the wallet tab's owner selector
func (s *Surfaces) WantsUsers() bool {
	t := s.Current()
	return t == TabUsers || t == TabWallets
}

func (s *Surfaces) WantsWallets() bool { return s.Current() == TabWallets }
func (s *Surfaces) WantsHistory() bool { return s.Current() == TabHistory }
