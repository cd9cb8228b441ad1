package prefs

import (
	"context" // Context for store operations
	"sync"    // Guards the current theme

	"github.com/sirupsen/logrus" // Logging library
)

// Theme is the console colour scheme
type Theme string

const (
	ThemeLight   Theme = "light"
	ThemeDark    Theme = "dark"
	DefaultTheme       = ThemeDark
)

// ParseTheme maps anything other than "light" to the dark default
func ParseTheme(s string) Theme {
	if Theme(s) == ThemeLight {
		return ThemeLight
	}
	return ThemeDark
}

// Next returns the other theme
func (t Theme) Next() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// Store persists the theme preference
type Store interface {
	Load(ctx context.Context) (Theme, error) // Returns DefaultTheme when nothing is saved
	Save(ctx context.Context, theme Theme) error
}

// Preferences holds the active theme and writes changes through to a Store
type Preferences struct {
	store   Store
	mu      sync.Mutex
	current Theme
}

// NewPreferences starts at the default theme until Load is called
func NewPreferences(store Store) *Preferences {
	return &Preferences{store: store, current: DefaultTheme}
}

// Load reads the saved theme; on error the default stays active
func (p *Preferences) Load(ctx context.Context) Theme {
	theme, err := p.store.Load(ctx)
	if err != nil {
		logrus.WithError(err).Warn("Failed to load theme preference") // Keep default
		theme = DefaultTheme
	}
	p.mu.Lock()
	p.current = theme
	p.mu.Unlock()
	return theme
}

// Current returns the active theme
func (p *Preferences) Current() Theme {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Apply switches to theme and persists it
func (p *Preferences) Apply(ctx context.Context, theme Theme) error {
	p.mu.Lock()
	p.current = theme
	p.mu.Unlock()
	return p.store.Save(ctx, theme)
}

// Toggle flips between light and dark and persists the result
func (p *Preferences) Toggle(ctx context.Context) (Theme, error) {
	next := p.Current().Next()
	return next, p.Apply(ctx, next)
}
