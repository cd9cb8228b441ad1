package feedback

import (
	"sync" // Concurrent access from the UI and workers
	"time" // Notice lifetimes

	"github.com/sirupsen/logrus" // Structured logging
)

const (
	DefaultNoticeTTL  = 4 * time.Second        // How long a notice stays visible
	DefaultNoticeFade = 300 * time.Millisecond // Fade-out before removal
)

// Channel holds the notice board and the session log
type Channel struct {
	mu      sync.Mutex
	now     func() time.Time   // Clock
	ttl     time.Duration      // Visible phase length
	fade    time.Duration      // Fading phase length
	logger  logrus.FieldLogger // Mirror for notices and entries
	nextID  uint64             // Last notice ID handed out
	notices []Notice           // Live notices, oldest first
	entries []Entry            // Session log, newest first
}

// Option configures a Channel
type Option func(*Channel)

// WithClock replaces time.Now, mainly for tests
func WithClock(now func() time.Time) Option {
	return func(c *Channel) { c.now = now }
}

// WithNoticeTiming sets how long notices stay and how long they fade
func WithNoticeTiming(ttl, fade time.Duration) Option {
	return func(c *Channel) {
		if ttl > 0 {
			c.ttl = ttl
		}
		if fade >= 0 {
			c.fade = fade // Zero removes notices without fading
		}
	}
}

// WithLogger mirrors notices and entries to logger
func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *Channel) { c.logger = logger }
}

func NewChannel(opts ...Option) *Channel {
	c := &Channel{
		now:    time.Now,
		ttl:    DefaultNoticeTTL,
		fade:   DefaultNoticeFade,
		logger: logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Notify posts a notice. Notices are never merged or capped.
func (c *Channel) Notify(kind Kind, message string) {
	c.mu.Lock()
	c.nextID++ // IDs are never reused
	c.notices = append(c.notices, Notice{
		ID:       c.nextID,
		Kind:     kind,
		Message:  message,
		PostedAt: c.now(), // Lifetime starts now
	})
	c.mu.Unlock()

	c.logger.WithField("kind", kind).Debug(message)
}

func (c *Channel) Success(message string) { c.Notify(KindSuccess, message) }
func (c *Channel) Error(message string)   { c.Notify(KindError, message) }
func (c *Channel) Info(message string)    { c.Notify(KindInfo, message) }

// Notices returns live notices in arrival order and drops expired ones
func (c *Channel) Notices() []Notice {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	live := c.notices[:0] // Filter in place
	for _, n := range c.notices {
		phase, ok := phaseAt(n.PostedAt, now, c.ttl, c.fade)
		if !ok {
			continue // Expired
		}
		n.Phase = phase
		live = append(live, n)
	}
	c.notices = live

	out := make([]Notice, len(live))
	copy(out, live)
	return out
}

// Record prepends a log entry for a ledger call
func (c *Channel) Record(action string, status Status, requestID string, detail any) {
	entry := Entry{
		At:        c.now(),
		Action:    action,
		Status:    status,
		Detail:    prettyDetail(detail),
		RequestID: requestID,
	}

	c.mu.Lock()
	c.entries = append([]Entry{entry}, c.entries...) // Newest first
	c.mu.Unlock()

	l := c.logger.WithFields(logrus.Fields{
		"action":     action,
		"status":     status,
		"request_id": requestID,
	})
	// Failed calls carry their detail into the log
	if status == StatusError {
		l.WithField("detail", entry.Detail).Warn("Ledger call failed")
		return
	}
	l.Info("Ledger call")
}

// Entries returns the session log, newest first
func (c *Channel) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}
