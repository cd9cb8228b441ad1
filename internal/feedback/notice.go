package feedback

import (
	"time" // Notice ages
)

// Kind tags a notice
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

// Phase is where a notice is in its lifetime
type Phase int

const (
	PhaseVisible Phase = iota
	PhaseFading
)

// Notice is an ephemeral message shown to the user
type Notice struct {
	ID       uint64    // Unique per channel
	Kind     Kind      // success, error or info
	Message  string    // Text shown to the user
	PostedAt time.Time // When Notify was called
	Phase    Phase     // Set by Channel.Notices
}

// Icon returns the marker shown in front of the message
func (n Notice) Icon() string {
	if n.Kind == KindSuccess {
		return "✓"
	}
	return "✕"
}

// phaseAt reports the phase at now, and false once the notice should be removed
func phaseAt(posted, now time.Time, ttl, fade time.Duration) (Phase, bool) {
	age := now.Sub(posted)
	switch {
	case age < ttl:
		return PhaseVisible, true
	case age < ttl+fade:
		return PhaseFading, true
	default:
		return 0, false
	}
}
