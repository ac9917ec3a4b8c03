package tui

import "time"

// refreshedMsg reports the end of a refresh round.
type refreshedMsg struct {
	errs []error
}

// tickMsg triggers a periodic refresh.
type tickMsg time.Time
