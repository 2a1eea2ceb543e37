package runstate

import (
	"fmt"

	"YahooPrices/internal/logging"
	"YahooPrices/internal/notifier"
)

const (
	recoverySubject = "Run recovery"
	recoveryBody    = "Yahoo Finance download run was successful after a prior failure."

	dedupNote = "\n\nAdditional emails will not be sent while this failure persists - check the log file for more information. An email will be sent when the system recovers."
)

// Tracker is the Clear/Failing state machine over a Store. It sends one
// failure notification per failure streak and one recovery notification when
// a run succeeds after a recorded failure.
type Tracker struct {
	store    Store
	notifier notifier.Notifier
	log      *logging.Logger
}

// NewTracker creates a Tracker.
func NewTracker(store Store, n notifier.Notifier, log *logging.Logger) *Tracker {
	return &Tracker{store: store, notifier: n, log: log}
}

// Failing reports whether a failure from a previous run is still recorded.
func (t *Tracker) Failing() (bool, error) {
	_, failing, err := t.store.Get()
	return failing, err
}

// Failure records message as the current failure. The notification email is
// sent only on the Clear to Failing transition; while already Failing the
// stored message is overwritten without a duplicate email.
func (t *Tracker) Failure(subject, message string) error {
	_, failing, err := t.store.Get()
	if err != nil {
		return fmt.Errorf("read fatal error state: %w", err)
	}

	if failing {
		t.log.Log(logging.LevelDebug, "Failure already recorded from a prior run, suppressing duplicate notification email.")
	} else {
		t.log.Log(logging.LevelDetailed, "Stock errors reporting - sending notification email.")
		if err := t.notifier.Send(subject, message+dedupNote); err != nil {
			// Still record the failure so the next run does not re-notify.
			if serr := t.store.Set(message); serr != nil {
				t.log.Logf(logging.LevelError, "Failed to record fatal error state: %v", serr)
			}
			return err
		}
	}

	if err := t.store.Set(message); err != nil {
		return fmt.Errorf("record fatal error state: %w", err)
	}
	return nil
}

// Success handles a clean run: if a failure was recorded it sends a one-time
// recovery email and clears the state, otherwise it does nothing.
func (t *Tracker) Success() error {
	_, failing, err := t.store.Get()
	if err != nil {
		return fmt.Errorf("read fatal error state: %w", err)
	}
	if !failing {
		return nil
	}

	t.log.Log(logging.LevelSummary, "Run was successful after a prior failure.")
	if err := t.notifier.Send(recoverySubject, recoveryBody); err != nil {
		return err
	}
	if err := t.store.Clear(); err != nil {
		return fmt.Errorf("clear fatal error state: %w", err)
	}
	return nil
}
