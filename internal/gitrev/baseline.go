// SPDX-License-Identifier: MPL-2.0

package gitrev

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
)

// State is the orchestrator's position in the switch/restore protocol.
type State int

const (
	// StateIdle precedes any revision query.
	StateIdle State = iota
	// StateCapturedOriginal holds once the original revision is recorded.
	StateCapturedOriginal
	// StateSwitchedToBaseline holds while the baseline is checked out.
	StateSwitchedToBaseline
	// StateRestoredOriginal is the success terminal: the callback completed
	// and the tree is back on the original revision.
	StateRestoredOriginal
	// StateFailedAtBaseline is the error terminal: the callback failed, or
	// the tree could not be brought back. The restore is attempted in either
	// case.
	StateFailedAtBaseline
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCapturedOriginal:
		return "captured-original"
	case StateSwitchedToBaseline:
		return "switched-to-baseline"
	case StateRestoredOriginal:
		return "restored-original"
	case StateFailedAtBaseline:
		return "failed-at-baseline"
	}
	return "unknown"
}

// CanTransitionTo reports whether moving to next is part of the protocol.
// The protocol is linear with two terminals; anything else is a bug.
func (s State) CanTransitionTo(next State) bool {
	switch s {
	case StateIdle:
		return next == StateCapturedOriginal
	case StateCapturedOriginal:
		return next == StateSwitchedToBaseline
	case StateSwitchedToBaseline:
		return next == StateRestoredOriginal || next == StateFailedAtBaseline
	}
	return false
}

// Switcher performs one baseline switch. Single use: the captured handle is
// consumed by the restore.
type Switcher struct {
	git    *Git
	logger *log.Logger
	state  State
}

// NewSwitcher returns an idle Switcher for the given repository.
func NewSwitcher(git *Git, logger *log.Logger) *Switcher {
	return &Switcher{git: git, logger: logger}
}

// State returns the orchestrator's current protocol position.
func (s *Switcher) State() State { return s.state }

func (s *Switcher) transition(next State) { s.state = next }

// WithBaseline runs fn while ref is checked out detached, then restores the
// original revision. The restore runs on every exit path after a successful
// switch, including callback error and panic, and ignores context
// cancellation so the tree is never left pointing at the baseline. A failed
// restore is joined onto the callback's error so neither is lost.
func (s *Switcher) WithBaseline(ctx context.Context, ref string, fn func(context.Context) error) (err error) {
	if s.state != StateIdle {
		return fmt.Errorf("baseline switch already performed (state %s)", s.state)
	}

	original, err := s.git.CurrentRevision(ctx)
	if err != nil {
		return err
	}
	s.transition(StateCapturedOriginal)
	if s.logger != nil {
		s.logger.Debug("captured original revision", "revision", original.String())
	}

	if err := s.git.SwitchDetach(ctx, ref); err != nil {
		// The switch did not happen; the tree is untouched.
		return err
	}
	s.transition(StateSwitchedToBaseline)
	if s.logger != nil {
		s.logger.Debug("switched to baseline", "ref", ref)
	}

	defer func() {
		restoreErr := s.git.Restore(context.WithoutCancel(ctx), original)
		if restoreErr != nil {
			if s.logger != nil {
				s.logger.Error("failed to restore original revision",
					"revision", original.String(), "err", restoreErr)
			}
			err = errors.Join(err, restoreErr)
		}
		if err != nil {
			s.transition(StateFailedAtBaseline)
			return
		}
		s.transition(StateRestoredOriginal)
		if s.logger != nil {
			s.logger.Debug("restored original revision", "revision", original.String())
		}
	}()

	err = fn(ctx)
	return err
}
