// SPDX-License-Identifier: MPL-2.0

package gitrev

import "fmt"

// RevisionQueryError reports a failed read of the working tree's current
// revision. Fatal: the orchestrator aborts before any mutation.
type RevisionQueryError struct {
	Err error
}

func (e *RevisionQueryError) Error() string {
	return fmt.Sprintf("querying current revision: %v", e.Err)
}

func (e *RevisionQueryError) Unwrap() error { return e.Err }

// CheckoutError reports a failed revision switch, either to the baseline or
// back to the original revision.
type CheckoutError struct {
	Ref string
	Err error
}

func (e *CheckoutError) Error() string {
	return fmt.Sprintf("switching to revision %q: %v", e.Ref, e.Err)
}

func (e *CheckoutError) Unwrap() error { return e.Err }
