// Package stats records how account operations end: validation rejections,
// remote failures and successes. Recording is best-effort; callers log and
// ignore Record errors.
package stats

import (
	"context"
	"time"
)

// Operation names the account operation an event belongs to.
type Operation string

const (
	OpRegister Operation = "register"
	OpSignIn   Operation = "sign_in"
	OpSignOut  Operation = "sign_out"
)

// Result is how the operation ended.
type Result string

const (
	ResultSucceeded Result = "succeeded"
	ResultRejected  Result = "rejected" // failed local validation, never sent
	ResultFailed    Result = "failed"   // the backend reported an error
)

// Event is a single recorded outcome. Reason is free-form and low cardinality
// (a field name for rejections, empty otherwise).
type Event struct {
	Operation Operation
	Result    Result
	Reason    string
	At        time.Time
}

// Recorder persists events.
type Recorder interface {
	Record(ctx context.Context, ev Event) error
}

// Nop discards every event.
type Nop struct{}

// Record implements Recorder.
func (Nop) Record(context.Context, Event) error { return nil }
