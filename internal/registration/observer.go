package registration

// Observer receives the outcome of a submission. Failed gets either a
// *ValidationError or a *RemoteError.
//
// Methods are called on the goroutine that produced the outcome: the caller of
// Submit for validation failures, a workflow goroutine otherwise.
type Observer interface {
	Succeeded()
	Failed(err error)
}

// Outcome is the result of one submission in value form, for observers that
// forward outcomes elsewhere (a channel, a pubsub broker).
type Outcome struct {
	err error
}

// Succeeded returns the successful outcome.
func Succeeded() Outcome { return Outcome{} }

// Failed returns a failed outcome carrying err.
func Failed(err error) Outcome { return Outcome{err: err} }

// OK reports whether the registration went through.
func (o Outcome) OK() bool { return o.err == nil }

// Err returns the failure, or nil.
func (o Outcome) Err() error { return o.err }

// ObserverFunc adapts a function taking an Outcome to an Observer.
type ObserverFunc func(Outcome)

func (f ObserverFunc) Succeeded()       { f(Succeeded()) }
func (f ObserverFunc) Failed(err error) { f(Failed(err)) }
