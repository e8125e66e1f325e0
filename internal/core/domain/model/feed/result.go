package feed

// Result is the outcome of one feed call for one transaction.
// When Err is set, Events is empty and the feed contributes no override.
// An incomplete feed carries the events fetched and a nil Err.
type Result struct {
	Kind   Kind
	Events []TaskEvent
	Err    error
}

// Succeeded reports whether the feed call returned without a feed-level error.
func (r Result) Succeeded() bool {
	return r.Err == nil
}

// HasEvents reports whether a successful call produced any task events.
func (r Result) HasEvents() bool {
	return r.Err == nil && len(r.Events) > 0
}
