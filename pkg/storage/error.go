package storage

// UnavailableError is returned when the backing store cannot be reached or
// rejects an operation. Callers decide whether it is fatal: the orchestrator
// aborts on a failed read but only logs a failed write.
type UnavailableError struct {
	Op  string
	Err error
}

func (e UnavailableError) Error() string {
	if e.Err == nil {
		return "store unavailable: " + e.Op
	}

	return "store unavailable: " + e.Op + ": " + e.Err.Error()
}

func (e UnavailableError) Unwrap() error {
	return e.Err
}
