package persistence

import "fmt"

// PersistenceError reports a failed write to local storage. Reads are
// best-effort and never surface this; writes that lose user data (a
// draft, preferences) must tell the caller which key failed.
type PersistenceError struct {
	Op    string
	Key   string
	Cause error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s failed for key %s: %v", e.Op, e.Key, e.Cause)
}

func (e *PersistenceError) Unwrap() error {
	return e.Cause
}
