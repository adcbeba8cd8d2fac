package services

import "fmt"

// ValidationError rejects a request before any store access happens.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// StoreError is a failed structural write (route create, delivery upsert,
// stop insert) or reference-data read. It aborts the whole import; data
// quality problems never become a StoreError.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *StoreError) Unwrap() error { return e.Err }
