package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// ErrBudgetExceeded means the rolling upstream call budget has no
	// free slot. Fatal to the sync run that hits it.
	ErrBudgetExceeded = errors.New("call budget exceeded")

	// ErrRateLimited is the upstream 429. Retried with backoff inside
	// the client; escalates when retries run out.
	ErrRateLimited = errors.New("upstream rate limited")

	// ErrUpstreamFormat marks a response that does not match the
	// expected envelope or record shape. Never retried.
	ErrUpstreamFormat = errors.New("unexpected upstream format")

	// ErrTransport covers network failures and upstream 5xx.
	ErrTransport = errors.New("upstream transport failure")

	// ErrDanglingReference marks a record whose foreign reference has
	// no local row. The record is skipped; the stage continues.
	ErrDanglingReference = errors.New("dangling reference")

	// ErrRunActive rejects a sync trigger while a run for the same
	// league and season is still in flight.
	ErrRunActive = errors.New("sync run already active")
)
