package models

import "errors"

// Error kinds returned by the parsing, allocation and ledger code.
// They are always wrapped with context via fmt.Errorf("...: %w", ...)
// and checked with errors.Is. None of them is transient: every one is
// caused by bad input or inconsistent state, so nothing retries.
var (
	// ErrInvalidTargetFormat reports a malformed from/to directive,
	// e.g. an empty name or more than one ':' separator.
	ErrInvalidTargetFormat = errors.New("invalid target format")

	// ErrInvalidNumberFormat reports an unparseable amount or percentage.
	ErrInvalidNumberFormat = errors.New("invalid number format")

	// ErrInvalidSemantic reports directives that parse but cannot add
	// up, e.g. explicit amounts exceeding the expense total.
	ErrInvalidSemantic = errors.New("invalid semantic")

	// ErrInvalidName reports a member or group name that fails the
	// name format check, or a duplicate name.
	ErrInvalidName = errors.New("invalid name")

	// ErrMemberNotFound reports a reference to a member that does not
	// exist in the group.
	ErrMemberNotFound = errors.New("member not found")

	// ErrGroupNotFound reports a reference to an unknown group.
	ErrGroupNotFound = errors.New("group not found")

	// ErrLogEntryNotFound reports an undo index outside the log.
	ErrLogEntryNotFound = errors.New("log entry not found")
)
