package service

import "errors"

var (
	// ErrNoRuleConfigured means no active rule matched the report. The
	// report is still created; callers surface this as a warning.
	ErrNoRuleConfigured = errors.New("no active assignment rule matches the report")

	// ErrNoEligibleUser means the whole ownership chain, Admin included,
	// has no active holder.
	ErrNoEligibleUser = errors.New("no active user found for any role in the ownership chain")

	ErrNotFound          = errors.New("not found")
	ErrNotOwner          = errors.New("actor is not the current owner")
	ErrInvalidTransition = errors.New("invalid state transition")
)
