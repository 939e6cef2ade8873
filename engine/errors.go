package engine

import "errors"

// The engine reports every failure as one of these conditions. The
// HTTP layer maps them onto status codes; nothing beyond the named
// condition is disclosed, in particular token failures never reveal
// whether a token existed.
var (
	// ErrInvalidInput marks a malformed create or edit payload.
	ErrInvalidInput = errors.New("invalid input")

	// ErrForbidden marks an ownership mismatch.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidState marks an operation incompatible with the draw's
	// lifecycle phase, such as editing a completed draw.
	ErrInvalidState = errors.New("operation not allowed in current state")

	// ErrAlreadyCompleted is returned by Execute when the draw has
	// already been executed, including by a concurrent caller.
	ErrAlreadyCompleted = errors.New("draw already completed")

	// ErrInsufficientParticipants is returned when a roster holds
	// fewer than two names.
	ErrInsufficientParticipants = errors.New("at least two participants required")

	// ErrDerangementExhausted is returned when the shuffle retry bound
	// is hit without producing a valid assignment. A valid assignment
	// always exists for two or more participants, so hitting the bound
	// points at broken randomness and is logged as anomalous.
	ErrDerangementExhausted = errors.New("no valid assignment produced within retry bound")

	// ErrInvalidToken marks an access token that is unknown or
	// already consumed. The two cases are deliberately
	// indistinguishable.
	ErrInvalidToken = errors.New("invalid or used access token")

	// ErrInvalidPersonalToken marks an unknown personal token.
	ErrInvalidPersonalToken = errors.New("invalid personal token")

	// ErrParticipantNotFound marks a participant id that does not
	// belong to the token's draw.
	ErrParticipantNotFound = errors.New("participant not found")

	// ErrAlreadyIdentified is returned when the chosen participant has
	// already been claimed, including by a concurrent caller.
	ErrAlreadyIdentified = errors.New("participant already identified")
)
