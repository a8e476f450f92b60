package services

import "errors"

// Engine error taxonomy. Every error is terminal for the submission that
// produced it — the engine never retries on its own.
var (
	// NotFound class
	ErrMemberNotFound    = errors.New("member profile not found")
	ErrExerciseNotFound  = errors.New("exercise not found")
	ErrChallengeNotFound = errors.New("challenge not found")
	ErrSeasonNotFound    = errors.New("season not found")
	ErrTeamNotFound      = errors.New("team not found")
	ErrLevelNotFound     = errors.New("ladder level not found")

	// A challenge (or its season) resolved but lies outside its time window
	ErrChallengeInactive = errors.New("challenge is not currently active")

	// A season/challenge window ends before it starts — rejected at creation
	ErrInvalidRange = errors.New("time window ends before it starts")

	// The atomic update could not be applied; the caller should retry the
	// whole submission
	ErrConcurrencyConflict = errors.New("concurrent update conflict")

	// Administrative deletion blocked by existing references
	ErrConstraintViolation = errors.New("operation blocked by existing references")

	// A submission key was already used; the original award stands
	ErrDuplicateSubmission = errors.New("duplicate activity submission")
)

// IsNotFound reports whether err belongs to the NotFound class.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrMemberNotFound) ||
		errors.Is(err, ErrExerciseNotFound) ||
		errors.Is(err, ErrChallengeNotFound) ||
		errors.Is(err, ErrSeasonNotFound) ||
		errors.Is(err, ErrTeamNotFound) ||
		errors.Is(err, ErrLevelNotFound)
}
