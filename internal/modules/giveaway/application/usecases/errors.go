package usecases

import (
	"errors"

	"github.com/sglre6355/giveawaybot/internal/modules/giveaway/domain"
)

// Errors returned by the giveaway use cases.
var (
	// ErrNotFound is returned when a giveaway does not exist or belongs to another guild.
	ErrNotFound = domain.ErrNotFound

	// ErrDuplicateID is returned when a generated giveaway id collides with a stored one.
	ErrDuplicateID = domain.ErrDuplicateID

	// ErrAlreadyEnded is returned when ending or cancelling a giveaway that already ended.
	ErrAlreadyEnded = errors.New("giveaway has already ended")

	// ErrCancelled is returned when acting on a cancelled giveaway.
	ErrCancelled = errors.New("giveaway was cancelled")

	// ErrNotEnded is returned when claiming before the giveaway ended.
	ErrNotEnded = errors.New("giveaway has not ended yet")

	// ErrClosed is returned when entering a giveaway that no longer accepts entries.
	ErrClosed = errors.New("giveaway is closed")

	// ErrAlreadyEntered is returned when a user enters twice.
	ErrAlreadyEntered = errors.New("already entered")

	// ErrNoAttemptsLeft is returned when a user used every trivia attempt.
	ErrNoAttemptsLeft = errors.New("no trivia attempts left")

	// ErrWrongEntryMode is returned when an entry action does not match the giveaway's mode.
	ErrWrongEntryMode = errors.New("wrong entry mode for giveaway")

	// ErrNotPermitted is returned when a user may not manage a giveaway.
	ErrNotPermitted = errors.New("not permitted to manage giveaway")

	// ErrSessionNotFound is returned when a creation session expired or belongs to someone else.
	ErrSessionNotFound = errors.New("giveaway setup session not found")

	// ErrInvalidDuration is returned when a duration string cannot be parsed.
	ErrInvalidDuration = errors.New("invalid duration")
)
