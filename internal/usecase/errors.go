package usecase

import (
	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/pickem-standings/internal/domain/game"
	"github.com/riskibarqy/pickem-standings/internal/domain/standings"
)

var (
	ErrInvalidInput          = crerr.New("invalid input")
	ErrNotFound              = crerr.New("resource not found")
	ErrUnauthorized          = crerr.New("unauthorized")
	ErrDependencyUnavailable = crerr.New("dependency unavailable")
	// ErrInputInconsistency marks runs that failed on malformed game or pick data.
	ErrInputInconsistency = crerr.New("input inconsistency")
)

func validateWeekKey(key game.WeekKey) error {
	if err := key.Validate(); err != nil {
		return crerr.Mark(err, ErrInvalidInput)
	}
	return nil
}

// markInputError tags evaluator failures caused by malformed input.
func markInputError(err error) error {
	if crerr.Is(err, standings.ErrUnknownGame) || crerr.Is(err, standings.ErrDuplicatePick) {
		return crerr.Mark(err, ErrInputInconsistency)
	}
	return err
}

// countsAgainstDependency reports whether err should trip the storage breaker.
func countsAgainstDependency(err error) bool {
	return !crerr.Is(err, ErrInputInconsistency) && !crerr.Is(err, ErrInvalidInput)
}
