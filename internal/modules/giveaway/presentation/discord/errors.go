package discord

import (
	"errors"
	"strings"

	"github.com/sglre6355/giveawaybot/internal/modules/giveaway/application/usecases"
	"github.com/sglre6355/giveawaybot/internal/modules/giveaway/domain"
)

// userMessage maps expected use case errors to the text shown to the user.
// It reports false for unexpected errors, which are left to the router.
func userMessage(err error) (string, bool) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return "Please fix the following:\n- " + strings.Join(verr.Problems, "\n- "), true
	}

	switch {
	case errors.Is(err, usecases.ErrNotFound):
		return "That giveaway no longer exists.", true
	case errors.Is(err, usecases.ErrAlreadyEnded):
		return "This giveaway has already ended.", true
	case errors.Is(err, usecases.ErrCancelled):
		return "This giveaway was cancelled.", true
	case errors.Is(err, usecases.ErrNotEnded):
		return "This giveaway has not ended yet.", true
	case errors.Is(err, usecases.ErrClosed):
		return "This giveaway is no longer accepting entries.", true
	case errors.Is(err, usecases.ErrAlreadyEntered):
		return "You have already entered this giveaway.", true
	case errors.Is(err, usecases.ErrNoAttemptsLeft):
		return "You have no trivia attempts left for this giveaway.", true
	case errors.Is(err, usecases.ErrWrongEntryMode):
		return "This giveaway does not accept that kind of entry.", true
	case errors.Is(err, usecases.ErrNotPermitted):
		return "Only the giveaway's creator or a server manager can do that.", true
	case errors.Is(err, usecases.ErrSessionNotFound):
		return "This setup session has expired. Run `/giveaway create` again.", true
	default:
		return "", false
	}
}
