package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/disgoorg/snowflake/v2"

	"github.com/sglre6355/giveawaybot/internal/modules/giveaway/application/ports"
	"github.com/sglre6355/giveawaybot/internal/modules/giveaway/domain"
)

// EnterButton records a button entry.
func (e *Engine) EnterButton(ctx context.Context, id string, userID snowflake.ID) (*domain.Giveaway, error) {
	return e.enter(ctx, id, userID, domain.EntryButton)
}

// AddReactionEntrant records a reaction entry. It is the callback registered
// with reaction campaigns. Repeat entries and entries after the end are
// wrapped with ports.ErrEntryRefused.
func (e *Engine) AddReactionEntrant(ctx context.Context, id string, userID snowflake.ID) error {
	_, err := e.enter(ctx, id, userID, domain.EntryReaction)
	if errors.Is(err, ErrAlreadyEntered) || errors.Is(err, ErrClosed) {
		return fmt.Errorf("%w: %w", ports.ErrEntryRefused, err)
	}
	return err
}

func (e *Engine) enter(
	ctx context.Context,
	id string,
	userID snowflake.ID,
	kind domain.EntryKind,
) (*domain.Giveaway, error) {
	g, err := e.repo.Update(ctx, id, func(g *domain.Giveaway) error {
		if g.Entry.Kind != kind {
			return ErrWrongEntryMode
		}
		if !g.IsOpen(e.clock.Now()) {
			return ErrClosed
		}
		if !g.AddParticipant(userID) {
			return ErrAlreadyEntered
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Debug("recorded entry", "giveaway", id, "user", userID, "mode", kind)
	return g, nil
}

// TriviaPrompt is what a user sees before answering.
type TriviaPrompt struct {
	Giveaway *domain.Giveaway
	Question string

	// AttemptsLeft is -1 when attempts are unlimited.
	AttemptsLeft int
}

// TriviaResult is the outcome of one answer.
type TriviaResult struct {
	Correct bool

	// AttemptsLeft is -1 when attempts are unlimited.
	AttemptsLeft int
}

// Message renders the outcome for the user.
func (r TriviaResult) Message() string {
	switch {
	case r.Correct:
		return "Correct! You have entered the giveaway."
	case r.AttemptsLeft < 0:
		return "Incorrect answer. Try again."
	case r.AttemptsLeft == 0:
		return "Incorrect answer. You have no more attempts."
	default:
		return fmt.Sprintf("Incorrect answer. You have %d attempt(s) left.", r.AttemptsLeft)
	}
}

// CheckTrivia verifies that userID may attempt the trivia of giveaway id. It is
// called before showing the answer prompt.
func (e *Engine) CheckTrivia(ctx context.Context, id string, userID snowflake.ID) (*TriviaPrompt, error) {
	g, err := e.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	left, err := e.triviaGate(ctx, g, userID)
	if err != nil {
		return nil, err
	}

	return &TriviaPrompt{
		Giveaway:     g,
		Question:     g.Entry.Trivia.Question,
		AttemptsLeft: left,
	}, nil
}

// AnswerTrivia checks answer and enters the user when it is correct. A wrong
// answer uses up one attempt.
func (e *Engine) AnswerTrivia(ctx context.Context, id string, userID snowflake.ID, answer string) (TriviaResult, error) {
	g, err := e.repo.Get(ctx, id)
	if err != nil {
		return TriviaResult{}, err
	}

	if _, err := e.triviaGate(ctx, g, userID); err != nil {
		return TriviaResult{}, err
	}

	trivia := *g.Entry.Trivia
	if trivia.Matches(answer) {
		if _, err := e.enter(ctx, id, userID, domain.EntryTrivia); err != nil {
			return TriviaResult{}, err
		}
		return TriviaResult{Correct: true, AttemptsLeft: remaining(trivia, 0)}, nil
	}

	used, err := e.attempts.Increment(ctx, id, userID)
	if err != nil {
		return TriviaResult{}, fmt.Errorf("failed to record trivia attempt: %w", err)
	}

	return TriviaResult{AttemptsLeft: remaining(trivia, used)}, nil
}

// triviaGate returns the attempts left, or why the user may not answer.
func (e *Engine) triviaGate(ctx context.Context, g *domain.Giveaway, userID snowflake.ID) (int, error) {
	if g.Entry.Kind != domain.EntryTrivia || g.Entry.Trivia == nil {
		return 0, ErrWrongEntryMode
	}
	if !g.IsOpen(e.clock.Now()) {
		return 0, ErrClosed
	}
	if g.HasParticipant(userID) {
		return 0, ErrAlreadyEntered
	}

	used, err := e.attempts.Get(ctx, g.ID, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to read trivia attempts: %w", err)
	}

	left := remaining(*g.Entry.Trivia, used)
	if left == 0 {
		return 0, ErrNoAttemptsLeft
	}
	return left, nil
}

func remaining(t domain.TriviaEntry, used int) int {
	if t.Unlimited() {
		return -1
	}
	return max(t.MaxAttempts-used, 0)
}
