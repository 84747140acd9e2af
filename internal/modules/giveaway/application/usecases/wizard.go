package usecases

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/disgoorg/snowflake/v2"

	"github.com/sglre6355/giveawaybot/internal/modules/giveaway/domain"
)

// DetailsInput is the text submitted from the details form.
type DetailsInput struct {
	Title    string
	Prize    string
	Duration string
	Winners  string
}

// TriviaInput is the text submitted from the trivia form.
type TriviaInput struct {
	Question    string
	Answer      string
	MaxAttempts string
}

// Wizard drives the setup sessions that precede Engine.Start.
type Wizard struct {
	sessions  *SessionStore
	durations *DurationParser
	engine    *Engine
}

// NewWizard creates a Wizard.
func NewWizard(sessions *SessionStore, durations *DurationParser, engine *Engine) *Wizard {
	return &Wizard{
		sessions:  sessions,
		durations: durations,
		engine:    engine,
	}
}

// SessionTTL is how long an untouched setup session is kept.
const SessionTTL = 30 * time.Minute

// Open starts a setup session for creatorID. Abandoned sessions are pruned first.
func (w *Wizard) Open(guildID, channelID, creatorID snowflake.ID) Session {
	w.sessions.Prune(SessionTTL)
	return w.sessions.Create(domain.NewDraft(guildID, channelID, creatorID))
}

// Session returns the session owned by userID.
func (w *Wizard) Session(token string, userID snowflake.ID) (Session, error) {
	return w.sessions.Get(token, userID)
}

// SetDetails applies the details form. Invalid input leaves the session unchanged.
func (w *Wizard) SetDetails(token string, userID snowflake.ID, in DetailsInput) (Session, error) {
	var problems []string

	duration, err := w.durations.Parse(in.Duration)
	if err != nil {
		problems = append(problems, `the duration was not understood; try "1h30m", "2d" or "in 3 hours"`)
	}

	winners := 1
	if s := strings.TrimSpace(in.Winners); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			problems = append(problems, "the number of winners must be a positive whole number")
		} else {
			winners = n
		}
	}

	if len(problems) > 0 {
		return Session{}, &domain.ValidationError{Problems: problems}
	}

	return w.sessions.Update(token, userID, func(s *Session) error {
		s.Draft.Title = strings.TrimSpace(in.Title)
		s.Draft.Prize = strings.TrimSpace(in.Prize)
		s.Draft.Duration = duration
		s.Draft.WinnerCount = winners
		s.DurationInput = strings.TrimSpace(in.Duration)
		return nil
	})
}

// SetMode switches the entry mode. Settings of the previous mode are kept only
// when the kind does not change.
func (w *Wizard) SetMode(token string, userID snowflake.ID, kind domain.EntryKind) (Session, error) {
	return w.sessions.Update(token, userID, func(s *Session) error {
		if s.Draft.Entry.Kind == kind {
			return nil
		}
		switch kind {
		case domain.EntryButton:
			s.Draft.Entry = domain.ButtonMode()
		case domain.EntryReaction, domain.EntryTrivia:
			s.Draft.Entry = domain.EntryMode{Kind: kind}
		default:
			return errors.New("unknown entry mode")
		}
		return nil
	})
}

// SetTrivia applies the trivia form and switches the draft to trivia entry.
func (w *Wizard) SetTrivia(token string, userID snowflake.ID, in TriviaInput) (Session, error) {
	attempts := domain.UnlimitedAttempts
	if s := strings.TrimSpace(in.MaxAttempts); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || (n < 1 && n != domain.UnlimitedAttempts) {
			return Session{}, &domain.ValidationError{
				Problems: []string{"max attempts must be a positive whole number, or -1 for unlimited"},
			}
		}
		attempts = n
	}

	return w.sessions.Update(token, userID, func(s *Session) error {
		s.Draft.Entry = domain.TriviaMode(domain.TriviaEntry{
			Question:    strings.TrimSpace(in.Question),
			Answer:      strings.TrimSpace(in.Answer),
			MaxAttempts: attempts,
		})
		return nil
	})
}

// SetEmoji applies the emoji form and switches the draft to reaction entry.
func (w *Wizard) SetEmoji(token string, userID snowflake.ID, input string) (Session, error) {
	reaction, err := domain.ParseEmoji(input)
	if err != nil {
		return Session{}, &domain.ValidationError{
			Problems: []string{"that is not an emoji; use a unicode emoji or a custom emoji from this server"},
		}
	}

	return w.sessions.Update(token, userID, func(s *Session) error {
		s.Draft.Entry = domain.ReactionMode(reaction)
		return nil
	})
}

// Start launches the session's draft. On success the session is removed; on
// failure it is kept so the user can correct it.
func (w *Wizard) Start(ctx context.Context, token string, userID snowflake.ID) (*domain.Giveaway, error) {
	session, err := w.sessions.Get(token, userID)
	if err != nil {
		return nil, err
	}

	g, err := w.engine.Start(ctx, session.Draft)
	if err != nil {
		return nil, err
	}

	w.sessions.Delete(token)
	return g, nil
}

// Discard abandons the session.
func (w *Wizard) Discard(token string, userID snowflake.ID) error {
	if _, err := w.sessions.Get(token, userID); err != nil {
		return err
	}
	w.sessions.Delete(token)
	return nil
}
