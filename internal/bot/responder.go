package bot

import (
	"errors"

	"github.com/bwmarrin/discordgo"
)

// AckState describes how far an interaction has been acknowledged.
type AckState int

const (
	// AckNone means no response has been sent yet.
	AckNone AckState = iota

	// AckDeferred means a deferred reply is pending and must be completed with Edit.
	AckDeferred

	// AckReplied means the interaction was answered, either with a message or
	// by updating the component's message. Only follow-ups remain valid.
	AckReplied
)

var (
	// ErrAlreadyAcknowledged is returned when Respond is called twice.
	ErrAlreadyAcknowledged = errors.New("interaction already acknowledged")

	// ErrNotAcknowledged is returned when Edit or FollowUp is called before Respond.
	ErrNotAcknowledged = errors.New("interaction not acknowledged")
)

// Responder provides an abstraction for responding to Discord interactions.
// This interface enables testing handlers without a live Discord connection.
type Responder interface {
	// Respond sends the initial response to an interaction. It may be called once.
	Respond(response *discordgo.InteractionResponse) error

	// Edit edits the initial response.
	Edit(edit *discordgo.WebhookEdit) error

	// FollowUp sends an additional message after the interaction was acknowledged.
	FollowUp(params *discordgo.WebhookParams) error

	// State returns the current acknowledgement state.
	State() AckState
}

// nextState returns the state reached after sending a response of type t.
func nextState(t discordgo.InteractionResponseType) AckState {
	if t == discordgo.InteractionResponseDeferredChannelMessageWithSource {
		return AckDeferred
	}
	return AckReplied
}

// DiscordResponder implements Responder using a live Discord session.
type DiscordResponder struct {
	session     *discordgo.Session
	interaction *discordgo.Interaction
	state       AckState
}

// NewDiscordResponder creates a new DiscordResponder.
func NewDiscordResponder(s *discordgo.Session, i *discordgo.Interaction) *DiscordResponder {
	return &DiscordResponder{
		session:     s,
		interaction: i,
	}
}

// Respond sends a response to the interaction via Discord API.
func (r *DiscordResponder) Respond(response *discordgo.InteractionResponse) error {
	if r.state != AckNone {
		return ErrAlreadyAcknowledged
	}
	if err := r.session.InteractionRespond(r.interaction, response); err != nil {
		return err
	}
	r.state = nextState(response.Type)
	return nil
}

// Edit edits the original interaction response.
func (r *DiscordResponder) Edit(edit *discordgo.WebhookEdit) error {
	if r.state == AckNone {
		return ErrNotAcknowledged
	}
	if _, err := r.session.InteractionResponseEdit(r.interaction, edit); err != nil {
		return err
	}
	r.state = AckReplied
	return nil
}

// FollowUp sends a follow-up message.
func (r *DiscordResponder) FollowUp(params *discordgo.WebhookParams) error {
	if r.state == AckNone {
		return ErrNotAcknowledged
	}
	_, err := r.session.FollowupMessageCreate(r.interaction, true, params)
	return err
}

// State returns the acknowledgement state.
func (r *DiscordResponder) State() AckState {
	return r.state
}

// MockResponder is a test double for Responder.
type MockResponder struct {
	Responses    []*discordgo.InteractionResponse
	Edits        []*discordgo.WebhookEdit
	FollowUps    []*discordgo.WebhookParams
	LastResponse *discordgo.InteractionResponse
	Err          error

	state AckState
}

// Respond records the response for testing.
func (m *MockResponder) Respond(response *discordgo.InteractionResponse) error {
	if m.state != AckNone {
		return ErrAlreadyAcknowledged
	}
	m.Responses = append(m.Responses, response)
	m.LastResponse = response
	if m.Err != nil {
		return m.Err
	}
	m.state = nextState(response.Type)
	return nil
}

// Edit records the edit for testing.
func (m *MockResponder) Edit(edit *discordgo.WebhookEdit) error {
	if m.state == AckNone {
		return ErrNotAcknowledged
	}
	m.Edits = append(m.Edits, edit)
	if m.Err != nil {
		return m.Err
	}
	m.state = AckReplied
	return nil
}

// FollowUp records the follow-up for testing.
func (m *MockResponder) FollowUp(params *discordgo.WebhookParams) error {
	if m.state == AckNone {
		return ErrNotAcknowledged
	}
	m.FollowUps = append(m.FollowUps, params)
	return m.Err
}

// State returns the recorded acknowledgement state.
func (m *MockResponder) State() AckState {
	return m.state
}

// SetState forces the acknowledgement state.
func (m *MockResponder) SetState(s AckState) {
	m.state = s
}

// LastContent returns the text of the most recent message the mock sent,
// whichever of Respond, Edit or FollowUp produced it. Embed descriptions are
// used when the message has no plain content.
func (m *MockResponder) LastContent() string {
	switch {
	case len(m.FollowUps) > 0:
		p := m.FollowUps[len(m.FollowUps)-1]
		return contentOf(p.Content, p.Embeds)
	case len(m.Edits) > 0:
		e := m.Edits[len(m.Edits)-1]
		var content string
		if e.Content != nil {
			content = *e.Content
		}
		var embeds []*discordgo.MessageEmbed
		if e.Embeds != nil {
			embeds = *e.Embeds
		}
		return contentOf(content, embeds)
	case m.LastResponse != nil && m.LastResponse.Data != nil:
		return contentOf(m.LastResponse.Data.Content, m.LastResponse.Data.Embeds)
	default:
		return ""
	}
}

func contentOf(content string, embeds []*discordgo.MessageEmbed) string {
	if content != "" || len(embeds) == 0 {
		return content
	}
	return embeds[0].Description
}

// Compile-time interface checks.
var (
	_ Responder = (*DiscordResponder)(nil)
	_ Responder = (*MockResponder)(nil)
)
