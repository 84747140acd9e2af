package discord

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"

	"github.com/sglre6355/giveawaybot/internal/bot"
	"github.com/sglre6355/giveawaybot/internal/modules/giveaway/application/usecases"
	"github.com/sglre6355/giveawaybot/internal/modules/giveaway/domain"
	"github.com/sglre6355/giveawaybot/internal/scheduler"
)

// DefaultPageSize is the number of giveaways per list page.
const DefaultPageSize = 5

// Handlers holds the slash command, component and modal handlers.
type Handlers struct {
	engine   *usecases.Engine
	wizard   *usecases.Wizard
	clock    scheduler.Clock
	pageSize int
}

// NewHandlers creates new Handlers.
func NewHandlers(
	engine *usecases.Engine,
	wizard *usecases.Wizard,
	clock scheduler.Clock,
	pageSize int,
) *Handlers {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Handlers{
		engine:   engine,
		wizard:   wizard,
		clock:    clock,
		pageSize: pageSize,
	}
}

// Register adds every giveaway component and modal route to router.
func (h *Handlers) Register(router *bot.InteractionRouter) error {
	managerTier := bot.WithTiers(bot.TierRule{
		Permission: discordgo.PermissionManageGuild,
		Level:      LevelManager,
	})

	routes := []struct {
		key     string
		handler bot.ComponentHandler
		opts    []bot.RouteOption
	}{
		// Announcements outlive the default staleness window.
		{prefixEnter, h.handleEnter, []bot.RouteOption{bot.WithoutTimeout()}},
		{prefixTrivia, h.handleTriviaButton, []bot.RouteOption{bot.WithoutTimeout()}},
		{prefixTriviaAnswer, h.handleTriviaAnswer, []bot.RouteOption{bot.WithoutTimeout()}},
		{prefixClaim, h.handleClaim, []bot.RouteOption{bot.WithoutTimeout(), managerTier}},

		{prefixWizardDetails, h.handleWizardDetails, nil},
		{prefixWizardMode, h.handleWizardMode, nil},
		{prefixWizardTrivia, h.handleWizardTrivia, nil},
		{prefixWizardEmoji, h.handleWizardEmoji, nil},
		{prefixWizardStart, h.handleWizardStart, nil},
		{prefixWizardCancel, h.handleWizardCancel, nil},
		{prefixFormDetails, h.handleDetailsForm, nil},
		{prefixFormTrivia, h.handleTriviaForm, nil},
		{prefixFormEmoji, h.handleEmojiForm, nil},

		{prefixListPage, h.handleListPage, nil},
		{prefixListSelect, h.handleListSelect, []bot.RouteOption{managerTier}},
		{prefixManageFinish, h.handleManageFinish, []bot.RouteOption{managerTier}},
		{prefixManageCancel, h.handleManageCancel, []bot.RouteOption{managerTier}},
	}

	for _, rt := range routes {
		if err := router.Register(rt.key, rt.handler, rt.opts...); err != nil {
			return fmt.Errorf("failed to register route %s: %w", rt.key, err)
		}
	}
	return nil
}

// reply sends a private text message with whichever method the
// acknowledgement state allows.
func reply(r bot.Responder, content string) error {
	switch r.State() {
	case bot.AckDeferred:
		return r.Edit(&discordgo.WebhookEdit{Content: &content})
	case bot.AckReplied:
		return r.FollowUp(&discordgo.WebhookParams{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		})
	default:
		return r.Respond(bot.Ephemeral(content))
	}
}

// handleError reports expected errors to the user and returns the rest.
func handleError(r bot.Responder, err error) error {
	if msg, ok := userMessage(err); ok {
		return reply(r, msg)
	}
	return err
}

func updateMessage(data *discordgo.InteractionResponseData) *discordgo.InteractionResponse {
	data.Flags = 0
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: data,
	}
}

func deferUpdate(r bot.Responder) error {
	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
}

type invoker struct {
	guildID   snowflake.ID
	channelID snowflake.ID
	userID    snowflake.ID
	manager   bool
}

func invokerOf(i *discordgo.InteractionCreate) (invoker, error) {
	var inv invoker
	var err error

	if inv.guildID, err = snowflake.Parse(i.GuildID); err != nil {
		return inv, fmt.Errorf("invalid guild id %q: %w", i.GuildID, err)
	}
	if inv.channelID, err = snowflake.Parse(i.ChannelID); err != nil {
		return inv, fmt.Errorf("invalid channel id %q: %w", i.ChannelID, err)
	}

	var user *discordgo.User
	if i.Member != nil {
		user = i.Member.User
		inv.manager = i.Member.Permissions&discordgo.PermissionManageGuild != 0
	}
	if user == nil {
		user = i.User
	}
	if user == nil {
		return inv, errors.New("interaction has no user")
	}
	if inv.userID, err = snowflake.Parse(user.ID); err != nil {
		return inv, fmt.Errorf("invalid user id %q: %w", user.ID, err)
	}
	return inv, nil
}

func (inv invoker) actor() usecases.Actor {
	return usecases.Actor{UserID: inv.userID, GuildID: inv.guildID, Manager: inv.manager}
}

// componentInvoker resolves the invoker of a routed request, taking the
// manager flag from the resolved tier.
func componentInvoker(req *bot.ComponentRequest) (invoker, error) {
	inv, err := invokerOf(req.Interaction)
	if err != nil {
		return inv, err
	}
	inv.manager = req.Level >= LevelManager
	return inv, nil
}

// modalValues collects the text input values of a modal submission by input id.
func modalValues(i *discordgo.InteractionCreate) map[string]string {
	values := make(map[string]string)
	for _, row := range i.ModalSubmitData().Components {
		var children []discordgo.MessageComponent
		switch r := row.(type) {
		case *discordgo.ActionsRow:
			children = r.Components
		case discordgo.ActionsRow:
			children = r.Components
		}
		for _, c := range children {
			switch input := c.(type) {
			case *discordgo.TextInput:
				values[input.CustomID] = input.Value
			case discordgo.TextInput:
				values[input.CustomID] = input.Value
			}
		}
	}
	return values
}

func selectedValue(i *discordgo.InteractionCreate) string {
	values := i.MessageComponentData().Values
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// HandleGiveaway handles the /giveaway command and its subcommands.
func (h *Handlers) HandleGiveaway(s *discordgo.Session, i *discordgo.InteractionCreate, r bot.Responder) error {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return reply(r, "Unknown subcommand.")
	}

	sub := options[0]
	inv, err := invokerOf(i)
	if err != nil {
		return reply(r, "Giveaways can only be run in a server.")
	}

	switch sub.Name {
	case subcommandCreate:
		return h.create(r, inv)
	case subcommandList:
		activeOnly := false
		for _, opt := range sub.Options {
			if opt.Name == optionActiveOnly {
				activeOnly = opt.BoolValue()
			}
		}
		return h.list(r, inv, activeOnly)
	case subcommandFinish, subcommandCancel:
		var id string
		for _, opt := range sub.Options {
			if opt.Name == optionID {
				id = opt.StringValue()
			}
		}
		return h.finishOrCancel(r, inv, id, sub.Name == subcommandCancel)
	default:
		return reply(r, "Unknown subcommand.")
	}
}

func (h *Handlers) create(r bot.Responder, inv invoker) error {
	session := h.wizard.Open(inv.guildID, inv.channelID, inv.userID)
	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: wizardPanel(session, h.engine.Limits()),
	})
}

func (h *Handlers) list(r bot.Responder, inv invoker, activeOnly bool) error {
	giveaways, err := h.engine.List(context.Background(), inv.guildID, activeOnly)
	if err != nil {
		return err
	}
	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: listPage(giveaways, 0, h.pageSize, activeOnly),
	})
}

func (h *Handlers) finishOrCancel(r bot.Responder, inv invoker, id string, cancel bool) error {
	if err := r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	}); err != nil {
		return err
	}

	ctx := context.Background()
	if cancel {
		g, err := h.engine.Cancel(ctx, id, inv.actor())
		if err != nil {
			return handleError(r, err)
		}
		return reply(r, fmt.Sprintf("Cancelled **%s**.", g.Title))
	}

	g, err := h.engine.FinishNow(ctx, id, inv.actor())
	if err != nil {
		return handleError(r, err)
	}
	return reply(r, fmt.Sprintf("Finished **%s**. %d winner(s) drawn.", g.Title, len(g.Winners)))
}

func (h *Handlers) handleEnter(req *bot.ComponentRequest) error {
	inv, err := componentInvoker(req)
	if err != nil {
		return err
	}

	g, err := h.engine.EnterButton(context.Background(), req.CustomID.Part(0), inv.userID)
	if err != nil {
		return handleError(req.Responder, err)
	}
	return reply(req.Responder, fmt.Sprintf("You have entered **%s**. Good luck!", g.Title))
}

func (h *Handlers) handleTriviaButton(req *bot.ComponentRequest) error {
	inv, err := componentInvoker(req)
	if err != nil {
		return err
	}

	prompt, err := h.engine.CheckTrivia(context.Background(), req.CustomID.Part(0), inv.userID)
	if err != nil {
		return handleError(req.Responder, err)
	}
	return req.Responder.Respond(triviaAnswerModal(prompt))
}

func (h *Handlers) handleTriviaAnswer(req *bot.ComponentRequest) error {
	inv, err := componentInvoker(req)
	if err != nil {
		return err
	}

	answer := modalValues(req.Interaction)[fieldAnswer]
	result, err := h.engine.AnswerTrivia(context.Background(), req.CustomID.Part(0), inv.userID, answer)
	if err != nil {
		return handleError(req.Responder, err)
	}
	return reply(req.Responder, result.Message())
}

func (h *Handlers) handleClaim(req *bot.ComponentRequest) error {
	inv, err := componentInvoker(req)
	if err != nil {
		return err
	}

	result, err := h.engine.Claim(context.Background(), req.CustomID.Part(0), inv.userID, inv.manager)
	if err != nil {
		return handleError(req.Responder, err)
	}
	return reply(req.Responder, claimMessage(result))
}

func (h *Handlers) handleWizardDetails(req *bot.ComponentRequest) error {
	return h.openForm(req, func(s usecases.Session) *discordgo.InteractionResponse {
		return detailsModal(s, h.engine.Limits())
	})
}

func (h *Handlers) handleWizardTrivia(req *bot.ComponentRequest) error {
	return h.openForm(req, triviaModal)
}

func (h *Handlers) handleWizardEmoji(req *bot.ComponentRequest) error {
	return h.openForm(req, emojiModal)
}

func (h *Handlers) openForm(req *bot.ComponentRequest, modal func(usecases.Session) *discordgo.InteractionResponse) error {
	inv, err := componentInvoker(req)
	if err != nil {
		return err
	}

	session, err := h.wizard.Session(req.CustomID.Part(0), inv.userID)
	if err != nil {
		return handleError(req.Responder, err)
	}
	return req.Responder.Respond(modal(session))
}

// updateWizard applies fn to the session and redraws the panel.
func (h *Handlers) updateWizard(
	req *bot.ComponentRequest,
	fn func(token string, userID snowflake.ID) (usecases.Session, error),
) error {
	inv, err := componentInvoker(req)
	if err != nil {
		return err
	}

	session, err := fn(req.CustomID.Part(0), inv.userID)
	if err != nil {
		return handleError(req.Responder, err)
	}
	return req.Responder.Respond(updateMessage(wizardPanel(session, h.engine.Limits())))
}

func (h *Handlers) handleWizardMode(req *bot.ComponentRequest) error {
	kind, err := domain.ParseEntryKind(selectedValue(req.Interaction))
	if err != nil {
		return reply(req.Responder, "Unknown entry mode.")
	}
	return h.updateWizard(req, func(token string, userID snowflake.ID) (usecases.Session, error) {
		return h.wizard.SetMode(token, userID, kind)
	})
}

func (h *Handlers) handleDetailsForm(req *bot.ComponentRequest) error {
	values := modalValues(req.Interaction)
	return h.updateWizard(req, func(token string, userID snowflake.ID) (usecases.Session, error) {
		return h.wizard.SetDetails(token, userID, usecases.DetailsInput{
			Title:    values[fieldTitle],
			Prize:    values[fieldPrize],
			Duration: values[fieldDuration],
			Winners:  values[fieldWinners],
		})
	})
}

func (h *Handlers) handleTriviaForm(req *bot.ComponentRequest) error {
	values := modalValues(req.Interaction)
	return h.updateWizard(req, func(token string, userID snowflake.ID) (usecases.Session, error) {
		return h.wizard.SetTrivia(token, userID, usecases.TriviaInput{
			Question:    values[fieldQuestion],
			Answer:      values[fieldAnswer],
			MaxAttempts: values[fieldMaxAttempts],
		})
	})
}

func (h *Handlers) handleEmojiForm(req *bot.ComponentRequest) error {
	values := modalValues(req.Interaction)
	return h.updateWizard(req, func(token string, userID snowflake.ID) (usecases.Session, error) {
		return h.wizard.SetEmoji(token, userID, values[fieldEmoji])
	})
}

func (h *Handlers) handleWizardStart(req *bot.ComponentRequest) error {
	inv, err := componentInvoker(req)
	if err != nil {
		return err
	}

	if err := deferUpdate(req.Responder); err != nil {
		return err
	}

	g, err := h.wizard.Start(context.Background(), req.CustomID.Part(0), inv.userID)
	if err != nil {
		return handleError(req.Responder, err)
	}

	content := fmt.Sprintf("Started **%s** in <#%d>. It ends %s.", g.Title, g.ChannelID, timestamp(g.EndTime, "R"))
	embeds := []*discordgo.MessageEmbed{}
	components := []discordgo.MessageComponent{}
	return req.Responder.Edit(&discordgo.WebhookEdit{
		Content:    &content,
		Embeds:     &embeds,
		Components: &components,
	})
}

func (h *Handlers) handleWizardCancel(req *bot.ComponentRequest) error {
	inv, err := componentInvoker(req)
	if err != nil {
		return err
	}

	if err := h.wizard.Discard(req.CustomID.Part(0), inv.userID); err != nil {
		return handleError(req.Responder, err)
	}

	return req.Responder.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    "Giveaway setup cancelled.",
			Embeds:     []*discordgo.MessageEmbed{},
			Components: []discordgo.MessageComponent{},
		},
	})
}

func (h *Handlers) handleListPage(req *bot.ComponentRequest) error {
	inv, err := componentInvoker(req)
	if err != nil {
		return err
	}

	page, err := strconv.Atoi(req.CustomID.Part(0))
	if err != nil {
		return fmt.Errorf("invalid page %q: %w", req.CustomID.Part(0), err)
	}
	activeOnly := req.CustomID.Part(1) == filterActive

	giveaways, err := h.engine.List(context.Background(), inv.guildID, activeOnly)
	if err != nil {
		return err
	}
	return req.Responder.Respond(updateMessage(listPage(giveaways, page, h.pageSize, activeOnly)))
}

func (h *Handlers) handleListSelect(req *bot.ComponentRequest) error {
	inv, err := componentInvoker(req)
	if err != nil {
		return err
	}

	g, err := h.engine.Get(context.Background(), selectedValue(req.Interaction), inv.guildID)
	if err != nil {
		return handleError(req.Responder, err)
	}

	return req.Responder.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: detailView(g, h.clock.Now(), inv.actor().CanManage(g)),
	})
}

func (h *Handlers) handleManageFinish(req *bot.ComponentRequest) error {
	return h.manage(req, h.engine.FinishNow)
}

func (h *Handlers) handleManageCancel(req *bot.ComponentRequest) error {
	return h.manage(req, h.engine.Cancel)
}

func (h *Handlers) manage(
	req *bot.ComponentRequest,
	action func(ctx context.Context, id string, actor usecases.Actor) (*domain.Giveaway, error),
) error {
	inv, err := componentInvoker(req)
	if err != nil {
		return err
	}

	if err := deferUpdate(req.Responder); err != nil {
		return err
	}

	g, err := action(context.Background(), req.CustomID.Part(0), inv.actor())
	if err != nil {
		return handleError(req.Responder, err)
	}

	view := detailView(g, h.clock.Now(), false)
	return req.Responder.Edit(&discordgo.WebhookEdit{
		Embeds:     &view.Embeds,
		Components: &view.Components,
	})
}
