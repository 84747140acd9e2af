package discord

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/sglre6355/giveawaybot/internal/bot"
	"github.com/sglre6355/giveawaybot/internal/modules/giveaway/application/ports"
	"github.com/sglre6355/giveawaybot/internal/modules/giveaway/application/usecases"
	"github.com/sglre6355/giveawaybot/internal/modules/giveaway/domain"
)

// Embed colors.
const (
	colorActive    = 0x5865F2
	colorEnded     = 0x95A5A6
	colorCancelled = 0xE74C3C
	colorSuccess   = 0x08C404
)

// Discord limits for select menus and text inputs.
const (
	maxSelectOptions = 25
	maxLabelLength   = 45
	maxOptionLength  = 100
)

func timestamp(t time.Time, style string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), style)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func entryInstructions(g *domain.Giveaway) string {
	switch g.Entry.Kind {
	case domain.EntryReaction:
		return fmt.Sprintf("React with %s to enter!", g.Entry.Reaction.Display)
	case domain.EntryTrivia:
		return fmt.Sprintf("Answer the trivia question to enter:\n> %s", g.Entry.Trivia.Question)
	default:
		return "Click **Enter** to join!"
	}
}

func winnerNames(winners []ports.ResolvedUser) string {
	if len(winners) == 0 {
		return "No valid entrants"
	}
	names := make([]string, len(winners))
	for i, w := range winners {
		names[i] = w.Name
	}
	return strings.Join(names, ", ")
}

// announcementEmbed renders the announcement of an active giveaway.
func announcementEmbed(g *domain.Giveaway) *discordgo.MessageEmbed {
	var b strings.Builder
	fmt.Fprintf(&b, "**Prize:** %s\n", g.Prize)
	fmt.Fprintf(&b, "**Winners:** %d\n", g.WinnerCount)
	fmt.Fprintf(&b, "**Ends:** %s (%s)\n", timestamp(g.EndTime, "R"), timestamp(g.EndTime, "f"))
	fmt.Fprintf(&b, "**Hosted by:** <@%d>\n\n", g.CreatorID)
	b.WriteString(entryInstructions(g))

	return &discordgo.MessageEmbed{
		Title:       g.Title,
		Description: b.String(),
		Color:       colorActive,
		Footer:      &discordgo.MessageEmbedFooter{Text: "ID: " + g.ID},
		Timestamp:   g.EndTime.UTC().Format(time.RFC3339),
	}
}

// endedEmbed renders the terminal state of an announcement.
func endedEmbed(g *domain.Giveaway, winners []ports.ResolvedUser) *discordgo.MessageEmbed {
	var b strings.Builder
	fmt.Fprintf(&b, "**Prize:** %s\n", g.Prize)

	color := colorEnded
	if g.Cancelled {
		color = colorCancelled
		b.WriteString("This giveaway was cancelled.\n")
	} else {
		fmt.Fprintf(&b, "**Winners:** %s\n", winnerNames(winners))
		fmt.Fprintf(&b, "**Entrants:** %d\n", len(g.Participants))
	}
	fmt.Fprintf(&b, "**Ended:** %s\n", timestamp(g.EndTime, "f"))
	fmt.Fprintf(&b, "**Hosted by:** <@%d>", g.CreatorID)

	return &discordgo.MessageEmbed{
		Title:       g.Title,
		Description: b.String(),
		Color:       color,
		Footer:      &discordgo.MessageEmbedFooter{Text: "ID: " + g.ID},
	}
}

// entryComponents returns the controls of an announcement.
func entryComponents(g *domain.Giveaway, disabled bool) []discordgo.MessageComponent {
	var button discordgo.Button
	switch g.Entry.Kind {
	case domain.EntryButton:
		button = discordgo.Button{
			Label:    "Enter",
			Emoji:    &discordgo.ComponentEmoji{Name: "🎉"},
			Style:    discordgo.PrimaryButton,
			CustomID: bot.MustCustomID(prefixEnter, g.ID),
			Disabled: disabled,
		}
	case domain.EntryTrivia:
		button = discordgo.Button{
			Label:    "Answer trivia",
			Emoji:    &discordgo.ComponentEmoji{Name: "❓"},
			Style:    discordgo.PrimaryButton,
			CustomID: bot.MustCustomID(prefixTrivia, g.ID),
			Disabled: disabled,
		}
	default:
		return []discordgo.MessageComponent{}
	}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{button}},
	}
}

func claimComponents(g *domain.Giveaway) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{
				Label:    "Claim",
				Emoji:    &discordgo.ComponentEmoji{Name: "🎁"},
				Style:    discordgo.SuccessButton,
				CustomID: bot.MustCustomID(prefixClaim, g.ID),
			},
		}},
	}
}

func resultsContent(g *domain.Giveaway) string {
	if len(g.Winners) == 0 {
		return fmt.Sprintf("No one entered **%s**, so there are no winners.", g.Title)
	}
	mentions := make([]string, len(g.Winners))
	for i, id := range g.Winners {
		mentions[i] = fmt.Sprintf("<@%d>", id)
	}
	return fmt.Sprintf("Congratulations %s! You won **%s**! Press **Claim** to see your prize.",
		strings.Join(mentions, ", "), g.Title)
}

// wizardPanel renders the setup panel of a creation session.
func wizardPanel(s usecases.Session, limits domain.Limits) *discordgo.InteractionResponseData {
	d := s.Draft

	orUnset := func(v string) string {
		if v == "" {
			return "*not set*"
		}
		return v
	}

	duration := s.DurationInput
	if d.Duration > 0 {
		duration = fmt.Sprintf("%s (%s)", s.DurationInput, d.Duration)
	}

	fields := []*discordgo.MessageEmbedField{
		{Name: "Title", Value: orUnset(d.Title), Inline: true},
		{Name: "Prize", Value: orUnset(d.Prize), Inline: true},
		{Name: "Duration", Value: orUnset(duration), Inline: true},
		{Name: "Winners", Value: fmt.Sprint(d.WinnerCount), Inline: true},
		{Name: "Entry", Value: d.Entry.Label(), Inline: true},
	}
	switch d.Entry.Kind {
	case domain.EntryReaction:
		emoji := ""
		if d.Entry.Reaction != nil {
			emoji = d.Entry.Reaction.Display
		}
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Emoji", Value: orUnset(emoji), Inline: true})
	case domain.EntryTrivia:
		question, attempts := "", "unlimited"
		if t := d.Entry.Trivia; t != nil {
			question = t.Question
			if !t.Unlimited() {
				attempts = fmt.Sprint(t.MaxAttempts)
			}
		}
		fields = append(fields,
			&discordgo.MessageEmbedField{Name: "Question", Value: orUnset(question)},
			&discordgo.MessageEmbedField{Name: "Attempts", Value: attempts, Inline: true},
		)
	}

	embed := &discordgo.MessageEmbed{
		Title: "Giveaway setup",
		Description: fmt.Sprintf(
			"Fill in the details, pick an entry mode, then press **Start now**.\nUp to %d winners and %s.",
			limits.MaxWinners, limits.MaxDuration,
		),
		Color:  colorActive,
		Fields: fields,
	}

	settings := []discordgo.MessageComponent{
		discordgo.Button{
			Label:    "Details",
			Style:    discordgo.PrimaryButton,
			CustomID: bot.MustCustomID(prefixWizardDetails, s.Token),
		},
	}
	switch d.Entry.Kind {
	case domain.EntryTrivia:
		settings = append(settings, discordgo.Button{
			Label:    "Trivia question",
			Style:    discordgo.SecondaryButton,
			CustomID: bot.MustCustomID(prefixWizardTrivia, s.Token),
		})
	case domain.EntryReaction:
		settings = append(settings, discordgo.Button{
			Label:    "Emoji",
			Style:    discordgo.SecondaryButton,
			CustomID: bot.MustCustomID(prefixWizardEmoji, s.Token),
		})
	}

	modes := make([]discordgo.SelectMenuOption, 0, 3)
	for _, kind := range []domain.EntryKind{domain.EntryButton, domain.EntryReaction, domain.EntryTrivia} {
		modes = append(modes, discordgo.SelectMenuOption{
			Label:   domain.EntryMode{Kind: kind}.Label(),
			Value:   string(kind),
			Default: kind == d.Entry.Kind,
		})
	}

	return &discordgo.InteractionResponseData{
		Flags:  discordgo.MessageFlagsEphemeral,
		Embeds: []*discordgo.MessageEmbed{embed},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: settings},
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.SelectMenu{
					CustomID:    bot.MustCustomID(prefixWizardMode, s.Token),
					Placeholder: "Entry mode",
					Options:     modes,
				},
			}},
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Start now",
					Style:    discordgo.SuccessButton,
					CustomID: bot.MustCustomID(prefixWizardStart, s.Token),
				},
				discordgo.Button{
					Label:    "Cancel",
					Style:    discordgo.DangerButton,
					CustomID: bot.MustCustomID(prefixWizardCancel, s.Token),
				},
			}},
		},
	}
}

func textInput(id, label, value, placeholder string, style discordgo.TextInputStyle, required bool, maxLength int) discordgo.MessageComponent {
	return discordgo.ActionsRow{Components: []discordgo.MessageComponent{
		discordgo.TextInput{
			CustomID:    id,
			Label:       label,
			Style:       style,
			Value:       value,
			Placeholder: placeholder,
			Required:    required,
			MaxLength:   maxLength,
		},
	}}
}

func detailsModal(s usecases.Session, limits domain.Limits) *discordgo.InteractionResponse {
	winners := ""
	if s.Draft.WinnerCount > 0 {
		winners = fmt.Sprint(s.Draft.WinnerCount)
	}
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: bot.MustCustomID(prefixFormDetails, s.Token),
			Title:    "Giveaway details",
			Components: []discordgo.MessageComponent{
				textInput(fieldTitle, "Title", s.Draft.Title, "", discordgo.TextInputShort, true, limits.MaxTitleLength),
				textInput(fieldPrize, "Prize", s.Draft.Prize, "", discordgo.TextInputParagraph, true, limits.MaxPrizeLength),
				textInput(fieldDuration, "Duration", s.DurationInput, "e.g. 1h30m, 2d or in 3 hours", discordgo.TextInputShort, true, 50),
				textInput(fieldWinners, "Number of winners", winners, "1", discordgo.TextInputShort, false, 3),
			},
		},
	}
}

func triviaModal(s usecases.Session) *discordgo.InteractionResponse {
	question, answer, attempts := "", "", ""
	if t := s.Draft.Entry.Trivia; t != nil {
		question, answer = t.Question, t.Answer
		if !t.Unlimited() {
			attempts = fmt.Sprint(t.MaxAttempts)
		}
	}
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: bot.MustCustomID(prefixFormTrivia, s.Token),
			Title:    "Trivia question",
			Components: []discordgo.MessageComponent{
				textInput(fieldQuestion, "Question", question, "", discordgo.TextInputParagraph, true, 300),
				textInput(fieldAnswer, "Answer", answer, "Matched ignoring case", discordgo.TextInputShort, true, 100),
				textInput(fieldMaxAttempts, "Max attempts", attempts, "Leave empty for unlimited", discordgo.TextInputShort, false, 3),
			},
		},
	}
}

func emojiModal(s usecases.Session) *discordgo.InteractionResponse {
	current := ""
	if r := s.Draft.Entry.Reaction; r != nil {
		current = r.Display
	}
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: bot.MustCustomID(prefixFormEmoji, s.Token),
			Title:    "Entry emoji",
			Components: []discordgo.MessageComponent{
				textInput(fieldEmoji, "Emoji", current, "🎉 or <:name:id>", discordgo.TextInputShort, true, 100),
			},
		},
	}
}

func triviaAnswerModal(prompt *usecases.TriviaPrompt) *discordgo.InteractionResponse {
	placeholder := ""
	if prompt.AttemptsLeft > 0 {
		placeholder = fmt.Sprintf("%d attempt(s) left", prompt.AttemptsLeft)
	}
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: bot.MustCustomID(prefixTriviaAnswer, prompt.Giveaway.ID),
			Title:    truncate(prompt.Giveaway.Title, maxLabelLength),
			Components: []discordgo.MessageComponent{
				textInput(fieldAnswer, truncate(prompt.Question, maxLabelLength), "", placeholder, discordgo.TextInputShort, true, 100),
			},
		},
	}
}

// listPage renders one page of a giveaway list.
func listPage(giveaways []*domain.Giveaway, page, pageSize int, activeOnly bool) *discordgo.InteractionResponseData {
	pages := max((len(giveaways)+pageSize-1)/pageSize, 1)
	page = min(max(page, 0), pages-1)

	start := page * pageSize
	end := min(start+pageSize, len(giveaways))
	shown := giveaways[start:end]

	title := "Giveaways"
	if activeOnly {
		title = "Active giveaways"
	}

	embed := &discordgo.MessageEmbed{
		Title:  title,
		Color:  colorActive,
		Footer: &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Page %d/%d · %d total", page+1, pages, len(giveaways))},
	}
	if len(shown) == 0 {
		embed.Description = "There are no giveaways to show."
	}

	options := make([]discordgo.SelectMenuOption, 0, len(shown))
	for _, g := range shown {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: truncate(g.Title, 256),
			Value: fmt.Sprintf("%s · %s · %d entrants · ends %s",
				g.Status(), g.Entry.Label(), len(g.Participants), timestamp(g.EndTime, "R")),
		})
		options = append(options, discordgo.SelectMenuOption{
			Label:       truncate(g.Title, maxOptionLength),
			Value:       g.ID,
			Description: truncate(g.Prize, maxOptionLength),
		})
	}

	filter := filterAll
	if activeOnly {
		filter = filterActive
	}

	components := []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{
				Label:    "Previous",
				Style:    discordgo.SecondaryButton,
				CustomID: bot.MustCustomID(prefixListPage, fmt.Sprint(page-1), filter, "prev"),
				Disabled: page == 0,
			},
			discordgo.Button{
				Label:    "Next",
				Style:    discordgo.SecondaryButton,
				CustomID: bot.MustCustomID(prefixListPage, fmt.Sprint(page+1), filter, "next"),
				Disabled: page >= pages-1,
			},
		}},
	}
	if len(options) > 0 {
		components = append(components, discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.SelectMenu{
				CustomID:    prefixListSelect,
				Placeholder: "Show details",
				Options:     options[:min(len(options), maxSelectOptions)],
			},
		}})
	}

	return &discordgo.InteractionResponseData{
		Flags:      discordgo.MessageFlagsEphemeral,
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: components,
	}
}

// detailView renders one giveaway with management controls when allowed.
func detailView(g *domain.Giveaway, now time.Time, canManage bool) *discordgo.InteractionResponseData {
	var b strings.Builder
	fmt.Fprintf(&b, "**Prize:** %s\n", g.Prize)
	fmt.Fprintf(&b, "**Status:** %s\n", g.Status())
	fmt.Fprintf(&b, "**Entry:** %s\n", g.Entry.Label())
	fmt.Fprintf(&b, "**Entrants:** %d\n", len(g.Participants))
	fmt.Fprintf(&b, "**Winners:** %d\n", g.WinnerCount)
	fmt.Fprintf(&b, "**Started:** %s\n", timestamp(g.StartTime, "f"))
	fmt.Fprintf(&b, "**Ends:** %s\n", timestamp(g.EndTime, "f"))
	fmt.Fprintf(&b, "**Hosted by:** <@%d>\n", g.CreatorID)
	fmt.Fprintf(&b, "**Channel:** <#%d>", g.ChannelID)
	if g.Status() == domain.StatusEnded && len(g.Winners) > 0 {
		mentions := make([]string, len(g.Winners))
		for i, id := range g.Winners {
			mentions[i] = fmt.Sprintf("<@%d>", id)
		}
		fmt.Fprintf(&b, "\n**Drawn:** %s", strings.Join(mentions, ", "))
	}

	color := colorActive
	switch g.Status() {
	case domain.StatusEnded:
		color = colorEnded
	case domain.StatusCancelled:
		color = colorCancelled
	}

	data := &discordgo.InteractionResponseData{
		Flags: discordgo.MessageFlagsEphemeral,
		Embeds: []*discordgo.MessageEmbed{{
			Title:       g.Title,
			Description: b.String(),
			Color:       color,
			Footer:      &discordgo.MessageEmbedFooter{Text: "ID: " + g.ID},
		}},
		Components: []discordgo.MessageComponent{},
	}

	if canManage && g.IsActive(now) {
		data.Components = []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Finish now",
					Style:    discordgo.PrimaryButton,
					CustomID: bot.MustCustomID(prefixManageFinish, g.ID),
				},
				discordgo.Button{
					Label:    "Cancel giveaway",
					Style:    discordgo.DangerButton,
					CustomID: bot.MustCustomID(prefixManageCancel, g.ID),
				},
			}},
		}
	}

	return data
}

// claimMessage renders the private outcome of a claim.
func claimMessage(result *usecases.ClaimResult) string {
	g := result.Giveaway
	switch result.Outcome {
	case usecases.ClaimOverview:
		msg := fmt.Sprintf("**%s**\nPrize: **%s**\nWinners: %s", g.Title, g.Prize, winnerNames(result.Winners))
		if result.IsWinner {
			msg = "🎉 You won!\n" + msg
		}
		return msg
	case usecases.ClaimWinner:
		return fmt.Sprintf("🎉 Congratulations! You won **%s**.", g.Prize)
	default:
		return "You did not win this giveaway. Better luck next time!"
	}
}
