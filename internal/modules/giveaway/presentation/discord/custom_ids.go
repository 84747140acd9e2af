package discord

// Component custom id prefixes. Dynamic parts (giveaway ids, session tokens,
// page numbers) are appended with bot.NewCustomID.
const (
	prefixEnter        = "gw_enter_btn"
	prefixTrivia       = "gw_trivia_btn"
	prefixTriviaAnswer = "gw_trivia_answer"
	prefixClaim        = "gw_claim_btn"

	prefixWizardDetails = "gw_wiz_details"
	prefixWizardMode    = "gw_wiz_mode"
	prefixWizardTrivia  = "gw_wiz_trivia"
	prefixWizardEmoji   = "gw_wiz_emoji"
	prefixWizardStart   = "gw_wiz_start"
	prefixWizardCancel  = "gw_wiz_cancel"

	prefixFormDetails = "gw_wizform_details"
	prefixFormTrivia  = "gw_wizform_trivia"
	prefixFormEmoji   = "gw_wizform_emoji"

	prefixListPage   = "gw_list_page"
	prefixListSelect = "gw_list_select"

	prefixManageFinish = "gw_manage_finish"
	prefixManageCancel = "gw_manage_cancel"
)

// Text input ids inside modals.
const (
	fieldTitle       = "title"
	fieldPrize       = "prize"
	fieldDuration    = "duration"
	fieldWinners     = "winners"
	fieldQuestion    = "question"
	fieldAnswer      = "answer"
	fieldMaxAttempts = "attempts"
	fieldEmoji       = "emoji"
)

// List filter parts.
const (
	filterActive = "active"
	filterAll    = "all"
)

// LevelManager is the tier of members holding Manage Server.
const LevelManager = 1
