package bot

import (
	"cmp"
	"fmt"
	"log/slog"
	"runtime/debug"
	"slices"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
)

// DefaultInteractionTimeout is how old a component's message may be before
// interactions on it are treated as stale.
const DefaultInteractionTimeout = 15 * time.Minute

// DefaultLevel is the level assigned when no tier rule matches the invoker.
const DefaultLevel = -1

// Failure notices shown to users.
const (
	msgInsufficientPermission = "You do not have permission to use this."
	msgInternalError          = "Something went wrong while handling that. Please try again later."
)

// TierRule assigns Level to invokers matching either UserID or Permission.
type TierRule struct {
	UserID     string
	Permission int64
	Level      int
}

// ComponentRequest is passed to component and modal handlers.
type ComponentRequest struct {
	Session     *discordgo.Session
	Interaction *discordgo.InteractionCreate
	Responder   Responder
	CustomID    CustomID

	// Level is the tier resolved for the invoker, or DefaultLevel.
	Level int
}

// UserID returns the id of the invoking user.
func (r *ComponentRequest) UserID() string {
	return interactionUserID(r.Interaction.Interaction)
}

// ComponentHandler handles a routed component or modal interaction.
type ComponentHandler func(req *ComponentRequest) error

type route struct {
	key         string
	handler     ComponentHandler
	timeout     time.Duration
	permissions int64
	tiers       []TierRule
}

// RouteOption configures a registered route.
type RouteOption func(*route)

// WithTimeout overrides the staleness timeout for a route.
func WithTimeout(d time.Duration) RouteOption {
	return func(r *route) {
		r.timeout = d
	}
}

// WithoutTimeout disables the staleness gate for a route.
func WithoutTimeout() RouteOption {
	return func(r *route) {
		r.timeout = 0
	}
}

// WithPermissions requires the invoker to hold every permission in perms.
func WithPermissions(perms int64) RouteOption {
	return func(r *route) {
		r.permissions = perms
	}
}

// WithTiers sets the ordered tier rules for a route. The first matching rule wins.
func WithTiers(rules ...TierRule) RouteOption {
	return func(r *route) {
		r.tiers = rules
	}
}

// InteractionRouter dispatches component and modal-submit interactions to the
// handler registered for their custom id.
type InteractionRouter struct {
	mu       sync.RWMutex
	routes   map[string]*route
	prefixes []*route
}

// NewInteractionRouter creates an empty InteractionRouter.
func NewInteractionRouter() *InteractionRouter {
	return &InteractionRouter{
		routes: make(map[string]*route),
	}
}

// Register adds a handler for an exact custom id or a custom id prefix.
func (r *InteractionRouter) Register(key string, handler ComponentHandler, opts ...RouteOption) error {
	if key == "" {
		return fmt.Errorf("empty route key")
	}

	rt := &route{
		key:     key,
		handler: handler,
		timeout: DefaultInteractionTimeout,
	}
	for _, opt := range opts {
		opt(rt)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.routes[key]; exists {
		return fmt.Errorf("route %q already registered", key)
	}
	r.routes[key] = rt

	r.prefixes = append(r.prefixes, rt)
	slices.SortStableFunc(r.prefixes, func(a, b *route) int {
		return cmp.Compare(len(b.key), len(a.key))
	})

	return nil
}

// Unregister removes a route and reports whether it existed.
func (r *InteractionRouter) Unregister(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.routes[key]; !ok {
		return false
	}
	delete(r.routes, key)
	r.prefixes = slices.DeleteFunc(r.prefixes, func(rt *route) bool {
		return rt.key == key
	})
	return true
}

// match returns the route for raw: an exact match first, then the longest
// registered prefix followed by the separator.
func (r *InteractionRouter) match(raw string) (*route, CustomID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if rt, ok := r.routes[raw]; ok {
		return rt, CustomID{Prefix: raw}, true
	}

	for _, rt := range r.prefixes {
		if id, ok := ParseCustomID(rt.key, raw); ok {
			return rt, id, true
		}
	}

	return nil, CustomID{}, false
}

// Dispatch routes a single component or modal-submit interaction.
func (r *InteractionRouter) Dispatch(s *discordgo.Session, i *discordgo.InteractionCreate, resp Responder) {
	raw := interactionCustomID(i)

	rt, id, ok := r.match(raw)
	if !ok {
		slog.Debug("found no route for interaction", "custom_id", raw)
		acknowledgeSilently(i, resp)
		return
	}

	if rt.permissions != 0 && !hasPermissions(i, rt.permissions) {
		if err := resp.Respond(Ephemeral(msgInsufficientPermission)); err != nil {
			slog.Error("failed to send permission denial", "custom_id", raw, "error", err)
		}
		return
	}

	if rt.timeout > 0 && isStale(i, rt.timeout) {
		slog.Debug("dropped stale interaction", "custom_id", raw)
		acknowledgeSilently(i, resp)
		return
	}

	req := &ComponentRequest{
		Session:     s,
		Interaction: i,
		Responder:   resp,
		CustomID:    id,
		Level:       resolveLevel(i, rt.tiers),
	}

	if err := runHandler(rt.handler, req); err != nil {
		slog.Error("failed to handle interaction",
			"handler", rt.key,
			"custom_id", raw,
			"user", req.UserID(),
			"error", err,
		)
		notifyFailure(resp, msgInternalError)
	}
}

func runHandler(h ComponentHandler, req *ComponentRequest) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("handler panicked: %v\n%s", rec, debug.Stack())
		}
	}()
	return h(req)
}

func interactionCustomID(i *discordgo.InteractionCreate) string {
	switch i.Type {
	case discordgo.InteractionMessageComponent:
		return i.MessageComponentData().CustomID
	case discordgo.InteractionModalSubmit:
		return i.ModalSubmitData().CustomID
	default:
		return ""
	}
}

func interactionUserID(i *discordgo.Interaction) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

func memberPermissions(i *discordgo.InteractionCreate) int64 {
	if i.Member == nil {
		return 0
	}
	return i.Member.Permissions
}

func hasPermissions(i *discordgo.InteractionCreate, required int64) bool {
	return memberPermissions(i)&required == required
}

// isStale compares the interaction's creation time with that of the message
// carrying the component.
func isStale(i *discordgo.InteractionCreate, timeout time.Duration) bool {
	if i.Message == nil {
		return false
	}

	interactionID, err := snowflake.Parse(i.ID)
	if err != nil {
		return false
	}
	messageID, err := snowflake.Parse(i.Message.ID)
	if err != nil {
		return false
	}

	return interactionID.Time().Sub(messageID.Time()) > timeout
}

func resolveLevel(i *discordgo.InteractionCreate, rules []TierRule) int {
	userID := interactionUserID(i.Interaction)
	perms := memberPermissions(i)

	for _, rule := range rules {
		if rule.UserID != "" && rule.UserID == userID {
			return rule.Level
		}
		if rule.Permission != 0 && perms&rule.Permission == rule.Permission {
			return rule.Level
		}
	}

	return DefaultLevel
}

func acknowledgeSilently(i *discordgo.InteractionCreate, resp Responder) {
	if resp.State() != AckNone {
		return
	}

	response := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	}
	if i.Message != nil {
		response = &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseDeferredMessageUpdate,
		}
	}

	if err := resp.Respond(response); err != nil {
		slog.Warn("failed to acknowledge interaction", "error", err)
	}
}

// notifyFailure sends a private notice using whichever response method is
// still valid for the interaction.
func notifyFailure(resp Responder, message string) {
	var err error
	switch resp.State() {
	case AckNone:
		err = resp.Respond(Ephemeral(message))
	case AckDeferred:
		err = resp.Edit(&discordgo.WebhookEdit{Content: &message})
	case AckReplied:
		err = resp.FollowUp(&discordgo.WebhookParams{
			Content: message,
			Flags:   discordgo.MessageFlagsEphemeral,
		})
	}
	if err != nil {
		slog.Error("failed to send failure notice", "error", err)
	}
}

// Ephemeral builds a private text reply.
func Ephemeral(content string) *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	}
}
