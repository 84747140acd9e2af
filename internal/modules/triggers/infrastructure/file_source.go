package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/xhit/go-str2duration/v2"

	"github.com/sglre6355/giveawaybot/internal/modules/triggers/application/ports"
	"github.com/sglre6355/giveawaybot/internal/modules/triggers/domain"
)

// Ensure FileSource implements ports.RuleSource.
var _ ports.RuleSource = (*FileSource)(nil)

const (
	rulesFile = "rules.json"
	listsDir  = "lists"
)

// ErrInvalidListName is returned for list names that are not plain file names.
var ErrInvalidListName = errors.New("invalid list name")

var listNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ruleDocument is the on-disk shape of rules.json.
type ruleDocument struct {
	Rules []ruleEntry `json:"rules"`
}

type ruleEntry struct {
	Name     string `json:"name"`
	Enabled  bool   `json:"enabled"`
	GuildID  string `json:"guild_id"`
	Action   string `json:"action"`
	Match    string `json:"match"`
	Ambient  bool   `json:"ambient"`
	Triggers string `json:"triggers"`
	Items    string `json:"items"`
	Channels string `json:"channels"`
	Command  string `json:"command"`
	Cooldown *struct {
		Interval    string `json:"interval"`
		Charges     int    `json:"charges"`
		ItemMaxUses int    `json:"item_max_uses"`
	} `json:"cooldown"`
	PerUser *struct {
		Max   int    `json:"max"`
		Reset string `json:"reset"`
	} `json:"per_user"`
}

func (e ruleEntry) toRule() (domain.Rule, error) {
	rule := domain.Rule{
		Name:     e.Name,
		Enabled:  e.Enabled,
		GuildID:  e.GuildID,
		Action:   domain.Action(e.Action),
		Match:    domain.MatchMode(e.Match),
		Ambient:  e.Ambient,
		Triggers: e.Triggers,
		Items:    e.Items,
		Channels: e.Channels,
		Command:  e.Command,
	}

	if rule.Match == "" {
		rule.Match = domain.MatchWord
	}
	if m, err := domain.ParseMatchMode(string(rule.Match)); err == nil {
		rule.Match = m
	}

	if c := e.Cooldown; c != nil {
		interval, err := str2duration.ParseDuration(c.Interval)
		if err != nil {
			return rule, fmt.Errorf("%w %q: cooldown interval: %w", domain.ErrInvalidRule, e.Name, err)
		}
		rule.Cooldown = domain.Cooldown{Interval: interval, Charges: c.Charges, ItemMaxUses: c.ItemMaxUses}
	}

	if p := e.PerUser; p != nil {
		rule.PerUser.Max = p.Max
		if p.Reset != "" {
			reset, err := str2duration.ParseDuration(p.Reset)
			if err != nil {
				return rule, fmt.Errorf("%w %q: per-user reset: %w", domain.ErrInvalidRule, e.Name, err)
			}
			rule.PerUser.Reset = &reset
		}
	}

	return rule, rule.Validate()
}

// cachedDoc holds a decoded document and the modification time it was read at.
type cachedDoc[T any] struct {
	modTime time.Time
	value   T
}

// FileSource reads rules.json and lists/<name>.json from a directory. Each
// document is decoded again only when its modification time advances.
type FileSource struct {
	dir string

	mu    sync.Mutex
	rules *cachedDoc[[]domain.Rule]
	lists map[string]*cachedDoc[[]string]
}

// NewFileSource creates a FileSource rooted at dir.
func NewFileSource(dir string) *FileSource {
	return &FileSource{
		dir:   dir,
		lists: make(map[string]*cachedDoc[[]string]),
	}
}

// Rules returns the valid rules of rules.json. Invalid rules are logged and
// left out. A missing rules.json yields no rules.
func (s *FileSource) Rules(_ context.Context) ([]domain.Rule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, rulesFile)
	rules, err := load(path, s.rules, decodeRules)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.rules = rules
	return rules.value, nil
}

// List returns the entries of lists/<name>.json.
func (s *FileSource) List(_ context.Context, name string) ([]string, error) {
	if !listNamePattern.MatchString(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidListName, name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, listsDir, name+".json")
	list, err := load(path, s.lists[name], decodeList)
	if err != nil {
		return nil, err
	}
	s.lists[name] = list
	return list.value, nil
}

// load returns cached unless the file at path was modified after it was read.
func load[T any](path string, cached *cachedDoc[T], decode func([]byte) (T, error)) (*cachedDoc[T], error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if cached != nil && !info.ModTime().After(cached.modTime) {
		return cached, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	value, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	slog.Debug("loaded trigger document", "path", path)
	return &cachedDoc[T]{modTime: info.ModTime(), value: value}, nil
}

func decodeRules(data []byte) ([]domain.Rule, error) {
	var doc ruleDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	rules := make([]domain.Rule, 0, len(doc.Rules))
	for _, entry := range doc.Rules {
		rule, err := entry.toRule()
		if err != nil {
			slog.Warn("skipped invalid trigger rule", "rule", entry.Name, "error", err)
			continue
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func decodeList(data []byte) ([]string, error) {
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, err
	}
	return list, nil
}
