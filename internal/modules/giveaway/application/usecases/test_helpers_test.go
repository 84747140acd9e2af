package usecases

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"

	"github.com/sglre6355/giveawaybot/internal/modules/giveaway/application/ports"
	"github.com/sglre6355/giveawaybot/internal/modules/giveaway/domain"
	"github.com/sglre6355/giveawaybot/internal/modules/giveaway/infrastructure"
	"github.com/sglre6355/giveawaybot/internal/scheduler"
)

var (
	testGuild   = snowflake.ID(100)
	testChannel = snowflake.ID(200)
	testCreator = snowflake.ID(300)
	testStart   = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
)

type mockAnnouncer struct {
	mu sync.Mutex

	announceErr error
	nextMessage snowflake.ID

	announced []*domain.Giveaway
	reactions []string
	results   map[string][]ports.ResolvedUser
	ended     []string
	cancelled []string
	retracted []snowflake.ID
}

func newMockAnnouncer() *mockAnnouncer {
	return &mockAnnouncer{
		nextMessage: 9000,
		results:     make(map[string][]ports.ResolvedUser),
	}
}

func (m *mockAnnouncer) Announce(_ context.Context, g *domain.Giveaway) (snowflake.ID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.announceErr != nil {
		return 0, m.announceErr
	}
	m.nextMessage++
	m.announced = append(m.announced, g.Clone())
	return m.nextMessage, nil
}

func (m *mockAnnouncer) AddReaction(_ context.Context, g *domain.Giveaway) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reactions = append(m.reactions, g.ID)
	return nil
}

func (m *mockAnnouncer) AnnounceResults(_ context.Context, g *domain.Giveaway, winners []ports.ResolvedUser) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[g.ID] = winners
	return nil
}

func (m *mockAnnouncer) MarkEnded(_ context.Context, g *domain.Giveaway, _ []ports.ResolvedUser) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ended = append(m.ended, g.ID)
	return nil
}

func (m *mockAnnouncer) MarkCancelled(_ context.Context, g *domain.Giveaway) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelled = append(m.cancelled, g.ID)
	return nil
}

func (m *mockAnnouncer) Retract(_ context.Context, g *domain.Giveaway) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.retracted = append(m.retracted, g.MessageID)
	return nil
}

type openCampaign struct {
	giveawayID string
	seeded     []snowflake.ID
	onEntry    ports.EntrantHandler
}

type mockCampaigns struct {
	mu     sync.Mutex
	open   map[snowflake.ID]openCampaign
	closed []snowflake.ID
}

func newMockCampaigns() *mockCampaigns {
	return &mockCampaigns{open: make(map[snowflake.ID]openCampaign)}
}

func (m *mockCampaigns) Open(g *domain.Giveaway, onEntry ports.EntrantHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.open[g.MessageID] = openCampaign{
		giveawayID: g.ID,
		seeded:     append([]snowflake.ID(nil), g.Participants...),
		onEntry:    onEntry,
	}
}

func (m *mockCampaigns) Close(messageID snowflake.ID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.open, messageID)
	m.closed = append(m.closed, messageID)
}

// react simulates a reaction collected by the campaign on messageID.
func (m *mockCampaigns) react(messageID, userID snowflake.ID) error {
	m.mu.Lock()
	c, ok := m.open[messageID]
	m.mu.Unlock()
	if !ok {
		return errors.New("no campaign")
	}
	return c.onEntry(context.Background(), c.giveawayID, userID)
}

type mockUsers struct {
	names map[snowflake.ID]string
}

func (m *mockUsers) DisplayName(_ context.Context, _, userID snowflake.ID) (string, error) {
	if name, ok := m.names[userID]; ok {
		return name, nil
	}
	return "", errors.New("unknown member")
}

type testEnv struct {
	engine    *Engine
	repo      *infrastructure.MemoryRepository
	attempts  *infrastructure.MemoryTriviaAttempts
	announcer *mockAnnouncer
	campaigns *mockCampaigns
	users     *mockUsers
	clock     *scheduler.FakeClock
	sched     *scheduler.Fake
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		repo:      infrastructure.NewMemoryRepository(),
		attempts:  infrastructure.NewMemoryTriviaAttempts(),
		announcer: newMockAnnouncer(),
		campaigns: newMockCampaigns(),
		users:     &mockUsers{names: make(map[snowflake.ID]string)},
		clock:     scheduler.NewFakeClock(testStart),
	}
	env.sched = scheduler.NewFake(env.clock)

	seq := 0
	env.engine = NewEngine(
		env.repo,
		env.attempts,
		env.announcer,
		env.campaigns,
		env.users,
		env.sched,
		env.clock,
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("gw%d", seq)
		}),
	)
	return env
}

func validDraft() domain.Draft {
	d := domain.NewDraft(testGuild, testChannel, testCreator)
	d.Title = "Launch party"
	d.Prize = "Nitro"
	d.Duration = time.Hour
	return d
}

// start launches a draft and fails the test on error.
func (env *testEnv) start(t *testing.T, mutate func(*domain.Draft)) *domain.Giveaway {
	t.Helper()

	d := validDraft()
	if mutate != nil {
		mutate(&d)
	}
	g, err := env.engine.Start(context.Background(), d)
	if err != nil {
		t.Fatalf("failed to start giveaway: %v", err)
	}
	return g
}

// seed stores a giveaway directly, bypassing Start.
func (env *testEnv) seed(t *testing.T, g *domain.Giveaway) {
	t.Helper()
	if err := env.repo.Create(context.Background(), g); err != nil {
		t.Fatalf("failed to seed giveaway: %v", err)
	}
}
