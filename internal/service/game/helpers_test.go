package game

import (
	"context"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
	"testing"
)

// scriptedSeat 依次返回预设回答；回答用完后交给 policy，
// 没有 policy 时表现为连接已断开
type scriptedSeat struct {
	mu       sync.Mutex
	answers  []string
	policy   func(Prompt) string
	prompts  []Prompt
	messages []string
}

func (s *scriptedSeat) Prompt(_ context.Context, p Prompt) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prompts = append(s.prompts, p)

	if len(s.answers) > 0 {
		answer := s.answers[0]
		s.answers = s.answers[1:]
		return answer, nil
	}

	if s.policy != nil {
		return s.policy(p), nil
	}

	return "", ErrSeatClosed
}

func (s *scriptedSeat) Notify(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = append(s.messages, text)
}

func (s *scriptedSeat) received(substr string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range s.messages {
		if strings.Contains(m, substr) {
			return true
		}
	}
	return false
}

func (s *scriptedSeat) promptsContaining(substr string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, p := range s.prompts {
		if strings.Contains(p.Text, substr) {
			n++
		}
	}
	return n
}

func (s *scriptedSeat) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prompts = nil
	s.messages = nil
}

// blockingSeat 从不回答，只等 ctx 结束
type blockingSeat struct{}

func (blockingSeat) Prompt(ctx context.Context, _ Prompt) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func (blockingSeat) Notify(string) {}

// firstOption 总是选第一个选项；建造阶段能建就建第一张，否则 stop
func firstOption(p Prompt) string {
	if slices.Contains(p.Options, "stop") {
		if slices.Contains(p.Options, "1") {
			return "1"
		}
		return "stop"
	}

	return p.Options[0]
}

type fakeSupply struct {
	roles     []Role
	buildings []BuildingTemplate
	err       error
}

func (f *fakeSupply) LoadCharacters() ([]Role, error) {
	if f.err != nil {
		return nil, f.err
	}
	return append([]Role(nil), f.roles...), nil
}

func (f *fakeSupply) LoadBuildings() ([]BuildingTemplate, error) {
	if f.err != nil {
		return nil, f.err
	}
	return append([]BuildingTemplate(nil), f.buildings...), nil
}

func defaultSupply() *fakeSupply {
	return &fakeSupply{
		roles: AllRoles(),
		buildings: []BuildingTemplate{
			{Name: "Tavern", Cost: 1, Color: ColorTrade, Count: 10},
			{Name: "Temple", Cost: 1, Color: ColorReligious, Count: 10},
			{Name: "Manor", Cost: 3, Color: ColorNoble, Count: 10},
			{Name: "Watchtower", Cost: 1, Color: ColorMilitary, Count: 10},
		},
	}
}

func testRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func newTestGame(t *testing.T, supply DeckSupply, opts Options, names ...string) (*Game, []*scriptedSeat) {
	t.Helper()

	if opts.Rand == nil {
		opts.Rand = testRand()
	}

	g := NewGame(supply, opts)
	seats := make([]*scriptedSeat, 0, len(names))

	for _, name := range names {
		seat := &scriptedSeat{}
		if _, err := g.AddPlayer(name, seat); err != nil {
			t.Fatalf("AddPlayer(%q) failed: %v", name, err)
		}
		seats = append(seats, seat)
	}

	g.roundNumber = 1
	g.round = NewRoundState(1)

	return g, seats
}

func card(id int, name string, cost int, color Color) *BuildingCard {
	return &BuildingCard{ID: id, Name: name, Cost: cost, Color: color}
}

func names(cards []*BuildingCard) []string {
	out := make([]string, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.Name)
	}
	return out
}
