package game

import (
	"context"
	"testing"
	"time"
)

const discardPrompt = "Choose the card you want to remove from the deck"

func runDraft(t *testing.T, g *Game, seats []*scriptedSeat) {
	t.Helper()

	for _, s := range seats {
		s.policy = firstOption
	}

	if err := g.draft(context.Background(), AllRoles()); err != nil {
		t.Fatalf("draft failed: %v", err)
	}
}

func assertDistinctRoles(t *testing.T, g *Game, perPlayer int) {
	t.Helper()

	seen := make(map[Role]bool)
	for _, p := range g.table.Players() {
		chars := p.Characters()
		if len(chars) != perPlayer {
			t.Fatalf("%s should hold %d roles, got %d", p.Name, perPlayer, len(chars))
		}
		for _, c := range chars {
			if seen[c.Role] {
				t.Fatalf("role %s dealt twice", c.Role)
			}
			seen[c.Role] = true
		}
	}
}

func TestDraft_FourPlayers(t *testing.T) {
	g, seats := newTestGame(t, defaultSupply(), Options{}, "a", "b", "c", "d")

	runDraft(t, g, seats)

	assertDistinctRoles(t, g, 1)

	// 第一遍座位 1、2 公开弃牌，第二遍只剩一张由国王弃掉
	want := []int{1, 1, 1, 0}
	for i, s := range seats {
		if got := s.promptsContaining(discardPrompt); got != want[i] {
			t.Fatalf("seat %d want %d discard prompts got %d", i, want[i], got)
		}
	}

	if !seats[3].received("The other players are picking cards") {
		t.Fatalf("seat at draft position 3 should be told the others are picking")
	}
	if !seats[0].received("b removed a character card from the deck.") {
		t.Fatalf("visible discards should be announced to the other seats")
	}
	for _, s := range seats {
		if !s.received("The character cards have been picked.") {
			t.Fatalf("every seat should be told the draft is over")
		}
	}
}

func TestDraft_StartsFromKingAndWraps(t *testing.T) {
	g, seats := newTestGame(t, defaultSupply(), Options{}, "a", "b", "c", "d")
	g.kingIndex = 3

	runDraft(t, g, seats)

	// 国王是座位 3，座位 2 处在本遍第 3 个位置，不弃牌
	want := []int{1, 1, 0, 1}
	for i, s := range seats {
		if got := s.promptsContaining(discardPrompt); got != want[i] {
			t.Fatalf("seat %d want %d discard prompts got %d", i, want[i], got)
		}
	}

	if len(seats[3].prompts) == 0 || seats[3].promptsContaining("Choose your card") != 1 {
		t.Fatalf("king seat should pick exactly once")
	}
}

func TestDraft_TwoPlayersGetTwoRoles(t *testing.T) {
	g, seats := newTestGame(t, defaultSupply(), Options{}, "a", "b")

	runDraft(t, g, seats)

	assertDistinctRoles(t, g, 2)
}

func TestDraft_SevenPlayersSkipDiscards(t *testing.T) {
	g, seats := newTestGame(t, defaultSupply(), Options{}, "a", "b", "c", "d", "e", "f", "g")

	runDraft(t, g, seats)

	assertDistinctRoles(t, g, 1)

	for i, s := range seats {
		if got := s.promptsContaining(discardPrompt); got != 0 {
			t.Fatalf("seat %d should never discard at a full table, got %d prompts", i, got)
		}
	}
}

func TestDraft_RejectsUnknownAndTakenRoles(t *testing.T) {
	g, seats := newTestGame(t, defaultSupply(), Options{}, "a", "b", "c")
	seats[0].answers = []string{"Jester"}

	runDraft(t, g, seats)

	if !seats[0].received("This is not a valid card") {
		t.Fatalf("an unknown role name should be rejected")
	}
	assertDistinctRoles(t, g, 1)
}

func TestDraft_ClearsPreviousRoles(t *testing.T) {
	g, seats := newTestGame(t, defaultSupply(), Options{}, "a", "b", "c")
	g.table.At(0).takeCharacter(NewCharacterCard(RoleKing))

	runDraft(t, g, seats)

	assertDistinctRoles(t, g, 1)
}

func TestDraft_TimeoutTakesTopRole(t *testing.T) {
	g := NewGame(defaultSupply(), Options{Rand: testRand(), PromptTimeout: 10 * time.Millisecond})
	for _, name := range []string{"a", "b", "c"} {
		if _, err := g.AddPlayer(name, blockingSeat{}); err != nil {
			t.Fatalf("AddPlayer failed: %v", err)
		}
	}

	if err := g.draft(context.Background(), AllRoles()); err != nil {
		t.Fatalf("draft should fall back on timeouts, got: %v", err)
	}

	assertDistinctRoles(t, g, 1)
}

func TestDraft_CancelledContextAborts(t *testing.T) {
	g, _ := newTestGame(t, defaultSupply(), Options{}, "a", "b")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := g.draft(ctx, AllRoles()); err == nil {
		t.Fatalf("draft should stop when the context is cancelled")
	}
}
