package game

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestGame_RunEndsAfterThresholdRound(t *testing.T) {
	supply := &fakeSupply{
		roles: AllRoles(),
		buildings: []BuildingTemplate{
			{Name: "Hut", Cost: 0, Color: ColorTrade, Count: 20},
		},
	}

	g, seats := newTestGame(t, supply, Options{WinBuildings: 1}, "alice", "bob", "carol")
	for _, s := range seats {
		s.policy = firstOption
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	standings, err := g.Run(ctx)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if g.Round() != 2 {
		t.Fatalf("the game should stop after round 1 completes, round=%d", g.Round())
	}
	if len(standings) != 3 {
		t.Fatalf("want 3 standings got %d", len(standings))
	}

	// 每人建了 4 座 0 费建筑，第一个建满的 +4，其余 +2
	if standings[0].PlayerID != g.firstFinisher.ID || standings[0].Score != firstFinisherBonus {
		t.Fatalf("first finisher should lead with %d points, got %+v", firstFinisherBonus, standings[0])
	}
	for _, s := range standings[1:] {
		if s.Score != finisherBonus || s.Buildings != DefaultStartingHand {
			t.Fatalf("unexpected standing %+v", s)
		}
	}

	snap := g.Snapshot()
	if snap.Stage != STAGE_FINISHED || len(snap.Standings) != 3 {
		t.Fatalf("snapshot should report the finished game, got stage=%s standings=%d", snap.Stage, len(snap.Standings))
	}
	if !seats[0].received("Final standings:") || !seats[0].received("Starting the game!") {
		t.Fatalf("players should see the start and the final standings")
	}
}

func TestGame_RunDealsStartingResources(t *testing.T) {
	g, seats := newTestGame(t, defaultSupply(), Options{MaxRounds: 1}, "alice", "bob")

	// 回答用完后座位表现为断线，全部走兜底：拿金币、不建造
	for _, s := range seats {
		s.answers = nil
	}

	if _, err := g.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	for _, p := range g.table.Players() {
		if len(p.Hand()) != DefaultStartingHand {
			t.Fatalf("%s should keep the starting hand, got %d cards", p.Name, len(p.Hand()))
		}
		// 两人局每人两张角色牌，每个回合拿 2 金币
		if p.Gold() != DefaultStartingGold+2*incomeGold {
			t.Fatalf("%s want %d gold got %d", p.Name, DefaultStartingGold+2*incomeGold, p.Gold())
		}
	}

	if g.deck.Len() != 40-2*DefaultStartingHand {
		t.Fatalf("deck should shrink by the dealt cards, got %d", g.deck.Len())
	}
}

func TestGame_RunStopsAtRoundLimit(t *testing.T) {
	g, _ := newTestGame(t, defaultSupply(), Options{MaxRounds: 3, IdleRounds: -1}, "alice", "bob")

	if _, err := g.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if g.Round() != 4 {
		t.Fatalf("want 3 rounds played, round=%d", g.Round())
	}
}

func TestGame_RunEndsWhenAllSeatsClosed(t *testing.T) {
	// 回答为空的座位表现为断线，每个提问都走兜底
	g, seats := newTestGame(t, defaultSupply(), Options{}, "alice", "bob", "carol")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	standings, err := g.Run(ctx)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if g.Round() != DefaultIdleRounds+1 {
		t.Fatalf("want %d idle rounds played, round=%d", DefaultIdleRounds, g.Round())
	}
	if len(standings) != 3 || g.Snapshot().Stage != STAGE_FINISHED {
		t.Fatalf("the abandoned game should still be ranked, got %+v", standings)
	}
	if !seats[0].received("the game ends early") {
		t.Fatalf("players should be told the game ended early")
	}
}

func TestGame_RunIdleCounterResetsOnAnswer(t *testing.T) {
	g, seats := newTestGame(t, defaultSupply(), Options{MaxRounds: 4, IdleRounds: 2}, "alice", "bob")

	// alice 只在第一轮回答一次，之后两轮无人回答
	seats[0].answers = []string{"Builder"}

	if _, err := g.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if g.Round() != 4 {
		t.Fatalf("want 3 rounds played (1 answered + 2 idle), round=%d", g.Round())
	}
}

func TestGame_RunRequiresPlayers(t *testing.T) {
	g, _ := newTestGame(t, defaultSupply(), Options{}, "alice")

	if _, err := g.Run(context.Background()); !errors.Is(err, ErrTooFewPlayers) {
		t.Fatalf("want ErrTooFewPlayers got %v", err)
	}
	if g.Started() {
		t.Fatalf("a rejected start should leave the lobby open")
	}
}

func TestGame_RunRejectsInvalidCharacters(t *testing.T) {
	supply := defaultSupply()
	supply.roles = AllRoles()[:6]

	g, _ := newTestGame(t, supply, Options{}, "alice", "bob")

	if _, err := g.Run(context.Background()); !errors.Is(err, ErrInvalidDeck) {
		t.Fatalf("want ErrInvalidDeck got %v", err)
	}
}

func TestGame_RunPropagatesSupplyErrors(t *testing.T) {
	boom := errors.New("boom")
	g, _ := newTestGame(t, &fakeSupply{err: boom}, Options{}, "alice", "bob")

	if _, err := g.Run(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("want supply error got %v", err)
	}
}

func TestGame_LobbyClosesAfterStart(t *testing.T) {
	g, _ := newTestGame(t, defaultSupply(), Options{}, "alice", "bob")

	if err := g.begin(); err != nil {
		t.Fatalf("begin failed: %v", err)
	}

	if _, err := g.AddPlayer("carol", &scriptedSeat{}); !errors.Is(err, ErrGameStarted) {
		t.Fatalf("want ErrGameStarted got %v", err)
	}
	if err := g.RemovePlayer(g.table.At(0).ID); !errors.Is(err, ErrGameStarted) {
		t.Fatalf("want ErrGameStarted got %v", err)
	}
	if err := g.begin(); !errors.Is(err, ErrGameStarted) {
		t.Fatalf("a game can only start once, got %v", err)
	}
}

func TestGame_AddPlayerLimit(t *testing.T) {
	g := NewGame(defaultSupply(), Options{Rand: testRand()})

	for i := range MaxPlayers {
		if _, err := g.AddPlayer("", &scriptedSeat{}); err != nil {
			t.Fatalf("player %d should be seated, got %v", i, err)
		}
	}

	if _, err := g.AddPlayer("late", &scriptedSeat{}); !errors.Is(err, ErrTooManyPlayers) {
		t.Fatalf("want ErrTooManyPlayers got %v", err)
	}
}

func TestGame_SnapshotHidesHands(t *testing.T) {
	g, _ := newTestGame(t, defaultSupply(), Options{}, "alice", "bob")
	g.table.At(0).AddToHand(card(1, "Castle", 4, ColorNoble))
	g.publish()

	snap := g.Snapshot()
	if snap.Stage != STAGE_WAITING || len(snap.Players) != 2 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if snap.Players[0].HandSize != 1 || snap.Players[0].Name != "alice" {
		t.Fatalf("snapshot should carry hand sizes, got %+v", snap.Players[0])
	}
}

func TestGame_Ranking(t *testing.T) {
	g, _ := newTestGame(t, defaultSupply(), Options{WinBuildings: 5}, "alice", "bob", "carol", "dave")
	alice, bob, carol, dave := g.table.At(0), g.table.At(1), g.table.At(2), g.table.At(3)

	// alice：五色齐全 5 座，首位建满
	alice.built = []*BuildingCard{
		card(1, "Manor", 3, ColorNoble),
		card(2, "Temple", 1, ColorReligious),
		card(3, "Tavern", 1, ColorTrade),
		card(4, "Watchtower", 1, ColorMilitary),
		card(5, "Library", 6, ColorSpecial),
	}
	g.firstFinisher = alice

	// bob：也建满 5 座但不齐色
	bob.built = []*BuildingCard{
		card(6, "Manor", 3, ColorNoble),
		card(7, "Manor", 3, ColorNoble),
		card(8, "Manor", 3, ColorNoble),
		card(9, "Tavern", 1, ColorTrade),
		card(10, "Tavern", 1, ColorTrade),
	}

	// carol 和 dave 同分同建筑数，比较金币
	carol.built = []*BuildingCard{card(11, "Castle", 4, ColorNoble)}
	carol.AddGold(1)
	dave.built = []*BuildingCard{card(12, "Castle", 4, ColorNoble)}
	dave.AddGold(5)

	if got := g.Score(alice); got != 12+allColorsBonus+firstFinisherBonus {
		t.Fatalf("alice score want %d got %d", 12+allColorsBonus+firstFinisherBonus, got)
	}
	if got := g.Score(bob); got != 11+finisherBonus {
		t.Fatalf("bob score want %d got %d", 11+finisherBonus, got)
	}

	standings := g.rank()

	order := []string{"alice", "bob", "dave", "carol"}
	for i, s := range standings {
		if s.Name != order[i] || s.Rank != i+1 {
			t.Fatalf("position %d want %s got %s (rank %d)", i, order[i], s.Name, s.Rank)
		}
	}

	text := FormatStandings(standings)
	if text == "" {
		t.Fatalf("formatted standings should not be empty")
	}
}
