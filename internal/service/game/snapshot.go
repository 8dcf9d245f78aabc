package game

// Snapshot 是对外公开的局面，不包含手牌内容和本轮角色
type Snapshot struct {
	GameID        string           `json:"game_id"`
	Stage         string           `json:"stage"`
	Round         int              `json:"round"`
	KingSeat      int              `json:"king_seat"`
	CurrentPlayer string           `json:"current_player,omitempty"`
	DeckSize      int              `json:"deck_size"`
	Players       []PlayerSnapshot `json:"players"`
	Standings     []Standing       `json:"standings,omitempty"`
}

type PlayerSnapshot struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Gold      int      `json:"gold"`
	HandSize  int      `json:"hand_size"`
	Buildings []string `json:"buildings"`
}

// Snapshot 可以在任意协程调用
func (g *Game) Snapshot() Snapshot {
	return *g.snapshot.Load()
}

// publish 只能由持有状态的一方调用：开局前在 mu 内，开局后在 Run 协程内
func (g *Game) publish() {
	snap := &Snapshot{
		GameID:    g.ID,
		Stage:     g.stage,
		Round:     g.roundNumber,
		KingSeat:  g.kingIndex,
		DeckSize:  g.deck.Len(),
		Players:   make([]PlayerSnapshot, 0, g.table.Len()),
		Standings: append([]Standing(nil), g.standings...),
	}

	if g.current != nil {
		snap.CurrentPlayer = g.current.Name
	}

	for _, p := range g.table.Players() {
		buildings := make([]string, 0, p.BuiltCount())
		for _, c := range p.built {
			buildings = append(buildings, c.Name)
		}

		snap.Players = append(snap.Players, PlayerSnapshot{
			ID:        p.ID,
			Name:      p.Name,
			Gold:      p.gold,
			HandSize:  len(p.hand),
			Buildings: buildings,
		})
	}

	g.snapshot.Store(snap)
}
