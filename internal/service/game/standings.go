package game

import (
	"fmt"
	"slices"
	"strings"
)

const (
	allColorsBonus     = 3
	firstFinisherBonus = 4
	finisherBonus      = 2
)

type Standing struct {
	Rank      int    `json:"rank"`
	PlayerID  string `json:"player_id"`
	Name      string `json:"name"`
	Score     int    `json:"score"`
	Buildings int    `json:"buildings"`
	Gold      int    `json:"gold"`
}

// Score 计算玩家的最终得分：
// 已建造建筑的造价之和，五种颜色齐全 +3，
// 第一个建满的玩家 +4，之后建满的玩家 +2
func (g *Game) Score(p *Player) int {
	score := 0
	colors := make(map[Color]struct{}, colorCount)

	for _, c := range p.built {
		score += c.Cost
		colors[c.Color] = struct{}{}
	}

	if len(colors) == colorCount {
		score += allColorsBonus
	}

	switch {
	case p == g.firstFinisher:
		score += firstFinisherBonus
	case p.BuiltCount() >= g.opts.WinBuildings:
		score += finisherBonus
	}

	return score
}

// rank 得分高者在前；平分时比较建筑数，再比较金币，仍相同则按座位顺序
func (g *Game) rank() []Standing {
	standings := make([]Standing, 0, g.table.Len())
	for _, p := range g.table.Players() {
		standings = append(standings, Standing{
			PlayerID:  p.ID,
			Name:      p.Name,
			Score:     g.Score(p),
			Buildings: p.BuiltCount(),
			Gold:      p.Gold(),
		})
	}

	slices.SortStableFunc(standings, func(a, b Standing) int {
		if a.Score != b.Score {
			return b.Score - a.Score
		}
		if a.Buildings != b.Buildings {
			return b.Buildings - a.Buildings
		}
		return b.Gold - a.Gold
	})

	for i := range standings {
		standings[i].Rank = i + 1
	}

	return standings
}

func FormatStandings(standings []Standing) string {
	var sb strings.Builder

	sb.WriteString("Final standings:\n\n")
	for _, s := range standings {
		sb.WriteString(fmt.Sprintf("%d. %s - %d points (%d buildings, %d gold)\n",
			s.Rank, s.Name, s.Score, s.Buildings, s.Gold))
	}

	return sb.String()
}
