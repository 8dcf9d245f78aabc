package game

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Table 是按入座顺序排列的玩家名册，座位号即下标
type Table struct {
	players []*Player
}

func NewTable() *Table {
	return &Table{}
}

func (t *Table) AddPlayer(name string, seat Seat) (*Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = fmt.Sprintf("Player%d", len(t.players)+1)
	}

	for _, p := range t.players {
		if strings.EqualFold(p.Name, name) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateName, name)
		}
	}

	player := NewPlayer(shortID(), name, seat)
	t.players = append(t.players, player)

	return player, nil
}

func (t *Table) RemovePlayer(playerID string) (*Player, error) {
	for i, p := range t.players {
		if p.ID == playerID {
			t.players = append(t.players[:i:i], t.players[i+1:]...)
			return p, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
}

func (t *Table) Len() int {
	return len(t.players)
}

func (t *Table) At(seat int) *Player {
	return t.players[seat]
}

func (t *Table) Players() []*Player {
	return append([]*Player(nil), t.players...)
}

func (t *Table) IndexOf(player *Player) int {
	for i, p := range t.players {
		if p == player {
			return i
		}
	}
	return -1
}

// HolderOf 返回持有该角色的座位，没有人持有时返回 -1
func (t *Table) HolderOf(role Role) (int, *Player) {
	for i, p := range t.players {
		if p.HoldsRole(role) {
			return i, p
		}
	}
	return -1, nil
}

func (t *Table) FindByName(name string) *Player {
	name = strings.TrimSpace(name)
	for _, p := range t.players {
		if strings.EqualFold(p.Name, name) {
			return p
		}
	}
	return nil
}

func (t *Table) clearCharacters() {
	for _, p := range t.players {
		p.clearCharacters()
	}
}

func (t *Table) Broadcast(text string) {
	for _, p := range t.players {
		t.Unicast(p, text)
	}
}

func (t *Table) BroadcastExcept(except *Player, text string) {
	for _, p := range t.players {
		if p != except {
			t.Unicast(p, text)
		}
	}
}

func (t *Table) Unicast(player *Player, text string) {
	if player.Seat == nil {
		zap.L().Warn(
			"玩家没有连接，无法发送消息",
			zap.String("player_id", player.ID),
		)
		return
	}

	player.Seat.Notify(text)
}
