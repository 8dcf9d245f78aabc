package dto

import (
	"machiavelli-be/internal/service/game"
	"machiavelli-be/internal/store"
)

// 只有房主（第一个加入的真人玩家）可以开始游戏
type StartGameRequest struct {
	StartPlayerID string `json:"start_player_id"`
}

type StartGameResponse struct {
	GameID  string   `json:"game_id"`
	Players []Player `json:"players"`
}

type GameStatusResponse struct {
	HostID  string        `json:"host_id,omitempty"`
	Started bool          `json:"started"`
	Game    game.Snapshot `json:"game"`
}

type StandingsResponse struct {
	Results []store.GameResult `json:"results"`
}
