package dto

// 对局中的玩家信息，手牌和角色不会出现在这里
type Player struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	IsHost bool   `json:"is_host"`
	IsBot  bool   `json:"is_bot"`
}
