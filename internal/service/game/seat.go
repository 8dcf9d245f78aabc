package game

import "context"

// Prompt 是发给当前行动玩家的提问，Options 只是给客户端和机器人的提示，
// 回答仍然按自由文本校验
type Prompt struct {
	Text    string   `json:"text"`
	Options []string `json:"options,omitempty"`
}

// Seat 是玩家的连接端点。Prompt 阻塞直到玩家回答、ctx 结束或连接关闭；
// Notify 不得阻塞。
type Seat interface {
	Prompt(ctx context.Context, prompt Prompt) (string, error)
	Notify(text string)
}
