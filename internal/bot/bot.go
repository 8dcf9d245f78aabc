// Package bot 提供随机行动的机器人座位，用于补齐人数和模拟对局。
package bot

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"machiavelli-be/internal/service/game"

	"go.uber.org/zap"
)

var ErrNoOptions = errors.New("prompt has no options")

// Bot 在提示给出的选项中随机挑一个作为回答
type Bot struct {
	Name string

	mu  sync.Mutex
	rng *rand.Rand

	// 每次回答前的等待时间，让真人玩家能跟上消息
	delay time.Duration
}

func New(name string, seed uint64, delay time.Duration) *Bot {
	return &Bot{
		Name:  name,
		rng:   rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		delay: delay,
	}
}

func (b *Bot) Prompt(ctx context.Context, prompt game.Prompt) (string, error) {
	if len(prompt.Options) == 0 {
		return "", ErrNoOptions
	}

	if b.delay > 0 {
		timer := time.NewTimer(b.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return "", err
	}

	b.mu.Lock()
	answer := prompt.Options[b.rng.IntN(len(prompt.Options))]
	b.mu.Unlock()

	zap.L().Debug(
		"机器人作答",
		zap.String("bot", b.Name),
		zap.String("answer", answer),
	)

	return answer, nil
}

func (b *Bot) Notify(string) {}
