package websocket

import (
	"context"
	"sync"

	"machiavelli-be/internal/service/game"

	"go.uber.org/zap"
)

// wsSeat 把游戏的提问和通知转成 WebSocket 帧，
// 回答由读协程通过 answer 投递
type wsSeat struct {
	respCh   chan game.ResponseWrapper
	answerCh chan string

	closedCh  chan struct{}
	closeOnce sync.Once
}

func newWSSeat() *wsSeat {
	return &wsSeat{
		respCh:   make(chan game.ResponseWrapper, 64),
		answerCh: make(chan string, 1),
		closedCh: make(chan struct{}),
	}
}

func (s *wsSeat) Notify(text string) {
	s.send(game.WrapResponse(game.RESP_MESSAGE, game.MessageResponse{Text: text}))
}

// AckJoin 在座位对其他玩家可见之前调用，通道此时一定为空
func (s *wsSeat) AckJoin(resp game.JoinGameResponse) {
	s.send(game.WrapResponse(game.RESP_JOIN_GAME, resp))
}

func (s *wsSeat) Prompt(ctx context.Context, prompt game.Prompt) (string, error) {
	// 丢弃提问之前收到的回答
	select {
	case <-s.answerCh:
	default:
	}

	select {
	case <-s.closedCh:
		return "", game.ErrSeatClosed
	default:
	}

	// 提问不能丢，通道满时等写协程消化
	select {
	case s.respCh <- game.WrapResponse(game.RESP_PROMPT, prompt):
	case <-ctx.Done():
		return "", ctx.Err()
	case <-s.closedCh:
		return "", game.ErrSeatClosed
	}

	select {
	case answer := <-s.answerCh:
		return answer, nil
	case <-ctx.Done():
		return "", ctx.Err()
	case <-s.closedCh:
		return "", game.ErrSeatClosed
	}
}

// send 不阻塞，通道满了就丢弃，只用于通知
func (s *wsSeat) send(resp game.ResponseWrapper) bool {
	select {
	case <-s.closedCh:
		return false
	default:
	}

	select {
	case s.respCh <- resp:
		return true
	default:
		zap.L().Warn(
			"响应通道已满，丢弃消息",
			zap.String("response_type", resp.RespType),
		)
		return false
	}
}

func (s *wsSeat) answer(text string) {
	select {
	case s.answerCh <- text:
	default:
		zap.L().Debug("已有待处理的回答，丢弃新的回答", zap.String("text", text))
	}
}

func (s *wsSeat) close() {
	s.closeOnce.Do(func() {
		close(s.closedCh)
	})
}
