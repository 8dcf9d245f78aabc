package game

import "errors"

var (
	ErrInsufficientGold = errors.New("insufficient gold")
	ErrNoSuchCard       = errors.New("no such card")

	// 玩家超时或连接已断开，调用方应执行兜底动作
	ErrNoResponse = errors.New("player did not respond")
	ErrSeatClosed = errors.New("seat closed")

	ErrGameStarted    = errors.New("game already started")
	ErrDuplicateName  = errors.New("player name already taken")
	ErrPlayerNotFound = errors.New("player not found")
	ErrTooFewPlayers  = errors.New("not enough players")
	ErrTooManyPlayers = errors.New("too many players")
	ErrInvalidDeck    = errors.New("invalid deck")
)
