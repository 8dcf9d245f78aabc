package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"machiavelli-be/internal/bot"
	"machiavelli-be/internal/service/dto"
	"machiavelli-be/internal/service/game"
	"machiavelli-be/internal/store"

	"go.uber.org/zap"
)

var (
	ErrNotHost       = errors.New("only the host can start the game")
	ErrServiceClosed = errors.New("game service is closed")
)

// ResultStore 保存已结束对局的排名，为 nil 时不保存
type ResultStore interface {
	SaveResult(ctx context.Context, result store.GameResult) error
	RecentResults(ctx context.Context, limit int) ([]store.GameResult, error)
}

// JoinAcker 由需要先收到加入确认、再收到任何广播的座位实现。
// AckJoin 在服务锁内调用，此时其他玩家的加入、离开和开局都无法插队。
type JoinAcker interface {
	AckJoin(resp game.JoinGameResponse)
}

type Config struct {
	Game game.Options

	// 开局时补齐的机器人数量，不会超过人数上限
	BotPlayers int
	BotDelay   time.Duration
}

// GameService 同一时间只维护一局游戏。上一局结束后，下一个加入的玩家会开启新的大厅。
type GameService struct {
	cfg     Config
	supply  game.DeckSupply
	results ResultStore

	mu      sync.Mutex
	session *session
	closed  bool
}

type session struct {
	game *game.Game

	hostID string
	// 真人玩家按加入顺序排列，房主离开时顺延
	humans []string
	bots   map[string]bool

	started bool
	cancel  context.CancelFunc
	done    chan struct{}
}

func newSession(supply game.DeckSupply, opts game.Options) *session {
	return &session{
		game: game.NewGame(supply, opts),
		bots: make(map[string]bool),
		done: make(chan struct{}),
	}
}

func (s *session) finished() bool {
	if !s.started {
		return false
	}

	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

func NewGameService(cfg Config, supply game.DeckSupply, results ResultStore) *GameService {
	gs := &GameService{
		cfg:     cfg,
		supply:  supply,
		results: results,
	}
	gs.session = newSession(supply, cfg.Game)

	return gs
}

// lobbyLocked 返回可以加入的大厅，上一局已结束时新建一个
func (gs *GameService) lobbyLocked() (*session, error) {
	if gs.closed {
		return nil, ErrServiceClosed
	}

	if gs.session.finished() {
		gs.session = newSession(gs.supply, gs.cfg.Game)
		zap.S().Infof("上一局已结束，开启新大厅 %s", gs.session.game.ID)
	}

	if gs.session.started {
		return nil, game.ErrGameStarted
	}

	return gs.session, nil
}

func (gs *GameService) JoinGame(name string, seat game.Seat) (game.JoinGameResponse, error) {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	sess, err := gs.lobbyLocked()
	if err != nil {
		return game.JoinGameResponse{}, err
	}

	player, err := sess.game.AddPlayer(name, seat)
	if err != nil {
		zap.S().Warnf("玩家 %q 加入对局 %s 失败：%v", name, sess.game.ID, err)
		return game.JoinGameResponse{}, err
	}

	sess.humans = append(sess.humans, player.ID)
	if sess.hostID == "" {
		sess.hostID = player.ID
	}

	zap.S().Infof("玩家 %s(%s) 加入对局 %s", player.Name, player.ID, sess.game.ID)

	resp := game.JoinGameResponse{
		Joiner: *player,
		HostID: sess.hostID,
	}

	if acker, ok := seat.(JoinAcker); ok {
		acker.AckJoin(resp)
	}

	return resp, nil
}

// LeaveLobby 只在开局前生效；开局后断线的玩家由兜底动作代为行动
func (gs *GameService) LeaveLobby(playerID string) error {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	sess := gs.session
	if sess.started {
		return game.ErrGameStarted
	}

	if err := sess.game.RemovePlayer(playerID); err != nil {
		return err
	}

	sess.humans = slices.DeleteFunc(sess.humans, func(id string) bool { return id == playerID })
	if sess.hostID == playerID {
		sess.hostID = ""
		if len(sess.humans) > 0 {
			sess.hostID = sess.humans[0]
		}
	}

	zap.S().Infof("玩家 %s 离开大厅，当前房主 %q", playerID, sess.hostID)

	return nil
}

func (gs *GameService) StartGame(req dto.StartGameRequest) (dto.StartGameResponse, error) {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	sess, err := gs.lobbyLocked()
	if err != nil {
		return dto.StartGameResponse{}, err
	}

	if req.StartPlayerID == "" || req.StartPlayerID != sess.hostID {
		return dto.StartGameResponse{}, ErrNotHost
	}

	gs.seatBotsLocked(sess)

	minPlayers := min(max(gs.cfg.Game.MinPlayers, game.MinPlayers), game.MaxPlayers)
	snap := sess.game.Snapshot()
	if len(snap.Players) < minPlayers {
		gs.unseatBotsLocked(sess)
		return dto.StartGameResponse{}, fmt.Errorf("%w: need at least %d, have %d", game.ErrTooFewPlayers, minPlayers, len(snap.Players))
	}

	ctx, cancel := context.WithCancel(context.Background())
	sess.started = true
	sess.cancel = cancel

	go gs.runSession(ctx, sess)

	players := make([]dto.Player, 0, len(snap.Players))
	for _, p := range snap.Players {
		players = append(players, dto.Player{
			ID:     p.ID,
			Name:   p.Name,
			IsHost: p.ID == sess.hostID,
			IsBot:  sess.bots[p.ID],
		})
	}

	zap.S().Infof("对局 %s 开始，共 %d 名玩家", sess.game.ID, len(players))

	return dto.StartGameResponse{
		GameID:  sess.game.ID,
		Players: players,
	}, nil
}

func (gs *GameService) seatBotsLocked(sess *session) {
	seated := len(sess.game.Snapshot().Players)

	for i := 0; i < gs.cfg.BotPlayers && seated < game.MaxPlayers; i++ {
		name := fmt.Sprintf("Bot%d", i+1)

		player, err := sess.game.AddPlayer(name, bot.New(name, rand.Uint64(), gs.cfg.BotDelay))
		if err != nil {
			zap.S().Warnf("机器人 %s 入座失败：%v", name, err)
			continue
		}

		sess.bots[player.ID] = true
		seated++
	}
}

func (gs *GameService) unseatBotsLocked(sess *session) {
	for id := range sess.bots {
		if err := sess.game.RemovePlayer(id); err != nil {
			zap.S().Warnf("移除机器人 %s 失败：%v", id, err)
		}
	}
	clear(sess.bots)
}

func (gs *GameService) runSession(ctx context.Context, sess *session) {
	defer close(sess.done)
	defer sess.cancel()

	standings, err := sess.game.Run(ctx)
	if err != nil {
		zap.L().Error(
			"对局异常结束",
			zap.String("game_id", sess.game.ID),
			zap.Error(err),
		)
		return
	}

	if gs.results == nil {
		return
	}

	saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = gs.results.SaveResult(saveCtx, store.GameResult{
		GameID:     sess.game.ID,
		FinishedAt: time.Now(),
		Rounds:     sess.game.Round() - 1,
		Standings:  standings,
	})
	if err != nil {
		zap.L().Error(
			"保存对局结果失败",
			zap.String("game_id", sess.game.ID),
			zap.Error(err),
		)
	}
}

func (gs *GameService) Status() dto.GameStatusResponse {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	sess := gs.session

	return dto.GameStatusResponse{
		HostID:  sess.hostID,
		Started: sess.started,
		Game:    sess.game.Snapshot(),
	}
}

func (gs *GameService) Standings(ctx context.Context, limit int) ([]store.GameResult, error) {
	if gs.results == nil {
		return []store.GameResult{}, nil
	}

	return gs.results.RecentResults(ctx, limit)
}

// Done 返回当前对局结束时关闭的通道
func (gs *GameService) Done() <-chan struct{} {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	return gs.session.done
}

// Close 中止正在进行的对局并等待其协程退出
func (gs *GameService) Close() {
	gs.mu.Lock()
	gs.closed = true
	sess := gs.session
	started := sess.started
	gs.mu.Unlock()

	if started {
		sess.cancel()
		<-sess.done
	}

	zap.S().Info("游戏服务已关闭")
}
