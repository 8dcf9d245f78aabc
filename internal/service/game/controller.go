package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// 游戏总体分为 4 个阶段：
// 1. 等待阶段（Waiting）：玩家入座，房主开始游戏
// 2. 选角阶段（Drafting）：从国王座位开始分两轮挑选角色牌
// 3. 行动阶段（Playing）：按角色优先级依次进行回合
// 4. 结束阶段（Finished）：有人建满建筑后的下一次检查时结束并结算
const (
	STAGE_WAITING  = "Waiting"
	STAGE_DRAFTING = "Drafting"
	STAGE_PLAYING  = "Playing"
	STAGE_FINISHED = "Finished"
)

const (
	DefaultWinBuildings  = 8
	DefaultStartingGold  = 2
	DefaultStartingHand  = 4
	DefaultPromptTimeout = 60 * time.Second
	DefaultIdleRounds    = 2

	MinPlayers = 2
	// 一张角色牌暗置后每人至少要能拿到一张
	MaxPlayers = RoleCount - 1

	incomeGold  = 2
	draftPasses = 2
)

type Options struct {
	WinBuildings int
	// 0 使用默认值，负数表示不发
	StartingGold int
	StartingHand int

	// 开局所需的最少人数，不低于 MinPlayers
	MinPlayers int

	// 大于 0 时，打满这么多轮也会结束游戏
	MaxRounds int

	// 0 使用默认值，负数表示不限时
	PromptTimeout time.Duration

	// 连续这么多轮没有任何玩家回答时提前结束游戏。0 使用默认值，负数表示不检查
	IdleRounds int

	// 为空时使用随机种子
	Rand *rand.Rand

	// 按角色覆盖默认技能
	Abilities map[Role]Ability
}

// Game 是一局游戏的状态机。开局后只有运行 Run 的协程会修改状态，
// 其他协程通过 Snapshot 读取已发布的只读视图。
type Game struct {
	ID string

	opts      Options
	supply    DeckSupply
	rng       *rand.Rand
	abilities map[Role]Ability

	// 只保护开局前的名册和 started 标记
	mu      sync.Mutex
	started bool

	table         *Table
	deck          *Pile[*BuildingCard]
	kingIndex     int
	roundNumber   int
	round         *RoundState
	stage         string
	current       *Player
	firstFinisher *Player
	standings     []Standing

	// 本轮是否有玩家回答过提问
	answered   bool
	idleRounds int

	snapshot atomic.Pointer[Snapshot]
}

func NewGame(supply DeckSupply, opts Options) *Game {
	if opts.WinBuildings <= 0 {
		opts.WinBuildings = DefaultWinBuildings
	}
	// 0 使用默认值，负数表示不发
	switch {
	case opts.StartingGold == 0:
		opts.StartingGold = DefaultStartingGold
	case opts.StartingGold < 0:
		opts.StartingGold = 0
	}
	switch {
	case opts.StartingHand == 0:
		opts.StartingHand = DefaultStartingHand
	case opts.StartingHand < 0:
		opts.StartingHand = 0
	}
	opts.MinPlayers = min(max(opts.MinPlayers, MinPlayers), MaxPlayers)
	if opts.PromptTimeout == 0 {
		opts.PromptTimeout = DefaultPromptTimeout
	}
	if opts.IdleRounds == 0 {
		opts.IdleRounds = DefaultIdleRounds
	}

	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	abilities := DefaultAbilities()
	for role, a := range opts.Abilities {
		abilities[role] = a
	}

	g := &Game{
		ID:        GenID(),
		opts:      opts,
		supply:    supply,
		rng:       rng,
		abilities: abilities,
		table:     NewTable(),
		deck:      NewPile[*BuildingCard](),
		stage:     STAGE_WAITING,
	}

	g.publish()

	return g
}

// AddPlayer 只能在开局前调用
func (g *Game) AddPlayer(name string, seat Seat) (*Player, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.started {
		return nil, ErrGameStarted
	}
	if g.table.Len() >= MaxPlayers {
		return nil, fmt.Errorf("%w: at most %d", ErrTooManyPlayers, MaxPlayers)
	}

	player, err := g.table.AddPlayer(name, seat)
	if err != nil {
		return nil, err
	}

	g.table.BroadcastExcept(player, player.Name+" joined the game.\n")
	g.publish()

	return player, nil
}

func (g *Game) RemovePlayer(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.started {
		return ErrGameStarted
	}

	player, err := g.table.RemovePlayer(playerID)
	if err != nil {
		return err
	}

	g.table.Broadcast(player.Name + " left the game.\n")
	g.publish()

	return nil
}

func (g *Game) Started() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.started
}

// Run 驱动整局游戏直到结束，返回最终排名
func (g *Game) Run(ctx context.Context) ([]Standing, error) {
	if err := g.begin(); err != nil {
		return nil, err
	}

	templates, err := g.supply.LoadBuildings()
	if err != nil {
		return nil, fmt.Errorf("load buildings: %w", err)
	}

	cards, err := buildDeck(templates)
	if err != nil {
		return nil, err
	}

	roles, err := g.loadCharacters()
	if err != nil {
		return nil, err
	}

	g.deck = NewPile(cards...)
	g.deck.Shuffle(g.rng)
	g.dealStartingResources()

	zap.L().Info(
		"游戏开始",
		zap.String("game_id", g.ID),
		zap.Int("players", g.table.Len()),
		zap.Int("building_cards", g.deck.Len()),
	)

	g.table.Broadcast("\n")
	g.table.Broadcast("Starting the game!\n")

	g.roundNumber = 1

	for !g.IsFinished() && !g.roundLimitReached() && !g.abandoned() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		g.answered = false

		// 第一轮使用开局时校验过的角色牌
		if roles == nil {
			if roles, err = g.loadCharacters(); err != nil {
				return nil, err
			}
		}

		g.setStage(STAGE_DRAFTING)
		if err := g.draft(ctx, roles); err != nil {
			return nil, fmt.Errorf("draft round %d: %w", g.roundNumber, err)
		}
		roles = nil

		g.setStage(STAGE_PLAYING)
		if err := g.playRound(ctx); err != nil {
			return nil, fmt.Errorf("play round %d: %w", g.roundNumber, err)
		}

		if g.answered {
			g.idleRounds = 0
		} else {
			g.idleRounds++
		}
	}

	if g.abandoned() {
		zap.L().Warn(
			"连续多轮无人响应，提前结束游戏",
			zap.String("game_id", g.ID),
			zap.Int("idle_rounds", g.idleRounds),
		)
		g.table.Broadcast("\nNobody is answering any more, the game ends early.\n")
	}

	return g.endGame(), nil
}

func (g *Game) begin() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.started {
		return ErrGameStarted
	}
	if g.table.Len() < g.opts.MinPlayers {
		return fmt.Errorf("%w: need at least %d, have %d", ErrTooFewPlayers, g.opts.MinPlayers, g.table.Len())
	}

	g.started = true

	return nil
}

func (g *Game) loadCharacters() ([]Role, error) {
	roles, err := g.supply.LoadCharacters()
	if err != nil {
		return nil, fmt.Errorf("load characters: %w", err)
	}

	if err := validateCharacters(roles); err != nil {
		return nil, err
	}

	return roles, nil
}

func (g *Game) dealStartingResources() {
	for _, p := range g.table.Players() {
		p.AddGold(g.opts.StartingGold)

		n := min(g.opts.StartingHand, g.deck.Len())
		cards, _ := g.deck.PopN(n)
		p.AddToHand(cards...)
	}
}

// IsFinished 只在每轮开始前检查，达成条件的那一轮会完整打完
func (g *Game) IsFinished() bool {
	for _, p := range g.table.Players() {
		if p.BuiltCount() >= g.opts.WinBuildings {
			return true
		}
	}

	return false
}

func (g *Game) roundLimitReached() bool {
	return g.opts.MaxRounds > 0 && g.roundNumber > g.opts.MaxRounds
}

// abandoned 表示所有座位都已断线或一直超时，兜底动作无法让游戏结束
func (g *Game) abandoned() bool {
	return g.opts.IdleRounds > 0 && g.idleRounds >= g.opts.IdleRounds
}

func (g *Game) endGame() []Standing {
	g.standings = g.rank()
	g.setStage(STAGE_FINISHED)

	g.table.Broadcast("\nThe game is finished!\n")
	g.table.Broadcast(FormatStandings(g.standings))

	zap.L().Info(
		"游戏结束",
		zap.String("game_id", g.ID),
		zap.Int("rounds", g.roundNumber-1),
		zap.String("winner", g.standings[0].Name),
	)

	return g.standings
}

// ask 向玩家提问并等待回答。超时或连接断开时返回 ErrNoResponse，
// 只有上层 ctx 结束时才返回其他错误。
func (g *Game) ask(ctx context.Context, player *Player, prompt Prompt) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if player.Seat == nil {
		return "", fmt.Errorf("%w: %s has no seat", ErrNoResponse, player.Name)
	}

	promptCtx, cancel := ctx, context.CancelFunc(func() {})
	if g.opts.PromptTimeout > 0 {
		promptCtx, cancel = context.WithTimeout(ctx, g.opts.PromptTimeout)
	}
	defer cancel()

	answer, err := player.Seat.Prompt(promptCtx, prompt)
	if err == nil {
		g.answered = true
		return answer, nil
	}

	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	zap.L().Info(
		"玩家未响应，执行兜底动作",
		zap.String("game_id", g.ID),
		zap.String("player_id", player.ID),
		zap.Error(err),
	)

	return "", fmt.Errorf("%w: %w", ErrNoResponse, err)
}

func noResponse(err error) bool {
	return errors.Is(err, ErrNoResponse)
}

func (g *Game) setStage(stage string) {
	g.stage = stage
	g.publish()
}

func (g *Game) Table() *Table {
	return g.table
}

func (g *Game) KingIndex() int {
	return g.kingIndex
}

func (g *Game) Round() int {
	return g.roundNumber
}
