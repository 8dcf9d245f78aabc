package game

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// RoundState 是一轮内的共享状态，每轮重新创建。
// 刺杀和偷窃标记在扫到对应角色时被消耗；标记的角色在本轮已经行动过时，
// 标记带入下一轮。
type RoundState struct {
	Number int
	Killed Role
	Robbed Role
}

func NewRoundState(number int) *RoundState {
	return &RoundState{
		Number: number,
		Killed: RoleNone,
		Robbed: RoleNone,
	}
}

// playRound 按优先级 0..7 依次让持有角色的玩家行动，被刺杀的角色整轮跳过
func (g *Game) playRound(ctx context.Context) error {
	g.round = g.nextRoundState()

	g.table.Broadcast(fmt.Sprintf("\n\nStarting round %d\n", g.roundNumber))

	for _, role := range AllRoles() {
		killed := role == g.round.Killed
		robbed := role == g.round.Robbed
		if killed {
			g.round.Killed = RoleNone
		}
		if robbed {
			g.round.Robbed = RoleNone
		}

		if killed {
			zap.L().Debug(
				"角色已被刺杀，跳过回合",
				zap.String("game_id", g.ID),
				zap.Stringer("role", role),
			)
			continue
		}

		seat, player := g.table.HolderOf(role)
		if player == nil {
			continue
		}

		// 立即更新，下一轮选角以最新的国王为准
		if role == RoleKing {
			g.kingIndex = seat
		}

		g.table.Broadcast("It's " + player.Name + "'s turn \n")

		if err := g.playTurn(ctx, player, player.Character(role), robbed); err != nil {
			return err
		}
	}

	g.table.Broadcast(fmt.Sprintf("\n Round %d is finished\n", g.roundNumber))

	g.roundNumber++
	g.publish()

	return nil
}

func (g *Game) nextRoundState() *RoundState {
	next := NewRoundState(g.roundNumber)
	if g.round != nil {
		next.Killed = g.round.Killed
		next.Robbed = g.round.Robbed
	}

	return next
}
