package game

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// draft 每轮开始时分配角色牌。
//
// 先暗置一张角色牌，然后从国王座位开始按座位顺序（取模绕圈）走两遍：
// 第一遍每个座位挑一张；第二遍只有当剩余牌够每人再拿一张时才挑选，
// 否则只执行弃牌规则。弃牌规则按座位在本遍中的位置决定：
// 位置 0~2 公开弃一张（国王在第一遍除外），位置大于 3 自动移除最后一张，
// 其余情况只重新洗牌。任何弃牌都不能让后面还没拿到牌的座位无牌可选。
func (g *Game) draft(ctx context.Context, roles []Role) error {
	g.table.clearCharacters()

	pool := NewPile(roles...)
	pool.Shuffle(g.rng)

	// 这张牌对所有人隐藏
	pool.RemoveLast()

	seats := g.table.Len()
	king := g.kingIndex % seats

	for pass := range draftPasses {
		picking := pass == 0 || pool.Len() >= seats

		for offset := 0; offset < seats && pool.Len() > 0; offset++ {
			player := g.table.At((king + offset) % seats)

			owed := 0
			if picking {
				if err := g.pickCharacter(ctx, player, pool); err != nil {
					return err
				}
				owed = seats - offset - 1
			}

			if err := g.applyDiscardRule(ctx, player, pool, pass, offset, owed); err != nil {
				return err
			}
		}
	}

	zap.L().Debug(
		"角色分配完成",
		zap.String("game_id", g.ID),
		zap.Int("round", g.roundNumber),
		zap.Int("undealt", pool.Len()),
	)

	g.table.Broadcast("The character cards have been picked.\n")

	return nil
}

func (g *Game) applyDiscardRule(ctx context.Context, player *Player, pool *Pile[Role], pass, offset, owed int) error {
	// 弃牌后剩余的牌必须还够后面的座位挑选
	canDiscard := pool.Len() > owed
	kingFirstPass := pass == 0 && offset == 0

	if offset < 3 && !kingFirstPass && canDiscard {
		if err := g.discardCharacter(ctx, player, pool); err != nil {
			return err
		}
	}

	if offset > 3 && canDiscard {
		pool.RemoveLast()
		g.table.Unicast(player, "Removed last card\n")
		return nil
	}

	g.table.Unicast(player, "The other players are picking cards\n")
	pool.Shuffle(g.rng)

	return nil
}

func (g *Game) pickCharacter(ctx context.Context, player *Player, pool *Pile[Role]) error {
	for {
		answer, err := g.ask(ctx, player, rolePrompt(pool, "Choose your card\n"))
		if err != nil {
			if !noResponse(err) {
				return err
			}

			// 超时则拿牌堆顶的那张
			role, _ := pool.Pop()
			g.giveCharacter(player, role)
			return nil
		}

		role, ok := ParseRole(answer)
		if ok {
			if _, found := pool.RemoveFunc(func(r Role) bool { return r == role }); found {
				g.giveCharacter(player, role)
				return nil
			}
		}

		g.table.Unicast(player, "This is not a valid card \n")
	}
}

func (g *Game) giveCharacter(player *Player, role Role) {
	player.takeCharacter(NewCharacterCard(role))
	g.table.Unicast(player, "You have chosen: "+role.String()+"\n")
}

func (g *Game) discardCharacter(ctx context.Context, player *Player, pool *Pile[Role]) error {
	for {
		answer, err := g.ask(ctx, player, rolePrompt(pool, "Choose the card you want to remove from the deck\n"))
		if err != nil {
			if !noResponse(err) {
				return err
			}

			pool.RemoveLast()
			break
		}

		role, ok := ParseRole(answer)
		if ok {
			if _, found := pool.RemoveFunc(func(r Role) bool { return r == role }); found {
				break
			}
		}

		g.table.Unicast(player, "This is not a valid card \n")
	}

	g.table.BroadcastExcept(player, player.Name+" removed a character card from the deck.\n")

	return nil
}

func rolePrompt(pool *Pile[Role], question string) Prompt {
	var sb strings.Builder

	roles := pool.Items()
	options := make([]string, 0, len(roles))

	sb.WriteString("Available cards:\n\n")
	for _, r := range roles {
		sb.WriteString(r.String() + "\n")
		options = append(options, r.String())
	}
	sb.WriteString("\n")
	sb.WriteString(question)

	return Prompt{Text: sb.String(), Options: options}
}
