package game

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// playTurn 完成一个角色的回合：强制效果、行动菜单、建造阶段
func (g *Game) playTurn(ctx context.Context, player *Player, card *CharacterCard, robbed bool) error {
	g.current = player
	defer func() {
		g.current = nil
		g.publish()
	}()
	g.publish()

	if robbed {
		g.robPlayer(player)
	}

	card.AbilityUsed = false

	tc := &turnContext{game: g, player: player, card: card}

	g.table.Unicast(player, "<line>\n")
	g.table.Unicast(player, player.Info())

	if err := g.actionMenu(ctx, tc); err != nil {
		return err
	}

	g.table.Unicast(player, "You can now construct a building \n")

	if err := g.buildingPhase(ctx, tc); err != nil {
		return err
	}

	g.table.Broadcast(player.Name + " has ended the turn.\n")

	return nil
}

// robPlayer 把被偷角色持有者的全部金币转给盗贼，没有盗贼时不做任何事
func (g *Game) robPlayer(player *Player) {
	_, thief := g.table.HolderOf(RoleThief)
	if thief == nil {
		zap.L().Warn(
			"被偷角色已标记但没有玩家持有盗贼",
			zap.String("game_id", g.ID),
			zap.String("player_id", player.ID),
		)
		return
	}

	gold := player.TakeAllGold()
	thief.AddGold(gold)

	g.table.Broadcast(fmt.Sprintf("%s robbed %s of their gold (%d gold).\n", thief.Name, player.Name, gold))
	g.publish()
}

func (g *Game) actionMenu(ctx context.Context, tc *turnContext) error {
	player := tc.player

	for {
		var sb strings.Builder
		options := []string{"1", "2"}

		sb.WriteString("It's your turn, you have the following options to choose from: \n")
		sb.WriteString("\t 1: Receive two gold \n")
		sb.WriteString("\t 2: Take building card \n")
		if !tc.card.AbilityUsed {
			sb.WriteString("\t 3: Use characteristic \n")
			options = append(options, "3")
		}
		sb.WriteString("Please choose one of the given options \n")

		answer, err := g.ask(ctx, player, Prompt{Text: sb.String(), Options: options})
		if err != nil {
			if !noResponse(err) {
				return err
			}
			answer = "1"
		}

		switch strings.TrimSpace(answer) {
		case "1":
			player.AddGold(incomeGold)
			g.table.Unicast(player, fmt.Sprintf("You have chosen to receive two gold. You now have %d gold.\n", player.Gold()))
			g.table.BroadcastExcept(player, player.Name+" took two gold.\n")
			g.publish()
			return nil

		case "2":
			done, err := g.drawBuilding(ctx, player)
			if err != nil {
				return err
			}
			if done {
				return nil
			}

		case "3":
			if tc.card.AbilityUsed {
				g.table.Unicast(player, "\n This isn't a valid option, please try again \n")
				continue
			}
			if err := g.useAbility(ctx, tc); err != nil {
				return err
			}

		default:
			g.table.Unicast(player, "\n This isn't a valid option, please try again \n")
		}
	}
}

// drawBuilding 抽两张留一张，另一张放回牌堆底部。牌不足两张时返回 false
func (g *Game) drawBuilding(ctx context.Context, player *Player) (bool, error) {
	cards, ok := g.deck.PopN(2)
	if !ok {
		g.table.Unicast(player, "There are not enough building cards left to draw.\n")
		return false, nil
	}

	text := "\n" +
		"\t 1: " + cards[0].Label() + "\n" +
		"\t 2: " + cards[1].Label() + "\n" +
		"Pick one of the two given cards to add to your building cards\n"

	for {
		answer, err := g.ask(ctx, player, Prompt{Text: text, Options: []string{"1", "2"}})
		if err != nil {
			if !noResponse(err) {
				g.deck.PushBottom(cards...)
				return false, err
			}
			answer = "1"
		}

		var keep, other *BuildingCard
		switch strings.TrimSpace(answer) {
		case "1":
			keep, other = cards[0], cards[1]
		case "2":
			keep, other = cards[1], cards[0]
		default:
			g.table.Unicast(player, "This is not a valid option\n")
			continue
		}

		player.AddToHand(keep)
		g.deck.PushBottom(other)

		g.table.Unicast(player, "You have chosen: "+keep.Name+"\n")
		g.table.BroadcastExcept(player, player.Name+" took a building card.\n")
		g.publish()

		return true, nil
	}
}

// buildingPhase 一直循环到玩家输入 stop；技能已用且本阶段已建造（或手牌为空）时自动结束
func (g *Game) buildingPhase(ctx context.Context, tc *turnContext) error {
	player := tc.player

	for {
		hand := player.Hand()

		if tc.card.AbilityUsed && (tc.built || len(hand) == 0) {
			return nil
		}

		var sb strings.Builder
		options := make([]string, 0, len(hand)+2)

		sb.WriteString("Available cards: \n\n")
		for i, c := range hand {
			key := strconv.Itoa(i + 1)
			sb.WriteString("\t" + key + ": " + c.Label() + "\n")
			options = append(options, key)
		}
		if !tc.card.AbilityUsed {
			sb.WriteString("\t0: Use characteristic \n")
			options = append(options, "0")
		}
		sb.WriteString("\tStop: Stop your turn.\n")
		sb.WriteString("Pick one of the given cards \n")
		options = append(options, "stop")

		answer, err := g.ask(ctx, player, Prompt{Text: sb.String(), Options: options})
		if err != nil {
			if noResponse(err) {
				return nil
			}
			return err
		}

		choice := strings.ToLower(strings.TrimSpace(answer))
		if choice == "stop" {
			return nil
		}

		n, err := strconv.Atoi(choice)
		switch {
		case err != nil:
			g.table.Unicast(player, "This is not a valid option\n")

		case n == 0 && !tc.card.AbilityUsed:
			if err := g.useAbility(ctx, tc); err != nil {
				return err
			}

		case n >= 1 && n <= len(hand):
			g.construct(tc, n-1)

		default:
			g.table.Unicast(player, "This is not a valid option\n")
		}
	}
}

func (g *Game) construct(tc *turnContext, index int) {
	player := tc.player

	card, err := player.Construct(index)
	if err != nil {
		if errors.Is(err, ErrInsufficientGold) {
			g.table.Unicast(player, "Unable to build "+card.Name+", you have insufficient funds.\n")
			return
		}

		g.table.Unicast(player, "This is not a valid option\n")
		return
	}

	tc.built = true

	if g.firstFinisher == nil && player.BuiltCount() >= g.opts.WinBuildings {
		g.firstFinisher = player
	}

	g.table.Unicast(player, "You have built a '"+card.Name+"'\n")
	g.table.BroadcastExcept(player, player.Name+" has built "+card.Name+"\n")
	g.publish()
}

// useAbility 执行当前角色的技能，每回合一次
func (g *Game) useAbility(ctx context.Context, tc *turnContext) error {
	if tc.card.AbilityUsed {
		return nil
	}
	tc.card.AbilityUsed = true

	g.table.Broadcast(tc.player.Name + " uses the characteristic of the " + tc.card.Role.String() + ".\n")

	ability, ok := g.abilities[tc.card.Role]
	if !ok {
		zap.L().Warn(
			"角色没有注册技能",
			zap.String("game_id", g.ID),
			zap.Stringer("role", tc.card.Role),
		)
		return nil
	}

	if err := ability.Perform(ctx, tc); err != nil {
		if noResponse(err) {
			return nil
		}
		return err
	}

	g.publish()

	return nil
}

// turnContext 是技能可以访问的最小状态集合
type turnContext struct {
	game   *Game
	player *Player
	card   *CharacterCard
	built  bool
}

func (tc *turnContext) Actor() *Player {
	return tc.player
}

func (tc *turnContext) Role() Role {
	return tc.card.Role
}

func (tc *turnContext) Players() []*Player {
	return tc.game.table.Players()
}

func (tc *turnContext) Killed() Role {
	return tc.game.round.Killed
}

func (tc *turnContext) Kill(role Role) {
	tc.game.round.Killed = role
}

func (tc *turnContext) Rob(role Role) {
	tc.game.round.Robbed = role
}

func (tc *turnContext) Ask(ctx context.Context, prompt Prompt) (string, error) {
	return tc.game.ask(ctx, tc.player, prompt)
}

func (tc *turnContext) Tell(text string) {
	tc.game.table.Unicast(tc.player, text)
}

func (tc *turnContext) Announce(text string) {
	tc.game.table.Broadcast(text)
}

func (tc *turnContext) GrantGold(amount int) {
	tc.player.AddGold(amount)
}

// DrawBuildings 最多抽 n 张放入手牌，返回实际抽到的牌
func (tc *turnContext) DrawBuildings(n int) []*BuildingCard {
	n = min(n, tc.game.deck.Len())
	cards, _ := tc.game.deck.PopN(n)
	tc.player.AddToHand(cards...)
	return cards
}

func (tc *turnContext) SwapHands(other *Player) {
	mine := tc.player.takeHand()
	theirs := other.takeHand()
	tc.player.AddToHand(theirs...)
	other.AddToHand(mine...)
}

// ExchangeHandWithDeck 手牌放回牌堆底部，再从顶部抽同样数量
func (tc *turnContext) ExchangeHandWithDeck() int {
	hand := tc.player.takeHand()
	tc.game.deck.PushBottom(hand...)
	return len(tc.DrawBuildings(len(hand)))
}
