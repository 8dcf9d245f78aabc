package game

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

// TurnContext 是技能能接触到的局面：当前行动者、本轮标记和牌堆
type TurnContext interface {
	Actor() *Player
	Role() Role
	Players() []*Player

	Killed() Role
	Kill(role Role)
	Rob(role Role)

	Ask(ctx context.Context, prompt Prompt) (string, error)
	Tell(text string)
	Announce(text string)

	GrantGold(amount int)
	DrawBuildings(n int) []*BuildingCard
	SwapHands(other *Player)
	ExchangeHandWithDeck() int
}

type Ability interface {
	Perform(ctx context.Context, tc TurnContext) error
}

type AbilityFunc func(ctx context.Context, tc TurnContext) error

func (f AbilityFunc) Perform(ctx context.Context, tc TurnContext) error {
	return f(ctx, tc)
}

func DefaultAbilities() map[Role]Ability {
	return map[Role]Ability{
		RoleBuilder:     AbilityFunc(builderAbility),
		RoleCondottiere: incomeAbility(ColorMilitary, 0),
		RoleKing:        incomeAbility(ColorNoble, 0),
		RoleMagician:    AbilityFunc(magicianAbility),
		RoleMerchant:    incomeAbility(ColorTrade, 1),
		RoleMurderer:    AbilityFunc(murdererAbility),
		RolePreacher:    incomeAbility(ColorReligious, 0),
		RoleThief:       AbilityFunc(thiefAbility),
	}
}

func murdererAbility(ctx context.Context, tc TurnContext) error {
	allowed := slices.DeleteFunc(AllRoles(), func(r Role) bool {
		return r == RoleMurderer
	})

	role, err := chooseRole(ctx, tc, "Choose the character you want to murder\n", allowed)
	if err != nil {
		return err
	}

	tc.Kill(role)
	tc.Announce("The " + role.String() + " has been murdered.\n")

	return nil
}

func thiefAbility(ctx context.Context, tc TurnContext) error {
	killed := tc.Killed()
	allowed := slices.DeleteFunc(AllRoles(), func(r Role) bool {
		return r == RoleMurderer || r == RoleThief || r == killed
	})

	role, err := chooseRole(ctx, tc, "Choose the character you want to rob\n", allowed)
	if err != nil {
		return err
	}

	tc.Rob(role)
	tc.Announce("The " + role.String() + " will be robbed.\n")

	return nil
}

// 魔术师：和另一名玩家交换手牌，或者把手牌全部换成牌堆里的牌
func magicianAbility(ctx context.Context, tc TurnContext) error {
	text := "\t 1: Swap your hand with another player\n" +
		"\t 2: Exchange your hand with the building deck\n" +
		"Please choose one of the given options \n"

	for {
		answer, err := tc.Ask(ctx, Prompt{Text: text, Options: []string{"1", "2"}})
		if err != nil {
			return err
		}

		switch strings.TrimSpace(answer) {
		case "1":
			other, err := choosePlayer(ctx, tc)
			if err != nil {
				return err
			}

			tc.SwapHands(other)
			tc.Announce(tc.Actor().Name + " swapped hands with " + other.Name + ".\n")
			return nil

		case "2":
			n := tc.ExchangeHandWithDeck()
			tc.Announce(fmt.Sprintf("%s exchanged %d cards with the deck.\n", tc.Actor().Name, n))
			return nil

		default:
			tc.Tell("This is not a valid option\n")
		}
	}
}

func builderAbility(_ context.Context, tc TurnContext) error {
	cards := tc.DrawBuildings(2)

	for _, c := range cards {
		tc.Tell("You received: " + c.Label() + "\n")
	}
	tc.Announce(fmt.Sprintf("%s drew %d extra building cards.\n", tc.Actor().Name, len(cards)))

	return nil
}

// incomeAbility 每有一座该颜色的建筑得 1 金币，外加固定的 base
func incomeAbility(color Color, base int) Ability {
	return AbilityFunc(func(_ context.Context, tc TurnContext) error {
		gold := base + tc.Actor().BuiltByColor(color)
		tc.GrantGold(gold)
		tc.Announce(fmt.Sprintf("%s received %d gold from %s buildings.\n", tc.Actor().Name, gold, color))

		return nil
	})
}

func chooseRole(ctx context.Context, tc TurnContext, question string, allowed []Role) (Role, error) {
	var sb strings.Builder
	options := make([]string, 0, len(allowed))

	sb.WriteString("Characters:\n\n")
	for _, r := range allowed {
		sb.WriteString(r.String() + "\n")
		options = append(options, r.String())
	}
	sb.WriteString("\n")
	sb.WriteString(question)

	for {
		answer, err := tc.Ask(ctx, Prompt{Text: sb.String(), Options: options})
		if err != nil {
			return RoleNone, err
		}

		role, ok := ParseRole(answer)
		if ok && slices.Contains(allowed, role) {
			return role, nil
		}

		tc.Tell("This is not a valid card \n")
	}
}

func choosePlayer(ctx context.Context, tc TurnContext) (*Player, error) {
	var sb strings.Builder
	candidates := make([]*Player, 0)
	options := make([]string, 0)

	sb.WriteString("Players:\n\n")
	for _, p := range tc.Players() {
		if p == tc.Actor() {
			continue
		}
		candidates = append(candidates, p)
		options = append(options, p.Name)
		sb.WriteString(fmt.Sprintf("%s (%d cards)\n", p.Name, len(p.hand)))
	}
	sb.WriteString("\nChoose the player you want to swap hands with\n")

	for {
		answer, err := tc.Ask(ctx, Prompt{Text: sb.String(), Options: options})
		if err != nil {
			return nil, err
		}

		name := strings.TrimSpace(answer)
		for _, p := range candidates {
			if strings.EqualFold(p.Name, name) {
				return p, nil
			}
		}

		tc.Tell("This is not a valid player\n")
	}
}
