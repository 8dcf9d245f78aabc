package game

import (
	"fmt"
	"strings"
)

// BuildingTemplate 是牌库文件中的一行，Count 表示同名建筑的张数
type BuildingTemplate struct {
	Name  string
	Cost  int
	Color Color
	Count int
}

// DeckSupply 由牌库加载器实现：角色每轮加载一次，建筑每局加载一次
type DeckSupply interface {
	LoadCharacters() ([]Role, error)
	LoadBuildings() ([]BuildingTemplate, error)
}

// validateCharacters 要求恰好 8 个互不相同的合法角色
func validateCharacters(roles []Role) error {
	if len(roles) != RoleCount {
		return fmt.Errorf("%w: expected %d characters, got %d", ErrInvalidDeck, RoleCount, len(roles))
	}

	seen := make(map[Role]bool, RoleCount)
	for _, r := range roles {
		if !r.Valid() {
			return fmt.Errorf("%w: unknown character %d", ErrInvalidDeck, int(r))
		}
		if seen[r] {
			return fmt.Errorf("%w: duplicate character %s", ErrInvalidDeck, r)
		}
		seen[r] = true
	}

	return nil
}

// buildDeck 展开模板并为每张牌分配局内唯一 ID
func buildDeck(templates []BuildingTemplate) ([]*BuildingCard, error) {
	cards := make([]*BuildingCard, 0, len(templates)*2)

	for i, t := range templates {
		name := strings.TrimSpace(t.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: building #%d has no name", ErrInvalidDeck, i)
		}
		if t.Cost < 0 {
			return nil, fmt.Errorf("%w: building %q has negative cost", ErrInvalidDeck, name)
		}
		if t.Count <= 0 {
			return nil, fmt.Errorf("%w: building %q has count %d", ErrInvalidDeck, name, t.Count)
		}

		for range t.Count {
			cards = append(cards, &BuildingCard{
				ID:    len(cards) + 1,
				Name:  name,
				Cost:  t.Cost,
				Color: t.Color,
			})
		}
	}

	if len(cards) == 0 {
		return nil, fmt.Errorf("%w: no building cards", ErrInvalidDeck)
	}

	return cards, nil
}
