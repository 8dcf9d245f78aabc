package game

import "fmt"

// Player 是入座的玩家，金币、手牌、已建造建筑和本轮角色都归其所有
type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// 网络端点，对核心逻辑不透明
	Seat Seat `json:"-"`

	gold       int
	hand       []*BuildingCard
	built      []*BuildingCard
	characters []*CharacterCard
}

func NewPlayer(id, name string, seat Seat) *Player {
	return &Player{
		ID:   id,
		Name: name,
		Seat: seat,
	}
}

func (p *Player) Gold() int {
	return p.gold
}

// AddGold 只接受非负数
func (p *Player) AddGold(amount int) {
	if amount <= 0 {
		return
	}
	p.gold += amount
}

// TakeAllGold 清空并返回全部金币
func (p *Player) TakeAllGold() int {
	gold := p.gold
	p.gold = 0
	return gold
}

func (p *Player) Hand() []*BuildingCard {
	return append([]*BuildingCard(nil), p.hand...)
}

func (p *Player) Built() []*BuildingCard {
	return append([]*BuildingCard(nil), p.built...)
}

func (p *Player) BuiltCount() int {
	return len(p.built)
}

func (p *Player) AddToHand(cards ...*BuildingCard) {
	p.hand = append(p.hand, cards...)
}

// takeHand 交出全部手牌
func (p *Player) takeHand() []*BuildingCard {
	hand := p.hand
	p.hand = nil
	return hand
}

// Construct 按手牌下标建造，扣费和移动同时完成；失败时手牌和金币不变
func (p *Player) Construct(index int) (*BuildingCard, error) {
	if index < 0 || index >= len(p.hand) {
		return nil, fmt.Errorf("%w: hand index %d", ErrNoSuchCard, index)
	}

	card := p.hand[index]
	if p.gold < card.Cost {
		return card, fmt.Errorf("%w: %s costs %d, have %d", ErrInsufficientGold, card.Name, card.Cost, p.gold)
	}

	p.gold -= card.Cost
	p.hand = append(p.hand[:index:index], p.hand[index+1:]...)
	p.built = append(p.built, card)

	return card, nil
}

func (p *Player) BuiltByColor(color Color) int {
	n := 0
	for _, c := range p.built {
		if c.Color == color {
			n++
		}
	}
	return n
}

func (p *Player) Characters() []*CharacterCard {
	return append([]*CharacterCard(nil), p.characters...)
}

func (p *Player) Character(role Role) *CharacterCard {
	for _, c := range p.characters {
		if c.Role == role {
			return c
		}
	}
	return nil
}

func (p *Player) HoldsRole(role Role) bool {
	return p.Character(role) != nil
}

func (p *Player) takeCharacter(card *CharacterCard) {
	p.characters = append(p.characters, card)
}

func (p *Player) clearCharacters() {
	p.characters = nil
}

// Info 是回合开始时发给玩家本人的概况
func (p *Player) Info() string {
	s := fmt.Sprintf("%s, you have %d gold.\n", p.Name, p.gold)

	s += "Characters:"
	for _, c := range p.characters {
		s += " " + c.Role.String()
	}

	s += "\nBuildings:\n"
	for _, c := range p.built {
		s += "\t" + c.Label() + "\n"
	}

	s += "Cards in hand:\n"
	for _, c := range p.hand {
		s += "\t" + c.Label() + "\n"
	}

	return s
}
