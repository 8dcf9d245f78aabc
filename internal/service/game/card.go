package game

import (
	"math/rand/v2"
	"strconv"
	"strings"
)

// Color 是建筑的类别
type Color int

const (
	ColorNoble     Color = iota // yellow
	ColorReligious              // blue
	ColorTrade                  // green
	ColorMilitary               // red
	ColorSpecial                // lilac
)

const colorCount = 5

var colorNames = [colorCount]string{"noble", "religious", "trade", "military", "special"}

// 牌库文件里也允许使用颜色名
var colorAliases = map[string]Color{
	"yellow": ColorNoble,
	"blue":   ColorReligious,
	"green":  ColorTrade,
	"red":    ColorMilitary,
	"lilac":  ColorSpecial,
	"purple": ColorSpecial,
}

func (c Color) String() string {
	if c < 0 || int(c) >= colorCount {
		return "unknown"
	}

	return colorNames[c]
}

func ParseColor(s string) (Color, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range colorNames {
		if n == s {
			return Color(i), true
		}
	}

	c, ok := colorAliases[s]
	return c, ok
}

// BuildingCard 是不可变的建筑牌，只在牌堆、手牌和已建造区之间移动
type BuildingCard struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Cost  int    `json:"cost"`
	Color Color  `json:"color"`
}

func (c *BuildingCard) Label() string {
	return c.Name + " (" + strconv.Itoa(c.Cost) + " " + c.Color.String() + ")"
}

// Pile 是有序牌堆，索引 0 为顶部
type Pile[T any] struct {
	items []T
}

func NewPile[T any](items ...T) *Pile[T] {
	return &Pile[T]{items: append([]T(nil), items...)}
}

func (p *Pile[T]) Len() int {
	return len(p.items)
}

// Items 返回副本
func (p *Pile[T]) Items() []T {
	return append([]T(nil), p.items...)
}

func (p *Pile[T]) Pop() (T, bool) {
	var zero T
	if len(p.items) == 0 {
		return zero, false
	}

	top := p.items[0]
	p.items[0] = zero
	p.items = p.items[1:]

	return top, true
}

// PopN 要么取出 n 张，要么一张都不取
func (p *Pile[T]) PopN(n int) ([]T, bool) {
	if n < 0 || n > len(p.items) {
		return nil, false
	}

	out := make([]T, n)
	copy(out, p.items[:n])
	p.items = append([]T(nil), p.items[n:]...)

	return out, true
}

func (p *Pile[T]) PushBottom(items ...T) {
	p.items = append(p.items, items...)
}

func (p *Pile[T]) RemoveLast() (T, bool) {
	var zero T
	if len(p.items) == 0 {
		return zero, false
	}

	last := p.items[len(p.items)-1]
	p.items = p.items[:len(p.items)-1]

	return last, true
}

// RemoveFunc 移除第一个满足条件的元素
func (p *Pile[T]) RemoveFunc(match func(T) bool) (T, bool) {
	var zero T
	for i, it := range p.items {
		if match(it) {
			p.items = append(p.items[:i], p.items[i+1:]...)
			return it, true
		}
	}

	return zero, false
}

func (p *Pile[T]) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(p.items), func(i, j int) {
		p.items[i], p.items[j] = p.items[j], p.items[i]
	})
}
